package agent

import (
	"strings"
	"unicode"

	"github.com/worldai/world-api/internal/domain"
)

// Descriptor pairs an agent with the predicate that claims tasks for it.
// Descriptors are evaluated in registration order, first match wins, so
// registration order is the deciding tie-breaker and must be deterministic.
type Descriptor struct {
	// Agent handles tasks the predicate claims.
	Agent Agent

	// Matches reports whether this descriptor claims the task. A nil
	// predicate matches everything, which is how the fallback descriptor
	// is expressed.
	Matches func(task *domain.Task) bool
}

// Router selects the agent responsible for a task by evaluating an ordered
// list of descriptors. There is no ranking or scoring beyond first-match
// order.
type Router struct {
	descriptors []Descriptor
}

// NewRouter creates a Router over the given ordered descriptors.
func NewRouter(descriptors ...Descriptor) *Router {
	return &Router{descriptors: descriptors}
}

// Select returns the first agent whose descriptor matches the task.
// Returns domain.ErrNoAgentAvailable when no descriptor (including any
// fallback) matches, which is reachable with an empty router.
func (r *Router) Select(task *domain.Task) (Agent, error) {
	for _, d := range r.descriptors {
		if d.Matches == nil || d.Matches(task) {
			return d.Agent, nil
		}
	}
	return nil, domain.ErrNoAgentAvailable
}

// Names returns the agent names in registration order.
func (r *Router) Names() []string {
	names := make([]string, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		names = append(names, d.Agent.Name())
	}
	return names
}

// MatchKeywords returns a predicate that claims a task when its description
// or type contains any of the given keywords as a whole word,
// case-insensitively. Matching whole tokens rather than substrings keeps
// "script" from claiming "description" or "data" from claiming "update";
// a type like "scrape_data" still matches "scrape" because tokens are
// split on non-alphanumeric runs.
func MatchKeywords(keywords ...string) func(task *domain.Task) bool {
	return func(task *domain.Task) bool {
		tokens := tokenize(task.Description)
		tokens = append(tokens, tokenize(task.Type)...)
		for _, kw := range keywords {
			for _, tok := range tokens {
				if tok == kw {
					return true
				}
			}
		}
		return false
	}
}

// tokenize lowercases s and splits it on runs of non-alphanumeric runes.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
