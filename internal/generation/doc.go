// Package generation defines the boundary between the application core and
// external AI/LLM services used to draft content for agents.
package generation
