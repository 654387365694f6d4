// Package domain contains the core entities and domain errors of the task
// orchestration system, independent of transport or storage concerns.
package domain
