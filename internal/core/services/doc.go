// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. The requirement engine in
// EvaluateRequirements touches no ports at all.
package services
