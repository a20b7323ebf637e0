// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (request.go, session.go, view.go, errors.go) hold the
// shared types and the ports implemented by the adapters. No implementation
// code beyond small value helpers.
package domain
