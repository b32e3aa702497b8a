// Package repository defines the data access contract for the registrar.
//
// This package provides the repository abstraction layer for storing and
// retrieving students, courses, teachers and secretaries. Callers depend on
// DataManager only; concrete backends live in subpackages and are chosen
// once at construction time.
//
// # DataManager Interface
//
// DataManager exposes the same add, lookup and enumerate operations for each
// entity kind, except that secretaries cannot be enumerated. SaveData
// persists the current state and reports success as a bool.
//
// # Backends
//
// - memory: maps in process memory, SaveData always succeeds
// - file: a JSON or YAML document replaced atomically on save
// - sqlite: SQLite tables rewritten in a single transaction on save
//
// The instrumented subpackage wraps any DataManager with Prometheus metrics.
//
// # Duplicate IDs
//
// Every backend takes a DuplicatePolicy. RejectDuplicates (the default)
// keeps the first entity stored under an ID; OverwriteDuplicates replaces it.
// Entities with an empty ID are always rejected.
//
// # Testing
//
// The repotest subpackage holds the conformance suite every backend runs.
package repository
