// Package domain defines the core record types for the registrar.
//
// This package contains the four entity kinds the registrar tracks and the
// aggregate used to persist them.
//
// # Core Types
//
// Student is a person enrolled at the school. The courses a student attends
// are carried as course IDs; resolving them is the job of the service layer.
//
// Course is a unit of teaching, optionally assigned to a teacher by ID.
//
// Teacher and Secretary are members of staff. Secretaries are looked up
// individually and are never enumerated.
//
// # Identity
//
// Every entity is identified by a string ID that is unique within its own
// kind. A student and a course may share an ID.
//
// # Dataset
//
// Dataset groups all four collections into one document. Durable backends
// encode it to files or rows and decode it again on open.
//
// # Design Principles
//
// - Plain value types with deep Clone for copy-out semantics
// - No database or external dependencies
// - Validation lives with the type, enforcement lives above the repository
package domain
