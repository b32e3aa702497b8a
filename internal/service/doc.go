// Package service implements the registrar's business rules on top of a
// repository.DataManager.
//
// The repository contract is deliberately silent: a missing entity is nil, a
// failed save is false and duplicates are resolved by the backend's policy.
// Registrar turns those outcomes into errors a caller can act on
// (ErrNotFound, ErrDuplicateID, ErrSaveFailed, ErrInvalid), validates
// entities before they reach storage, and answers the relationship queries
// the contract does not model: which students take a course and which
// courses a teacher gives.
//
// Every successful mutation and every save attempt is published on an
// EventBus so other components can follow changes without polling.
package service
