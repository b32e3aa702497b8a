package repository

import "fmt"

// DuplicatePolicy decides what an add does when the ID is already stored
type DuplicatePolicy string

const (
	// RejectDuplicates keeps the first entity and ignores later adds
	RejectDuplicates DuplicatePolicy = "reject"
	// OverwriteDuplicates replaces the stored entity with the new one
	OverwriteDuplicates DuplicatePolicy = "overwrite"
)

// ParseDuplicatePolicy converts a string to a DuplicatePolicy.
// An empty string selects RejectDuplicates.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(s) {
	case "", RejectDuplicates:
		return RejectDuplicates, nil
	case OverwriteDuplicates:
		return OverwriteDuplicates, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (want %q or %q)", s, RejectDuplicates, OverwriteDuplicates)
	}
}

// String returns the policy name
func (p DuplicatePolicy) String() string {
	return string(p)
}
