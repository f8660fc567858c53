package models

import (
	"github.com/google/uuid"
)

// AssignedToSelf is the assignment sentinel for items that belong to the
// logged-in user rather than a family member.
const AssignedToSelf = "self"

// NewID returns a fresh opaque entity id.
func NewID() string {
	return uuid.New().String()
}

// assignedOrSelf normalises an empty assignment to the self sentinel.
func assignedOrSelf(id string) string {
	if id == "" {
		return AssignedToSelf
	}
	return id
}
