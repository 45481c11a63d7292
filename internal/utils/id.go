package utils

import "github.com/google/uuid"

// NewID returns a random identifier for tagging connections in logs.
func NewID() string {
	return uuid.NewString()
}
