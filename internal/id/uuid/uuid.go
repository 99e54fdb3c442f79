// Package uuid provides ID generation helpers.
package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates random (v4) UUID strings for resource identities.
// Identity assignment is purely client-side; statistical uniqueness is the
// whole contract, no collision check against the backend is attempted.
type Generator struct{}

// New creates a new Generator.
func New() *Generator {
	return &Generator{}
}

// NewID returns a UUIDv4 string.
func (Generator) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid4: %w", err)
	}
	return id.String(), nil
}

// Validate reports whether s is a syntactically valid UUID.
func Validate(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
