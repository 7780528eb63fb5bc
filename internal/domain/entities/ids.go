package entities

import "github.com/google/uuid"

// NewID generates a new random identifier with the given prefix, e.g. "deck_3f9a...".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
