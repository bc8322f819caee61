// Package id generates prefixed, URL-safe identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the identifiers the server hands out.
const (
	PrefixSession = "sess"
	PrefixGame    = "game"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "game-V1StGXR8_Z5jdHi6B-myT").
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// HasPrefix reports whether s was produced by Generate with the given prefix.
func HasPrefix(s, prefix string) bool {
	// 21 is the default nanoid length.
	return len(s) == len(prefix)+1+21 && s[:len(prefix)+1] == prefix+"-"
}
