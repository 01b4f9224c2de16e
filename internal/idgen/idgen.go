// Package idgen provides short, URL-safe unique ID generation backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the records this service creates.
const (
	ActivityPrefix = "act-"
	IdentityPrefix = "idn-"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 12

// ActivityID returns a new activity or comment-activity ID.
func ActivityID() (string, error) {
	return GenerateWithPrefix(ActivityPrefix)
}

// IdentityID returns a new identity ID.
func IdentityID() (string, error) {
	return GenerateWithPrefix(IdentityPrefix)
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
