// Package id generates unique names for the temporary files exchanged with the external tools.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// fileAlphabet avoids case-only differences so names stay unique on case-insensitive filesystems.
const fileAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const fileIDLength = 16

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "run-V1StGXR8_Z5jdHi6B-myT")
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// FileName creates a unique file name such as "chapters-3k9x0c1vd8q2m7za.xml".
// The name never starts with '-', so tools cannot mistake it for an option.
func FileName(prefix, ext string) (string, error) {
	id, err := gonanoid.Generate(fileAlphabet, fileIDLength)
	if err != nil {
		return "", fmt.Errorf("generate file name: %w", err)
	}
	return prefix + "-" + id + ext, nil
}
