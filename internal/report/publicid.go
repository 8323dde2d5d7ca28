package report

import (
	"crypto/rand"
	"fmt"
)

const (
	publicIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	publicIDLength   = 8
)

// NewPublicID returns a short tracking reference for a report. It exists so
// submitters can follow up without ever learning internal IDs.
func NewPublicID() (string, error) {
	buf := make([]byte, publicIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate public id: %w", err)
	}
	for i, b := range buf {
		buf[i] = publicIDAlphabet[int(b)%len(publicIDAlphabet)]
	}
	return string(buf), nil
}
