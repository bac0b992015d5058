// Package strutil contains functions to help handling strings.
package strutil

import (
	"crypto/rand"
	"encoding/hex"
	"slices"
	"strings"

	"github.com/kaoden/goidc-authorize/pkg/goidc"
)

// SplitWithSpaces splits s around runs of spaces. Empty or blank strings
// result in an empty, non nil, slice.
func SplitWithSpaces(s string) []string {
	slice := strings.Fields(s)
	if slice == nil {
		return []string{}
	}
	return slice
}

func ContainsOpenID(scopes []string) bool {
	return slices.Contains(scopes, goidc.ScopeOpenID)
}

// RandomHex returns the hex encoding of byteLength random bytes read from
// crypto/rand.
func RandomHex(byteLength int) (string, error) {
	b := make([]byte, byteLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
