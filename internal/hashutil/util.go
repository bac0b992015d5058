// Package hashutil computes the digests embedded in ID tokens.
package hashutil

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"hash"

	"github.com/go-jose/go-jose/v4"
)

// HalfHash hashes claim with the hash function of alg and returns the left
// half of the digest base64url encoded without padding. This is how at_hash
// is computed, e.g. for RS256 it is the first 128 bits of SHA-256.
// Unknown algorithms fall back to SHA-256.
func HalfHash(claim string, alg jose.SignatureAlgorithm) string {
	var hash hash.Hash
	switch alg {
	case jose.RS384, jose.ES384, jose.PS384, jose.HS384:
		hash = sha512.New384()
	case jose.RS512, jose.ES512, jose.PS512, jose.HS512:
		hash = sha512.New()
	default:
		hash = sha256.New()
	}

	hash.Write([]byte(claim))
	halfHashedClaim := hash.Sum(nil)[:hash.Size()/2]
	return base64.RawURLEncoding.EncodeToString(halfHashedClaim)
}
