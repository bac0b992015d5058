package hashutil_test

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/go-jose/go-jose/v4"
	"github.com/kaoden/goidc-authorize/internal/hashutil"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestHalfHash(t *testing.T) {
	// Given.
	testCases := []struct {
		input string
		alg   jose.SignatureAlgorithm
		want  string
	}{
		{
			input: "rs256",
			alg:   jose.RS256,
			want:  "mRCcNV8hQeoi1kP5GmbbJg",
		},
		{
			input: "rs384",
			alg:   jose.RS384,
			want:  "hgd3-_rJs8dp_6Ac-oZS9U5NSuZSCExp",
		},
		{
			input: "rs512",
			alg:   jose.RS512,
			want:  "DUcIk-W2a9h9Gs2qWY9Awn7XvdLoHSVKXxWj4XwyRbc",
		},
	}

	for i, testCase := range testCases {
		t.Run(fmt.Sprintf("case %d", i), func(t *testing.T) {
			// When.
			got := hashutil.HalfHash(testCase.input, testCase.alg)

			// Then.
			if got != testCase.want {
				t.Errorf("got %s, want %s", got, testCase.want)
			}
		})
	}
}

func TestHalfHash_RS256IsLeftHalfOfSHA256(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("is deterministic", prop.ForAll(
		func(token string) bool {
			return hashutil.HalfHash(token, jose.RS256) == hashutil.HalfHash(token, jose.RS256)
		},
		gen.AnyString(),
	))

	properties.Property("equals base64url of the first 16 bytes of sha256", prop.ForAll(
		func(token string) bool {
			sum := sha256.Sum256([]byte(token))
			want := base64.RawURLEncoding.EncodeToString(sum[:16])
			return hashutil.HalfHash(token, jose.RS256) == want
		},
		gen.AnyString(),
	))

	properties.Property("has no padding", prop.ForAll(
		func(token string) bool {
			got := hashutil.HalfHash(token, jose.RS256)
			return len(got) == 22 && got[len(got)-1] != '='
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
