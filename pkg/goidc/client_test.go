package goidc_test

import (
	"testing"

	"github.com/kaoden/goidc-authorize/pkg/goidc"
	"github.com/stretchr/testify/assert"
)

func TestIsRedirectURIAllowed(t *testing.T) {
	client := goidc.Client{
		RedirectURIs: []string{"https://client.example/cb", "https://client.example/cb#frag"},
	}
	testCases := []struct {
		redirectURI    string
		expectedResult bool
	}{
		{"https://client.example/cb", true},
		{"https://client.example/cb?tenant=a&x=y", true},
		{"https://client.example/cb?", true},
		{"https://client.example/cb#frag", true},
		{"https://client.example/cb/", false},
		{"https://client.example/c", false},
		{"https://client.example/cb/other", false},
		{"http://client.example/cb", false},
		{"https://client.example/cb#other", false},
		{"", false},
		{"://invalid", false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.redirectURI, func(t *testing.T) {
			assert.Equal(t, testCase.expectedResult, client.IsRedirectURIAllowed(testCase.redirectURI))
		})
	}
}
