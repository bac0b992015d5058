package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-jose/go-jose/v4"
)

func loadPrivateJWKS(filename string) (jose.JSONWebKeySet, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return jose.JSONWebKeySet{}, err
	}

	jwksBytes, err := os.ReadFile(absPath)
	if err != nil {
		return jose.JSONWebKeySet{}, fmt.Errorf("read jwks: %w", err)
	}

	var jwks jose.JSONWebKeySet
	if err := json.Unmarshal(jwksBytes, &jwks); err != nil {
		return jose.JSONWebKeySet{}, fmt.Errorf("parse jwks: %w", err)
	}

	return jwks, nil
}
