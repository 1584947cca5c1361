// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobMatchUniversal(t *testing.T) {
	assert.Nil(t, globMatch(""))
	assert.Nil(t, globMatch("*"))
	assert.True(t, globMatches(globMatch(""), "anything"))
}

func TestGlobMatchWildcards(t *testing.T) {
	re := globMatch("web-*")
	assert.True(t, globMatches(re, "web-checkout"))
	assert.True(t, globMatches(re, "WEB-CHECKOUT"))
	assert.False(t, globMatches(re, "api-checkout"))

	re = globMatch("svc-?")
	assert.True(t, globMatches(re, "svc-1"))
	assert.False(t, globMatches(re, "svc-12"))
}

func TestGlobMatchEscapesRegexMetacharacters(t *testing.T) {
	re := globMatch("a.b[c]")
	assert.True(t, globMatches(re, "a.b[c]"))
	assert.False(t, globMatches(re, "aXb[c]"))
}
