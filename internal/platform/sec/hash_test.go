// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phamduc/sachly/internal/platform/sec"
)

/*
TestHashPassword verifies that hashing round-trips with verification.
*/
func TestHashPassword(t *testing.T) {
	plain := "s3cret-password"

	hash, err := sec.HashPassword(plain)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// The hash must never equal the plain text
	assert.NotEqual(t, plain, hash)

	// Correct password verifies, wrong one does not
	assert.True(t, sec.CheckPasswordHash(plain, hash))
	assert.False(t, sec.CheckPasswordHash("wrong-password", hash))
}

/*
TestHashPassword_Salted verifies two hashes of the same input differ.
*/
func TestHashPassword_Salted(t *testing.T) {
	first, err := sec.HashPassword("same-input")
	require.NoError(t, err)

	second, err := sec.HashPassword("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestNeedsRehash verifies the cost upgrade detection used on login.
*/
func TestNeedsRehash(t *testing.T) {
	// Current default cost does not need a rehash
	current, err := sec.HashPassword("password")
	require.NoError(t, err)
	assert.False(t, sec.NeedsRehash(current))

	// A hash produced with the minimum cost must be flagged for upgrade
	weak, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, sec.NeedsRehash(string(weak)))

	// Garbage that is not a bcrypt hash must also be flagged
	assert.True(t, sec.NeedsRehash("plaintext-legacy-value"))
}
