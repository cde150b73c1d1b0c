// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phamduc/sachly/internal/platform/sec"
)

// writeTestKeys generates a throwaway RSA key pair and writes both halves
// as PEM files under a temp directory.
func writeTestKeys(t *testing.T) (privPath, pubPath string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath = filepath.Join(dir, "private.pem")
	pubPath = filepath.Join(dir, "public.pem")

	privBlock := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	require.NoError(t, os.WriteFile(privPath, privBlock, 0o600))

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubBlock := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubDER,
	})
	require.NoError(t, os.WriteFile(pubPath, pubBlock, 0o600))

	return privPath, pubPath
}

func newTestTokenService(t *testing.T) *sec.TokenService {
	t.Helper()

	privPath, pubPath := writeTestKeys(t)
	service, err := sec.NewTokenService(privPath, pubPath, "sachly.vn")
	require.NoError(t, err)
	return service
}

/*
TestTokenService_AccessRoundTrip verifies generate + verify for access tokens.
*/
func TestTokenService_AccessRoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateAccessToken("user-123", "ducpham", "admin", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "ducpham", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "sachly.vn", claims.Issuer)
}

/*
TestTokenService_KindSeparation verifies a refresh token is rejected where
an access token is expected, and vice versa.
*/
func TestTokenService_KindSeparation(t *testing.T) {
	service := newTestTokenService(t)

	refresh, err := service.GenerateRefreshToken("user-123", "ducpham", "user", time.Hour)
	require.NoError(t, err)

	// Refresh token must not pass access verification
	_, err = service.VerifyAccessToken(refresh)
	assert.Error(t, err)

	// But it passes refresh verification
	claims, err := service.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)

	access, err := service.GenerateAccessToken("user-123", "ducpham", "user", time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyRefreshToken(access)
	assert.Error(t, err)
}

/*
TestTokenService_Expired verifies that expired tokens fail verification.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateAccessToken("user-123", "ducpham", "user", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_Tampered verifies that a modified token fails verification.
*/
func TestTokenService_Tampered(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateAccessToken("user-123", "ducpham", "user", time.Hour)
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "abcd"
	_, err = service.VerifyAccessToken(tampered)
	assert.Error(t, err)
}

/*
TestUserRole_AtLeast verifies the role hierarchy comparison.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleUser))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.RoleUser.AtLeast(sec.RoleAdmin))

	assert.True(t, sec.RoleUser.IsValid())
	assert.False(t, sec.UserRole("banana").IsValid())
}
