package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHashService_RoundTrip(t *testing.T) {
	svc := NewHashService()

	hash, err := svc.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	ok, err := svc.Verify("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBcryptHashService_Mismatch(t *testing.T) {
	svc := NewHashService()

	hash, err := svc.Hash("password-one")
	require.NoError(t, err)

	ok, err := svc.Verify("password-two", hash)
	require.NoError(t, err)
	assert.False(t, ok, "a wrong password is a clean false, not an error")
}

func TestBcryptHashService_GarbageHash(t *testing.T) {
	svc := NewHashService()

	_, err := svc.Verify("anything", "not-a-bcrypt-hash")
	assert.Error(t, err)
}
