package dto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := SignupRequest{
		Username: "  alice  ",
		Email:    " alice@example.com ",
		Password: "  pass1234  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "alice@example.com", req.Email)
	assert.Equal(t, "pass1234", req.Password)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := CreateClientRequest{
		FirstName: "Ada <script>alert('x')</script>",
		LastName:  "Lovelace",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.FirstName, "&lt;script&gt;")
	assert.NotContains(t, req.FirstName, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	logo := "  btc.png  "
	req := UpdateAdminWalletRequest{Logo: &logo}
	SanitizeStruct(&req)

	assert.Equal(t, "btc.png", *req.Logo)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := UpdateAdminWalletRequest{}
	SanitizeStruct(&req)
	assert.Nil(t, req.Logo)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"CLT_a1b2c3d4e5f6",
		"client-42",
		"a.b.c",
		"simple123",
	}
	for _, tc := range cases {
		assert.True(t, safeIDRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"client 42",   // space
		"id<tag>",     // angle brackets
		"id;DROP",     // semicolon
		"",            // empty
		"id\nnewline", // newline
	}
	for _, tc := range cases {
		assert.False(t, safeIDRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

// --- FieldErrors tests ---

func TestFieldErrors_NonValidatorError(t *testing.T) {
	fields := FieldErrors(errors.New("unexpected EOF"))
	require.Len(t, fields, 1)
	assert.Equal(t, "body", fields[0].Field)
}
