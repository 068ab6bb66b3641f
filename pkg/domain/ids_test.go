package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "medid/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseIdentityID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseIdentityID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseIdentityID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseIdentityID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, IdentityID(validUUID), id)
		assert.Equal(t, validUUID.String(), id.String())
		assert.False(t, id.IsNil())
	})
}

// TestTypeDistinction documents that typed IDs prevent cross-type assignment:
//
//	var _ IdentityID = PatientID(uuid.New()) // compile error
func TestTypeDistinction(t *testing.T) {
	identityID := IdentityID(uuid.New())
	patientID := PatientID(uuid.New())

	assert.NotEqual(t, uuid.UUID(identityID), uuid.UUID(patientID))
}

func TestParseID_SecurityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE credentials;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Unicode zero-width space", "550e8400\u200B-e29b-41d4-a716-446655440000", true},

		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},

		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequestID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestAllIDTypes_ConsistentBehavior ensures all ID types share parsing rules.
func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	parsers := map[string]func(string) error{
		"identity":   func(s string) error { _, err := ParseIdentityID(s); return err },
		"credential": func(s string) error { _, err := ParseCredentialID(s); return err },
		"patient":    func(s string) error { _, err := ParsePatientID(s); return err },
		"medical":    func(s string) error { _, err := ParseMedicalProfileID(s); return err },
		"request":    func(s string) error { _, err := ParseRequestID(s); return err },
		"admin":      func(s string) error { _, err := ParseAdminID(s); return err },
	}

	validUUID := uuid.New().String()
	for name, parse := range parsers {
		t.Run(name+" accepts valid UUID", func(t *testing.T) {
			require.NoError(t, parse(validUUID))
		})
		for _, input := range []string{"", "invalid", uuid.Nil.String()} {
			t.Run(name+" rejects "+input, func(t *testing.T) {
				require.Error(t, parse(input))
			})
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"patient", "medical", "administrator"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, s, r.String())
	}

	for _, s := range []string{"", "3", "doctor", "Patient"} {
		_, err := ParseRole(s)
		require.Error(t, err, s)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	}
}

func TestIDs_SQLAndText(t *testing.T) {
	u := uuid.New()
	identityID := IdentityID(u)

	v, err := identityID.Value()
	require.NoError(t, err)
	assert.Equal(t, u.String(), v)

	var scanned IdentityID
	require.NoError(t, scanned.Scan(u.String()))
	assert.Equal(t, identityID, scanned)

	var adminID AdminID
	require.NoError(t, adminID.Scan([]byte(u.String())))
	assert.Equal(t, u.String(), adminID.String())

	text, err := RequestID(u).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, u.String(), string(text))

	var decoded RequestID
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, RequestID(u), decoded)
	assert.Error(t, decoded.UnmarshalText([]byte("nope")))
}
