package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "medid/pkg/domain-errors"
)

func TestLoginRequestValidate(t *testing.T) {
	tests := []struct {
		name  string
		req   LoginRequest
		valid bool
	}{
		{"complete", LoginRequest{Login: " dr1 ", Secret: "pw123"}, true},
		{"blank login", LoginRequest{Login: "   ", Secret: "pw123"}, false},
		{"missing secret", LoginRequest{Login: "dr1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize()
			err := tt.req.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}
