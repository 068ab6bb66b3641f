package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ana@clinic.org", Normalize("  Ana@Clinic.ORG "))
}

func TestDeriveNameFromEmail(t *testing.T) {
	assert.Equal(t, "Ana Ruiz", DeriveNameFromEmail("ana.ruiz@clinic.org"))
	assert.Equal(t, "Dr", DeriveNameFromEmail("dr@x.io"))
	assert.Equal(t, "User", DeriveNameFromEmail("+@x.io"))
}
