package domain

import (
	"database/sql/driver"

	"github.com/google/uuid"
)

// Typed IDs round-trip through database/sql and encoding/json as their
// canonical UUID string.

func scanUUID(dst *uuid.UUID, src any) error {
	return dst.Scan(src)
}

func (id IdentityID) Value() (driver.Value, error)       { return uuid.UUID(id).Value() }
func (id CredentialID) Value() (driver.Value, error)     { return uuid.UUID(id).Value() }
func (id PatientID) Value() (driver.Value, error)        { return uuid.UUID(id).Value() }
func (id MedicalProfileID) Value() (driver.Value, error) { return uuid.UUID(id).Value() }
func (id RequestID) Value() (driver.Value, error)        { return uuid.UUID(id).Value() }
func (id AdminID) Value() (driver.Value, error)          { return uuid.UUID(id).Value() }

func (id *IdentityID) Scan(src any) error       { return scanUUID((*uuid.UUID)(id), src) }
func (id *CredentialID) Scan(src any) error     { return scanUUID((*uuid.UUID)(id), src) }
func (id *PatientID) Scan(src any) error        { return scanUUID((*uuid.UUID)(id), src) }
func (id *MedicalProfileID) Scan(src any) error { return scanUUID((*uuid.UUID)(id), src) }
func (id *RequestID) Scan(src any) error        { return scanUUID((*uuid.UUID)(id), src) }
func (id *AdminID) Scan(src any) error          { return scanUUID((*uuid.UUID)(id), src) }

func (id IdentityID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }
func (id CredentialID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id PatientID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id MedicalProfileID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id RequestID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id AdminID) MarshalText() ([]byte, error)          { return uuid.UUID(id).MarshalText() }

func (id *IdentityID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *CredentialID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *PatientID) UnmarshalText(b []byte) error        { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *MedicalProfileID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *RequestID) UnmarshalText(b []byte) error        { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *AdminID) UnmarshalText(b []byte) error          { return (*uuid.UUID)(id).UnmarshalText(b) }
