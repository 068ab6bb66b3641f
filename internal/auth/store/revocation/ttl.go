// Package revocation keeps the list of access tokens revoked before their
// expiry. Entries live only as long as the token they revoke.
package revocation

import (
	"fmt"
	"time"

	"medid/pkg/platform/sentinel"
)

// Clock returns the current time.
type Clock func() time.Time

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}
