package types

import (
	"time"

	"github.com/google/uuid"
)

// Account maps an external identity to the profile it owns.
type Account struct {
	ID        uuid.UUID
	Provider  string
	Username  string
	ProfileID uuid.UUID
	CreatedAt time.Time
}

// AccountResult reports the resolved account and whether it was created by
// the call that returned it.
type AccountResult struct {
	Account Account
	IsNew   bool
}
