package account

import (
	"strings"
	"time"

	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the mentor_accounts row. Provider and username are stored
// case-folded; the pair is unique.
type Record struct {
	bun.BaseModel `bun:"table:mentor_accounts"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Provider  string    `bun:"provider,notnull"`
	Username  string    `bun:"username,notnull"`
	ProfileID uuid.UUID `bun:"profile_id,type:uuid,notnull"`
	CreatedAt time.Time `bun:"created_at"`
}

type recordCodec struct{}

var codec types.Codec[types.Account, *Record] = recordCodec{}

func (recordCodec) ToRecord(account types.Account) *Record {
	return &Record{
		ID:        account.ID,
		Provider:  normalize(account.Provider),
		Username:  normalize(account.Username),
		ProfileID: account.ProfileID,
		CreatedAt: account.CreatedAt,
	}
}

func (recordCodec) FromRecord(rec *Record) types.Account {
	if rec == nil {
		return types.Account{}
	}
	return types.Account{
		ID:        rec.ID,
		Provider:  rec.Provider,
		Username:  rec.Username,
		ProfileID: rec.ProfileID,
		CreatedAt: rec.CreatedAt,
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
