package category

import (
	"time"

	"github.com/goliatone/go-mentors/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record models the categories row. NameKey holds the case-folded name and
// is unique per group.
type Record struct {
	bun.BaseModel `bun:"table:categories"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Group     string    `bun:"category_group,notnull"`
	Name      string    `bun:"name,notnull"`
	NameKey   string    `bun:"name_key,notnull"`
	LinkCount int       `bun:"link_count,notnull"`
	Visible   bool      `bun:"visible,notnull"`
	Reviewed  bool      `bun:"reviewed,notnull"`
	CreatedAt time.Time `bun:"created_at"`
	UpdatedAt time.Time `bun:"updated_at"`
}

// LinkRecord models one active category_links row.
type LinkRecord struct {
	bun.BaseModel `bun:"table:category_links"`

	Group     string    `bun:"category_group,pk"`
	NameKey   string    `bun:"name_key,pk"`
	ProfileID uuid.UUID `bun:"profile_id,pk,type:uuid"`
	CreatedAt time.Time `bun:"created_at"`
}

type recordCodec struct{}

var codec types.Codec[types.Category, *Record] = recordCodec{}

func (recordCodec) ToRecord(category types.Category) *Record {
	return &Record{
		ID:        category.ID,
		Group:     string(category.Group),
		Name:      category.Name,
		NameKey:   types.NormalizeCategoryName(category.Name),
		LinkCount: category.LinkCount,
		Visible:   category.Visible,
		Reviewed:  category.Reviewed,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

func (recordCodec) FromRecord(rec *Record) types.Category {
	if rec == nil {
		return types.Category{}
	}
	return types.Category{
		ID:        rec.ID,
		Group:     types.CategoryGroup(rec.Group),
		Name:      rec.Name,
		LinkCount: rec.LinkCount,
		Visible:   rec.Visible,
		Reviewed:  rec.Reviewed,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
