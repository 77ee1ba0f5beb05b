package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/marquee/internal/shared"
)

// PersistedMovie is a catalog record cached locally, keyed by catalog id and language.
type PersistedMovie struct {
	id        string
	sequence  int
	language  string
	movie     Movie
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedMovie wraps m for storage. The row id is assigned by the repository.
func NewPersistedMovie(sequence int, language string, m Movie) *PersistedMovie {
	now := time.Now()
	return &PersistedMovie{
		sequence:  sequence,
		language:  language,
		movie:     m,
		createdAt: now,
		updatedAt: now,
	}
}

func (p *PersistedMovie) ID() string            { return p.id }
func (p *PersistedMovie) Sequence() int         { return p.sequence }
func (p *PersistedMovie) CatalogID() string     { return p.movie.ID }
func (p *PersistedMovie) Language() string      { return p.language }
func (p *PersistedMovie) Movie() Movie          { return p.movie }
func (p *PersistedMovie) CreatedAt() time.Time  { return p.createdAt }
func (p *PersistedMovie) UpdatedAt() time.Time  { return p.updatedAt }
func (p *PersistedMovie) DeletedAt() *time.Time { return p.deletedAt }
func (p *PersistedMovie) IsDeleted() bool       { return p.deletedAt != nil }

func (p *PersistedMovie) SetID(id string)           { p.id = id }
func (p *PersistedMovie) SetSequence(seq int)       { p.sequence = seq }
func (p *PersistedMovie) SetMovie(m Movie)          { p.movie = m }
func (p *PersistedMovie) SetCreatedAt(t time.Time)  { p.createdAt = t }
func (p *PersistedMovie) SetUpdatedAt(t time.Time)  { p.updatedAt = t }
func (p *PersistedMovie) SetDeletedAt(t *time.Time) { p.deletedAt = t }

// Validate requires a language in addition to a valid movie.
func (p *PersistedMovie) Validate() error {
	if p.language == "" {
		return fmt.Errorf("%w: language is required", shared.ErrInvalidMovie)
	}
	return p.movie.Validate()
}
