// Package storage defines the content persistence contracts for sheet game
// data: the nationality and class catalogs read by the engine.
package storage

import (
	"context"

	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/rules"
)

// ErrNotFound is returned when a content record does not exist.
var ErrNotFound = rules.ErrRecordNotFound

// ContentStore reads and writes nationality and class records.
type ContentStore interface {
	rules.GameDataRepository
	ContentReader
	PutNationality(ctx context.Context, nationality rules.Nationality) error
	PutClass(ctx context.Context, class rules.Class) error
	// PutCatalog writes a whole catalog atomically.
	PutCatalog(ctx context.Context, nationalities []rules.Nationality, classes []rules.Class) error
}

// ContentReader lists catalog records ordered by id.
type ContentReader interface {
	ListNationalities(ctx context.Context) ([]rules.Nationality, error)
	ListClasses(ctx context.Context) ([]rules.Class, error)
}
