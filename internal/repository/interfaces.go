package repository

import (
	"context"

	"github.com/efreeman/porsearch/internal/model"
)

// PORMirror is the relational mirror of the POR data, used for key-based
// lookups that the full-text index is not meant to answer.
type PORMirror interface {
	Insert(ctx context.Context, loc *model.Location) error
	ListByIATA(ctx context.Context, code string) ([]model.Location, error)
	ListByICAO(ctx context.Context, code string) ([]model.Location, error)
	ListByFAA(ctx context.Context, code string) ([]model.Location, error)
	ListByGeonameID(ctx context.Context, id int64) ([]model.Location, error)
	CountPOR(ctx context.Context) (int64, error)
}

// LocationSource resolves a document ID back to its Location for display.
// The index reader satisfies this.
type LocationSource interface {
	ByDocID(ctx context.Context, docID uint64) (*model.Location, error)
}
