package mapping

import "context"

type Repository interface {
	InsertMany(ctx context.Context, entries []ReviewEntry) error
	ListPending(ctx context.Context, limit int) ([]ReviewEntry, error)
	GetByID(ctx context.Context, id string) (ReviewEntry, bool, error)
	Delete(ctx context.Context, id string) error
	InsertCustomBinding(ctx context.Context, binding CustomBinding) error
}
