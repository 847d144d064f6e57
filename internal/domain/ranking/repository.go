package ranking

import "context"

type Repository interface {
	CreateSet(ctx context.Context, set Set) error
	GetSet(ctx context.Context, id string) (Set, bool, error)
	ListSetsByUser(ctx context.Context, userID string) ([]Set, error)
	RenameSet(ctx context.Context, id, name string) error
	DeleteSet(ctx context.Context, id string) error
	ReplaceEntries(ctx context.Context, setID string, entries []Entry) error
	ListEntries(ctx context.Context, setID string) ([]Entry, error)
}
