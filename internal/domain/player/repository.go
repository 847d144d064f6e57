package player

import "context"

// UpsertOutcome reports how a batch upsert landed.
type UpsertOutcome struct {
	Added   int
	Updated int
}

// Repository describes player persistence needs from use cases.
type Repository interface {
	UpsertMany(ctx context.Context, items []Player) (UpsertOutcome, error)
	List(ctx context.Context, filter Filter) ([]Player, error)
	GetByID(ctx context.Context, id string) (Player, bool, error)
	GetBySleeperIDs(ctx context.Context, sleeperIDs []string) (map[string]Player, error)
	ListMissingEspnID(ctx context.Context) ([]Player, error)
	SetEspnID(ctx context.Context, playerID, espnID string) error
	Count(ctx context.Context) (int, error)
}
