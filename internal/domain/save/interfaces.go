package save

import (
	"context"
	"time"

	"github.com/rpggio/eggsim/internal/domain/player"
	"github.com/rpggio/eggsim/internal/domain/progression"
)

// Repository stores save records by slot.
type Repository interface {
	Get(ctx context.Context, slot string) (*Record, error)
	Put(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, slot string) error
}

// Engine is the part of the progression engine the save service drives.
type Engine interface {
	Checkpoint() player.State
	Snapshot() player.State
	Restore(st player.State)
	Reset()
	CatchUp(elapsed time.Duration) (float64, progression.Unlocks)
}
