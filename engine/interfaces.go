package engine

import (
	"context"
	"time"
)

// Storage persists the whole player state as one opaque blob in a single
// named slot. Load returns core.ErrNotFound when nothing has been saved yet.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Random is the randomness used for attribute growth and quest selection.
// *math/rand/v2.Rand satisfies it.
type Random interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}
