package train

import (
	"context"
	"fmt"

	"github.com/hupe1980/lvqgo/dataset"
)

// SnapshotKind selects how a checkpoint destination names its snapshots.
type SnapshotKind int

const (
	// SnapshotOverwrite keeps a single snapshot, replaced on every checkpoint.
	SnapshotOverwrite SnapshotKind = iota
	// SnapshotVersioned keeps one snapshot per checkpoint iteration.
	SnapshotVersioned
)

func (k SnapshotKind) String() string {
	switch k {
	case SnapshotOverwrite:
		return "overwrite"
	case SnapshotVersioned:
		return "versioned"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// ParseSnapshotKind resolves a snapshot kind by name.
func ParseSnapshotKind(name string) (SnapshotKind, error) {
	switch name {
	case "", "overwrite", "file":
		return SnapshotOverwrite, nil
	case "versioned", "numbered":
		return SnapshotVersioned, nil
	default:
		return 0, fmt.Errorf("unknown snapshot kind %q", name)
	}
}

// Snapshot is the state handed to a Checkpointer.
// Codebook is the live codebook; implementations must not keep it after
// Checkpoint returns.
type Snapshot struct {
	Codebook  *dataset.Entries
	Iteration int64
	Algorithm Algorithm
	Kind      SnapshotKind
}

// Checkpointer persists snapshots of a codebook during training.
type Checkpointer interface {
	Checkpoint(ctx context.Context, snap Snapshot) error
}

// CheckpointFunc adapts a function to the Checkpointer interface.
type CheckpointFunc func(ctx context.Context, snap Snapshot) error

// Checkpoint implements Checkpointer.
func (f CheckpointFunc) Checkpoint(ctx context.Context, snap Snapshot) error {
	return f(ctx, snap)
}

// Checkpoint configures periodic snapshots.
type Checkpoint struct {
	// Interval is the number of iterations between snapshots; <= 0 disables them.
	Interval int64
	Kind     SnapshotKind
	Sink     Checkpointer
}

func (c *Checkpoint) due(t int64) bool {
	return c != nil && c.Sink != nil && c.Interval > 0 && t > 0 && t%c.Interval == 0
}
