package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hupe1980/lvqgo/blobstore"
	"github.com/hupe1980/lvqgo/resource"
	"github.com/hupe1980/lvqgo/train"
)

// CurrentPointer is the blob that names the latest versioned snapshot.
const CurrentPointer = "CURRENT"

// Checkpointer writes training snapshots to a blob store. It implements
// train.Checkpointer.
//
// SnapshotOverwrite snapshots replace the blob called name. SnapshotVersioned
// snapshots are written to name.%08d (the iteration) and then published by
// updating CurrentPointer.
type Checkpointer struct {
	store       blobstore.Store
	name        string
	compression Compression
	labels      []string
	rc          *resource.Controller
	logger      *slog.Logger
}

var _ train.Checkpointer = (*Checkpointer)(nil)

// CheckpointerOption configures a Checkpointer.
type CheckpointerOption func(*Checkpointer)

// WithCompression sets the snapshot body compression.
func WithCompression(c Compression) CheckpointerOption {
	return func(cp *Checkpointer) { cp.compression = c }
}

// WithLabels stores label names in every snapshot.
func WithLabels(names []string) CheckpointerOption {
	return func(cp *Checkpointer) { cp.labels = names }
}

// WithResourceController throttles snapshot writes by the controller's I/O limit.
func WithResourceController(rc *resource.Controller) CheckpointerOption {
	return func(cp *Checkpointer) { cp.rc = rc }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) CheckpointerOption {
	return func(cp *Checkpointer) { cp.logger = l }
}

// NewCheckpointer creates a Checkpointer writing snapshots called name to store.
func NewCheckpointer(store blobstore.Store, name string, opts ...CheckpointerOption) *Checkpointer {
	cp := &Checkpointer{
		store:  store,
		name:   name,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cp)
	}
	return cp
}

// SnapshotName returns the blob name used for a snapshot of the given kind.
func (c *Checkpointer) SnapshotName(kind train.SnapshotKind, iteration int64) string {
	if kind == train.SnapshotVersioned {
		return fmt.Sprintf("%s.%08d", c.name, iteration)
	}
	return c.name
}

// Checkpoint implements train.Checkpointer.
func (c *Checkpointer) Checkpoint(ctx context.Context, snap train.Snapshot) error {
	var buf bytes.Buffer
	err := Encode(&buf, &Snapshot{
		Codebook:  snap.Codebook,
		Iteration: snap.Iteration,
		Algorithm: snap.Algorithm.String(),
		Labels:    c.labels,
	}, c.compression)
	if err != nil {
		return fmt.Errorf("persistence: encode snapshot: %w", err)
	}

	name := c.SnapshotName(snap.Kind, snap.Iteration)
	if err := c.write(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("persistence: write snapshot %s: %w", name, err)
	}

	if snap.Kind == train.SnapshotVersioned {
		if err := c.store.Put(ctx, CurrentPointer, []byte(name)); err != nil {
			return fmt.Errorf("persistence: publish snapshot %s: %w", name, err)
		}
	}

	c.logger.DebugContext(ctx, "checkpoint written",
		"name", name,
		"bytes", buf.Len(),
		"compression", c.compression.String(),
	)
	return nil
}

func (c *Checkpointer) write(ctx context.Context, name string, data []byte) error {
	if c.rc.IOBurst() == 0 {
		return c.store.Put(ctx, name, data)
	}

	w, err := c.store.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(resource.NewRateLimitedWriter(ctx, w, c.rc), bytes.NewReader(data)); err != nil {
		_ = w.Close()
		_ = c.store.Delete(ctx, name)
		return err
	}
	return w.Close()
}

// LoadLatest loads the snapshot published through CurrentPointer, falling
// back to the blob called name when no versioned snapshot was published.
func LoadLatest(ctx context.Context, store blobstore.Store, name string) (*Snapshot, error) {
	target := name
	ptr, err := blobstore.ReadAll(ctx, store, CurrentPointer)
	switch {
	case err == nil:
		target = strings.TrimSpace(string(ptr))
	case !errors.Is(err, blobstore.ErrNotFound):
		return nil, err
	}
	return Load(ctx, store, target)
}

// Load reads the snapshot stored in the blob called name.
func Load(ctx context.Context, store blobstore.Store, name string) (*Snapshot, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data))
}

// LoadThrottled reads the snapshot stored in the blob called name, pacing
// reads by the I/O limit of rc. Without a limit it behaves like Load.
func LoadThrottled(ctx context.Context, store blobstore.Store, name string, rc *resource.Controller) (*Snapshot, error) {
	if rc.IOBurst() == 0 {
		return Load(ctx, store, name)
	}

	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = b.Close() }()

	r, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	defer func() { _ = r.Close() }()

	return Decode(resource.NewRateLimitedReader(ctx, r, rc))
}

// Save writes s to the blob called name.
func Save(ctx context.Context, store blobstore.Store, name string, s *Snapshot, c Compression) error {
	var buf bytes.Buffer
	if err := Encode(&buf, s, c); err != nil {
		return err
	}
	return store.Put(ctx, name, buf.Bytes())
}
