package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	"github.com/hupe1980/lvqgo"
	"github.com/hupe1980/lvqgo/blobstore"
	"github.com/hupe1980/lvqgo/datafile"
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/distance"
	"github.com/hupe1980/lvqgo/labels"
	"github.com/hupe1980/lvqgo/persistence"
	"github.com/hupe1980/lvqgo/resource"
	"github.com/spf13/cobra"
)

// snapshotExt marks binary codebook snapshots. Every other name is read and
// written in the plain-text vector format.
const snapshotExt = ".lvqs"

var (
	storeURL  string
	logFormat string
	verbose   bool
	metric    string
	seed      int64
	compress  string
	ioLimit   int64
)

var rootCmd = &cobra.Command{
	Use:   "lvqpak",
	Short: "Learning vector quantization toolkit",
	Long: `lvqpak initializes, trains, balances and evaluates LVQ codebooks.

File arguments are names inside the store selected with --store, a local
directory by default. Codebooks ending in ` + snapshotExt + ` are binary snapshots,
all other files use the plain-text vector format.`,
	SilenceUsage: true,
}

// Execute runs the root command. An interrupt cancels the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeURL, "store", "file://.", "store URL (file://dir, mem://, s3://bucket/prefix, minio://host/bucket/prefix)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json, none)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&metric, "metric", "euclidean", "distance metric (euclidean, sqeuclidean)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "shuffle training data with this seed (0 keeps file order)")
	rootCmd.PersistentFlags().StringVar(&compress, "compression", "zstd", "snapshot compression (none, zstd, lz4)")
	rootCmd.PersistentFlags().Int64Var(&ioLimit, "io-limit", 0, "snapshot read and write throughput in bytes per second (0 is unlimited)")
}

// session carries the state shared by the files of one invocation: the store
// and the label table every collection is resolved through.
type session struct {
	store  blobstore.Store
	table  *labels.Table
	logger *lvqgo.Logger
	rc     *resource.Controller // nil without --io-limit
}

func newLogger() *lvqgo.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	switch logFormat {
	case "json":
		return lvqgo.NewJSONLogger(level)
	case "none":
		return lvqgo.NoopLogger()
	default:
		return lvqgo.NewTextLogger(level)
	}
}

func newSession(ctx context.Context) (*session, error) {
	store, err := openStore(ctx, storeURL)
	if err != nil {
		return nil, err
	}
	s := &session{store: store, table: labels.New(), logger: newLogger()}
	if ioLimit > 0 {
		s.rc = resource.NewController(resource.Config{IOLimitBytesPerSec: ioLimit})
	}
	return s, nil
}

// engine builds an Engine from the persistent flags plus opts.
func (s *session) engine(opts ...lvqgo.Option) (*lvqgo.Engine, error) {
	m, err := distance.ParseMetric(metric)
	if err != nil {
		return nil, err
	}
	base := []lvqgo.Option{lvqgo.WithLogger(s.logger), lvqgo.WithMetric(m)}
	if seed != 0 {
		base = append(base, lvqgo.WithSeed(seed))
	}
	return lvqgo.New(append(base, opts...)...)
}

// load reads a data or codebook file.
func (s *session) load(ctx context.Context, name string) (*dataset.Entries, error) {
	if name == "" {
		return nil, fmt.Errorf("missing file name")
	}
	if path.Ext(name) != snapshotExt {
		return datafile.Load(ctx, s.store, name, s.table)
	}

	snap, err := persistence.LoadThrottled(ctx, s.store, name, s.rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	// Snapshot label ids are local to the snapshot.
	if len(snap.Labels) > 0 {
		for _, e := range snap.Codebook.All() {
			if e.Label >= 0 && e.Label < len(snap.Labels) {
				e.Label = s.table.ID(snap.Labels[e.Label])
			}
		}
	}
	return snap.Codebook, nil
}

// loadPair reads a codebook and a data file.
func (s *session) loadPair(ctx context.Context, cin, din string) (codes, data *dataset.Entries, err error) {
	if codes, err = s.load(ctx, cin); err != nil {
		return nil, nil, err
	}
	if data, err = s.load(ctx, din); err != nil {
		return nil, nil, err
	}
	return codes, data, nil
}

// save writes es under name, as a snapshot when name carries snapshotExt.
func (s *session) save(ctx context.Context, name string, es *dataset.Entries) error {
	if path.Ext(name) != snapshotExt {
		return datafile.Save(ctx, s.store, name, es, s.table)
	}
	c, err := persistence.ParseCompression(compress)
	if err != nil {
		return err
	}
	return persistence.Save(ctx, s.store, name, &persistence.Snapshot{
		Codebook: es,
		Labels:   s.table.Names(),
	}, c)
}

// sidecar derives a file name from base by replacing its extension.
func sidecar(base, ext string) string {
	return strings.TrimSuffix(base, path.Ext(base)) + ext
}

func requireFlags(cmd *cobra.Command, names ...string) error {
	for _, n := range names {
		f := cmd.Flags().Lookup(n)
		if f == nil || f.Value.String() == "" || f.Value.String() == "0" {
			return fmt.Errorf("flag --%s is required", n)
		}
	}
	return nil
}
