package lvqgo

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/lvqgo/blobstore"
	"github.com/hupe1980/lvqgo/codebook"
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/distance"
	"github.com/hupe1980/lvqgo/eval"
	"github.com/hupe1980/lvqgo/persistence"
	"github.com/hupe1980/lvqgo/stats"
	"github.com/hupe1980/lvqgo/train"
	"github.com/hupe1980/lvqgo/winner"
)

// Engine bundles the strategies, logging and metrics shared by all codebook
// operations. An Engine holds no codebook state and is safe for concurrent
// use; codebooks passed to it must not be trained concurrently.
type Engine struct {
	opts     options
	dist     distance.Func
	searcher winner.Searcher
}

// New creates an Engine.
func New(optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)

	dist, err := distance.Provider(o.metric)
	if err != nil {
		return nil, err
	}
	s := o.searcher
	if s == nil {
		s = winner.NewLinear(dist)
	}
	return &Engine{opts: o, dist: dist, searcher: s}, nil
}

// Searcher returns the winner search in use.
func (e *Engine) Searcher() winner.Searcher { return e.searcher }

// Distance returns the distance function of the configured metric.
func (e *Engine) Distance() distance.Func { return e.dist }

// Logger returns the configured logger.
func (e *Engine) Logger() *Logger { return e.opts.logger }

// TrainParams describes a training run.
type TrainParams struct {
	Codebook *dataset.Entries
	Data     *dataset.Entries
	// Length is the number of iterations.
	Length int64
	// Alpha is the base learning rate. OLVQ1 uses 0.3 when zero.
	Alpha float32
	// Window is the LVQ2.1 and LVQ3 window width, 0.3 when zero.
	Window float32
	// Epsilon scales LVQ3 updates of two correct winners, 0.1 when zero.
	Epsilon float32
	// Rates continues OLVQ1 learning rates from an earlier run. It is ignored
	// when Alpha is set.
	Rates *train.Rates
}

// Train adapts p.Codebook in place with algo and returns it.
func (e *Engine) Train(ctx context.Context, algo train.Algorithm, p TrainParams) (train.Result, error) {
	if err := checkPair(p.Codebook, p.Data); err != nil {
		return train.Result{}, err
	}
	if p.Window == 0 {
		p.Window = train.DefaultWindow
	}
	if p.Epsilon == 0 {
		p.Epsilon = train.DefaultEpsilon
	}
	if e.opts.randomOrder {
		p.Data.SetRandomOrder(e.opts.seed)
	}

	start := time.Now()
	res, err := train.Run(ctx, algo, train.Params{
		Codebook:   p.Codebook,
		Data:       p.Data,
		Length:     p.Length,
		Alpha:      p.Alpha,
		Schedule:   e.opts.schedule,
		Searcher:   e.searcher,
		Window:     p.Window,
		Epsilon:    p.Epsilon,
		Checkpoint: e.checkpoint(),
		Logger:     e.opts.logger.Logger,
	}, p.Rates)
	err = translateError(err)

	e.opts.metricsCollector.RecordTraining(algo.String(), p.Length, time.Since(start), err)
	e.opts.logger.LogTraining(ctx, algo.String(), p.Codebook.Len(), p.Length, err)
	return res, err
}

// checkpoint wraps the configured sink so every write is measured.
func (e *Engine) checkpoint() *train.Checkpoint {
	cp := e.opts.checkpoint
	if cp == nil || cp.Sink == nil {
		return nil
	}
	mc := e.opts.metricsCollector
	sink := cp.Sink
	return &train.Checkpoint{
		Interval: cp.Interval,
		Kind:     cp.Kind,
		Sink: train.CheckpointFunc(func(ctx context.Context, snap train.Snapshot) error {
			start := time.Now()
			err := sink.Checkpoint(ctx, snap)
			mc.RecordCheckpoint(time.Since(start), err)
			return err
		}),
	}
}

// Initialize picks size codebook vectors from data. See codebook.Initialize.
func (e *Engine) Initialize(ctx context.Context, data *dataset.Entries, size int, alloc codebook.Allocation) (*dataset.Entries, error) {
	if size < 1 {
		return nil, ErrEmptyCodebook
	}
	codes, err := codebook.Initialize(ctx, codebook.InitParams{
		Data:       data,
		Size:       size,
		Allocation: alloc,
		KNN:        e.opts.knn,
		Searcher:   e.searcher,
		Logger:     e.opts.logger.Logger,
	})
	return codes, translateError(err)
}

// Balance redistributes the codebook vectors over the classes and retrains
// them with OLVQ1. See codebook.Balance.
func (e *Engine) Balance(ctx context.Context, codes, data *dataset.Entries) (codebook.BalanceResult, error) {
	if err := checkPair(codes, data); err != nil {
		return codebook.BalanceResult{}, err
	}
	if e.opts.randomOrder {
		data.SetRandomOrder(e.opts.seed)
	}

	start := time.Now()
	res, err := codebook.Balance(ctx, codebook.BalanceParams{
		Codebook:   codes,
		Data:       data,
		KNN:        e.opts.knn,
		Searcher:   e.searcher,
		Distance:   e.dist,
		Checkpoint: e.checkpoint(),
		Logger:     e.opts.logger.Logger,
	})
	err = translateError(err)

	e.opts.metricsCollector.RecordBalance(res.Added, res.Removed, time.Since(start), err)
	e.opts.logger.LogBalance(ctx, res.Added, res.Removed, res.Forced, err)
	return res, err
}

// Eliminate returns the data entries confirmed by their own neighborhood.
func (e *Engine) Eliminate(data *dataset.Entries) (*dataset.Entries, error) {
	if data == nil || data.Len() == 0 {
		return nil, ErrNoData
	}
	return codebook.Eliminate(e.searcher, data, e.opts.knn), nil
}

// SetLabels relabels codes by majority vote of their nearest data entries
// and returns the number of changed labels.
func (e *Engine) SetLabels(codes, data *dataset.Entries) (int, error) {
	if err := checkPair(codes, data); err != nil {
		return 0, err
	}
	return codebook.SetLabels(e.searcher, codes, data, e.opts.knn), nil
}

// Classify returns the predicted label of every data entry, dataset.NoLabel
// for entries without a comparable codebook vector.
func (e *Engine) Classify(ctx context.Context, codes, data *dataset.Entries) ([]int, error) {
	if err := checkPair(codes, data); err != nil {
		return nil, err
	}
	start := time.Now()
	predicted, err := eval.Classify(e.searcher, codes, data)
	err = translateError(err)

	unclassified := 0
	for _, l := range predicted {
		if l == dataset.NoLabel {
			unclassified++
		}
	}
	e.opts.metricsCollector.RecordClassify(data.Len(), time.Since(start), err)
	e.opts.logger.LogClassify(ctx, data.Len(), unclassified, err)
	return predicted, err
}

// Accuracy measures the nearest-neighbor recognition rate of codes on data.
func (e *Engine) Accuracy(ctx context.Context, codes, data *dataset.Entries) (*eval.Report, error) {
	return e.measure(ctx, codes, data, func() (*eval.Report, error) {
		return eval.Accuracy(e.searcher, codes, data)
	})
}

// KNNAccuracy measures the k-NN recognition rate of codes on data.
func (e *Engine) KNNAccuracy(ctx context.Context, codes, data *dataset.Entries, k int) (*eval.Report, error) {
	if k < 1 {
		return nil, ErrInvalidK
	}
	return e.measure(ctx, codes, data, func() (*eval.Report, error) {
		return eval.KNNAccuracy(e.searcher, codes, data, k)
	})
}

// ConfusionMatrix tabulates true against predicted labels.
func (e *Engine) ConfusionMatrix(ctx context.Context, codes, data *dataset.Entries) (*eval.Confusion, error) {
	var cm *eval.Confusion
	_, err := e.measure(ctx, codes, data, func() (*eval.Report, error) {
		var err error
		cm, err = eval.ConfusionMatrix(e.searcher, codes, data)
		if err != nil {
			return nil, err
		}
		return &cm.Report, nil
	})
	return cm, err
}

func (e *Engine) measure(ctx context.Context, codes, data *dataset.Entries, fn func() (*eval.Report, error)) (*eval.Report, error) {
	if err := checkPair(codes, data); err != nil {
		return nil, err
	}
	start := time.Now()
	rep, err := fn()
	err = translateError(err)

	unclassified := 0
	if rep != nil {
		unclassified = rep.Unclassified
	}
	e.opts.metricsCollector.RecordClassify(data.Len(), time.Since(start), err)
	e.opts.logger.LogClassify(ctx, data.Len(), unclassified, err)
	return rep, err
}

// Compare measures the accuracy of several codebooks on data in parallel,
// bounded by the configured resource controller.
func (e *Engine) Compare(ctx context.Context, data *dataset.Entries, candidates ...eval.Candidate) ([]eval.Result, error) {
	if data == nil || data.Len() == 0 {
		return nil, ErrNoData
	}
	res, err := eval.Compare(ctx, e.opts.resources, e.searcher, data, candidates...)
	return res, translateError(err)
}

// Statistics returns the median nearest same-class distance per class of
// codes. When data is not nil, class deviations are taken from it.
func (e *Engine) Statistics(codes, data *dataset.Entries) *stats.Distances {
	d := stats.MedianDistances(codes, e.dist)
	if data != nil {
		d.Deviations(data)
	}
	return d
}

// SaveCodebook writes a codebook snapshot to store.
func (e *Engine) SaveCodebook(ctx context.Context, store blobstore.Store, name string, snap *persistence.Snapshot, c persistence.Compression) error {
	start := time.Now()
	err := persistence.Save(ctx, store, name, snap, c)
	e.opts.metricsCollector.RecordCheckpoint(time.Since(start), err)
	e.opts.logger.LogCheckpoint(ctx, snap.Iteration, err)
	return err
}

// SaveRates stores OLVQ1 learning rates with the configured codec.
func (e *Engine) SaveRates(ctx context.Context, store blobstore.Store, name string, r *train.Rates) error {
	err := persistence.SaveRates(ctx, store, name, r, e.opts.codec)
	e.opts.logger.LogRates(ctx, name, err)
	return err
}

// LoadRates reads OLVQ1 learning rates. A missing or unreadable side-car is
// not an error: training then starts from uniform rates, so nil is returned.
func (e *Engine) LoadRates(ctx context.Context, store blobstore.Store, name string) *train.Rates {
	r, err := persistence.LoadRates(ctx, store, name)
	if err != nil {
		if !errors.Is(err, blobstore.ErrNotFound) {
			e.opts.logger.LogRates(ctx, name, err)
		}
		return nil
	}
	return r
}
