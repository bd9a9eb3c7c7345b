package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/lvqgo"
	"github.com/hupe1980/lvqgo/codebook"
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/train"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// File extensions written by the run pipeline, appended to RunConfig.Name.
const (
	extInit       = ".ini" // initialized (and balanced) codebook
	extTrain      = ".cod" // OLVQ1 codebook
	extFineTune   = ".lvq" // fine-tuned codebook
	extClassified = ".cfo" // test data labeled by the final codebook
	extAccuracy   = ".acc" // accuracy report
	extRates      = ".lra" // current OLVQ1 learning rates
	extInitRates  = ".lrs" // learning rates after balancing
	extTrainRates = ".lrt" // learning rates after OLVQ1
	extLog        = ".log" // run log
)

// RunLog is the record of a pipeline run, stored as YAML.
type RunLog struct {
	ID              string     `yaml:"id"`
	Started         time.Time  `yaml:"started"`
	Config          RunConfig  `yaml:"config"`
	TrainingEntries int        `yaml:"training_entries"`
	Stages          []StageLog `yaml:"stages"`
	// Accuracy is the total accuracy of the final codebook in percent.
	Accuracy float64 `yaml:"accuracy"`
}

// StageLog records one pipeline stage.
type StageLog struct {
	Name      string `yaml:"name"`
	Output    string `yaml:"output"`
	Length    int64  `yaml:"length,omitempty"`
	Codebooks int    `yaml:"codebooks"`
}

var runCmd = &cobra.Command{
	Use:   "run <config.yaml>",
	Short: "Build a classifier end to end from a YAML description",
	Long: `Build a classifier end to end: initialize the codebook, optionally balance
it, train it with OLVQ1, optionally fine-tune it with LVQ1, LVQ2.1 or LVQ3 and
measure its accuracy on the test data.

With name "speech" the run writes speech.ini, speech.cod, speech.lvq,
speech.cfo, speech.acc, the learning rate files speech.lra, speech.lrs and
speech.lrt, and the run log speech.log.`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := LoadRunConfig(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	log, err := newPipeline(s, cfg, cmd.OutOrStdout()).run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "run %s finished: accuracy %.2f %%\n", log.ID, log.Accuracy)
	return nil
}

type pipeline struct {
	s   *session
	cfg RunConfig
	out io.Writer
	log RunLog
}

func newPipeline(s *session, cfg RunConfig, out io.Writer) *pipeline {
	id := uuid.NewString()
	s.logger = s.logger.WithRun(id)
	return &pipeline{
		s:   s,
		cfg: cfg,
		out: out,
		log: RunLog{ID: id, Started: time.Now().UTC(), Config: cfg},
	}
}

func (p *pipeline) file(ext string) string {
	return p.cfg.Name + ext
}

func (p *pipeline) stage(name, ext string, length int64, codes *dataset.Entries) {
	p.log.Stages = append(p.log.Stages, StageLog{
		Name:      name,
		Output:    p.file(ext),
		Length:    length,
		Codebooks: codes.Len(),
	})
}

func (p *pipeline) run(ctx context.Context) (*RunLog, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}
	alloc, err := codebook.ParseAllocation(p.cfg.Allocation)
	if err != nil {
		return nil, err
	}

	data, err := p.s.load(ctx, p.cfg.Data)
	if err != nil {
		return nil, err
	}
	test := data
	if p.cfg.Test != "" {
		if test, err = p.s.load(ctx, p.cfg.Test); err != nil {
			return nil, err
		}
	}
	p.log.TrainingEntries = data.Len()

	eng, err := p.s.engine(lvqgo.WithKNN(p.cfg.KNN))
	if err != nil {
		return nil, err
	}

	codes, rates, err := p.initialize(ctx, eng, data, alloc)
	if err != nil {
		return nil, err
	}
	codes, err = p.train(ctx, eng, codes, data, rates)
	if err != nil {
		return nil, err
	}
	codes, err = p.fineTune(ctx, eng, codes, data)
	if err != nil {
		return nil, err
	}
	if err := p.evaluate(ctx, eng, codes, test); err != nil {
		return nil, err
	}

	raw, err := yaml.Marshal(&p.log)
	if err != nil {
		return nil, err
	}
	if err := p.s.store.Put(ctx, p.file(extLog), raw); err != nil {
		return nil, err
	}
	return &p.log, nil
}

// initialize picks the codebook and runs the balancing rounds. The rates of
// the last balancing round seed OLVQ1.
func (p *pipeline) initialize(ctx context.Context, eng *lvqgo.Engine, data *dataset.Entries, alloc codebook.Allocation) (*dataset.Entries, *train.Rates, error) {
	codes, err := eng.Initialize(ctx, data, p.cfg.Codebooks, alloc)
	if err != nil {
		return nil, nil, err
	}
	fmt.Fprintf(p.out, "initialized %d codebook vectors (%s)\n", codes.Len(), alloc)
	printDistances(p.out, eng.Statistics(codes, nil), p.s.table)

	var rates *train.Rates
	for round := range p.cfg.BalanceRounds {
		res, err := eng.Balance(ctx, codes, data)
		if err != nil {
			return nil, nil, fmt.Errorf("balance round %d: %w", round+1, err)
		}
		codes, rates = res.Codebook, res.Rates
		fmt.Fprintf(p.out, "balance round %d: forced %d, removed %d, added %d\n",
			round+1, res.Forced, res.Removed, res.Added)
	}
	if p.cfg.BalanceRounds > 0 {
		printDistances(p.out, eng.Statistics(codes, nil), p.s.table)
	}

	if err := p.s.save(ctx, p.file(extInit), codes); err != nil {
		return nil, nil, err
	}
	p.stage("init", extInit, 0, codes)

	if rates != nil {
		for _, ext := range []string{extRates, extInitRates} {
			if err := eng.SaveRates(ctx, p.s.store, p.file(ext), rates); err != nil {
				return nil, nil, err
			}
		}
	}
	return codes, rates, nil
}

func (p *pipeline) train(ctx context.Context, eng *lvqgo.Engine, codes, data *dataset.Entries, rates *train.Rates) (*dataset.Entries, error) {
	length := p.cfg.Train.Length
	if length == 0 {
		length = int64(DefaultTrainFactor * p.cfg.Codebooks)
	}

	res, err := eng.Train(ctx, train.OLVQ1, lvqgo.TrainParams{
		Codebook: codes,
		Data:     data,
		Length:   length,
		Rates:    rates,
	})
	if err != nil {
		return nil, err
	}
	if err := p.s.save(ctx, p.file(extTrain), res.Codebook); err != nil {
		return nil, err
	}
	for _, ext := range []string{extRates, extTrainRates} {
		if err := eng.SaveRates(ctx, p.s.store, p.file(ext), res.Rates); err != nil {
			return nil, err
		}
	}
	p.stage(train.OLVQ1.String(), extTrain, length, res.Codebook)
	fmt.Fprintf(p.out, "olvq1: %d iterations\n", length)
	return res.Codebook, nil
}

func (p *pipeline) fineTune(ctx context.Context, eng *lvqgo.Engine, codes, data *dataset.Entries) (*dataset.Entries, error) {
	ft := p.cfg.FineTune
	if ft.Algorithm == "" {
		return codes, nil
	}
	algo, err := train.ParseAlgorithm(ft.Algorithm)
	if err != nil {
		return nil, err
	}
	length := ft.Length
	if length == 0 {
		length = int64(DefaultFineTuneFactor * data.Len())
	}

	res, err := eng.Train(ctx, algo, lvqgo.TrainParams{
		Codebook: codes,
		Data:     data,
		Length:   length,
		Alpha:    ft.Alpha,
		Window:   ft.Window,
		Epsilon:  ft.Epsilon,
	})
	if err != nil {
		return nil, err
	}
	if err := p.s.save(ctx, p.file(extFineTune), res.Codebook); err != nil {
		return nil, err
	}
	p.stage(algo.String(), extFineTune, length, res.Codebook)
	fmt.Fprintf(p.out, "%s: %d iterations\n", algo, length)
	return res.Codebook, nil
}

// evaluate writes the labeled test data and the accuracy report.
func (p *pipeline) evaluate(ctx context.Context, eng *lvqgo.Engine, codes, test *dataset.Entries) error {
	rep, err := eng.Accuracy(ctx, codes, test)
	if err != nil {
		return err
	}
	predicted, err := eng.Classify(ctx, codes, test)
	if err != nil {
		return err
	}

	labeled := test.Clone()
	for i, e := range labeled.All() {
		e.Label = predicted[i]
	}
	if err := p.s.save(ctx, p.file(extClassified), labeled); err != nil {
		return err
	}

	var buf bytes.Buffer
	printReport(&buf, rep, p.s.table)
	if err := p.s.store.Put(ctx, p.file(extAccuracy), buf.Bytes()); err != nil {
		return err
	}
	if _, err := p.out.Write(buf.Bytes()); err != nil {
		return err
	}
	p.log.Accuracy = rep.Percent()
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
