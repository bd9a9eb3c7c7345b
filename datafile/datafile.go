// Package datafile reads and writes the plain-text vector format shared by
// training data and codebook files.
//
// The first non-comment line holds the dimension, optionally followed by
// topology tokens. Every further line is one entry: dimension
// whitespace-separated components, where "x" marks a missing component,
// followed by an optional label. Lines starting with '#' and blank lines are
// ignored. Tokens after the label are ignored.
package datafile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/lvqgo/blobstore"
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/hupe1980/lvqgo/labels"
)

// MissingToken marks a missing component.
const MissingToken = "x"

// ErrNoHeader is returned when the input has no dimension line.
var ErrNoHeader = errors.New("datafile: missing dimension header")

// ParseError reports a malformed line.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("datafile: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Read parses a collection from r, resolving label names through table.
func Read(r io.Reader, table *labels.Table) (*dataset.Entries, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		es   *dataset.Entries
		line int
	)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)

		if es == nil {
			dim, err := strconv.Atoi(fields[0])
			if err != nil || dim <= 0 {
				return nil, &ParseError{Line: line, Err: fmt.Errorf("invalid dimension %q", fields[0])}
			}
			es = dataset.New(dim)
			es.SetTopology(strings.Join(fields[1:], " "))
			continue
		}

		e, err := parseEntry(fields, es.Dimension(), table)
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		if err := es.Append(e); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if es == nil {
		return nil, ErrNoHeader
	}
	es.SetTotalKnown(true)
	return es, nil
}

func parseEntry(fields []string, dim int, table *labels.Table) (*dataset.Entry, error) {
	if len(fields) < dim {
		return nil, fmt.Errorf("expected %d components, got %d", dim, len(fields))
	}
	e := dataset.NewEntry(make([]float32, dim), dataset.NoLabel)
	for i, f := range fields[:dim] {
		if f == MissingToken {
			e.SetMissing(i)
			continue
		}
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i+1, err)
		}
		e.Points[i] = float32(v)
	}
	if e.MissingCount() == dim {
		return nil, errors.New("all components missing")
	}
	if len(fields) > dim {
		e.Label = table.ID(fields[dim])
	}
	return e, nil
}

// Write formats es to w. Entries with dataset.NoLabel are written without a label.
func Write(w io.Writer, es *dataset.Entries, table *labels.Table) error {
	bw := bufio.NewWriter(w)

	header := strconv.Itoa(es.Dimension())
	if t := es.Topology(); t != "" {
		header += " " + t
	}
	if _, err := bw.WriteString(header + "\n"); err != nil {
		return err
	}

	buf := make([]byte, 0, 256)
	for _, e := range es.All() {
		buf = buf[:0]
		for i, p := range e.Points {
			if i > 0 {
				buf = append(buf, ' ')
			}
			if e.Missing(i) {
				buf = append(buf, MissingToken...)
			} else {
				buf = strconv.AppendFloat(buf, float64(p), 'g', -1, 32)
			}
		}
		if e.Label != dataset.NoLabel {
			buf = append(buf, ' ')
			buf = append(buf, table.Name(e.Label)...)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load reads the blob called name from store.
func Load(ctx context.Context, store blobstore.Store, name string, table *labels.Table) (*dataset.Entries, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}
	es, err := Read(bytes.NewReader(data), table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return es, nil
}

// Save writes es to the blob called name in store.
func Save(ctx context.Context, store blobstore.Store, name string, es *dataset.Entries, table *labels.Table) error {
	var buf bytes.Buffer
	if err := Write(&buf, es, table); err != nil {
		return err
	}
	return store.Put(ctx, name, buf.Bytes())
}
