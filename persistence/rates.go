package persistence

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hupe1980/lvqgo/blobstore"
	"github.com/hupe1980/lvqgo/codec"
	"github.com/hupe1980/lvqgo/train"
)

// SaveRates writes the OLVQ1 rate side file. The first line names the codec
// so LoadRates can decode files written with any built-in codec. A nil c
// uses codec.Default.
func SaveRates(ctx context.Context, store blobstore.Store, name string, r *train.Rates, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}
	payload, err := c.Marshal(r)
	if err != nil {
		return fmt.Errorf("persistence: encode rates: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(c.Name()) + 1 + len(payload))
	buf.WriteString(c.Name())
	buf.WriteByte('\n')
	buf.Write(payload)

	return store.Put(ctx, name, buf.Bytes())
}

// LoadRates reads a side file written by SaveRates. A missing file yields an
// error satisfying errors.Is(err, blobstore.ErrNotFound).
func LoadRates(ctx context.Context, store blobstore.Store, name string) (*train.Rates, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}

	codecName, payload, ok := bytes.Cut(data, []byte{'\n'})
	if !ok {
		return nil, fmt.Errorf("persistence: rates %s: missing codec line", name)
	}
	c, ok := codec.ByName(string(codecName))
	if !ok {
		return nil, fmt.Errorf("persistence: rates %s: unknown codec %q", name, codecName)
	}

	var r train.Rates
	if err := c.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("persistence: decode rates: %w", err)
	}
	if r.Version != train.RatesVersion {
		return nil, fmt.Errorf("%w: rates version %d", ErrInvalidVersion, r.Version)
	}
	return &r, nil
}
