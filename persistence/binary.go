package persistence

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/lvqgo/dataset"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// maxStringLen bounds strings read from a snapshot body.
const maxStringLen = 1 << 20

// Snapshot is the persisted form of a codebook.
type Snapshot struct {
	Codebook  *dataset.Entries
	Iteration int64
	Algorithm string
	// Labels maps label ids to names. Optional.
	Labels []string
}

// Encode writes s to w.
func Encode(w io.Writer, s *Snapshot, c Compression) error {
	codes := s.Codebook
	if codes == nil {
		return errors.New("persistence: nil codebook")
	}

	h := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: uint8(c),
		Dimension:   uint32(codes.Dimension()),
		Count:       uint64(codes.Len()),
		Iteration:   s.Iteration,
	}
	for _, e := range codes.All() {
		if e.HasMissing() {
			h.Flags |= FlagMasks
			break
		}
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}

	zw, err := compressWriter(w, c)
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(zw, 64*1024)
	cw := NewChecksumWriter(bw)

	enc := &encoder{w: cw}
	enc.string(codes.Topology())
	enc.string(s.Algorithm)
	enc.uvarint(uint64(len(s.Labels)))
	for _, l := range s.Labels {
		enc.string(l)
	}
	for _, e := range codes.All() {
		enc.varint(int64(e.Label))
		enc.floats(e.Points)
		if e.HasMissing() {
			enc.byte(1)
			if enc.err == nil {
				_, enc.err = e.Mask.WriteTo(cw)
			}
		} else {
			enc.byte(0)
		}
	}
	if enc.err != nil {
		return enc.err
	}

	var sum [4]byte
	binary.LittleEndian.PutUint32(sum[:], cw.Sum())
	if _, err := bw.Write(sum[:]); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return zw.Close()
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (*Snapshot, error) {
	var h FileHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if h.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, h.Magic)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidVersion, h.Version)
	}

	zr, err := decompressReader(r, Compression(h.Compression))
	if err != nil {
		return nil, err
	}
	defer func() { _ = zr.Close() }()

	br := bufio.NewReaderSize(zr, 64*1024)
	cr := NewChecksumReader(br)
	dec := &decoder{r: cr}

	s := &Snapshot{Iteration: h.Iteration}
	topology := dec.string()
	s.Algorithm = dec.string()
	if n := dec.uvarint(); dec.err == nil {
		if n > maxStringLen {
			return nil, fmt.Errorf("persistence: label table too large (%d)", n)
		}
		s.Labels = make([]string, 0, n)
		for range n {
			s.Labels = append(s.Labels, dec.string())
		}
	}

	dim := int(h.Dimension)
	codes := dataset.New(dim)
	codes.SetTopology(topology)
	for i := uint64(0); i < h.Count && dec.err == nil; i++ {
		label := dec.varint()
		e := dataset.NewEntry(dec.floats(dim), int(label))
		if dec.byte() == 1 && dec.err == nil {
			m := &bitset.BitSet{}
			if _, err := m.ReadFrom(cr); err != nil {
				return nil, fmt.Errorf("persistence: entry %d mask: %w", i, err)
			}
			e.Mask = m
		}
		if dec.err == nil {
			if err := codes.Append(e); err != nil {
				return nil, err
			}
		}
	}
	if dec.err != nil {
		return nil, fmt.Errorf("persistence: truncated snapshot: %w", dec.err)
	}

	var sum [4]byte
	if _, err := io.ReadFull(br, sum[:]); err != nil {
		return nil, fmt.Errorf("persistence: missing checksum: %w", err)
	}
	if err := cr.Verify(binary.LittleEndian.Uint32(sum[:])); err != nil {
		return nil, err
	}

	s.Codebook = codes
	return s, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func compressWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionZstd:
		return zstd.NewWriter(w)
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidCompression, c)
	}
}

func decompressReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionZstd:
		d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidCompression, c)
	}
}

type encoder struct {
	w   io.Writer
	buf []byte
	err error
}

func (e *encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}

func (e *encoder) byte(b byte) {
	e.buf = append(e.buf[:0], b)
	e.write(e.buf)
}

func (e *encoder) uvarint(v uint64) {
	e.buf = binary.AppendUvarint(e.buf[:0], v)
	e.write(e.buf)
}

func (e *encoder) varint(v int64) {
	e.buf = binary.AppendVarint(e.buf[:0], v)
	e.write(e.buf)
}

func (e *encoder) string(s string) {
	e.uvarint(uint64(len(s)))
	e.write([]byte(s))
}

func (e *encoder) floats(v []float32) {
	e.buf = e.buf[:0]
	for _, f := range v {
		e.buf = binary.LittleEndian.AppendUint32(e.buf, math.Float32bits(f))
	}
	e.write(e.buf)
}

type decoder struct {
	r   io.Reader
	one [1]byte
	err error
}

func (d *decoder) ReadByte() (byte, error) {
	if _, err := io.ReadFull(d.r, d.one[:]); err != nil {
		return 0, err
	}
	return d.one[0], nil
}

func (d *decoder) byte() byte {
	if d.err != nil {
		return 0
	}
	b, err := d.ReadByte()
	d.err = err
	return b
}

func (d *decoder) uvarint() uint64 {
	if d.err != nil {
		return 0
	}
	v, err := binary.ReadUvarint(d)
	d.err = err
	return v
}

func (d *decoder) varint() int64 {
	if d.err != nil {
		return 0
	}
	v, err := binary.ReadVarint(d)
	d.err = err
	return v
}

func (d *decoder) string() string {
	n := d.uvarint()
	if d.err != nil {
		return ""
	}
	if n > maxStringLen {
		d.err = fmt.Errorf("string length %d exceeds limit", n)
		return ""
	}
	b := make([]byte, n)
	_, d.err = io.ReadFull(d.r, b)
	return string(b)
}

func (d *decoder) floats(n int) []float32 {
	out := make([]float32, n)
	if d.err != nil {
		return out
	}
	b := make([]byte, 4*n)
	if _, d.err = io.ReadFull(d.r, b); d.err != nil {
		return out
	}
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}

// SaveToFile writes a file atomically: writeFunc fills a temporary file in
// the same directory, which is synced and renamed over filename.
func SaveToFile(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	_ = tmp.Chmod(0o644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = ""
	return nil
}

// LoadFromFile opens filename and hands a buffered reader to readFunc.
func LoadFromFile(filename string, readFunc func(io.Reader) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return readFunc(bufio.NewReaderSize(f, 256*1024))
}

// WriteFile atomically writes s to filename.
func WriteFile(filename string, s *Snapshot, c Compression) error {
	return SaveToFile(filename, func(w io.Writer) error {
		return Encode(w, s, c)
	})
}

// ReadFile reads a snapshot from filename.
func ReadFile(filename string) (*Snapshot, error) {
	var s *Snapshot
	err := LoadFromFile(filename, func(r io.Reader) error {
		var err error
		s, err = Decode(r)
		return err
	})
	return s, err
}
