package segy

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Spec describes the structure of a file to be written.
type Spec struct {
	Text       []TextHeader // primary textual header first
	Bin        BinaryHeader
	Format     SampleFormat
	Order      binary.ByteOrder
	Samples    []float64 // sample axis in milliseconds
	TraceCount int
}

// output description derived from an open file, safe to modify
func Metadata(f *File) *Spec {
	return &Spec{
		Text:       f.Text(),
		Bin:        f.Bin(),
		Format:     f.format,
		Order:      f.order,
		Samples:    f.Samples(),
		TraceCount: f.traceCount,
	}
}

// spec for a new file with blank headers and samples every interval
// microseconds starting at zero
func NewSpec(
	format SampleFormat,
	order binary.ByteOrder,
	sampleCount, interval, traceCount int,
) (*Spec, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: sample format %s", ErrUnsupported, format)
	}
	text, err := NewTextHeader("C 1 CLIENT", true)
	if err != nil {
		return nil, err
	}
	spec := &Spec{
		Text:       []TextHeader{text},
		Bin:        NewBinaryHeader(order),
		Format:     format,
		Order:      order,
		Samples:    sampleAxis(0, interval, sampleCount),
		TraceCount: traceCount,
	}
	fields := []struct {
		f BinField
		v int
	}{
		{BinInterval, interval},
		{BinSamples, sampleCount},
		{BinFormat, int(format)},
		{BinSEGYRevision, 0x0100},
		{BinTraceFlag, 1},
	}
	for _, kv := range fields {
		if err := spec.Bin.SetField(kv.f, kv.v); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

func (s *Spec) validate() error {
	if !s.Format.Valid() {
		return fmt.Errorf("%w: sample format %s", ErrUnsupported, s.Format)
	}
	if s.Order == nil {
		return errors.New("spec has no byte order")
	}
	if len(s.Text) == 0 {
		return errors.New("spec has no textual header")
	}
	if len(s.Samples) == 0 {
		return errors.New("spec has an empty sample axis")
	}
	if n := s.Bin.Field(BinSamples); n != len(s.Samples) {
		return fmt.Errorf(
			"binary header sample count %d does not match sample axis length %d",
			n,
			len(s.Samples),
		)
	}
	if code := s.Bin.Field(BinFormat); SampleFormat(code) != s.Format {
		return fmt.Errorf("binary header format %d does not match spec format %s", code, s.Format)
	}
	if ext := s.Bin.Field(BinExtendedHeaders); ext != len(s.Text)-1 {
		return fmt.Errorf(
			"binary header announces %d extended textual headers, spec has %d",
			ext,
			len(s.Text)-1,
		)
	}
	if s.Bin.order != nil && s.Bin.order != s.Order {
		return errors.New("binary header byte order differs from spec byte order")
	}
	return nil
}

// Writer writes traces sequentially after the file headers.
type Writer struct {
	w           *bufio.Writer
	spec        *Spec
	next        int
	sampleBytes int
	buf         []byte
}

// writes the textual and binary headers described by spec to w
func Create(w io.Writer, spec *Spec) (*Writer, error) {
	if err := spec.validate(); err != nil {
		return nil, fmt.Errorf("invalid output spec: %w", err)
	}
	bw := bufio.NewWriterSize(w, 1<<20)
	if _, err := bw.Write(spec.Text[0][:]); err != nil {
		return nil, err
	}
	bin := spec.Bin
	if _, err := bw.Write(bin.raw[:]); err != nil {
		return nil, err
	}
	for _, ext := range spec.Text[1:] {
		if _, err := bw.Write(ext[:]); err != nil {
			return nil, err
		}
	}
	return &Writer{
		w:           bw,
		spec:        spec,
		sampleBytes: len(spec.Samples) * spec.Format.Size(),
	}, nil
}

// encodes and writes trace i
func (w *Writer) WriteTrace(i int, h TraceHeader, samples []float32) error {
	if len(samples) != len(w.spec.Samples) {
		return fmt.Errorf("trace %d has %d samples, want %d", i, len(samples), len(w.spec.Samples))
	}
	if cap(w.buf) < w.sampleBytes {
		w.buf = make([]byte, w.sampleBytes)
	}
	raw := w.buf[:w.sampleBytes]
	if err := encodeSamples(raw, samples, w.spec.Format, w.spec.Order); err != nil {
		return err
	}
	return w.WriteRawTrace(i, h, raw)
}

// writes trace i with samples already encoded in the output format
func (w *Writer) WriteRawTrace(i int, h TraceHeader, raw []byte) error {
	if i != w.next {
		return fmt.Errorf("traces must be written in order: got %d, want %d", i, w.next)
	}
	if i >= w.spec.TraceCount {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrTraceIndex, i, w.spec.TraceCount)
	}
	if len(raw) != w.sampleBytes {
		return fmt.Errorf("trace %d has %d sample bytes, want %d", i, len(raw), w.sampleBytes)
	}
	if h.order != nil && h.order != w.spec.Order {
		return fmt.Errorf("trace %d header byte order differs from file byte order", i)
	}
	if n := h.Field(TraceSampleCount); n != len(w.spec.Samples) {
		return fmt.Errorf(
			"trace %d header sample count %d does not match sample axis length %d",
			i,
			n,
			len(w.spec.Samples),
		)
	}
	if _, err := w.w.Write(h.raw[:]); err != nil {
		return err
	}
	if _, err := w.w.Write(raw); err != nil {
		return err
	}
	w.next++
	return nil
}

// flushes buffered data; the underlying writer is left open
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	if w.next != w.spec.TraceCount {
		return fmt.Errorf("wrote %d of %d traces", w.next, w.spec.TraceCount)
	}
	return nil
}
