package segy

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// File is a read-only SEG-Y file with fixed-length traces.
type File struct {
	f          *os.File
	path       string
	order      binary.ByteOrder
	format     SampleFormat
	text       []TextHeader
	bin        BinaryHeader
	samples    []float64
	interval   int
	traceCount int
	dataStart  int64
	traceSize  int64
}

// opens a SEG-Y file and derives its sample axis and trace count
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	file, err := open(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	return file, nil
}

func open(f *os.File, path string) (*File, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	var hdr [FileHeaderSize]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}

	order, err := detectByteOrder(hdr[:])
	if err != nil {
		return nil, err
	}

	file := &File{
		f:     f,
		path:  path,
		order: order,
		bin:   NewBinaryHeader(order),
	}
	var text TextHeader
	copy(text[:], hdr[:TextHeaderSize])
	file.text = append(file.text, text)
	copy(file.bin.raw[:], hdr[TextHeaderSize:])
	file.format = SampleFormat(file.bin.Field(BinFormat))

	ext := file.bin.Field(BinExtendedHeaders)
	if ext < 0 {
		return nil, fmt.Errorf("%w: variable number of extended textual headers", ErrUnsupported)
	}
	for i := 0; i < ext; i++ {
		var h TextHeader
		if _, err := io.ReadFull(f, h[:]); err != nil {
			return nil, fmt.Errorf("failed to read extended textual header %d: %w", i+1, err)
		}
		file.text = append(file.text, h)
	}
	file.dataStart = int64(FileHeaderSize + ext*TextHeaderSize)

	sampleCount := file.bin.Field(BinSamples)
	file.interval = file.bin.Field(BinInterval)
	var delay int
	if info.Size() >= file.dataStart+TraceHeaderSize {
		first := NewTraceHeader(order)
		if _, err := f.ReadAt(first.raw[:], file.dataStart); err != nil {
			return nil, fmt.Errorf("failed to read first trace header: %w", err)
		}
		delay = first.Field(TraceDelayRecordingTime)
		if sampleCount == 0 {
			sampleCount = first.Field(TraceSampleCount)
		}
		if file.interval == 0 {
			file.interval = first.Field(TraceSampleInterval)
		}
	}
	if sampleCount <= 0 {
		return nil, fmt.Errorf("%w: no sample count in binary or trace header", ErrUnsupported)
	}
	if file.interval <= 0 {
		file.interval = DefaultInterval
	}

	file.traceSize = int64(TraceHeaderSize + sampleCount*file.format.Size())
	data := info.Size() - file.dataStart
	if data < 0 {
		return nil, fmt.Errorf("file is shorter than its %d byte header", file.dataStart)
	}
	if data%file.traceSize != 0 {
		return nil, fmt.Errorf(
			"%w: trace data of %d bytes is not a multiple of the %d byte trace size",
			ErrUnsupported,
			data,
			file.traceSize,
		)
	}
	file.traceCount = int(data / file.traceSize)
	file.samples = sampleAxis(float64(delay), file.interval, sampleCount)

	return file, nil
}

// t0 + i*dt in milliseconds, dt given in microseconds
func sampleAxis(t0 float64, interval, n int) []float64 {
	dt := float64(interval) / 1000
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = t0 + float64(i)*dt
	}
	return samples
}

// byte order from the rev 2 constant, else the one that yields a valid format
func detectByteOrder(hdr []byte) (binary.ByteOrder, error) {
	constant := hdr[BinByteOrderConstant.Pos-1 : BinByteOrderConstant.Pos+3]
	switch binary.BigEndian.Uint32(constant) {
	case 0x01020304:
		return binary.BigEndian, nil
	case 0x04030201:
		return binary.LittleEndian, nil
	}
	code := hdr[BinFormat.Pos-1 : BinFormat.Pos+1]
	be := SampleFormat(int16(binary.BigEndian.Uint16(code)))
	if be.Valid() {
		return binary.BigEndian, nil
	}
	if le := SampleFormat(int16(binary.LittleEndian.Uint16(code))); le.Valid() {
		return binary.LittleEndian, nil
	}
	return nil, fmt.Errorf("%w: sample format code %d", ErrUnsupported, int16(be))
}

func (f *File) Close() error {
	return f.f.Close()
}

func (f *File) Path() string {
	return f.path
}

func (f *File) TraceCount() int {
	return f.traceCount
}

func (f *File) SampleCount() int {
	return len(f.samples)
}

// sample interval in microseconds
func (f *File) Interval() int {
	return f.interval
}

// copy of the sample axis in milliseconds
func (f *File) Samples() []float64 {
	return append([]float64(nil), f.samples...)
}

func (f *File) Format() SampleFormat {
	return f.format
}

func (f *File) ByteOrder() binary.ByteOrder {
	return f.order
}

// primary textual header followed by any extended ones
func (f *File) Text() []TextHeader {
	return append([]TextHeader(nil), f.text...)
}

func (f *File) Bin() BinaryHeader {
	return f.bin
}

func (f *File) Header(i int) (TraceHeader, error) {
	h := NewTraceHeader(f.order)
	if err := f.checkIndex(i); err != nil {
		return h, err
	}
	if _, err := f.f.ReadAt(h.raw[:], f.traceOffset(i)); err != nil {
		return h, fmt.Errorf("failed to read trace header %d: %w", i, err)
	}
	return h, nil
}

// raw sample bytes of trace i, read into buf when it is large enough
func (f *File) RawTrace(i int, buf []byte) ([]byte, error) {
	if err := f.checkIndex(i); err != nil {
		return nil, err
	}
	n := len(f.samples) * f.format.Size()
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	if _, err := f.f.ReadAt(buf, f.traceOffset(i)+TraceHeaderSize); err != nil {
		return nil, fmt.Errorf("failed to read trace %d: %w", i, err)
	}
	return buf, nil
}

// decoded samples of trace i
func (f *File) Trace(i int) ([]float32, error) {
	raw, err := f.RawTrace(i, nil)
	if err != nil {
		return nil, err
	}
	samples := make([]float32, len(f.samples))
	if err := decodeSamples(samples, raw, f.format, f.order); err != nil {
		return nil, err
	}
	return samples, nil
}

func (f *File) checkIndex(i int) error {
	if i < 0 || i >= f.traceCount {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrTraceIndex, i, f.traceCount)
	}
	return nil
}

func (f *File) traceOffset(i int) int64 {
	return f.dataStart + int64(i)*f.traceSize
}
