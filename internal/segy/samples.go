package segy

import (
	"encoding/binary"
	"fmt"
	"math"
)

// decodes raw trace samples into dst, which must hold len(raw)/format.Size() values
func decodeSamples(dst []float32, raw []byte, format SampleFormat, order binary.ByteOrder) error {
	size := format.Size()
	if size == 0 {
		return fmt.Errorf("%w: sample format %s", ErrUnsupported, format)
	}
	if len(raw) != len(dst)*size {
		return fmt.Errorf("sample buffer holds %d bytes, want %d", len(raw), len(dst)*size)
	}
	for i := range dst {
		b := raw[i*size : (i+1)*size]
		switch format {
		case FormatIBMFloat32:
			dst[i] = IBMToIEEE(order.Uint32(b))
		case FormatIEEEFloat32:
			dst[i] = math.Float32frombits(order.Uint32(b))
		case FormatInt32:
			dst[i] = float32(int32(order.Uint32(b)))
		case FormatInt16:
			dst[i] = float32(int16(order.Uint16(b)))
		case FormatInt8:
			dst[i] = float32(int8(b[0]))
		}
	}
	return nil
}

// encodes samples into dst; integer formats round and saturate
func encodeSamples(dst []byte, src []float32, format SampleFormat, order binary.ByteOrder) error {
	size := format.Size()
	if size == 0 {
		return fmt.Errorf("%w: sample format %s", ErrUnsupported, format)
	}
	if len(dst) != len(src)*size {
		return fmt.Errorf("sample buffer holds %d bytes, want %d", len(dst), len(src)*size)
	}
	for i, v := range src {
		b := dst[i*size : (i+1)*size]
		switch format {
		case FormatIBMFloat32:
			order.PutUint32(b, IEEEToIBM(v))
		case FormatIEEEFloat32:
			order.PutUint32(b, math.Float32bits(v))
		case FormatInt32:
			order.PutUint32(b, uint32(int32(saturate(v, math.MinInt32, math.MaxInt32))))
		case FormatInt16:
			order.PutUint16(b, uint16(int16(saturate(v, math.MinInt16, math.MaxInt16))))
		case FormatInt8:
			b[0] = byte(int8(saturate(v, math.MinInt8, math.MaxInt8)))
		}
	}
	return nil
}

func saturate(v float32, lo, hi float64) float64 {
	f := math.Round(float64(v))
	switch {
	case math.IsNaN(f):
		return 0
	case f < lo:
		return lo
	case f > hi:
		return hi
	}
	return f
}
