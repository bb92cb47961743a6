// Package segy reads and writes SEG-Y seismic files with fixed-length traces.
//
// A SEG-Y file is a 3200-byte textual header, a 400-byte binary header,
// zero or more 3200-byte extended textual headers and then the traces, each
// a 240-byte trace header followed by the samples. Header fields are
// addressed by their 1-based byte position as printed in the SEG-Y standard.
package segy

import (
	"errors"
	"fmt"
)

const (
	TextHeaderSize   = 3200
	BinaryHeaderSize = 400
	TraceHeaderSize  = 240

	// size of the mandatory file header: textual plus binary header
	FileHeaderSize = TextHeaderSize + BinaryHeaderSize

	// default sample interval in microseconds when neither header has one
	DefaultInterval = 4000
)

var (
	ErrUnsupported = errors.New("unsupported SEG-Y layout")
	ErrTraceIndex  = errors.New("trace index out of range")
	ErrFieldRange  = errors.New("value out of range for header field")
)

// data sample format code from binary header bytes 3225-3226
type SampleFormat int16

const (
	FormatIBMFloat32  SampleFormat = 1
	FormatInt32       SampleFormat = 2
	FormatInt16       SampleFormat = 3
	FormatIEEEFloat32 SampleFormat = 5
	FormatInt8        SampleFormat = 8
)

// bytes per sample, 0 for unsupported codes
func (f SampleFormat) Size() int {
	switch f {
	case FormatIBMFloat32, FormatInt32, FormatIEEEFloat32:
		return 4
	case FormatInt16:
		return 2
	case FormatInt8:
		return 1
	default:
		return 0
	}
}

func (f SampleFormat) Valid() bool {
	return f.Size() != 0
}

func (f SampleFormat) String() string {
	switch f {
	case FormatIBMFloat32:
		return "ibm-float32"
	case FormatInt32:
		return "int32"
	case FormatInt16:
		return "int16"
	case FormatIEEEFloat32:
		return "ieee-float32"
	case FormatInt8:
		return "int8"
	default:
		return fmt.Sprintf("format(%d)", int16(f))
	}
}
