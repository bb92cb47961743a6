package segy

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Field locates a header word. Pos is the 1-based byte position as
// printed in the standard; binary header positions are absolute
// (3201-3600), trace header positions are relative (1-240).
type Field struct {
	Name     string
	Pos      int
	Width    int // 1, 2 or 4 bytes
	Unsigned bool
}

type BinField = Field

type TraceField = Field

// binary header fields
var (
	BinJobID                 = BinField{"JobID", 3201, 4, false}
	BinLineNumber            = BinField{"LineNumber", 3205, 4, false}
	BinReelNumber            = BinField{"ReelNumber", 3209, 4, false}
	BinTraces                = BinField{"Traces", 3213, 2, false}
	BinAuxTraces             = BinField{"AuxTraces", 3215, 2, false}
	BinInterval              = BinField{"Interval", 3217, 2, true}
	BinIntervalOriginal      = BinField{"IntervalOriginal", 3219, 2, true}
	BinSamples               = BinField{"Samples", 3221, 2, true}
	BinSamplesOriginal       = BinField{"SamplesOriginal", 3223, 2, true}
	BinFormat                = BinField{"Format", 3225, 2, false}
	BinEnsembleFold          = BinField{"EnsembleFold", 3227, 2, false}
	BinSortingCode           = BinField{"SortingCode", 3229, 2, false}
	BinVerticalSum           = BinField{"VerticalSum", 3231, 2, false}
	BinSweepFrequencyStart   = BinField{"SweepFrequencyStart", 3233, 2, false}
	BinSweepFrequencyEnd     = BinField{"SweepFrequencyEnd", 3235, 2, false}
	BinSweepLength           = BinField{"SweepLength", 3237, 2, false}
	BinSweep                 = BinField{"Sweep", 3239, 2, false}
	BinSweepChannel          = BinField{"SweepChannel", 3241, 2, false}
	BinSweepTaperStart       = BinField{"SweepTaperStart", 3243, 2, false}
	BinSweepTaperEnd         = BinField{"SweepTaperEnd", 3245, 2, false}
	BinTaper                 = BinField{"Taper", 3247, 2, false}
	BinCorrelatedTraces      = BinField{"CorrelatedTraces", 3249, 2, false}
	BinBinaryGainRecovery    = BinField{"BinaryGainRecovery", 3251, 2, false}
	BinAmplitudeRecovery     = BinField{"AmplitudeRecovery", 3253, 2, false}
	BinMeasurementSystem     = BinField{"MeasurementSystem", 3255, 2, false}
	BinImpulseSignalPolarity = BinField{"ImpulseSignalPolarity", 3257, 2, false}
	BinVibratoryPolarity     = BinField{"VibratoryPolarity", 3259, 2, false}
	BinByteOrderConstant     = BinField{"ByteOrderConstant", 3297, 4, true}
	BinSEGYRevision          = BinField{"SEGYRevision", 3501, 2, false}
	BinTraceFlag             = BinField{"TraceFlag", 3503, 2, false}
	BinExtendedHeaders       = BinField{"ExtendedHeaders", 3505, 2, false}
)

// trace header fields
var (
	TraceSequenceLine          = TraceField{"TraceSequenceLine", 1, 4, false}
	TraceSequenceFile          = TraceField{"TraceSequenceFile", 5, 4, false}
	TraceFieldRecord           = TraceField{"FieldRecord", 9, 4, false}
	TraceNumber                = TraceField{"TraceNumber", 13, 4, false}
	TraceEnergySourcePoint     = TraceField{"EnergySourcePoint", 17, 4, false}
	TraceCDP                   = TraceField{"CDP", 21, 4, false}
	TraceCDPTrace              = TraceField{"CDPTrace", 25, 4, false}
	TraceIdentificationCode    = TraceField{"TraceIdentificationCode", 29, 2, false}
	TraceOffset                = TraceField{"Offset", 37, 4, false}
	TraceReceiverElevation     = TraceField{"ReceiverGroupElevation", 41, 4, false}
	TraceSourceElevation       = TraceField{"SourceSurfaceElevation", 45, 4, false}
	TraceSourceDepth           = TraceField{"SourceDepth", 49, 4, false}
	TraceElevationScalar       = TraceField{"ElevationScalar", 69, 2, false}
	TraceCoordinateScalar      = TraceField{"SourceGroupScalar", 71, 2, false}
	TraceSourceX               = TraceField{"SourceX", 73, 4, false}
	TraceSourceY               = TraceField{"SourceY", 77, 4, false}
	TraceGroupX                = TraceField{"GroupX", 81, 4, false}
	TraceGroupY                = TraceField{"GroupY", 85, 4, false}
	TraceCoordinateUnits       = TraceField{"CoordinateUnits", 89, 2, false}
	TraceLagTimeA              = TraceField{"LagTimeA", 105, 2, false}
	TraceLagTimeB              = TraceField{"LagTimeB", 107, 2, false}
	TraceDelayRecordingTime    = TraceField{"DelayRecordingTime", 109, 2, false}
	TraceMuteTimeStart         = TraceField{"MuteTimeStart", 111, 2, false}
	TraceMuteTimeEnd           = TraceField{"MuteTimeEnd", 113, 2, false}
	TraceSampleCount           = TraceField{"SampleCount", 115, 2, true}
	TraceSampleInterval        = TraceField{"SampleInterval", 117, 2, true}
	TraceYearDataRecorded      = TraceField{"YearDataRecorded", 157, 2, false}
	TraceDayOfYear             = TraceField{"DayOfYear", 159, 2, false}
	TraceHourOfDay             = TraceField{"HourOfDay", 161, 2, false}
	TraceMinuteOfHour          = TraceField{"MinuteOfHour", 163, 2, false}
	TraceSecondOfMinute        = TraceField{"SecondOfMinute", 165, 2, false}
	TraceTimeBaseCode          = TraceField{"TimeBaseCode", 167, 2, false}
	TraceCDPX                  = TraceField{"CDPX", 181, 4, false}
	TraceCDPY                  = TraceField{"CDPY", 185, 4, false}
	TraceInline3D              = TraceField{"Inline3D", 189, 4, false}
	TraceCrossline3D           = TraceField{"Crossline3D", 193, 4, false}
	TraceShotPoint             = TraceField{"ShotPoint", 197, 4, false}
	TraceShotPointScalar       = TraceField{"ShotPointScalar", 201, 2, false}
	TraceValueUnit             = TraceField{"TraceValueMeasurementUnit", 203, 2, false}
	TraceTransductionConstant  = TraceField{"TransductionConstantMantissa", 205, 4, false}
	TraceSourceMeasurementUnit = TraceField{"SourceMeasurementUnit", 231, 2, false}
)

// BinaryHeader is the 400-byte binary file header.
type BinaryHeader struct {
	raw   [BinaryHeaderSize]byte
	order binary.ByteOrder
}

func NewBinaryHeader(order binary.ByteOrder) BinaryHeader {
	return BinaryHeader{order: order}
}

func (h *BinaryHeader) Bytes() []byte {
	return h.raw[:]
}

func (h *BinaryHeader) ByteOrder() binary.ByteOrder {
	return h.order
}

func (h *BinaryHeader) Field(f BinField) int {
	v, _ := getField(h.raw[:], f.Pos-TextHeaderSize-1, f, h.order)
	return v
}

func (h *BinaryHeader) SetField(f BinField, v int) error {
	return setField(h.raw[:], f.Pos-TextHeaderSize-1, f, h.order, v)
}

// TraceHeader is the 240-byte header in front of every trace.
type TraceHeader struct {
	raw   [TraceHeaderSize]byte
	order binary.ByteOrder
}

func NewTraceHeader(order binary.ByteOrder) TraceHeader {
	return TraceHeader{order: order}
}

func (h *TraceHeader) Bytes() []byte {
	return h.raw[:]
}

func (h *TraceHeader) ByteOrder() binary.ByteOrder {
	return h.order
}

func (h *TraceHeader) Field(f TraceField) int {
	v, _ := getField(h.raw[:], f.Pos-1, f, h.order)
	return v
}

func (h *TraceHeader) SetField(f TraceField, v int) error {
	return setField(h.raw[:], f.Pos-1, f, h.order, v)
}

func getField(raw []byte, off int, f Field, order binary.ByteOrder) (int, error) {
	if off < 0 || off+f.Width > len(raw) {
		return 0, fmt.Errorf("field %s at byte %d outside header", f.Name, f.Pos)
	}
	if order == nil {
		order = binary.BigEndian
	}
	b := raw[off : off+f.Width]
	switch f.Width {
	case 1:
		if f.Unsigned {
			return int(b[0]), nil
		}
		return int(int8(b[0])), nil
	case 2:
		if f.Unsigned {
			return int(order.Uint16(b)), nil
		}
		return int(int16(order.Uint16(b))), nil
	case 4:
		if f.Unsigned {
			return int(order.Uint32(b)), nil
		}
		return int(int32(order.Uint32(b))), nil
	default:
		return 0, fmt.Errorf("field %s has unsupported width %d", f.Name, f.Width)
	}
}

func setField(raw []byte, off int, f Field, order binary.ByteOrder, v int) error {
	if off < 0 || off+f.Width > len(raw) {
		return fmt.Errorf("field %s at byte %d outside header", f.Name, f.Pos)
	}
	lo, hi, err := fieldRange(f)
	if err != nil {
		return err
	}
	if int64(v) < lo || int64(v) > hi {
		return fmt.Errorf("%w: %s=%d (allowed %d..%d)", ErrFieldRange, f.Name, v, lo, hi)
	}
	if order == nil {
		order = binary.BigEndian
	}
	b := raw[off : off+f.Width]
	switch f.Width {
	case 1:
		b[0] = byte(v)
	case 2:
		order.PutUint16(b, uint16(v))
	case 4:
		order.PutUint32(b, uint32(v))
	}
	return nil
}

func fieldRange(f Field) (int64, int64, error) {
	switch {
	case f.Width == 1 && f.Unsigned:
		return 0, math.MaxUint8, nil
	case f.Width == 1:
		return math.MinInt8, math.MaxInt8, nil
	case f.Width == 2 && f.Unsigned:
		return 0, math.MaxUint16, nil
	case f.Width == 2:
		return math.MinInt16, math.MaxInt16, nil
	case f.Width == 4 && f.Unsigned:
		return 0, math.MaxUint32, nil
	case f.Width == 4:
		return math.MinInt32, math.MaxInt32, nil
	}
	return 0, 0, fmt.Errorf("field %s has unsupported width %d", f.Name, f.Width)
}
