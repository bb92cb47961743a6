package segy

import "math"

// IBM System/360 single precision: sign bit, 7-bit base-16 exponent biased
// by 64 and a 24-bit fraction in [1/16, 1).

func IBMToIEEE(b uint32) float32 {
	frac := b & 0x00ffffff
	if frac == 0 {
		return 0
	}
	exp := int((b >> 24) & 0x7f)
	v := math.Ldexp(float64(frac), 4*(exp-64)-24)
	if b&0x80000000 != 0 {
		v = -v
	}
	return float32(v)
}

func IEEEToIBM(f float32) uint32 {
	if f == 0 || math.IsNaN(float64(f)) {
		return 0
	}
	var sign uint32
	v := float64(f)
	if v < 0 {
		sign = 0x80000000
		v = -v
	}
	if math.IsInf(v, 0) {
		return sign | 0x7fffffff
	}
	m, k := math.Frexp(v)
	// v = m * 2^k with m in [0.5, 1); rewrite as F * 16^e with F in [1/16, 1)
	e := (k + 3) / 4
	if k+3 < 0 && (k+3)%4 != 0 {
		e--
	}
	frac := uint32(math.Round(math.Ldexp(m, k-4*e+24)))
	if frac >= 1<<24 {
		frac >>= 4
		e++
	}
	exp := e + 64
	switch {
	case exp > 127:
		return sign | 0x7fffffff
	case exp < 0:
		return sign
	}
	return sign | uint32(exp)<<24 | frac
}
