package tx

import "math"

// Checked arithmetic. Fee computation must treat overflow as a violation,
// never as a wrap.

func addUint64(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

func mulUint64(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}

// divCeil computes ceil(a/b). b must be non-zero; parameters are validated
// before any fee math runs.
func divCeil(a, b uint64) uint64 {
	return a/b + boolToUint64(a%b != 0)
}

func boolToUint64(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}
