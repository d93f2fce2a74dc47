package tx

// Byte offsets into the canonical encoding, computed from a decoded value.
// Offsets let callers address regions of the raw buffer (predicate code,
// witness slots, gas fields) without re-encoding.

// Word offsets of the gas and maturity scalars, shared by Script and
// Create. Mint carries none of them.
const (
	gasPriceWordOffset = 1 * WordSize
	gasLimitWordOffset = 2 * WordSize
	maturityWordOffset = 3 * WordSize
)

// GasPriceOffset returns the offset of the gasPrice word. ok is false for
// Mint.
func GasPriceOffset(t Transaction) (int, bool) {
	switch t.(type) {
	case *Script, *Create:
		return gasPriceWordOffset, true
	default:
		return 0, false
	}
}

// GasLimitOffset returns the offset of the gasLimit word. ok is false for
// Mint.
func GasLimitOffset(t Transaction) (int, bool) {
	switch t.(type) {
	case *Script, *Create:
		return gasLimitWordOffset, true
	default:
		return 0, false
	}
}

// MaturityOffset returns the offset of the maturity word. ok is false for
// Mint.
func MaturityOffset(t Transaction) (int, bool) {
	switch t.(type) {
	case *Script, *Create:
		return maturityWordOffset, true
	default:
		return 0, false
	}
}

// ReceiptsRootOffset returns the offset of the receipts root. ok is false
// for non-Script variants.
func ReceiptsRootOffset(t Transaction) (int, bool) {
	if _, isScript := t.(*Script); !isScript {
		return 0, false
	}
	return 9 * WordSize, true
}

// ScriptOffset returns the offset of the script bytes. ok is false for
// non-Script variants.
func ScriptOffset(t Transaction) (int, bool) {
	if _, isScript := t.(*Script); !isScript {
		return 0, false
	}
	return scriptFixedSize, true
}

// ScriptDataOffset returns the offset of the script data bytes. ok is false
// for non-Script variants.
func ScriptDataOffset(t Transaction) (int, bool) {
	s, isScript := t.(*Script)
	if !isScript {
		return 0, false
	}
	return scriptFixedSize + paddedLen(len(s.Script)), true
}

// InputsOffset returns the offset of the inputs section. For Mint, which
// has no inputs, it returns the offset at which the section would sit.
func InputsOffset(t Transaction) int {
	switch t := t.(type) {
	case *Script:
		return scriptFixedSize + paddedLen(len(t.Script)) + paddedLen(len(t.ScriptData))
	case *Create:
		return createFixedSize + len(t.StorageSlots)*storageSlotSize
	default:
		return mintFixedSize
	}
}

// InputOffsetAt returns the offset of input i. ok is false when i is out of
// range.
func InputOffsetAt(t Transaction, i int) (int, bool) {
	in := t.Inputs()
	if i < 0 || i >= len(in) {
		return 0, false
	}
	off := InputsOffset(t)
	for n := 0; n < i; n++ {
		off += in[n].encodedSize()
	}
	return off, true
}

// OutputsOffset returns the offset of the outputs section.
func OutputsOffset(t Transaction) int {
	return InputsOffset(t) + sectionSizeInputs(t.Inputs())
}

// OutputOffsetAt returns the offset of output i. ok is false when i is out
// of range.
func OutputOffsetAt(t Transaction, i int) (int, bool) {
	out := t.Outputs()
	if i < 0 || i >= len(out) {
		return 0, false
	}
	off := OutputsOffset(t)
	for n := 0; n < i; n++ {
		off += out[n].encodedSize()
	}
	return off, true
}

// WitnessesOffset returns the offset of the witness section, which is also
// the metered-bytes boundary.
func WitnessesOffset(t Transaction) int {
	return OutputsOffset(t) + sectionSizeOutputs(t.Outputs())
}

// WitnessOffsetAt returns the offset of the length word of witness i. ok is
// false when i is out of range.
func WitnessOffsetAt(t Transaction, i int) (int, bool) {
	wit := t.Witnesses()
	if i < 0 || i >= len(wit) {
		return 0, false
	}
	off := WitnessesOffset(t)
	for n := 0; n < i; n++ {
		off += witnessLenSize + paddedLen(len(wit[n].Data))
	}
	return off, true
}

// InputPredicateOffsetAt returns the offset and padded length of the
// predicate code of input i. ok is false when i is out of range or the
// input carries no predicate.
func InputPredicateOffsetAt(t Transaction, i int) (off, padded int, ok bool) {
	base, inRange := InputOffsetAt(t, i)
	if !inRange {
		return 0, 0, false
	}
	switch in := t.Inputs()[i].(type) {
	case *InputCoinPredicate:
		return base + inputCoinFixedSize, paddedLen(len(in.Predicate)), true
	case *InputMessagePredicate:
		return base + inputMessageFixedSize + paddedLen(len(in.Data)), paddedLen(len(in.Predicate)), true
	default:
		return 0, 0, false
	}
}
