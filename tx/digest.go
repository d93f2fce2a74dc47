package tx

import "quanta.dev/vm/crypto"

// Transaction identity. The ID is the hash of the canonical encoding with
// every field that changes after signing or during execution normalized to
// zero. Mutating any witness, or any execution-time field, must not change
// the ID; mutating anything else must.

// normalizeForID zeroes the malleable fields in place. The caller passes a
// clone.
func normalizeForID(t Transaction) {
	if s, isScript := t.(*Script); isScript {
		s.ReceiptsRoot = Bytes32{}
	}
	for _, in := range t.Inputs() {
		switch in := in.(type) {
		case *InputCoinSigned:
			in.TxPointer = TxPointer{}
		case *InputCoinPredicate:
			in.TxPointer = TxPointer{}
		case *InputContract:
			in.UtxoID = UtxoID{}
			in.BalanceRoot = Bytes32{}
			in.StateRoot = Bytes32{}
			in.TxPointer = TxPointer{}
		}
	}
	for _, out := range t.Outputs() {
		switch out := out.(type) {
		case *OutputContract:
			out.BalanceRoot = Bytes32{}
			out.StateRoot = Bytes32{}
		case *OutputChange:
			out.Amount = 0
		case *OutputVariable:
			out.To = Bytes32{}
			out.Amount = 0
			out.AssetID = Bytes32{}
		}
	}
	switch t := t.(type) {
	case *Script:
		for n := range t.Wit {
			t.Wit[n].Data = nil
		}
	case *Create:
		for n := range t.Wit {
			t.Wit[n].Data = nil
		}
	}
}

// ComputeID returns the transaction ID: the hash of the normalized
// canonical encoding. The witness count is part of the identity; witness
// content is not.
func ComputeID(p crypto.Provider, t Transaction) TxID {
	c := cloneTx(t)
	normalizeForID(c)
	return p.Hash256(Encode(c))
}

// SigningHash returns the digest input inputIndex commits to with its
// signature. It matches ComputeID except that a predicate input does not
// cover its own predicate code or predicate data, so predicate arguments
// can be attached after signing.
func SigningHash(p crypto.Provider, t Transaction, inputIndex int) (Bytes32, error) {
	in := t.Inputs()
	if inputIndex < 0 || inputIndex >= len(in) {
		return Bytes32{}, violation(ErrWitnessIndexBounds, fieldInput(inputIndex),
			"input index out of range (%d inputs)", len(in))
	}
	c := cloneTx(t)
	normalizeForID(c)
	switch in := c.Inputs()[inputIndex].(type) {
	case *InputCoinPredicate:
		in.Predicate = nil
		in.PredicateData = nil
	case *InputMessagePredicate:
		in.Predicate = nil
		in.PredicateData = nil
	}
	return p.Hash256(Encode(c)), nil
}
