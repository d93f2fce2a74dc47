package tx

// Deep copies. Digest computation normalizes malleable fields on a copy so
// callers never observe their transaction mutating.

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func cloneTx(t Transaction) Transaction {
	switch t := t.(type) {
	case *Script:
		c := *t
		c.Script = cloneBytes(t.Script)
		c.ScriptData = cloneBytes(t.ScriptData)
		c.In = cloneInputs(t.In)
		c.Out = cloneOutputs(t.Out)
		c.Wit = cloneWitnesses(t.Wit)
		return &c
	case *Create:
		c := *t
		c.StorageSlots = append([]StorageSlot(nil), t.StorageSlots...)
		c.In = cloneInputs(t.In)
		c.Out = cloneOutputs(t.Out)
		c.Wit = cloneWitnesses(t.Wit)
		return &c
	case *Mint:
		c := *t
		c.Out = cloneOutputs(t.Out)
		return &c
	default:
		panic("tx: unknown transaction variant")
	}
}

func cloneInputs(in []Input) []Input {
	if in == nil {
		return nil
	}
	out := make([]Input, len(in))
	for n, i := range in {
		out[n] = cloneInput(i)
	}
	return out
}

func cloneInput(in Input) Input {
	switch in := in.(type) {
	case *InputCoinSigned:
		c := *in
		return &c
	case *InputCoinPredicate:
		c := *in
		c.Predicate = cloneBytes(in.Predicate)
		c.PredicateData = cloneBytes(in.PredicateData)
		return &c
	case *InputContract:
		c := *in
		return &c
	case *InputMessageSigned:
		c := *in
		c.Data = cloneBytes(in.Data)
		return &c
	case *InputMessagePredicate:
		c := *in
		c.Data = cloneBytes(in.Data)
		c.Predicate = cloneBytes(in.Predicate)
		c.PredicateData = cloneBytes(in.PredicateData)
		return &c
	default:
		panic("tx: unknown input variant")
	}
}

func cloneOutputs(out []Output) []Output {
	if out == nil {
		return nil
	}
	c := make([]Output, len(out))
	for n, o := range out {
		c[n] = cloneOutput(o)
	}
	return c
}

func cloneOutput(out Output) Output {
	switch out := out.(type) {
	case *OutputCoin:
		c := *out
		return &c
	case *OutputContract:
		c := *out
		return &c
	case *OutputChange:
		c := *out
		return &c
	case *OutputVariable:
		c := *out
		return &c
	case *OutputContractCreated:
		c := *out
		return &c
	default:
		panic("tx: unknown output variant")
	}
}

func cloneWitnesses(wit []Witness) []Witness {
	if wit == nil {
		return nil
	}
	out := make([]Witness, len(wit))
	for n, w := range wit {
		out[n] = Witness{Data: cloneBytes(w.Data)}
	}
	return out
}
