package tx

// Encode produces the canonical byte encoding of t. Encoding is total: any
// value representable by the model encodes, and Decode(Encode(t)) == t.
func Encode(t Transaction) []byte {
	b := make([]byte, 0, t.EncodedSize())
	return appendTx(b, t)
}

func appendTx(b []byte, t Transaction) []byte {
	switch t := t.(type) {
	case *Script:
		b = appendWord(b, TagScript)
		b = appendWord(b, t.GasPrice)
		b = appendWord(b, t.GasLimit)
		b = appendWord(b, t.Maturity)
		b = appendWord(b, uint64(len(t.Script)))
		b = appendWord(b, uint64(len(t.ScriptData)))
		b = appendWord(b, uint64(len(t.In)))
		b = appendWord(b, uint64(len(t.Out)))
		b = appendWord(b, uint64(len(t.Wit)))
		b = appendBytes32(b, t.ReceiptsRoot)
		b = appendBytesPadded(b, t.Script)
		b = appendBytesPadded(b, t.ScriptData)
		b = appendInputs(b, t.In)
		b = appendOutputs(b, t.Out)
		return appendWitnesses(b, t.Wit)

	case *Create:
		b = appendWord(b, TagCreate)
		b = appendWord(b, t.GasPrice)
		b = appendWord(b, t.GasLimit)
		b = appendWord(b, t.Maturity)
		b = appendWord(b, t.BytecodeLength)
		b = appendWord(b, uint64(t.BytecodeWitnessIndex))
		b = appendWord(b, uint64(len(t.StorageSlots)))
		b = appendWord(b, uint64(len(t.In)))
		b = appendWord(b, uint64(len(t.Out)))
		b = appendWord(b, uint64(len(t.Wit)))
		b = appendBytes32(b, t.Salt)
		for _, s := range t.StorageSlots {
			b = appendBytes32(b, s.Key)
			b = appendBytes32(b, s.Value)
		}
		b = appendInputs(b, t.In)
		b = appendOutputs(b, t.Out)
		return appendWitnesses(b, t.Wit)

	case *Mint:
		b = appendWord(b, TagMint)
		b = appendTxPointer(b, t.TxPointer)
		b = appendWord(b, uint64(len(t.Out)))
		return appendOutputs(b, t.Out)

	default:
		panic("tx: unknown transaction variant")
	}
}

func appendInputs(b []byte, in []Input) []byte {
	for _, i := range in {
		b = appendInput(b, i)
	}
	return b
}

// appendInput writes one input. Signed coin and message inputs encode both
// predicate lengths as zero; predicate variants encode witnessIndex as
// zero. That keeps a single valid encoding per logical value.
func appendInput(b []byte, in Input) []byte {
	switch in := in.(type) {
	case *InputCoinSigned:
		b = appendWord(b, InputTagCoin)
		b = appendUtxoID(b, in.UtxoID)
		b = appendBytes32(b, in.Owner)
		b = appendWord(b, in.Amount)
		b = appendBytes32(b, in.AssetID)
		b = appendTxPointer(b, in.TxPointer)
		b = appendWord(b, uint64(in.WitnessIndex))
		b = appendWord(b, in.Maturity)
		b = appendWord(b, 0) // predicateLen
		return appendWord(b, 0) // predicateDataLen

	case *InputCoinPredicate:
		b = appendWord(b, InputTagCoin)
		b = appendUtxoID(b, in.UtxoID)
		b = appendBytes32(b, in.Owner)
		b = appendWord(b, in.Amount)
		b = appendBytes32(b, in.AssetID)
		b = appendTxPointer(b, in.TxPointer)
		b = appendWord(b, 0) // witnessIndex
		b = appendWord(b, in.Maturity)
		b = appendWord(b, uint64(len(in.Predicate)))
		b = appendWord(b, uint64(len(in.PredicateData)))
		b = appendBytesPadded(b, in.Predicate)
		return appendBytesPadded(b, in.PredicateData)

	case *InputContract:
		b = appendWord(b, InputTagContract)
		b = appendUtxoID(b, in.UtxoID)
		b = appendBytes32(b, in.BalanceRoot)
		b = appendBytes32(b, in.StateRoot)
		b = appendTxPointer(b, in.TxPointer)
		return appendBytes32(b, in.ContractID)

	case *InputMessageSigned:
		b = appendWord(b, InputTagMessage)
		b = appendBytes32(b, in.MessageID)
		b = appendBytes32(b, in.Sender)
		b = appendBytes32(b, in.Recipient)
		b = appendWord(b, in.Amount)
		b = appendWord(b, in.Nonce)
		b = appendWord(b, uint64(in.WitnessIndex))
		b = appendWord(b, uint64(len(in.Data)))
		b = appendWord(b, 0) // predicateLen
		b = appendWord(b, 0) // predicateDataLen
		return appendBytesPadded(b, in.Data)

	case *InputMessagePredicate:
		b = appendWord(b, InputTagMessage)
		b = appendBytes32(b, in.MessageID)
		b = appendBytes32(b, in.Sender)
		b = appendBytes32(b, in.Recipient)
		b = appendWord(b, in.Amount)
		b = appendWord(b, in.Nonce)
		b = appendWord(b, 0) // witnessIndex
		b = appendWord(b, uint64(len(in.Data)))
		b = appendWord(b, uint64(len(in.Predicate)))
		b = appendWord(b, uint64(len(in.PredicateData)))
		b = appendBytesPadded(b, in.Data)
		b = appendBytesPadded(b, in.Predicate)
		return appendBytesPadded(b, in.PredicateData)

	default:
		panic("tx: unknown input variant")
	}
}

func appendOutputs(b []byte, out []Output) []byte {
	for _, o := range out {
		b = appendOutput(b, o)
	}
	return b
}

func appendOutput(b []byte, out Output) []byte {
	switch out := out.(type) {
	case *OutputCoin:
		b = appendWord(b, OutputTagCoin)
		b = appendBytes32(b, out.To)
		b = appendWord(b, out.Amount)
		return appendBytes32(b, out.AssetID)

	case *OutputContract:
		b = appendWord(b, OutputTagContract)
		b = appendWord(b, uint64(out.InputIndex))
		b = appendBytes32(b, out.BalanceRoot)
		return appendBytes32(b, out.StateRoot)

	case *OutputChange:
		b = appendWord(b, OutputTagChange)
		b = appendBytes32(b, out.To)
		b = appendWord(b, out.Amount)
		return appendBytes32(b, out.AssetID)

	case *OutputVariable:
		b = appendWord(b, OutputTagVariable)
		b = appendBytes32(b, out.To)
		b = appendWord(b, out.Amount)
		return appendBytes32(b, out.AssetID)

	case *OutputContractCreated:
		b = appendWord(b, OutputTagContractCreated)
		b = appendBytes32(b, out.ContractID)
		return appendBytes32(b, out.StateRoot)

	default:
		panic("tx: unknown output variant")
	}
}

func appendWitnesses(b []byte, wit []Witness) []byte {
	for _, w := range wit {
		b = appendWord(b, uint64(len(w.Data)))
		b = appendBytesPadded(b, w.Data)
	}
	return b
}
