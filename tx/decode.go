package tx

// Hard wire caps, above any sane consensus parameter. They bound what an
// attacker-supplied length word can make the decoder allocate; consensus
// bounds proper are the validator's job.
const (
	wireMaxBlobLen = 1 << 30
	wireMaxCount   = 1 << 16
)

// Decode parses one canonical transaction from b. The buffer must contain
// exactly one transaction; leftover bytes are a TrailingBytes error. Decode
// never panics on hostile input and never allocates from an unchecked
// length.
func Decode(b []byte) (Transaction, error) {
	off := 0
	t, err := readTx(b, &off)
	if err != nil {
		return nil, err
	}
	if off != len(b) {
		return nil, decodeErrf(TrailingBytes, "%d bytes after transaction", len(b)-off)
	}
	return t, nil
}

func readTx(b []byte, off *int) (Transaction, error) {
	tag, err := readWord(b, off)
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagScript:
		return readScript(b, off)
	case TagCreate:
		return readCreate(b, off)
	case TagMint:
		return readMint(b, off)
	default:
		return nil, decodeErrf(InvalidVariantTag, "transaction tag %d", tag)
	}
}

func readScript(b []byte, off *int) (*Script, error) {
	var t Script
	var err error
	if t.GasPrice, err = readWord(b, off); err != nil {
		return nil, err
	}
	if t.GasLimit, err = readWord(b, off); err != nil {
		return nil, err
	}
	if t.Maturity, err = readWord(b, off); err != nil {
		return nil, err
	}
	scriptLen, err := readLen(b, off, wireMaxBlobLen, "script_length")
	if err != nil {
		return nil, err
	}
	scriptDataLen, err := readLen(b, off, wireMaxBlobLen, "script_data_length")
	if err != nil {
		return nil, err
	}
	inputsCount, err := readCount(b, off, inputMessageFixedSize, wireMaxCount, "inputs_count")
	if err != nil {
		return nil, err
	}
	outputsCount, err := readCount(b, off, outputContractCreatedSize, wireMaxCount, "outputs_count")
	if err != nil {
		return nil, err
	}
	witnessesCount, err := readCount(b, off, witnessLenSize, wireMaxCount, "witnesses_count")
	if err != nil {
		return nil, err
	}
	if t.ReceiptsRoot, err = readBytes32(b, off); err != nil {
		return nil, err
	}
	if t.Script, err = readBytesPadded(b, off, scriptLen, "script"); err != nil {
		return nil, err
	}
	if t.ScriptData, err = readBytesPadded(b, off, scriptDataLen, "script_data"); err != nil {
		return nil, err
	}
	if t.In, err = readInputs(b, off, inputsCount); err != nil {
		return nil, err
	}
	if t.Out, err = readOutputs(b, off, outputsCount); err != nil {
		return nil, err
	}
	if t.Wit, err = readWitnesses(b, off, witnessesCount); err != nil {
		return nil, err
	}
	return &t, nil
}

func readCreate(b []byte, off *int) (*Create, error) {
	var t Create
	var err error
	if t.GasPrice, err = readWord(b, off); err != nil {
		return nil, err
	}
	if t.GasLimit, err = readWord(b, off); err != nil {
		return nil, err
	}
	if t.Maturity, err = readWord(b, off); err != nil {
		return nil, err
	}
	if t.BytecodeLength, err = readWord(b, off); err != nil {
		return nil, err
	}
	if t.BytecodeWitnessIndex, err = readU8Word(b, off, "bytecode_witness_index"); err != nil {
		return nil, err
	}
	slotsCount, err := readCount(b, off, storageSlotSize, wireMaxCount, "storage_slots_count")
	if err != nil {
		return nil, err
	}
	inputsCount, err := readCount(b, off, inputMessageFixedSize, wireMaxCount, "inputs_count")
	if err != nil {
		return nil, err
	}
	outputsCount, err := readCount(b, off, outputContractCreatedSize, wireMaxCount, "outputs_count")
	if err != nil {
		return nil, err
	}
	witnessesCount, err := readCount(b, off, witnessLenSize, wireMaxCount, "witnesses_count")
	if err != nil {
		return nil, err
	}
	if t.Salt, err = readBytes32(b, off); err != nil {
		return nil, err
	}
	if slotsCount > 0 {
		t.StorageSlots = make([]StorageSlot, 0, slotsCount)
		for n := 0; n < slotsCount; n++ {
			var s StorageSlot
			if s.Key, err = readBytes32(b, off); err != nil {
				return nil, err
			}
			if s.Value, err = readBytes32(b, off); err != nil {
				return nil, err
			}
			t.StorageSlots = append(t.StorageSlots, s)
		}
	}
	if t.In, err = readInputs(b, off, inputsCount); err != nil {
		return nil, err
	}
	if t.Out, err = readOutputs(b, off, outputsCount); err != nil {
		return nil, err
	}
	if t.Wit, err = readWitnesses(b, off, witnessesCount); err != nil {
		return nil, err
	}
	return &t, nil
}

func readMint(b []byte, off *int) (*Mint, error) {
	var t Mint
	var err error
	if t.TxPointer, err = readTxPointer(b, off); err != nil {
		return nil, err
	}
	outputsCount, err := readCount(b, off, outputContractCreatedSize, wireMaxCount, "outputs_count")
	if err != nil {
		return nil, err
	}
	if t.Out, err = readOutputs(b, off, outputsCount); err != nil {
		return nil, err
	}
	return &t, nil
}

func readInputs(b []byte, off *int, count int) ([]Input, error) {
	if count == 0 {
		return nil, nil
	}
	out := make([]Input, 0, count)
	for n := 0; n < count; n++ {
		in, err := readInput(b, off)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

func readInput(b []byte, off *int) (Input, error) {
	tag, err := readWord(b, off)
	if err != nil {
		return nil, err
	}
	switch tag {
	case InputTagCoin:
		return readInputCoin(b, off)
	case InputTagContract:
		return readInputContract(b, off)
	case InputTagMessage:
		return readInputMessage(b, off)
	default:
		return nil, decodeErrf(InvalidVariantTag, "input tag %d", tag)
	}
}

// readInputCoin parses the shared coin layout and resolves the variant from
// the predicate length. Field mixes that would give a value two encodings
// (predicate data without a predicate, a witness index on a predicate
// input) are rejected.
func readInputCoin(b []byte, off *int) (Input, error) {
	utxoID, err := readUtxoID(b, off)
	if err != nil {
		return nil, err
	}
	owner, err := readBytes32(b, off)
	if err != nil {
		return nil, err
	}
	amount, err := readWord(b, off)
	if err != nil {
		return nil, err
	}
	assetID, err := readBytes32(b, off)
	if err != nil {
		return nil, err
	}
	pointer, err := readTxPointer(b, off)
	if err != nil {
		return nil, err
	}
	witnessIndex, err := readU8Word(b, off, "input.witness_index")
	if err != nil {
		return nil, err
	}
	maturity, err := readWord(b, off)
	if err != nil {
		return nil, err
	}
	predicateLen, err := readLen(b, off, wireMaxBlobLen, "input.predicate_length")
	if err != nil {
		return nil, err
	}
	predicateDataLen, err := readLen(b, off, wireMaxBlobLen, "input.predicate_data_length")
	if err != nil {
		return nil, err
	}
	if predicateLen == 0 {
		if predicateDataLen != 0 {
			return nil, decodeErr(NonCanonical, "coin input has predicate data without predicate")
		}
		return &InputCoinSigned{
			UtxoID:       utxoID,
			Owner:        owner,
			Amount:       amount,
			AssetID:      assetID,
			TxPointer:    pointer,
			WitnessIndex: witnessIndex,
			Maturity:     maturity,
		}, nil
	}
	if witnessIndex != 0 {
		return nil, decodeErr(NonCanonical, "predicate coin input has non-zero witness index")
	}
	predicate, err := readBytesPadded(b, off, predicateLen, "input.predicate")
	if err != nil {
		return nil, err
	}
	predicateData, err := readBytesPadded(b, off, predicateDataLen, "input.predicate_data")
	if err != nil {
		return nil, err
	}
	return &InputCoinPredicate{
		UtxoID:        utxoID,
		Owner:         owner,
		Amount:        amount,
		AssetID:       assetID,
		TxPointer:     pointer,
		Maturity:      maturity,
		Predicate:     predicate,
		PredicateData: predicateData,
	}, nil
}

func readInputContract(b []byte, off *int) (Input, error) {
	var in InputContract
	var err error
	if in.UtxoID, err = readUtxoID(b, off); err != nil {
		return nil, err
	}
	if in.BalanceRoot, err = readBytes32(b, off); err != nil {
		return nil, err
	}
	if in.StateRoot, err = readBytes32(b, off); err != nil {
		return nil, err
	}
	if in.TxPointer, err = readTxPointer(b, off); err != nil {
		return nil, err
	}
	if in.ContractID, err = readBytes32(b, off); err != nil {
		return nil, err
	}
	return &in, nil
}

func readInputMessage(b []byte, off *int) (Input, error) {
	messageID, err := readBytes32(b, off)
	if err != nil {
		return nil, err
	}
	sender, err := readBytes32(b, off)
	if err != nil {
		return nil, err
	}
	recipient, err := readBytes32(b, off)
	if err != nil {
		return nil, err
	}
	amount, err := readWord(b, off)
	if err != nil {
		return nil, err
	}
	nonce, err := readWord(b, off)
	if err != nil {
		return nil, err
	}
	witnessIndex, err := readU8Word(b, off, "input.witness_index")
	if err != nil {
		return nil, err
	}
	dataLen, err := readLen(b, off, wireMaxBlobLen, "input.data_length")
	if err != nil {
		return nil, err
	}
	predicateLen, err := readLen(b, off, wireMaxBlobLen, "input.predicate_length")
	if err != nil {
		return nil, err
	}
	predicateDataLen, err := readLen(b, off, wireMaxBlobLen, "input.predicate_data_length")
	if err != nil {
		return nil, err
	}
	data, err := readBytesPadded(b, off, dataLen, "input.data")
	if err != nil {
		return nil, err
	}
	if predicateLen == 0 {
		if predicateDataLen != 0 {
			return nil, decodeErr(NonCanonical, "message input has predicate data without predicate")
		}
		return &InputMessageSigned{
			MessageID:    messageID,
			Sender:       sender,
			Recipient:    recipient,
			Amount:       amount,
			Nonce:        nonce,
			WitnessIndex: witnessIndex,
			Data:         data,
		}, nil
	}
	if witnessIndex != 0 {
		return nil, decodeErr(NonCanonical, "predicate message input has non-zero witness index")
	}
	predicate, err := readBytesPadded(b, off, predicateLen, "input.predicate")
	if err != nil {
		return nil, err
	}
	predicateData, err := readBytesPadded(b, off, predicateDataLen, "input.predicate_data")
	if err != nil {
		return nil, err
	}
	return &InputMessagePredicate{
		MessageID:     messageID,
		Sender:        sender,
		Recipient:     recipient,
		Amount:        amount,
		Nonce:         nonce,
		Data:          data,
		Predicate:     predicate,
		PredicateData: predicateData,
	}, nil
}

func readOutputs(b []byte, off *int, count int) ([]Output, error) {
	if count == 0 {
		return nil, nil
	}
	out := make([]Output, 0, count)
	for n := 0; n < count; n++ {
		o, err := readOutput(b, off)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func readOutput(b []byte, off *int) (Output, error) {
	tag, err := readWord(b, off)
	if err != nil {
		return nil, err
	}
	switch tag {
	case OutputTagCoin, OutputTagChange, OutputTagVariable:
		to, err := readBytes32(b, off)
		if err != nil {
			return nil, err
		}
		amount, err := readWord(b, off)
		if err != nil {
			return nil, err
		}
		assetID, err := readBytes32(b, off)
		if err != nil {
			return nil, err
		}
		switch tag {
		case OutputTagCoin:
			return &OutputCoin{To: to, Amount: amount, AssetID: assetID}, nil
		case OutputTagChange:
			return &OutputChange{To: to, Amount: amount, AssetID: assetID}, nil
		default:
			return &OutputVariable{To: to, Amount: amount, AssetID: assetID}, nil
		}

	case OutputTagContract:
		var o OutputContract
		if o.InputIndex, err = readU8Word(b, off, "output.input_index"); err != nil {
			return nil, err
		}
		if o.BalanceRoot, err = readBytes32(b, off); err != nil {
			return nil, err
		}
		if o.StateRoot, err = readBytes32(b, off); err != nil {
			return nil, err
		}
		return &o, nil

	case OutputTagContractCreated:
		var o OutputContractCreated
		if o.ContractID, err = readBytes32(b, off); err != nil {
			return nil, err
		}
		if o.StateRoot, err = readBytes32(b, off); err != nil {
			return nil, err
		}
		return &o, nil

	default:
		return nil, decodeErrf(InvalidVariantTag, "output tag %d", tag)
	}
}

func readWitnesses(b []byte, off *int, count int) ([]Witness, error) {
	if count == 0 {
		return nil, nil
	}
	out := make([]Witness, 0, count)
	for n := 0; n < count; n++ {
		dataLen, err := readLen(b, off, wireMaxBlobLen, "witness.data_length")
		if err != nil {
			return nil, err
		}
		data, err := readBytesPadded(b, off, dataLen, "witness.data")
		if err != nil {
			return nil, err
		}
		out = append(out, Witness{Data: data})
	}
	return out, nil
}
