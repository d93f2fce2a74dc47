package tx

// TransactionFee is the fee range of a transaction in base-asset units.
// Bytes is the size-only component charged even if execution is free;
// Total adds the full gas limit. The actual fee after execution falls
// between the two.
type TransactionFee struct {
	// Bytes = ceil(gasPerByte * meteredBytes * gasPrice / gasPriceFactor).
	Bytes uint64
	// Total = ceil((gasPerByte * meteredBytes + gasLimit) * gasPrice /
	// gasPriceFactor).
	Total uint64
}

// MinFee is the fee charged when execution consumes no gas.
func (f TransactionFee) MinFee() uint64 { return f.Bytes }

// MaxFee is the fee charged when execution consumes the whole gas limit.
func (f TransactionFee) MaxFee() uint64 { return f.Total }

// ComputeFee prices a transaction against params. Mint transactions carry
// no gas fields and price at zero. The boolean is false on arithmetic
// overflow; the validator maps that to a violation.
func ComputeFee(t Transaction, params ConsensusParameters) (TransactionFee, bool) {
	params.mustValid()

	var gasPrice, gasLimit uint64
	switch t := t.(type) {
	case *Script:
		gasPrice, gasLimit = t.GasPrice, t.GasLimit
	case *Create:
		gasPrice, gasLimit = t.GasPrice, t.GasLimit
	case *Mint:
		return TransactionFee{}, true
	default:
		panic("tx: unknown transaction variant")
	}

	// Witness bytes are excluded so adding a signature never reprices the
	// transaction.
	byteGas, ok := mulUint64(params.GasPerByte, uint64(t.MeteredBytes()))
	if !ok {
		return TransactionFee{}, false
	}
	byteCost, ok := mulUint64(byteGas, gasPrice)
	if !ok {
		return TransactionFee{}, false
	}
	totalGas, ok := addUint64(byteGas, gasLimit)
	if !ok {
		return TransactionFee{}, false
	}
	totalCost, ok := mulUint64(totalGas, gasPrice)
	if !ok {
		return TransactionFee{}, false
	}
	return TransactionFee{
		Bytes: divCeil(byteCost, params.GasPriceFactor),
		Total: divCeil(totalCost, params.GasPriceFactor),
	}, true
}
