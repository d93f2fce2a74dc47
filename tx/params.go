package tx

// ConsensusParameters bounds every dimension of a transaction. The values
// are consensus-sensitive: two validators with different parameters can
// disagree on acceptance.
type ConsensusParameters struct {
	MaxInputs    uint64
	MaxOutputs   uint64
	MaxWitnesses uint64

	MaxScriptLength        uint64
	MaxScriptDataLength    uint64
	MaxPredicateLength     uint64
	MaxPredicateDataLength uint64
	MaxMessageDataLength   uint64
	MaxStorageSlots        uint64
	ContractMaxSize        uint64

	MaxGasPerTx    uint64
	GasPriceFactor uint64
	GasPerByte     uint64

	MaxTransactionSize uint64
}

// DefaultParameters returns the mainnet parameter set.
func DefaultParameters() ConsensusParameters {
	return ConsensusParameters{
		MaxInputs:    255,
		MaxOutputs:   255,
		MaxWitnesses: 255,

		MaxScriptLength:        1 << 20,
		MaxScriptDataLength:    1 << 20,
		MaxPredicateLength:     1 << 20,
		MaxPredicateDataLength: 1 << 20,
		MaxMessageDataLength:   1 << 20,
		MaxStorageSlots:        255,
		ContractMaxSize:        16 * 1024 * 1024,

		MaxGasPerTx:    100_000_000,
		GasPriceFactor: 1_000_000_000,
		GasPerByte:     4,

		MaxTransactionSize: 17 * 1024 * 1024,
	}
}

// mustValid panics on a malformed parameter set. Parameters come from node
// configuration, never from the wire, so a bad set is a programming error.
func (p ConsensusParameters) mustValid() {
	switch {
	case p.GasPriceFactor == 0:
		panic("tx: ConsensusParameters.GasPriceFactor must be non-zero")
	case p.MaxInputs == 0 || p.MaxOutputs == 0 || p.MaxWitnesses == 0:
		panic("tx: ConsensusParameters count maxima must be non-zero")
	case p.MaxTransactionSize == 0:
		panic("tx: ConsensusParameters.MaxTransactionSize must be non-zero")
	}
}
