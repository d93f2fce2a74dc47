package tx

// Wire tags of the output variants.
const (
	OutputTagCoin            uint64 = 0
	OutputTagContract        uint64 = 1
	OutputTagChange          uint64 = 2
	OutputTagVariable        uint64 = 3
	OutputTagContractCreated uint64 = 4
)

// Output is the closed set of output variants.
type Output interface {
	// Tag returns the wire variant tag.
	Tag() uint64
	encodedSize() int
	isOutput()
}

// OutputCoin transfers Amount of AssetID to To.
type OutputCoin struct {
	To      Address
	Amount  uint64
	AssetID AssetID
}

// OutputContract carries the post-execution balance and state roots of the
// contract brought in by the InputContract at InputIndex.
type OutputContract struct {
	InputIndex  uint8
	BalanceRoot Bytes32
	StateRoot   Bytes32
}

// OutputChange returns the unspent remainder of AssetID to To. Amount is
// computed at execution time and zeroed for identity.
type OutputChange struct {
	To      Address
	Amount  uint64
	AssetID AssetID
}

// OutputVariable is a slot the script may fill at execution time. All
// fields are zeroed for identity.
type OutputVariable struct {
	To      Address
	Amount  uint64
	AssetID AssetID
}

// OutputContractCreated commits to the contract deployed by a Create
// transaction.
type OutputContractCreated struct {
	ContractID ContractID
	StateRoot  Bytes32
}

func (*OutputCoin) isOutput()            {}
func (*OutputContract) isOutput()        {}
func (*OutputChange) isOutput()          {}
func (*OutputVariable) isOutput()        {}
func (*OutputContractCreated) isOutput() {}

func (*OutputCoin) Tag() uint64            { return OutputTagCoin }
func (*OutputContract) Tag() uint64        { return OutputTagContract }
func (*OutputChange) Tag() uint64          { return OutputTagChange }
func (*OutputVariable) Tag() uint64        { return OutputTagVariable }
func (*OutputContractCreated) Tag() uint64 { return OutputTagContractCreated }

const (
	outputCoinSize            = 2*WordSize + 2*32 // tag, to, amount, asset
	outputContractSize        = 2*WordSize + 2*32 // tag, inputIndex, roots
	outputContractCreatedSize = 1*WordSize + 2*32 // tag, contract, stateRoot
)

func (*OutputCoin) encodedSize() int            { return outputCoinSize }
func (*OutputContract) encodedSize() int        { return outputContractSize }
func (*OutputChange) encodedSize() int          { return outputCoinSize }
func (*OutputVariable) encodedSize() int        { return outputCoinSize }
func (*OutputContractCreated) encodedSize() int { return outputContractCreatedSize }
