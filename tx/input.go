package tx

// Wire tags of the input variants. The signed/predicate split of Coin and
// Message inputs is not a separate tag: a non-zero predicate length selects
// the predicate variant.
const (
	InputTagCoin     uint64 = 0
	InputTagContract uint64 = 1
	InputTagMessage  uint64 = 2
)

// Input is the closed set of input variants.
type Input interface {
	// Tag returns the wire variant tag.
	Tag() uint64
	encodedSize() int
	isInput()
}

// InputCoinSigned spends a coin UTXO authorized by the signature in the
// witness at WitnessIndex.
type InputCoinSigned struct {
	UtxoID       UtxoID
	Owner        Address
	Amount       uint64
	AssetID      AssetID
	TxPointer    TxPointer
	WitnessIndex uint8
	Maturity     uint64
}

// InputCoinPredicate spends a coin UTXO authorized by a predicate whose
// code root must equal Owner.
type InputCoinPredicate struct {
	UtxoID        UtxoID
	Owner         Address
	Amount        uint64
	AssetID       AssetID
	TxPointer     TxPointer
	Maturity      uint64
	Predicate     []byte
	PredicateData []byte
}

// InputContract grants a script access to contract state. It pairs with an
// OutputContract at the recorded output index.
type InputContract struct {
	UtxoID      UtxoID
	BalanceRoot Bytes32
	StateRoot   Bytes32
	TxPointer   TxPointer
	ContractID  ContractID
}

// InputMessageSigned spends a cross-chain message authorized by the
// signature in the witness at WitnessIndex. Recipient must own the
// signature.
type InputMessageSigned struct {
	MessageID    MessageID
	Sender       Address
	Recipient    Address
	Amount       uint64
	Nonce        uint64
	WitnessIndex uint8
	Data         []byte
}

// InputMessagePredicate spends a cross-chain message authorized by a
// predicate whose code root must equal Recipient.
type InputMessagePredicate struct {
	MessageID     MessageID
	Sender        Address
	Recipient     Address
	Amount        uint64
	Nonce         uint64
	Data          []byte
	Predicate     []byte
	PredicateData []byte
}

func (*InputCoinSigned) isInput()       {}
func (*InputCoinPredicate) isInput()    {}
func (*InputContract) isInput()         {}
func (*InputMessageSigned) isInput()    {}
func (*InputMessagePredicate) isInput() {}

func (*InputCoinSigned) Tag() uint64       { return InputTagCoin }
func (*InputCoinPredicate) Tag() uint64    { return InputTagCoin }
func (*InputContract) Tag() uint64         { return InputTagContract }
func (*InputMessageSigned) Tag() uint64    { return InputTagMessage }
func (*InputMessagePredicate) Tag() uint64 { return InputTagMessage }

// Fixed encoded sizes. Coin inputs always carry the witnessIndex word and
// both predicate length words regardless of variant; same for Message.
const (
	inputCoinFixedSize     = 9*WordSize + 3*32 // tag, utxo, owner, amount, asset, pointer, witnessIndex, maturity, 2 lens
	inputContractFixedSize = 4*WordSize + 4*32 // tag, utxo, roots, pointer, contract
	inputMessageFixedSize  = 7*WordSize + 3*32 // tag, id, sender, recipient, amount, nonce, witnessIndex, 3 lens
)

func (*InputCoinSigned) encodedSize() int { return inputCoinFixedSize }

func (i *InputCoinPredicate) encodedSize() int {
	return inputCoinFixedSize + paddedLen(len(i.Predicate)) + paddedLen(len(i.PredicateData))
}

func (*InputContract) encodedSize() int { return inputContractFixedSize }

func (i *InputMessageSigned) encodedSize() int {
	return inputMessageFixedSize + paddedLen(len(i.Data))
}

func (i *InputMessagePredicate) encodedSize() int {
	return inputMessageFixedSize + paddedLen(len(i.Data)) +
		paddedLen(len(i.Predicate)) + paddedLen(len(i.PredicateData))
}
