package tx

// Wire tags of the transaction variants.
const (
	TagScript uint64 = 0
	TagCreate uint64 = 1
	TagMint   uint64 = 2
)

// Transaction is the closed set of transaction variants. Only *Script,
// *Create and *Mint implement it; the codec and validator type-switch
// exhaustively over those three.
type Transaction interface {
	// Tag returns the wire variant tag.
	Tag() uint64
	// EncodedSize returns the exact canonical encoding length in bytes.
	EncodedSize() int
	// MeteredBytes returns the encoded length excluding the witness
	// section. Fees are charged on metered bytes so appending a signature
	// does not change the price of a transaction.
	MeteredBytes() int
	// Inputs, Outputs and Witnesses expose the common sections. Mint has
	// no inputs and no witnesses and returns nil for both.
	Inputs() []Input
	Outputs() []Output
	Witnesses() []Witness

	isTransaction()
}

// Script executes bytecode against the VM. ReceiptsRoot commits to the
// execution receipts and is set post-execution; it is zeroed for identity.
type Script struct {
	GasPrice     uint64
	GasLimit     uint64
	Maturity     uint64
	ReceiptsRoot Bytes32
	Script       []byte
	ScriptData   []byte
	In           []Input
	Out          []Output
	Wit          []Witness
}

// Create deploys contract bytecode carried in the witness at
// BytecodeWitnessIndex. BytecodeLength is the length of that witness in
// 4-byte instruction words.
type Create struct {
	GasPrice             uint64
	GasLimit             uint64
	Maturity             uint64
	BytecodeLength       uint64
	BytecodeWitnessIndex uint8
	Salt                 Salt
	StorageSlots         []StorageSlot
	In                   []Input
	Out                  []Output
	Wit                  []Witness
}

// Mint is produced by the block builder to collect fees. It carries no
// inputs, no witnesses and no gas fields; TxPointer pins it to its block.
type Mint struct {
	TxPointer TxPointer
	Out       []Output
}

func (*Script) isTransaction() {}
func (*Create) isTransaction() {}
func (*Mint) isTransaction()   {}

func (*Script) Tag() uint64 { return TagScript }
func (*Create) Tag() uint64 { return TagCreate }
func (*Mint) Tag() uint64   { return TagMint }

func (t *Script) Inputs() []Input      { return t.In }
func (t *Script) Outputs() []Output    { return t.Out }
func (t *Script) Witnesses() []Witness { return t.Wit }

func (t *Create) Inputs() []Input      { return t.In }
func (t *Create) Outputs() []Output    { return t.Out }
func (t *Create) Witnesses() []Witness { return t.Wit }

func (t *Mint) Inputs() []Input      { return nil }
func (t *Mint) Outputs() []Output    { return t.Out }
func (t *Mint) Witnesses() []Witness { return nil }

// Fixed (pre-dynamic-section) encoded sizes per variant: the variant tag
// word, the scalar words, and the embedded 32-byte field.
const (
	scriptFixedSize = 9*WordSize + 32  // tag..witnessesCount + receiptsRoot
	createFixedSize = 10*WordSize + 32 // tag..witnessesCount + salt
	mintFixedSize   = 4 * WordSize     // tag + txPointer + outputsCount
	storageSlotSize = 64
	witnessLenSize  = WordSize
)

func sectionSizeInputs(in []Input) int {
	n := 0
	for _, i := range in {
		n += i.encodedSize()
	}
	return n
}

func sectionSizeOutputs(out []Output) int {
	n := 0
	for _, o := range out {
		n += o.encodedSize()
	}
	return n
}

func sectionSizeWitnesses(wit []Witness) int {
	n := 0
	for _, w := range wit {
		n += witnessLenSize + paddedLen(len(w.Data))
	}
	return n
}

func (t *Script) EncodedSize() int {
	return t.MeteredBytes() + sectionSizeWitnesses(t.Wit)
}

func (t *Script) MeteredBytes() int {
	return scriptFixedSize +
		paddedLen(len(t.Script)) + paddedLen(len(t.ScriptData)) +
		sectionSizeInputs(t.In) + sectionSizeOutputs(t.Out)
}

func (t *Create) EncodedSize() int {
	return t.MeteredBytes() + sectionSizeWitnesses(t.Wit)
}

func (t *Create) MeteredBytes() int {
	return createFixedSize +
		len(t.StorageSlots)*storageSlotSize +
		sectionSizeInputs(t.In) + sectionSizeOutputs(t.Out)
}

func (t *Mint) EncodedSize() int {
	return mintFixedSize + sectionSizeOutputs(t.Out)
}

func (t *Mint) MeteredBytes() int { return t.EncodedSize() }
