package tx

import "quanta.dev/vm/crypto"

// AddressFromPublicKey derives the address of a compressed public key.
func AddressFromPublicKey(p crypto.Provider, pub []byte) Address {
	return p.Hash256(pub)
}

// SignFunc produces a recoverable signature over a digest. The crypto
// package provides an implementation bound to a private key.
type SignFunc func(digest [32]byte) []byte

// Builder assembles a Script or Create transaction. Unsigned inputs
// reserve a witness slot and register a signer; Sign fills every reserved
// slot with a signature over the final signing hash, after which no
// ID-relevant field may change.
type Builder struct {
	tx      Transaction
	signers map[int]SignFunc
}

// NewScriptBuilder starts a Script transaction.
func NewScriptBuilder(script, scriptData []byte) *Builder {
	return &Builder{
		tx:      &Script{Script: script, ScriptData: scriptData},
		signers: make(map[int]SignFunc),
	}
}

// NewCreateBuilder starts a Create transaction. The bytecode becomes
// witness 0 and the declared word length is derived from it; slots must
// already be in ascending key order.
func NewCreateBuilder(bytecode []byte, salt Salt, slots []StorageSlot) *Builder {
	return &Builder{
		tx: &Create{
			BytecodeLength:       uint64(len(bytecode)) / 4,
			BytecodeWitnessIndex: 0,
			Salt:                 salt,
			StorageSlots:         slots,
			Wit:                  []Witness{{Data: bytecode}},
		},
		signers: make(map[int]SignFunc),
	}
}

func (b *Builder) WithGasPrice(v uint64) *Builder {
	switch t := b.tx.(type) {
	case *Script:
		t.GasPrice = v
	case *Create:
		t.GasPrice = v
	}
	return b
}

func (b *Builder) WithGasLimit(v uint64) *Builder {
	switch t := b.tx.(type) {
	case *Script:
		t.GasLimit = v
	case *Create:
		t.GasLimit = v
	}
	return b
}

func (b *Builder) WithMaturity(v uint64) *Builder {
	switch t := b.tx.(type) {
	case *Script:
		t.Maturity = v
	case *Create:
		t.Maturity = v
	}
	return b
}

func (b *Builder) AddInput(in Input) *Builder {
	switch t := b.tx.(type) {
	case *Script:
		t.In = append(t.In, in)
	case *Create:
		t.In = append(t.In, in)
	}
	return b
}

func (b *Builder) AddOutput(out Output) *Builder {
	switch t := b.tx.(type) {
	case *Script:
		t.Out = append(t.Out, out)
	case *Create:
		t.Out = append(t.Out, out)
	}
	return b
}

func (b *Builder) AddWitness(w Witness) *Builder {
	switch t := b.tx.(type) {
	case *Script:
		t.Wit = append(t.Wit, w)
	case *Create:
		t.Wit = append(t.Wit, w)
	}
	return b
}

// reserveWitness appends an empty signature-sized slot and returns its
// index. Sizing the placeholder now keeps the encoded length stable
// through signing, so PatchWitnessAt works on the final bytes.
func (b *Builder) reserveWitness(sign SignFunc) uint8 {
	idx := uint8(len(b.tx.Witnesses()))
	b.AddWitness(Witness{Data: make([]byte, crypto.SignatureLen)})
	b.signers[int(idx)] = sign
	return idx
}

// AddUnsignedCoinInput adds a coin input whose signature slot is filled by
// Sign.
func (b *Builder) AddUnsignedCoinInput(sign SignFunc, utxoID UtxoID, owner Address, amount uint64, assetID AssetID, maturity uint64) *Builder {
	idx := b.reserveWitness(sign)
	return b.AddInput(&InputCoinSigned{
		UtxoID:       utxoID,
		Owner:        owner,
		Amount:       amount,
		AssetID:      assetID,
		WitnessIndex: idx,
		Maturity:     maturity,
	})
}

// AddUnsignedMessageInput adds a message input whose signature slot is
// filled by Sign.
func (b *Builder) AddUnsignedMessageInput(sign SignFunc, messageID MessageID, sender, recipient Address, amount, nonce uint64, data []byte) *Builder {
	idx := b.reserveWitness(sign)
	return b.AddInput(&InputMessageSigned{
		MessageID:    messageID,
		Sender:       sender,
		Recipient:    recipient,
		Amount:       amount,
		Nonce:        nonce,
		WitnessIndex: idx,
		Data:         data,
	})
}

// Sign computes the signing hash and fills every reserved witness slot.
// The hash covers the zeroed placeholder witnesses only through their
// count, so filling them does not invalidate the signatures.
func (b *Builder) Sign(p crypto.Provider) *Builder {
	if len(b.signers) == 0 {
		return b
	}
	digest := ComputeID(p, b.tx)
	wit := b.tx.Witnesses()
	for idx, sign := range b.signers {
		wit[idx] = Witness{Data: sign(digest)}
	}
	return b
}

// Finalize returns the assembled transaction. The result is unchecked;
// callers pass it through Check before trusting it.
func (b *Builder) Finalize() Transaction {
	return b.tx
}
