// Package txgen synthesizes well-formed transactions for property-based
// and load tests. Generated values pass structural validation with
// signature checking disabled; they reference UTXOs and messages that do
// not exist anywhere.
package txgen

import (
	"math/rand"
	"sort"

	"quanta.dev/vm/crypto"
	"quanta.dev/vm/tx"
)

// Generator produces pseudo-random transactions from a seeded source, so a
// failing case reproduces from its seed.
type Generator struct {
	rng    *rand.Rand
	p      crypto.Provider
	params tx.ConsensusParameters
}

// New returns a Generator bounded by params.
func New(seed int64, p crypto.Provider, params tx.ConsensusParameters) *Generator {
	return &Generator{
		rng:    rand.New(rand.NewSource(seed)),
		p:      p,
		params: params,
	}
}

func (g *Generator) bytes32() tx.Bytes32 {
	var out tx.Bytes32
	g.rng.Read(out[:])
	return out
}

func (g *Generator) blob(max int) []byte {
	n := g.rng.Intn(max + 1)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	g.rng.Read(out)
	return out
}

// amount keeps individual amounts small enough that a few hundred of them
// never overflow a uint64 sum, and large enough that any single input
// covers the fee of a generated transaction.
func (g *Generator) amount() uint64 {
	return uint64(1<<20 + g.rng.Int63n(1<<40))
}

func (g *Generator) utxoID() tx.UtxoID {
	return tx.UtxoID{TxID: g.bytes32(), OutputIndex: uint8(g.rng.Intn(256))}
}

func (g *Generator) txPointer() tx.TxPointer {
	return tx.TxPointer{
		BlockHeight: g.rng.Uint32(),
		TxIndex:     uint16(g.rng.Intn(1 << 16)),
	}
}

// CoinInput generates a funded coin input in asset, signed or predicate at
// random. witnesses is the witness count available for signed inputs.
func (g *Generator) CoinInput(asset tx.AssetID, witnesses int) tx.Input {
	if witnesses > 0 && g.rng.Intn(2) == 0 {
		return &tx.InputCoinSigned{
			UtxoID:       g.utxoID(),
			Owner:        g.bytes32(),
			Amount:       g.amount(),
			AssetID:      asset,
			TxPointer:    g.txPointer(),
			WitnessIndex: uint8(g.rng.Intn(witnesses)),
		}
	}
	predicate := g.blob(256)
	if len(predicate) == 0 {
		predicate = []byte{0x90} // predicates may not be empty
	}
	return &tx.InputCoinPredicate{
		UtxoID:        g.utxoID(),
		Owner:         tx.PredicateOwner(g.p, predicate),
		Amount:        g.amount(),
		AssetID:       asset,
		TxPointer:     g.txPointer(),
		Predicate:     predicate,
		PredicateData: g.blob(256),
	}
}

// MessageInput generates a message input, signed or predicate at random.
func (g *Generator) MessageInput(witnesses int) tx.Input {
	if witnesses > 0 && g.rng.Intn(2) == 0 {
		return &tx.InputMessageSigned{
			MessageID:    g.bytes32(),
			Sender:       g.bytes32(),
			Recipient:    g.bytes32(),
			Amount:       g.amount(),
			Nonce:        g.rng.Uint64(),
			WitnessIndex: uint8(g.rng.Intn(witnesses)),
			Data:         g.blob(128),
		}
	}
	predicate := g.blob(256)
	if len(predicate) == 0 {
		predicate = []byte{0x90}
	}
	return &tx.InputMessagePredicate{
		MessageID:     g.bytes32(),
		Sender:        g.bytes32(),
		Recipient:     tx.PredicateOwner(g.p, predicate),
		Amount:        g.amount(),
		Nonce:         g.rng.Uint64(),
		Data:          g.blob(128),
		Predicate:     predicate,
		PredicateData: g.blob(256),
	}
}

// Script generates a Script transaction funded in the base asset. The fee
// is always covered: the base balance is random but the gas price is kept
// at one unit so the fee stays far below the generated amounts.
func (g *Generator) Script() *tx.Script {
	witnesses := 1 + g.rng.Intn(4)
	t := &tx.Script{
		GasPrice:   1,
		GasLimit:   uint64(g.rng.Int63n(int64(g.params.MaxGasPerTx))),
		Script:     g.blob(512),
		ScriptData: g.blob(512),
	}
	for w := 0; w < witnesses; w++ {
		t.Wit = append(t.Wit, tx.Witness{Data: g.blob(80)})
	}

	inputs := 1 + g.rng.Intn(6)
	for n := 0; n < inputs; n++ {
		if g.rng.Intn(4) == 0 {
			t.In = append(t.In, g.MessageInput(witnesses))
			continue
		}
		t.In = append(t.In, g.CoinInput(tx.BaseAssetID, witnesses))
	}

	// Contract interactions come in paired input/output slots.
	if g.rng.Intn(2) == 0 {
		idx := uint8(len(t.In))
		t.In = append(t.In, &tx.InputContract{
			UtxoID:      g.utxoID(),
			BalanceRoot: g.bytes32(),
			StateRoot:   g.bytes32(),
			TxPointer:   g.txPointer(),
			ContractID:  g.bytes32(),
		})
		t.Out = append(t.Out, &tx.OutputContract{
			InputIndex:  idx,
			BalanceRoot: g.bytes32(),
			StateRoot:   g.bytes32(),
		})
	}

	t.Out = append(t.Out, &tx.OutputChange{To: g.bytes32(), AssetID: tx.BaseAssetID})
	if g.rng.Intn(2) == 0 {
		t.Out = append(t.Out, &tx.OutputVariable{})
	}
	return t
}

// Create generates a Create transaction whose deployment output matches
// its salt, bytecode and storage.
func (g *Generator) Create() *tx.Create {
	words := 1 + g.rng.Intn(64)
	bytecode := make([]byte, words*4)
	g.rng.Read(bytecode)

	var slots []tx.StorageSlot
	for n := g.rng.Intn(8); n > 0; n-- {
		slots = append(slots, tx.StorageSlot{Key: g.bytes32(), Value: g.bytes32()})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Less(slots[j]) })

	salt := g.bytes32()
	storageRoot := tx.StorageSlotsRoot(g.p, slots)
	contractID := tx.ComputeContractID(g.p, salt, tx.BytecodeRoot(g.p, bytecode), storageRoot)

	t := &tx.Create{
		GasPrice:             1,
		GasLimit:             uint64(g.rng.Int63n(int64(g.params.MaxGasPerTx))),
		BytecodeLength:       uint64(words),
		BytecodeWitnessIndex: 0,
		Salt:                 salt,
		StorageSlots:         slots,
		Wit:                  []tx.Witness{{Data: bytecode}},
	}
	t.In = append(t.In, g.CoinInput(tx.BaseAssetID, len(t.Wit)))
	t.Out = append(t.Out,
		&tx.OutputContractCreated{ContractID: contractID, StateRoot: storageRoot},
		&tx.OutputChange{To: g.bytes32(), AssetID: tx.BaseAssetID},
	)
	return t
}

// Mint generates a Mint transaction with unique-asset coin outputs.
func (g *Generator) Mint() *tx.Mint {
	t := &tx.Mint{TxPointer: g.txPointer()}
	outputs := 1 + g.rng.Intn(4)
	for n := 0; n < outputs; n++ {
		var asset tx.AssetID
		asset[0] = byte(n) // distinct per output
		t.Out = append(t.Out, &tx.OutputCoin{
			To:      g.bytes32(),
			Amount:  g.amount(),
			AssetID: asset,
		})
	}
	return t
}

// Transaction generates one of the three variants at random.
func (g *Generator) Transaction() tx.Transaction {
	switch g.rng.Intn(3) {
	case 0:
		return g.Script()
	case 1:
		return g.Create()
	default:
		return g.Mint()
	}
}
