package tx

import (
	"bytes"
	"testing"

	"quanta.dev/vm/crypto"
)

func TestBuilderSignedScript(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	owner := AddressFromPublicKey(testProvider, crypto.CompressedPublicKey(key))

	built := NewScriptBuilder([]byte{0x01, 0x02}, []byte{0x03}).
		WithGasPrice(5).
		WithGasLimit(10_000).
		WithMaturity(3).
		AddUnsignedCoinInput(crypto.SignerFor(key), UtxoID{TxID: b32(0x01)}, owner, 1<<30, BaseAssetID, 0).
		AddOutput(&OutputChange{To: owner, AssetID: BaseAssetID}).
		Sign(testProvider).
		Finalize()

	s, isScript := built.(*Script)
	if !isScript {
		t.Fatalf("expected *Script, got %T", built)
	}
	if s.GasPrice != 5 || s.GasLimit != 10_000 || s.Maturity != 3 {
		t.Fatalf("scalar setters lost: %+v", s)
	}
	if len(s.In) != 1 || len(s.Wit) != 1 {
		t.Fatalf("inputs=%d witnesses=%d", len(s.In), len(s.Wit))
	}
	if s.In[0].(*InputCoinSigned).WitnessIndex != 0 {
		t.Fatalf("witness index = %d", s.In[0].(*InputCoinSigned).WitnessIndex)
	}
	if len(s.Wit[0].Data) != crypto.SignatureLen {
		t.Fatalf("signature is %d bytes", len(s.Wit[0].Data))
	}

	if _, err := Check(testProvider, built, 3, DefaultParameters()); err != nil {
		t.Fatalf("built transaction rejected: %v", err)
	}
}

func TestBuilderSigningDoesNotChangeID(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	owner := AddressFromPublicKey(testProvider, crypto.CompressedPublicKey(key))

	b := NewScriptBuilder(nil, nil).
		WithGasPrice(1).
		AddUnsignedCoinInput(crypto.SignerFor(key), UtxoID{TxID: b32(0x01)}, owner, 1<<30, BaseAssetID, 0)

	before := ComputeID(testProvider, b.Finalize())
	after := ComputeID(testProvider, b.Sign(testProvider).Finalize())
	if before != after {
		t.Fatalf("signing changed the id")
	}
}

func TestBuilderTwoSigners(t *testing.T) {
	keyA, _ := crypto.GenerateKey()
	keyB, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	ownerA := AddressFromPublicKey(testProvider, crypto.CompressedPublicKey(keyA))
	ownerB := AddressFromPublicKey(testProvider, crypto.CompressedPublicKey(keyB))

	built := NewScriptBuilder(nil, nil).
		WithGasPrice(1).
		WithGasLimit(100).
		AddUnsignedCoinInput(crypto.SignerFor(keyA), UtxoID{TxID: b32(0x01)}, ownerA, 1<<30, BaseAssetID, 0).
		AddUnsignedMessageInput(crypto.SignerFor(keyB), b32(0x02), ownerA, ownerB, 500, 1, []byte{0xaa}).
		AddOutput(&OutputChange{To: ownerA, AssetID: BaseAssetID}).
		Sign(testProvider).
		Finalize()

	if _, err := Check(testProvider, built, 0, DefaultParameters()); err != nil {
		t.Fatalf("two-signer transaction rejected: %v", err)
	}
	if len(built.Witnesses()) != 2 {
		t.Fatalf("witnesses = %d", len(built.Witnesses()))
	}
}

func TestBuilderCreate(t *testing.T) {
	bytecode := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	salt := b32(0x5a)
	slots := []StorageSlot{{Key: b32(0x01), Value: b32(0x02)}}

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	owner := AddressFromPublicKey(testProvider, crypto.CompressedPublicKey(key))

	storageRoot := StorageSlotsRoot(testProvider, slots)
	contractID := ComputeContractID(testProvider, salt, BytecodeRoot(testProvider, bytecode), storageRoot)

	built := NewCreateBuilder(bytecode, salt, slots).
		WithGasPrice(1).
		WithGasLimit(100).
		AddUnsignedCoinInput(crypto.SignerFor(key), UtxoID{TxID: b32(0x01)}, owner, 1<<30, BaseAssetID, 0).
		AddOutput(&OutputContractCreated{ContractID: contractID, StateRoot: storageRoot}).
		Sign(testProvider).
		Finalize()

	c, isCreate := built.(*Create)
	if !isCreate {
		t.Fatalf("expected *Create, got %T", built)
	}
	if c.BytecodeLength != 2 || c.BytecodeWitnessIndex != 0 {
		t.Fatalf("bytecode fields: %+v", c)
	}
	if !bytes.Equal(c.Wit[0].Data, bytecode) {
		t.Fatalf("bytecode witness lost")
	}
	if _, err := Check(testProvider, built, 0, DefaultParameters()); err != nil {
		t.Fatalf("built create rejected: %v", err)
	}
}
