package tx

import (
	"quanta.dev/vm/crypto"
	"quanta.dev/vm/merkle"
)

// contractIDSeed domain-separates contract identifiers from every other
// hash in the system.
var contractIDSeed = []byte("QVM0")

// BytecodeRoot commits to contract or predicate bytecode: the Merkle root
// of its 16 KiB chunks.
func BytecodeRoot(p crypto.Provider, code []byte) Bytes32 {
	return merkle.RootFromCode(p, code)
}

// StorageSlotsRoot commits to the initial storage of a Create transaction:
// the Merkle root over the 64-byte slot encodings in transaction order.
func StorageSlotsRoot(p crypto.Provider, slots []StorageSlot) Bytes32 {
	leaves := make([][]byte, 0, len(slots))
	for _, s := range slots {
		leaf := make([]byte, 0, storageSlotSize)
		leaf = append(leaf, s.Key[:]...)
		leaf = append(leaf, s.Value[:]...)
		leaves = append(leaves, leaf)
	}
	return merkle.Root(p, leaves)
}

// ComputeContractID derives the contract identifier a Create transaction
// must commit to in its ContractCreated output.
func ComputeContractID(p crypto.Provider, salt Salt, bytecodeRoot, storageRoot Bytes32) ContractID {
	buf := make([]byte, 0, len(contractIDSeed)+3*32)
	buf = append(buf, contractIDSeed...)
	buf = append(buf, salt[:]...)
	buf = append(buf, bytecodeRoot[:]...)
	buf = append(buf, storageRoot[:]...)
	return p.Hash256(buf)
}

// PredicateOwner is the address a predicate input must declare as its
// owner: the bytecode root of the predicate code.
func PredicateOwner(p crypto.Provider, predicate []byte) Address {
	return BytecodeRoot(p, predicate)
}
