// Package tx defines the canonical wire representation, structural
// validation, and identity computation for Quanta VM transactions.
package tx

import (
	"encoding/hex"
	"fmt"
)

// Bytes32 is a 32-byte value: digests, roots, addresses, identifiers.
type Bytes32 [32]byte

func (b Bytes32) String() string { return hex.EncodeToString(b[:]) }

func (b Bytes32) IsZero() bool { return b == Bytes32{} }

// MarshalText renders the value as lowercase hex, for JSON and log output.
func (b Bytes32) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Bytes32) UnmarshalText(text []byte) error {
	v, err := ParseBytes32(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ParseBytes32 decodes a 64-character hex string.
func ParseBytes32(s string) (Bytes32, error) {
	var out Bytes32
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("bytes32: %w", err)
	}
	if len(raw) != 32 {
		return out, fmt.Errorf("bytes32: want 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

// Address identifies an owner or recipient.
type Address = Bytes32

// AssetID identifies an asset.
type AssetID = Bytes32

// ContractID identifies a deployed contract.
type ContractID = Bytes32

// MessageID identifies a cross-chain message.
type MessageID = Bytes32

// Salt disambiguates contract deployments of identical bytecode.
type Salt = Bytes32

// TxID is the transaction identifier: the hash of the canonical encoding
// with witness content excluded.
type TxID = Bytes32

// UtxoID references an unspent transaction output.
type UtxoID struct {
	TxID        TxID
	OutputIndex uint8
}

func (u UtxoID) String() string {
	return fmt.Sprintf("%s%02x", u.TxID, u.OutputIndex)
}

// TxPointer locates the block and intra-block index at which a UTXO was
// created, or at which a Mint transaction was produced.
type TxPointer struct {
	BlockHeight uint32
	TxIndex     uint16
}

func (p TxPointer) String() string {
	return fmt.Sprintf("%08x%04x", p.BlockHeight, p.TxIndex)
}

// StorageSlot is one initial contract storage entry: 32-byte key followed by
// 32-byte value. Slots are ordered by key in a valid Create transaction.
type StorageSlot struct {
	Key   Bytes32
	Value Bytes32
}

// Less orders slots by key, then value.
func (s StorageSlot) Less(o StorageSlot) bool {
	for i := range s.Key {
		if s.Key[i] != o.Key[i] {
			return s.Key[i] < o.Key[i]
		}
	}
	for i := range s.Value {
		if s.Value[i] != o.Value[i] {
			return s.Value[i] < o.Value[i]
		}
	}
	return false
}

// Witness is an opaque byte blob (signature or predicate argument data)
// referenced by index from inputs requiring authorization.
type Witness struct {
	Data []byte
}
