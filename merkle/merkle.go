// Package merkle computes binary Merkle roots with leaf/inner-node domain
// separation (leaf prefix 0x00, inner-node prefix 0x01).
package merkle

import "quanta.dev/vm/crypto"

// Root computes the Merkle root of leaves. An odd node at the end of a level
// is promoted unchanged. The root of zero leaves is the hash of an empty
// leaf, so callers get a stable commitment for empty sets.
func Root(p crypto.Provider, leaves [][]byte) [32]byte {
	if len(leaves) == 0 {
		return p.Hash256([]byte{0x00})
	}
	level := make([][32]byte, 0, len(leaves))
	for _, leaf := range leaves {
		buf := make([]byte, 0, 1+len(leaf))
		buf = append(buf, 0x00)
		buf = append(buf, leaf...)
		level = append(level, p.Hash256(buf))
	}
	for len(level) > 1 {
		next := make([][32]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			concat := make([]byte, 0, 1+64)
			concat = append(concat, 0x01)
			concat = append(concat, level[i][:]...)
			concat = append(concat, level[i+1][:]...)
			next = append(next, p.Hash256(concat))
		}
		level = next
	}
	return level[0]
}

// ChunkSize is the leaf granularity used for code commitments.
const ChunkSize = 16 * 1024

// RootFromCode computes the Merkle root of code split into ChunkSize leaves.
// The final chunk is not padded; its length is committed by the leaf hash.
func RootFromCode(p crypto.Provider, code []byte) [32]byte {
	chunks := (len(code) + ChunkSize - 1) / ChunkSize
	if chunks == 0 {
		return Root(p, nil)
	}
	leaves := make([][]byte, 0, chunks)
	for off := 0; off < len(code); off += ChunkSize {
		end := off + ChunkSize
		if end > len(code) {
			end = len(code)
		}
		leaves = append(leaves, code[off:end])
	}
	return Root(p, leaves)
}
