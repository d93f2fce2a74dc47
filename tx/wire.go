package tx

import (
	"encoding/binary"
	"math"
)

// WordSize is the alignment unit of the canonical format. Every scalar
// occupies one big-endian word; byte blobs are zero-padded to a word
// boundary.
const WordSize = 8

// paddedLen returns the word-aligned length of a blob of n bytes.
func paddedLen(n int) int {
	return (n + WordSize - 1) / WordSize * WordSize
}

func appendWord(b []byte, v uint64) []byte {
	var tmp [WordSize]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendBytes32(b []byte, v Bytes32) []byte {
	return append(b, v[:]...)
}

// appendBytesPadded writes v followed by zero padding up to the next word
// boundary. The caller is responsible for writing the length word first.
func appendBytesPadded(b []byte, v []byte) []byte {
	b = append(b, v...)
	for i := len(v); i%WordSize != 0; i++ {
		b = append(b, 0)
	}
	return b
}

func appendTxPointer(b []byte, p TxPointer) []byte {
	b = appendWord(b, uint64(p.BlockHeight))
	return appendWord(b, uint64(p.TxIndex))
}

func appendUtxoID(b []byte, u UtxoID) []byte {
	b = appendBytes32(b, u.TxID)
	return appendWord(b, uint64(u.OutputIndex))
}

func readWord(b []byte, off *int) (uint64, error) {
	if *off+WordSize > len(b) {
		return 0, decodeErr(UnexpectedEof, "word")
	}
	v := binary.BigEndian.Uint64(b[*off : *off+WordSize])
	*off += WordSize
	return v, nil
}

// readU8Word reads a word that must fit a u8; larger values are rejected so
// every logical value has exactly one encoding.
func readU8Word(b []byte, off *int, field string) (uint8, error) {
	v, err := readWord(b, off)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint8 {
		return 0, decodeErrf(NonCanonical, "%s exceeds u8", field)
	}
	return uint8(v), nil
}

func readU16Word(b []byte, off *int, field string) (uint16, error) {
	v, err := readWord(b, off)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint16 {
		return 0, decodeErrf(NonCanonical, "%s exceeds u16", field)
	}
	return uint16(v), nil
}

func readU32Word(b []byte, off *int, field string) (uint32, error) {
	v, err := readWord(b, off)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, decodeErrf(NonCanonical, "%s exceeds u32", field)
	}
	return uint32(v), nil
}

func readBytes32(b []byte, off *int) (Bytes32, error) {
	var out Bytes32
	if *off+32 > len(b) {
		return out, decodeErr(UnexpectedEof, "bytes32")
	}
	copy(out[:], b[*off:*off+32])
	*off += 32
	return out, nil
}

// readLen reads a length word and bounds it against both the remaining
// buffer and a hard cap, before anything is allocated from it.
func readLen(b []byte, off *int, cap int, field string) (int, error) {
	v, err := readWord(b, off)
	if err != nil {
		return 0, err
	}
	if v > uint64(cap) {
		return 0, decodeErrf(LengthOverflow, "%s = %d exceeds cap %d", field, v, cap)
	}
	if uint64(paddedLen(int(v))) > uint64(len(b)-*off) {
		return 0, decodeErrf(LengthOverflow, "%s = %d exceeds remaining buffer", field, v)
	}
	return int(v), nil
}

// readCount reads an element-count word and bounds it by the space the
// elements would occupy at their minimum encoded size.
func readCount(b []byte, off *int, minElemSize int, cap int, field string) (int, error) {
	v, err := readWord(b, off)
	if err != nil {
		return 0, err
	}
	if v > uint64(cap) {
		return 0, decodeErrf(LengthOverflow, "%s = %d exceeds cap %d", field, v, cap)
	}
	if v*uint64(minElemSize) > uint64(len(b)-*off) {
		return 0, decodeErrf(LengthOverflow, "%s = %d exceeds remaining buffer", field, v)
	}
	return int(v), nil
}

// readBytesPadded reads n bytes plus zero padding to the word boundary.
// Non-zero padding is rejected: it would permit multiple encodings of one
// logical value.
func readBytesPadded(b []byte, off *int, n int, field string) ([]byte, error) {
	padded := paddedLen(n)
	if *off+padded > len(b) {
		return nil, decodeErr(UnexpectedEof, field)
	}
	out := append([]byte(nil), b[*off:*off+n]...)
	for _, pad := range b[*off+n : *off+padded] {
		if pad != 0 {
			return nil, decodeErrf(NonCanonical, "%s has non-zero padding", field)
		}
	}
	*off += padded
	return out, nil
}

func readTxPointer(b []byte, off *int) (TxPointer, error) {
	height, err := readU32Word(b, off, "tx_pointer.block_height")
	if err != nil {
		return TxPointer{}, err
	}
	index, err := readU16Word(b, off, "tx_pointer.tx_index")
	if err != nil {
		return TxPointer{}, err
	}
	return TxPointer{BlockHeight: height, TxIndex: index}, nil
}

func readUtxoID(b []byte, off *int) (UtxoID, error) {
	txID, err := readBytes32(b, off)
	if err != nil {
		return UtxoID{}, err
	}
	index, err := readU8Word(b, off, "utxo_id.output_index")
	if err != nil {
		return UtxoID{}, err
	}
	return UtxoID{TxID: txID, OutputIndex: index}, nil
}
