package tx

import (
	"encoding/binary"
	"fmt"
)

// Raw-buffer accessors. They walk the canonical schema far enough to locate
// one field without decoding the whole transaction, and fail with
// BufferTooShort on truncation or when the buffer's variant lacks the
// field. Hot paths (signers patching witness slots, indexers peeking at gas
// fields) use these instead of a decode/encode round trip.

func wordAt(buf []byte, off int) (uint64, error) {
	if off < 0 || off+WordSize > len(buf) {
		return 0, decodeErrf(BufferTooShort, "word at %d", off)
	}
	return binary.BigEndian.Uint64(buf[off : off+WordSize]), nil
}

func gasWordAt(buf []byte, wordOff int) (uint64, error) {
	tag, err := wordAt(buf, 0)
	if err != nil {
		return 0, err
	}
	if tag != TagScript && tag != TagCreate {
		return 0, decodeErr(BufferTooShort, "variant has no gas fields")
	}
	return wordAt(buf, wordOff)
}

// GasPriceAt reads the gasPrice word of a Script or Create buffer.
func GasPriceAt(buf []byte) (uint64, error) {
	return gasWordAt(buf, gasPriceWordOffset)
}

// GasLimitAt reads the gasLimit word of a Script or Create buffer.
func GasLimitAt(buf []byte) (uint64, error) {
	return gasWordAt(buf, gasLimitWordOffset)
}

// MaturityAt reads the maturity word of a Script or Create buffer.
func MaturityAt(buf []byte) (uint64, error) {
	return gasWordAt(buf, maturityWordOffset)
}

// ScriptRegionAt returns the offset and unpadded length of the script bytes
// of a Script buffer.
func ScriptRegionAt(buf []byte) (off, n int, err error) {
	tag, err := wordAt(buf, 0)
	if err != nil {
		return 0, 0, err
	}
	if tag != TagScript {
		return 0, 0, decodeErr(BufferTooShort, "variant has no script")
	}
	scriptLen, err := wordAt(buf, 4*WordSize)
	if err != nil {
		return 0, 0, err
	}
	if scriptLen > uint64(len(buf)) || scriptFixedSize+paddedLen(int(scriptLen)) > len(buf) {
		return 0, 0, decodeErrf(BufferTooShort, "script of %d bytes", scriptLen)
	}
	return scriptFixedSize, int(scriptLen), nil
}

// skipPadded advances past a padded blob whose length word was already
// read, validating the region fits the buffer.
func skipPadded(buf []byte, off int, n uint64) (int, error) {
	if n > uint64(len(buf)) {
		return 0, decodeErrf(BufferTooShort, "blob of %d bytes", n)
	}
	next := off + paddedLen(int(n))
	if next > len(buf) {
		return 0, decodeErrf(BufferTooShort, "blob of %d bytes", n)
	}
	return next, nil
}

func skipInputRaw(buf []byte, off int) (int, error) {
	tag, err := wordAt(buf, off)
	if err != nil {
		return 0, err
	}
	switch tag {
	case InputTagCoin:
		predLen, err := wordAt(buf, off+inputCoinFixedSize-2*WordSize)
		if err != nil {
			return 0, err
		}
		predDataLen, err := wordAt(buf, off+inputCoinFixedSize-WordSize)
		if err != nil {
			return 0, err
		}
		off += inputCoinFixedSize
		if off, err = skipPadded(buf, off, predLen); err != nil {
			return 0, err
		}
		return skipPadded(buf, off, predDataLen)

	case InputTagContract:
		if off+inputContractFixedSize > len(buf) {
			return 0, decodeErr(BufferTooShort, "contract input")
		}
		return off + inputContractFixedSize, nil

	case InputTagMessage:
		dataLen, err := wordAt(buf, off+inputMessageFixedSize-3*WordSize)
		if err != nil {
			return 0, err
		}
		predLen, err := wordAt(buf, off+inputMessageFixedSize-2*WordSize)
		if err != nil {
			return 0, err
		}
		predDataLen, err := wordAt(buf, off+inputMessageFixedSize-WordSize)
		if err != nil {
			return 0, err
		}
		off += inputMessageFixedSize
		if off, err = skipPadded(buf, off, dataLen); err != nil {
			return 0, err
		}
		if off, err = skipPadded(buf, off, predLen); err != nil {
			return 0, err
		}
		return skipPadded(buf, off, predDataLen)

	default:
		return 0, decodeErrf(BufferTooShort, "input tag %d", tag)
	}
}

func skipOutputRaw(buf []byte, off int) (int, error) {
	tag, err := wordAt(buf, off)
	if err != nil {
		return 0, err
	}
	var size int
	switch tag {
	case OutputTagCoin, OutputTagChange, OutputTagVariable:
		size = outputCoinSize
	case OutputTagContract:
		size = outputContractSize
	case OutputTagContractCreated:
		size = outputContractCreatedSize
	default:
		return 0, decodeErrf(BufferTooShort, "output tag %d", tag)
	}
	if off+size > len(buf) {
		return 0, decodeErr(BufferTooShort, "output")
	}
	return off + size, nil
}

// walkToWitnesses locates the witness section of a Script or Create buffer
// and returns its offset together with the declared witness count.
func walkToWitnesses(buf []byte) (off int, count uint64, err error) {
	tag, err := wordAt(buf, 0)
	if err != nil {
		return 0, 0, err
	}

	var inputsCount, outputsCount uint64
	switch tag {
	case TagScript:
		scriptLen, err := wordAt(buf, 4*WordSize)
		if err != nil {
			return 0, 0, err
		}
		scriptDataLen, err := wordAt(buf, 5*WordSize)
		if err != nil {
			return 0, 0, err
		}
		if inputsCount, err = wordAt(buf, 6*WordSize); err != nil {
			return 0, 0, err
		}
		if outputsCount, err = wordAt(buf, 7*WordSize); err != nil {
			return 0, 0, err
		}
		if count, err = wordAt(buf, 8*WordSize); err != nil {
			return 0, 0, err
		}
		off = scriptFixedSize
		if off, err = skipPadded(buf, off, scriptLen); err != nil {
			return 0, 0, err
		}
		if off, err = skipPadded(buf, off, scriptDataLen); err != nil {
			return 0, 0, err
		}

	case TagCreate:
		slotsCount, err := wordAt(buf, 6*WordSize)
		if err != nil {
			return 0, 0, err
		}
		if inputsCount, err = wordAt(buf, 7*WordSize); err != nil {
			return 0, 0, err
		}
		if outputsCount, err = wordAt(buf, 8*WordSize); err != nil {
			return 0, 0, err
		}
		if count, err = wordAt(buf, 9*WordSize); err != nil {
			return 0, 0, err
		}
		if slotsCount > uint64(len(buf))/storageSlotSize {
			return 0, 0, decodeErrf(BufferTooShort, "%d storage slots", slotsCount)
		}
		off = createFixedSize + int(slotsCount)*storageSlotSize
		if off > len(buf) {
			return 0, 0, decodeErr(BufferTooShort, "storage slots")
		}

	default:
		return 0, 0, decodeErr(BufferTooShort, "variant has no witnesses")
	}

	if inputsCount > uint64(len(buf)) || outputsCount > uint64(len(buf)) {
		return 0, 0, decodeErr(BufferTooShort, "section counts")
	}
	for n := uint64(0); n < inputsCount; n++ {
		if off, err = skipInputRaw(buf, off); err != nil {
			return 0, 0, err
		}
	}
	for n := uint64(0); n < outputsCount; n++ {
		if off, err = skipOutputRaw(buf, off); err != nil {
			return 0, 0, err
		}
	}
	return off, count, nil
}

// WitnessRegionAt returns the offset and unpadded length of the data of
// witness i.
func WitnessRegionAt(buf []byte, i int) (off, n int, err error) {
	secOff, count, err := walkToWitnesses(buf)
	if err != nil {
		return 0, 0, err
	}
	if i < 0 || uint64(i) >= count {
		return 0, 0, decodeErrf(BufferTooShort, "witness %d of %d", i, count)
	}
	off = secOff
	for w := 0; ; w++ {
		dataLen, err := wordAt(buf, off)
		if err != nil {
			return 0, 0, err
		}
		if w == i {
			if _, err := skipPadded(buf, off+witnessLenSize, dataLen); err != nil {
				return 0, 0, err
			}
			return off + witnessLenSize, int(dataLen), nil
		}
		if off, err = skipPadded(buf, off+witnessLenSize, dataLen); err != nil {
			return 0, 0, err
		}
	}
}

// PatchWitnessAt rewrites witness i of buf in place with blob. The padded
// length of blob must match the slot's padded length so no other offset in
// the buffer moves. The signer hot path uses this to fill a reserved slot
// without re-encoding.
func PatchWitnessAt(buf []byte, i int, blob []byte) error {
	off, n, err := WitnessRegionAt(buf, i)
	if err != nil {
		return err
	}
	if paddedLen(len(blob)) != paddedLen(n) {
		return fmt.Errorf("tx: witness %d slot holds %d padded bytes, blob needs %d",
			i, paddedLen(n), paddedLen(len(blob)))
	}
	binary.BigEndian.PutUint64(buf[off-witnessLenSize:off], uint64(len(blob)))
	copy(buf[off:off+len(blob)], blob)
	for p := off + len(blob); p < off+paddedLen(len(blob)); p++ {
		buf[p] = 0
	}
	return nil
}
