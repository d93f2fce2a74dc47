package tx

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"testing"
)

func b32(fill byte) Bytes32 {
	var out Bytes32
	for i := range out {
		out[i] = fill
	}
	return out
}

func mustDecodeCode(t *testing.T, err error) DecodeErrorCode {
	t.Helper()
	de, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	return de.Code
}

func expectDecodeCode(t *testing.T, raw []byte, want DecodeErrorCode) {
	t.Helper()
	_, err := Decode(raw)
	if err == nil {
		t.Fatalf("expected decode error %s", want)
	}
	if got := mustDecodeCode(t, err); got != want {
		t.Fatalf("code=%s, want %s", got, want)
	}
}

func minimalScript() *Script {
	return &Script{}
}

// sampleScript is the canonical worked example: one signed coin input, one
// coin output, one 65-byte witness. Its encoding is 432 bytes.
func sampleScript() *Script {
	sig := make([]byte, 65)
	for i := range sig {
		sig[i] = byte(i)
	}
	return &Script{
		GasPrice:     20,
		GasLimit:     1_000_000,
		Maturity:     0,
		ReceiptsRoot: b32(0xaa),
		In: []Input{
			&InputCoinSigned{
				UtxoID:       UtxoID{TxID: b32(0x01), OutputIndex: 3},
				Owner:        b32(0x02),
				Amount:       5000,
				AssetID:      BaseAssetID,
				TxPointer:    TxPointer{BlockHeight: 7, TxIndex: 2},
				WitnessIndex: 0,
			},
		},
		Out: []Output{
			&OutputCoin{To: b32(0x03), Amount: 4000, AssetID: BaseAssetID},
		},
		Wit: []Witness{{Data: sig}},
	}
}

func sampleCreate() *Create {
	bytecode := make([]byte, 16)
	for i := range bytecode {
		bytecode[i] = byte(0x40 + i)
	}
	return &Create{
		GasPrice:             1,
		GasLimit:             500_000,
		BytecodeLength:       4,
		BytecodeWitnessIndex: 0,
		Salt:                 b32(0x5a),
		StorageSlots: []StorageSlot{
			{Key: b32(0x01), Value: b32(0x10)},
			{Key: b32(0x02), Value: b32(0x20)},
		},
		In: []Input{
			&InputCoinPredicate{
				UtxoID:    UtxoID{TxID: b32(0x04), OutputIndex: 0},
				Owner:     b32(0x05),
				Amount:    9000,
				AssetID:   BaseAssetID,
				Predicate: []byte{0x90, 0x91, 0x92},
			},
		},
		Out: []Output{
			&OutputContractCreated{ContractID: b32(0x06), StateRoot: b32(0x07)},
		},
		Wit: []Witness{{Data: bytecode}},
	}
}

func sampleMint() *Mint {
	return &Mint{
		TxPointer: TxPointer{BlockHeight: 42, TxIndex: 0},
		Out: []Output{
			&OutputCoin{To: b32(0x08), Amount: 100, AssetID: BaseAssetID},
			&OutputCoin{To: b32(0x08), Amount: 7, AssetID: b32(0x09)},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		tx   Transaction
	}{
		{"minimal script", minimalScript()},
		{"sample script", sampleScript()},
		{"sample create", sampleCreate()},
		{"sample mint", sampleMint()},
		{"empty mint", &Mint{}},
		{"message inputs", &Script{
			In: []Input{
				&InputMessageSigned{
					MessageID: b32(0x11), Sender: b32(0x12), Recipient: b32(0x13),
					Amount: 50, Nonce: 9, WitnessIndex: 0, Data: []byte{1, 2, 3},
				},
				&InputMessagePredicate{
					MessageID: b32(0x14), Sender: b32(0x12), Recipient: b32(0x13),
					Amount: 60, Nonce: 10,
					Predicate:     []byte{0x90},
					PredicateData: []byte{0xde, 0xad},
				},
			},
			Wit: []Witness{{Data: nil}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := Encode(tc.tx)
			if len(raw) != tc.tx.EncodedSize() {
				t.Fatalf("encoded %d bytes, EncodedSize says %d", len(raw), tc.tx.EncodedSize())
			}
			back, err := Decode(raw)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(tc.tx, back) {
				t.Fatalf("round trip mismatch:\n have %#v\n want %#v", back, tc.tx)
			}
			again := Encode(back)
			if !bytes.Equal(raw, again) {
				t.Fatalf("re-encode differs from original bytes")
			}
		})
	}
}

// Empty and nil blobs share one encoding, and decode always yields nil.
// Nil is the canonical in-memory form; a value built with empty non-nil
// slices re-encodes to the same bytes but is not DeepEqual to its decode.
func TestDecodeNormalizesEmptyBlobsToNil(t *testing.T) {
	s := minimalScript()
	s.Script = []byte{}
	s.ScriptData = []byte{}
	s.Wit = []Witness{{Data: []byte{}}}

	canonical := minimalScript()
	canonical.Wit = []Witness{{Data: nil}}
	raw := Encode(s)
	if !bytes.Equal(raw, Encode(canonical)) {
		t.Fatalf("empty and nil blobs encode differently")
	}

	back, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := back.(*Script)
	if got.Script != nil || got.ScriptData != nil || got.Wit[0].Data != nil {
		t.Fatalf("empty blobs did not decode to nil: %#v", got)
	}
	if !reflect.DeepEqual(back, canonical) {
		t.Fatalf("decode differs from the nil form:\n have %#v\n want %#v", back, canonical)
	}
}

// The worked example pins the exact layout arithmetic: fixed sections plus
// the padded 65-byte witness.
func TestSampleScriptEncodedLength(t *testing.T) {
	raw := Encode(sampleScript())
	want := 104 + 168 + 80 + (8 + 72)
	if len(raw) != want {
		t.Fatalf("encoded %d bytes, want %d", len(raw), want)
	}
}

func TestDecodeGoldenHeader(t *testing.T) {
	// Build the minimal script encoding by hand and confirm both
	// directions agree on it.
	var b bytes.Buffer
	for _, w := range []uint64{0, 0, 0, 0, 0, 0, 0, 0, 0} {
		_ = binary.Write(&b, binary.BigEndian, w)
	}
	b.Write(make([]byte, 32)) // receiptsRoot
	raw := b.Bytes()

	if got := Encode(minimalScript()); !bytes.Equal(got, raw) {
		t.Fatalf("encode mismatch against hand-built bytes")
	}
	back, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(back, minimalScript()) {
		t.Fatalf("decoded %#v", back)
	}
}

func TestDecodeRejectsTruncation(t *testing.T) {
	raw := Encode(sampleScript())
	for _, cut := range []int{1, WordSize, 40, len(raw) / 2, len(raw) - 1} {
		_, err := Decode(raw[:len(raw)-cut])
		if err == nil {
			t.Fatalf("cut=%d: expected error", cut)
		}
		code := mustDecodeCode(t, err)
		if code != UnexpectedEof && code != LengthOverflow {
			t.Fatalf("cut=%d: code=%s", cut, code)
		}
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	raw := append(Encode(sampleMint()), 0x00)
	expectDecodeCode(t, raw, TrailingBytes)
}

func TestDecodeRejectsInvalidTags(t *testing.T) {
	bad := Encode(minimalScript())
	binary.BigEndian.PutUint64(bad[:8], 9)
	expectDecodeCode(t, bad, InvalidVariantTag)

	// Corrupt the input tag of the sample script.
	raw := Encode(sampleScript())
	inOff := InputsOffset(sampleScript())
	binary.BigEndian.PutUint64(raw[inOff:inOff+8], 7)
	expectDecodeCode(t, raw, InvalidVariantTag)

	// And the output tag.
	raw = Encode(sampleScript())
	outOff := OutputsOffset(sampleScript())
	binary.BigEndian.PutUint64(raw[outOff:outOff+8], 5)
	expectDecodeCode(t, raw, InvalidVariantTag)
}

func TestDecodeRejectsNonZeroPadding(t *testing.T) {
	s := &Script{Script: []byte{0x01, 0x02, 0x03}} // 5 padding bytes
	raw := Encode(s)
	off, _ := ScriptOffset(s)
	raw[off+3] = 0xff
	expectDecodeCode(t, raw, NonCanonical)
}

func TestDecodeRejectsOversizedScalars(t *testing.T) {
	// Witness index must fit a u8.
	raw := Encode(sampleScript())
	inOff := InputsOffset(sampleScript())
	// tag + utxo(40) + owner(32) + amount(8) + asset(32) + pointer(16)
	witIdxOff := inOff + 8 + 40 + 32 + 8 + 32 + 16
	binary.BigEndian.PutUint64(raw[witIdxOff:witIdxOff+8], 256)
	expectDecodeCode(t, raw, NonCanonical)

	// TxPointer block height must fit a u32.
	raw = Encode(sampleMint())
	binary.BigEndian.PutUint64(raw[8:16], 1<<32)
	expectDecodeCode(t, raw, NonCanonical)
}

func TestDecodeRejectsForbiddenFieldMix(t *testing.T) {
	// Signed coin input with a non-zero predicate data length.
	s := sampleScript()
	raw := Encode(s)
	inOff := InputsOffset(s)
	predDataLenOff := inOff + inputCoinFixedSize - WordSize
	binary.BigEndian.PutUint64(raw[predDataLenOff:predDataLenOff+8], 0)
	// sanity: unchanged buffer still decodes
	if _, err := Decode(raw); err != nil {
		t.Fatalf("sanity decode: %v", err)
	}
	binary.BigEndian.PutUint64(raw[predDataLenOff:predDataLenOff+8], 8)
	_, err := Decode(raw)
	if err == nil {
		t.Fatalf("expected error")
	}
	code := mustDecodeCode(t, err)
	if code != NonCanonical && code != LengthOverflow {
		t.Fatalf("code=%s", code)
	}
}

func TestDecodeRejectsWitnessIndexOnPredicateInput(t *testing.T) {
	c := sampleCreate()
	raw := Encode(c)
	inOff := InputsOffset(c)
	witIdxOff := inOff + 8 + 40 + 32 + 8 + 32 + 16
	binary.BigEndian.PutUint64(raw[witIdxOff:witIdxOff+8], 1)
	expectDecodeCode(t, raw, NonCanonical)
}

func TestDecodeRejectsHugeDeclaredLength(t *testing.T) {
	s := &Script{Script: []byte{0x01}}
	raw := Encode(s)
	// script length word is the 5th word
	binary.BigEndian.PutUint64(raw[4*WordSize:5*WordSize], 1<<40)
	expectDecodeCode(t, raw, LengthOverflow)

	// Count words are bounded by the space their elements would occupy.
	raw = Encode(minimalScript())
	binary.BigEndian.PutUint64(raw[6*WordSize:7*WordSize], 1000)
	expectDecodeCode(t, raw, LengthOverflow)
}

func TestDecodeEmptyAndGarbage(t *testing.T) {
	expectDecodeCode(t, nil, UnexpectedEof)
	expectDecodeCode(t, []byte{0x01}, UnexpectedEof)
	expectDecodeCode(t, bytes.Repeat([]byte{0xff}, 64), InvalidVariantTag)
}
