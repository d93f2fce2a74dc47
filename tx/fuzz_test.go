package tx

import (
	"bytes"
	"testing"
)

// Decoding arbitrary bytes must never panic, and anything that decodes
// must re-encode to the identical bytes (single valid encoding).
func FuzzDecode(f *testing.F) {
	f.Add(Encode(minimalScript()))
	f.Add(Encode(sampleScript()))
	f.Add(Encode(sampleCreate()))
	f.Add(Encode(sampleMint()))
	f.Add([]byte{})
	f.Add(bytes.Repeat([]byte{0x00}, 200))
	f.Add(bytes.Repeat([]byte{0xff}, 200))

	f.Fuzz(func(t *testing.T, raw []byte) {
		decoded, err := Decode(raw)
		if err != nil {
			if _, ok := err.(*DecodeError); !ok {
				t.Fatalf("non-DecodeError from Decode: %T %v", err, err)
			}
			return
		}
		again := Encode(decoded)
		if !bytes.Equal(raw, again) {
			t.Fatalf("re-encode differs:\n in  %x\n out %x", raw, again)
		}
		if len(again) != decoded.EncodedSize() {
			t.Fatalf("EncodedSize %d, actual %d", decoded.EncodedSize(), len(again))
		}
	})
}

// Raw accessors must never panic and, on buffers that decode, must agree
// with the decoded value.
func FuzzAccessors(f *testing.F) {
	f.Add(Encode(sampleScript()))
	f.Add(Encode(sampleCreate()))
	f.Add(Encode(sampleMint()))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, raw []byte) {
		gasLimit, gasErr := GasLimitAt(raw)
		_, _, _ = ScriptRegionAt(raw)
		_, _, _ = WitnessRegionAt(raw, 0)

		decoded, err := Decode(raw)
		if err != nil {
			return
		}
		switch decoded := decoded.(type) {
		case *Script:
			if gasErr != nil || gasLimit != decoded.GasLimit {
				t.Fatalf("GasLimitAt = %d (%v), decoded %d", gasLimit, gasErr, decoded.GasLimit)
			}
		case *Create:
			if gasErr != nil || gasLimit != decoded.GasLimit {
				t.Fatalf("GasLimitAt = %d (%v), decoded %d", gasLimit, gasErr, decoded.GasLimit)
			}
		}
	})
}
