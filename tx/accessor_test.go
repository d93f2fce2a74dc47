package tx

import (
	"bytes"
	"testing"
)

func TestRawAccessors(t *testing.T) {
	s := sampleScript()
	raw := Encode(s)

	got, err := GasPriceAt(raw)
	if err != nil || got != s.GasPrice {
		t.Fatalf("GasPriceAt = %d, %v", got, err)
	}
	got, err = GasLimitAt(raw)
	if err != nil || got != s.GasLimit {
		t.Fatalf("GasLimitAt = %d, %v", got, err)
	}
	got, err = MaturityAt(raw)
	if err != nil || got != s.Maturity {
		t.Fatalf("MaturityAt = %d, %v", got, err)
	}

	off, n, err := ScriptRegionAt(raw)
	if err != nil || n != len(s.Script) || off != scriptFixedSize {
		t.Fatalf("ScriptRegionAt = (%d, %d), %v", off, n, err)
	}

	off, n, err = WitnessRegionAt(raw, 0)
	if err != nil {
		t.Fatalf("WitnessRegionAt: %v", err)
	}
	if !bytes.Equal(raw[off:off+n], s.Wit[0].Data) {
		t.Fatalf("witness region bytes differ")
	}
}

func TestRawAccessorsOnCreate(t *testing.T) {
	c := sampleCreate()
	raw := Encode(c)

	got, err := GasLimitAt(raw)
	if err != nil || got != c.GasLimit {
		t.Fatalf("GasLimitAt = %d, %v", got, err)
	}
	if _, _, err := ScriptRegionAt(raw); err == nil {
		t.Fatalf("create has no script region")
	}

	off, n, err := WitnessRegionAt(raw, 0)
	if err != nil {
		t.Fatalf("WitnessRegionAt: %v", err)
	}
	if !bytes.Equal(raw[off:off+n], c.Wit[0].Data) {
		t.Fatalf("witness region bytes differ")
	}
}

func TestRawAccessorsBufferTooShort(t *testing.T) {
	expectCode := func(err error) {
		t.Helper()
		if err == nil {
			t.Fatalf("expected error")
		}
		if got := mustDecodeCode(t, err); got != BufferTooShort {
			t.Fatalf("code=%s", got)
		}
	}

	_, err := GasPriceAt(nil)
	expectCode(err)
	_, err = GasLimitAt([]byte{0x00})
	expectCode(err)

	// Mint carries no gas fields.
	_, err = GasPriceAt(Encode(sampleMint()))
	expectCode(err)
	_, _, err = WitnessRegionAt(Encode(sampleMint()), 0)
	expectCode(err)

	// Truncated mid-witness-section.
	raw := Encode(sampleScript())
	_, _, err = WitnessRegionAt(raw[:len(raw)-8], 0)
	expectCode(err)

	// Index past the declared count.
	_, _, err = WitnessRegionAt(raw, 1)
	expectCode(err)
}

func TestPatchWitnessAt(t *testing.T) {
	s := sampleScript()
	raw := Encode(s)

	blob := make([]byte, 65)
	for i := range blob {
		blob[i] = 0xee
	}
	if err := PatchWitnessAt(raw, 0, blob); err != nil {
		t.Fatalf("patch: %v", err)
	}

	back, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode patched: %v", err)
	}
	if !bytes.Equal(back.Witnesses()[0].Data, blob) {
		t.Fatalf("patched witness did not round trip")
	}

	// A shorter blob within the same padded size updates the length word
	// and zeroes the tail, keeping the buffer canonical.
	short := bytes.Repeat([]byte{0xcd}, 70) // padded 72, same slot as 65
	if err := PatchWitnessAt(raw, 0, short); err != nil {
		t.Fatalf("patch short: %v", err)
	}
	back, err = Decode(raw)
	if err != nil {
		t.Fatalf("decode after short patch: %v", err)
	}
	if !bytes.Equal(back.Witnesses()[0].Data, short) {
		t.Fatalf("short patch did not round trip")
	}

	// Padded size mismatch is rejected without touching the buffer.
	before := append([]byte(nil), raw...)
	if err := PatchWitnessAt(raw, 0, make([]byte, 100)); err == nil {
		t.Fatalf("expected mismatch error")
	}
	if !bytes.Equal(before, raw) {
		t.Fatalf("failed patch modified the buffer")
	}
}
