package txgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quanta.dev/vm/crypto"
	"quanta.dev/vm/tx"
)

func TestGeneratedTransactionsAreValid(t *testing.T) {
	p := crypto.Native{}
	params := tx.DefaultParameters()
	g := New(42, p, params)

	for i := 0; i < 200; i++ {
		generated := g.Transaction()
		_, err := tx.CheckUnsigned(p, generated, 1<<32, params)
		require.NoErrorf(t, err, "iteration %d (%T)", i, generated)
	}
}

func TestGeneratedTransactionsRoundTrip(t *testing.T) {
	p := crypto.Native{}
	g := New(7, p, tx.DefaultParameters())

	for i := 0; i < 100; i++ {
		generated := g.Transaction()
		raw := tx.Encode(generated)
		back, err := tx.Decode(raw)
		require.NoErrorf(t, err, "iteration %d", i)
		assert.Equal(t, generated, back, "iteration %d", i)
	}
}

func TestGeneratorIsDeterministic(t *testing.T) {
	p := crypto.Native{}
	params := tx.DefaultParameters()

	a := New(99, p, params)
	b := New(99, p, params)
	for i := 0; i < 20; i++ {
		assert.Equal(t, tx.Encode(a.Transaction()), tx.Encode(b.Transaction()))
	}
}

func TestGeneratorCoversAllVariants(t *testing.T) {
	g := New(3, crypto.Native{}, tx.DefaultParameters())
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		switch g.Transaction().(type) {
		case *tx.Script:
			seen["script"] = true
		case *tx.Create:
			seen["create"] = true
		case *tx.Mint:
			seen["mint"] = true
		}
	}
	assert.Len(t, seen, 3)
}
