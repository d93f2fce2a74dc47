package tx

import (
	"context"

	"quanta.dev/vm/crypto"
	"quanta.dev/vm/pkg/workerpool"
)

// CheckAll validates independent transactions concurrently on a bounded
// worker pool and returns the Checked wrappers in input order. Validation
// is pure, so the only shared state is the result slice, written at
// disjoint indexes. The first violation cancels the remaining work.
func CheckAll(ctx context.Context, p crypto.Provider, txs []Transaction, blockHeight uint64, params ConsensusParameters, workers int) ([]*Checked, error) {
	params.mustValid()

	checked := make([]*Checked, len(txs))
	err := workerpool.Run(ctx, workers, txs, func(_ context.Context, i int, t Transaction) error {
		c, err := Check(p, t, blockHeight, params)
		if err != nil {
			return err
		}
		checked[i] = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return checked, nil
}
