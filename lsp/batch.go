package lsp

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/kochabx/clea/errors"
)

// Result is the outcome of one token of a batch.
type Result struct {
	Index   int
	Decoded *Decoded
	Err     error
}

// DecodeAll decodes tokens on a pool of WithConcurrency workers. Results
// are in token order. Once ctx is done, tokens not yet submitted fail
// with ctx.Err().
func (d *Decoder) DecodeAll(ctx context.Context, tokens []string) []Result {
	results := make([]Result, len(tokens))
	for i := range results {
		results[i].Index = i
	}
	if len(tokens) == 0 {
		return results
	}

	size := min(d.opts.concurrency, len(tokens))
	pool, err := ants.NewPool(size, ants.WithPreAlloc(true))
	if err != nil {
		perr := errors.Internal("lsp: create decode pool").WithCause(err)
		for i := range results {
			results[i].Err = perr
		}
		return results
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, token := range tokens {
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i].Decoded, results[i].Err = d.Decode(token)
		})
		if err != nil {
			wg.Done()
			results[i].Err = errors.Internal("lsp: submit decode").WithCause(err)
		}
	}
	wg.Wait()

	d.opts.logger.Debug().Int("tokens", len(tokens)).Int("workers", size).Msg("batch decoded")
	return results
}
