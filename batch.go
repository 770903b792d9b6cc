package jstream

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/xdg-go/jstream/utf"
)

// BatchError reports the first literal in a batch that failed to decode.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("literal %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// UnquoteAll decodes JSON string literals to UTF-8 strings using up to
// workers goroutines.  A workers value of zero or less means GOMAXPROCS.
// Results are in input order.  The first failure, or cancellation of ctx,
// stops the remaining work; cancellation is checked between literals.
func UnquoteAll(ctx context.Context, lits [][]byte, workers int) ([]string, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(lits) {
		workers = len(lits)
	}
	out := make([]string, len(lits))
	if len(lits) == 0 {
		return out, nil
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	unquoters := sync.Pool{
		New: func() interface{} {
			u, err := NewUnquoter(utf.UTF8)
			if err != nil {
				// UTF-8 is always a valid target.
				panic(err)
			}
			return u
		},
	}

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	// Each task handles a contiguous stride of literals with one Unquoter.
	stride := (len(lits) + workers - 1) / workers
	for start := 0; start < len(lits); start += stride {
		end := start + stride
		if end > len(lits) {
			end = len(lits)
		}
		lo, hi := start, end
		wg.Add(1)
		err = pool.Submit(func() {
			defer wg.Done()
			u := unquoters.Get().(*Unquoter)
			defer unquoters.Put(u)
			for i := lo; i < hi; i++ {
				if ctx.Err() != nil {
					return
				}
				s, err := u.Unquote(string(lits[i]))
				if err != nil {
					fail(&BatchError{Index: i, Err: err})
					return
				}
				out[i] = s
			}
		})
		if err != nil {
			wg.Done()
			fail(err)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
