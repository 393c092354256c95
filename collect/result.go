package collect

import (
	"context"

	"github.com/google/uuid"
)

// Result is the pending outcome of one collect call. Collect returns it
// immediately; the caller decides when to wait. Rows and error are set
// exactly once, before done closes.
type Result struct {
	id   uuid.UUID
	done chan struct{}
	rows [][]any
	err  error
}

func newResult() *Result {
	return &Result{id: uuid.New(), done: make(chan struct{})}
}

func completedResult(rows [][]any) *Result {
	r := newResult()
	r.complete(rows)
	return r
}

func (r *Result) complete(rows [][]any) {
	if rows == nil {
		rows = [][]any{}
	}
	r.rows = rows
	close(r.done)
}

func (r *Result) fail(err error) {
	r.err = err
	close(r.done)
}

// ID is the correlation id of this call, also attached to its log records
func (r *Result) ID() uuid.UUID { return r.id }

// Done closes when the call has settled
func (r *Result) Done() <-chan struct{} { return r.done }

// Wait blocks until the call settles or ctx is cancelled, then returns the
// row matrix. An empty matrix is a successful outcome, structurally
// distinct from any error.
func (r *Result) Wait(ctx context.Context) ([][]any, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.done:
		return r.rows, r.err
	}
}
