// Package transport models the process/rank message-passing collaborator
// spec.md §5 requires: "a set of parallel processes ... communicating by
// explicit message passing (never shared corner-value memory)". No example
// repo in the retrieval pack models multi-process message passing (the
// teacher's only concurrency is a mutex-guarded cache in
// render/octree_renderer.go), so Fabric gives each simulation rank a
// buffered inbox channel and fans the two collective points ABLATE's sync
// and surface-count reporting need out to one goroutine per rank with
// golang.org/x/sync/errgroup.
package transport

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// ErrUnknownRank is returned when a message names a rank outside [0,N).
var ErrUnknownRank = errors.New("transport: unknown rank")

// Message is one point-to-point datum passed between ranks: a rank's
// per-cell corner-delta contribution, keyed by the sending cell's global
// id (which the receiving rank's ghost copy of that cell shares), mirroring the ilocal+Ncorner-values payload
// FixAblate::sync packs into sbuf (fix_ablate.cpp:862).
type Message struct {
	From, To uint64
	CellID   uint64
	CDelta   []float64
}

// Fabric is a fixed set of N ranks, each with its own inbox. Fabric never
// touches a rank's state (its gridblock.Block, its ablate.Driver); it only
// moves Messages between ranks, so no lock ever guards a corner-value
// array.
type Fabric struct {
	n      int
	inbox  []chan Message
}

// NewFabric allocates a Fabric of n ranks, each with a buffered inbox large
// enough for one exchange round in the target grid sizes this module deals
// with (256 messages). Exchange drains inboxes only after every send has
// finished, so a send to a full inbox blocks until ctx is cancelled.
func NewFabric(n int) *Fabric {
	f := &Fabric{n: n, inbox: make([]chan Message, n)}
	for i := range f.inbox {
		f.inbox[i] = make(chan Message, 256)
	}
	return f
}

// Ranks returns the number of ranks in the fabric.
func (f *Fabric) Ranks() int { return f.n }

func (f *Fabric) valid(rank int) bool { return rank >= 0 && rank < f.n }

// Exchange runs one collective round of the irregular neighbour exchange
// (spec.md §5, §6): produce(rank) returns the messages that rank wants to
// send this round; every rank's send runs concurrently via an
// errgroup.Group, and once every send has completed, Exchange drains and
// returns each rank's inbox. Exchange is itself the synchronization
// barrier — no rank observes another's messages until every rank's sends
// for this round have finished.
func (f *Fabric) Exchange(ctx context.Context, produce func(rank int) ([]Message, error)) ([][]Message, error) {
	g, ctx := errgroup.WithContext(ctx)
	for r := 0; r < f.n; r++ {
		r := r
		g.Go(func() error {
			msgs, err := produce(r)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				if !f.valid(int(m.To)) {
					return ErrUnknownRank
				}
				select {
				case f.inbox[m.To] <- m:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	incoming := make([][]Message, f.n)
	for r := 0; r < f.n; r++ {
		incoming[r] = drain(f.inbox[r])
	}
	return incoming, nil
}

func drain(ch chan Message) []Message {
	var out []Message
	for {
		select {
		case m := <-ch:
			out = append(out, m)
		default:
			return out
		}
	}
}

// Allreduce sums one float64 contributed by every rank — the collective sum
// spec.md §6's surface store set_count(nsurf_global) needs (cmd/ablatectl
// uses it for the global surface element count). contribute(rank) is invoked
// concurrently for every rank via an errgroup.Group; any error aborts the
// whole reduction.
func (f *Fabric) Allreduce(ctx context.Context, contribute func(ctx context.Context, rank int) (float64, error)) (float64, error) {
	g, ctx := errgroup.WithContext(ctx)
	partials := make([]float64, f.n)
	for r := 0; r < f.n; r++ {
		r := r
		g.Go(func() error {
			v, err := contribute(ctx, r)
			if err != nil {
				return err
			}
			partials[r] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	sum := 0.0
	for _, p := range partials {
		sum += p
	}
	return sum, nil
}
