package analysis

import (
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-control/ctl/poly"
)

// ClosedLoopUpdate is one worker answer: the sorted roots of a
// characteristic polynomial, tagged with the submission sequence number so
// consumers can discard answers superseded by a later submission.
type ClosedLoopUpdate struct {
	Seq   uint64
	Roots poly.RootResult
	Err   error
}

// Worker computes closed-loop poles off the caller's goroutine. Both its
// channels hold a single slot and overwrite rather than queue: a pending
// task is replaced by a newer submission and an unread update is replaced
// by a newer one. Nothing but copies crosses the channel boundary.
type Worker struct {
	seq     atomic.Uint64
	tasks   chan workerTask
	updates chan ClosedLoopUpdate
	quit    chan struct{}
	once    sync.Once
}

type workerTask struct {
	seq  uint64
	char []float64
}

// NewWorker starts the background goroutine.
func NewWorker() *Worker {
	w := &Worker{
		tasks:   make(chan workerTask, 1),
		updates: make(chan ClosedLoopUpdate, 1),
		quit:    make(chan struct{}),
	}

	go w.run()

	return w
}

// Submit hands the worker a characteristic polynomial in ascending power
// order and returns the sequence number its update will carry. A task still
// pending from an earlier Submit is discarded.
func (w *Worker) Submit(char []float64) uint64 {
	seq := w.seq.Add(1)
	t := workerTask{seq: seq, char: append([]float64(nil), char...)}

	for {
		select {
		case w.tasks <- t:
			return seq
		default:
		}

		// Slot occupied by a superseded task; drop it and retry.
		select {
		case <-w.tasks:
		default:
		}
	}
}

// Updates delivers worker answers. Consumers should skip updates whose Seq
// is lower than their latest submission.
func (w *Worker) Updates() <-chan ClosedLoopUpdate {
	return w.updates
}

// Close stops the worker goroutine. Pending work is abandoned.
func (w *Worker) Close() {
	w.once.Do(func() { close(w.quit) })
}

func (w *Worker) run() {
	for {
		select {
		case <-w.quit:
			return
		case t := <-w.tasks:
			// Collapse to the newest task before doing any work.
			for drained := false; !drained; {
				select {
				case t = <-w.tasks:
				default:
					drained = true
				}
			}

			w.publish(solve(t))
		}
	}
}

func (w *Worker) publish(upd ClosedLoopUpdate) {
	for {
		select {
		case <-w.quit:
			return
		case w.updates <- upd:
			return
		default:
		}

		// An unread older update occupies the slot; replace it.
		select {
		case <-w.updates:
		default:
		}
	}
}

func solve(t workerTask) ClosedLoopUpdate {
	res, err := poly.FindRootsReal(t.char)
	res.Roots = poly.SortRoots(res.Roots)

	return ClosedLoopUpdate{Seq: t.seq, Roots: res, Err: err}
}
