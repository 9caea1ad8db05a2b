// internal/syncer/progress.go
package syncer

import (
	"sync/atomic"

	"commitlens/internal/model"
)

const progressBuffer = 1024

// emitter hands progress events to a callback on its own goroutine so a slow consumer never
// stalls a sync. Events are dropped when the buffer is full.
type emitter struct {
	runID   string
	ch      chan model.ProgressEvent
	done    chan struct{}
	dropped atomic.Int64
}

func newEmitter(runID string, fn func(model.ProgressEvent)) *emitter {
	e := &emitter{runID: runID}
	if fn == nil {
		return e
	}
	e.ch = make(chan model.ProgressEvent, progressBuffer)
	e.done = make(chan struct{})
	go func() {
		defer close(e.done)
		for ev := range e.ch {
			fn(ev)
		}
	}()
	return e
}

func (e *emitter) emit(ev model.ProgressEvent) {
	if e.ch == nil {
		return
	}
	ev.RunID = e.runID
	select {
	case e.ch <- ev:
	default:
		e.dropped.Add(1)
	}
}

// close waits until every buffered event has been delivered.
func (e *emitter) close() int64 {
	if e.ch == nil {
		return 0
	}
	close(e.ch)
	<-e.done
	return e.dropped.Load()
}
