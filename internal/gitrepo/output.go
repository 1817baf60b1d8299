package gitrepo

import "sync"

// outputHub is the collaborator's raw output stream. Transport progress from
// fetch/pull/push is written here and broadcast verbatim, in order, to every
// attached subscriber. Nothing is buffered: chunks written while no one is
// attached are dropped.
type outputHub struct {
	mu     sync.Mutex
	subs   map[int]func(string)
	nextID int
}

func newOutputHub() *outputHub {
	return &outputHub{subs: make(map[int]func(string))}
}

// SubscribeOutput implements facade.OutputSource.
func (h *outputHub) SubscribeOutput(fn func(chunk string)) (cancel func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Write implements io.Writer so the hub can serve as a sideband progress
// sink.
func (h *outputHub) Write(p []byte) (int, error) {
	h.mu.Lock()
	fns := make([]func(string), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	if len(fns) > 0 {
		chunk := string(p)
		for _, fn := range fns {
			fn(chunk)
		}
	}
	return len(p), nil
}
