package facade

import "sync"

// relay fans the collaborator's raw output stream out to subscribers. It
// holds exactly one upstream subscription while at least one subscriber
// exists and detaches as soon as the last one leaves; output produced while
// detached is lost. This is a live tail, not a log.
type relay struct {
	source OutputSource

	mu     sync.Mutex
	subs   map[int]func(string)
	nextID int
	detach func()
}

func newRelay(source OutputSource) *relay {
	return &relay{
		source: source,
		subs:   make(map[int]func(string)),
	}
}

// Subscribe registers fn for every forthcoming output chunk and returns a
// cancel function. The first subscriber attaches the relay upstream.
func (r *relay) Subscribe(fn func(chunk string)) (cancel func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	if len(r.subs) == 1 && r.source != nil {
		r.detach = r.source.SubscribeOutput(r.broadcast)
	}
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.unsubscribe(id)
		})
	}
}

func (r *relay) unsubscribe(id int) {
	r.mu.Lock()
	delete(r.subs, id)
	var detach func()
	if len(r.subs) == 0 {
		detach = r.detach
		r.detach = nil
	}
	r.mu.Unlock()

	if detach != nil {
		detach()
	}
}

func (r *relay) broadcast(chunk string) {
	r.mu.Lock()
	fns := make([]func(string), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(chunk)
	}
}
