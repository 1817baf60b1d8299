package facade

import "testing"

// fakeSource records attach/detach cycles and lets tests push chunks.
type fakeSource struct {
	fn     func(string)
	attach int
	detach int
}

func (s *fakeSource) SubscribeOutput(fn func(chunk string)) (cancel func()) {
	s.fn = fn
	s.attach++
	return func() {
		s.fn = nil
		s.detach++
	}
}

func (s *fakeSource) emit(chunk string) {
	if s.fn != nil {
		s.fn(chunk)
	}
}

func TestRelay_AttachesOnFirstSubscriber(t *testing.T) {
	source := &fakeSource{}
	r := newRelay(source)

	source.emit("lost")
	if source.attach != 0 {
		t.Fatal("Relay attached upstream before the first subscriber")
	}

	var first, second []string
	cancelFirst := r.Subscribe(func(chunk string) { first = append(first, chunk) })
	cancelSecond := r.Subscribe(func(chunk string) { second = append(second, chunk) })

	if source.attach != 1 {
		t.Fatalf("Expected exactly one upstream attach, got %d", source.attach)
	}

	source.emit("a")
	cancelFirst()
	source.emit("b")

	if len(first) != 1 || first[0] != "a" {
		t.Errorf("Expected first subscriber to see [a], got %v", first)
	}
	if len(second) != 2 || second[0] != "a" || second[1] != "b" {
		t.Errorf("Expected second subscriber to see [a b], got %v", second)
	}
	if source.detach != 0 {
		t.Error("Relay detached upstream while a subscriber remained")
	}

	cancelSecond()
	if source.detach != 1 {
		t.Fatalf("Expected upstream detach after last unsubscribe, got %d", source.detach)
	}

	// Output while detached is dropped, not buffered.
	source.emit("dropped")
	var third []string
	cancelThird := r.Subscribe(func(chunk string) { third = append(third, chunk) })
	defer cancelThird()

	if source.attach != 2 {
		t.Fatalf("Expected re-attach on new subscriber, got %d attaches", source.attach)
	}
	if len(third) != 0 {
		t.Errorf("Expected no replay for new subscriber, got %v", third)
	}
}

func TestRelay_CancelIsIdempotent(t *testing.T) {
	source := &fakeSource{}
	r := newRelay(source)

	cancelFirst := r.Subscribe(func(string) {})
	cancelSecond := r.Subscribe(func(string) {})

	cancelFirst()
	cancelFirst()

	if source.detach != 0 {
		t.Error("Double cancel detached upstream with a subscriber remaining")
	}

	cancelSecond()
	if source.detach != 1 {
		t.Errorf("Expected one detach, got %d", source.detach)
	}
}

func TestRelay_NilSource(t *testing.T) {
	r := newRelay(nil)

	cancel := r.Subscribe(func(string) {})
	cancel()
}
