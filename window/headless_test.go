package window

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jbensmann/kiln/event"
)

func newTestWindow() (*Headless, *[]string) {
	w := NewHeadless(Props{Title: "test", Width: 640, Height: 480})
	w.SetVSync(false)
	var received []string
	w.SetEventCallback(func(e *event.Event) {
		received = append(received, e.String())
	})
	return w, &received
}

func TestHeadlessDeliversInOrder(t *testing.T) {
	w, received := newTestWindow()
	w.Post(event.KeyPressed{Key: 30}, event.KeyReleased{Key: 30})
	w.Post(event.WindowFocus{})
	if len(*received) != 0 {
		t.Fatalf("expected no delivery before the pump")
	}

	w.OnUpdate()
	expected := []string{"KeyPressedEvent: 30 (0 repeats)", "KeyReleasedEvent: 30", "WindowFocus"}
	if diff := cmp.Diff(expected, *received); diff != "" {
		t.Errorf("delivery mismatch (-want +got):\n%s", diff)
	}
	if w.Pending() != 0 {
		t.Errorf("expected an empty queue")
	}
	if w.Frames() != 1 {
		t.Errorf("expected one frame, got %d", w.Frames())
	}
}

func TestHeadlessResizeUpdatesSizeFirst(t *testing.T) {
	w, _ := newTestWindow()
	var seen [2]int
	w.SetEventCallback(func(e *event.Event) {
		seen = [2]int{w.Width(), w.Height()}
	})
	w.Post(event.WindowResize{Width: 1280, Height: 720})
	w.OnUpdate()
	if seen != [2]int{1280, 720} {
		t.Errorf("expected the handler to see the new size, got %v", seen)
	}
}

func TestHeadlessPostDuringPumpIsDeferred(t *testing.T) {
	w, received := newTestWindow()
	w.SetEventCallback(func(e *event.Event) {
		*received = append(*received, e.Name())
		if e.Kind() == event.KindKeyPressed {
			w.Post(event.KeyReleased{Key: 1})
		}
	})
	w.Post(event.KeyPressed{Key: 1})
	w.OnUpdate()
	if diff := cmp.Diff([]string{"KeyPressed"}, *received); diff != "" {
		t.Errorf("first pump mismatch (-want +got):\n%s", diff)
	}
	w.OnUpdate()
	if diff := cmp.Diff([]string{"KeyPressed", "KeyReleased"}, *received); diff != "" {
		t.Errorf("second pump mismatch (-want +got):\n%s", diff)
	}
}

func TestHeadlessRejectsReentrantPump(t *testing.T) {
	w, _ := newTestWindow()
	calls := 0
	w.SetEventCallback(func(e *event.Event) {
		calls++
		w.Post(event.AppTick{})
		w.OnUpdate()
	})
	w.Post(event.AppTick{})
	w.OnUpdate()
	if calls != 1 {
		t.Errorf("expected the nested pump to be ignored, got %d calls", calls)
	}
	if w.Frames() != 1 {
		t.Errorf("expected one frame, got %d", w.Frames())
	}
}

func TestHeadlessRequestClose(t *testing.T) {
	w, received := newTestWindow()
	w.Post(event.KeyPressed{Key: 2})
	w.RequestClose()
	w.RequestClose()
	w.OnUpdate()
	w.OnUpdate()
	expected := []string{"KeyPressedEvent: 2 (0 repeats)", "WindowClose"}
	if diff := cmp.Diff(expected, *received); diff != "" {
		t.Errorf("delivery mismatch (-want +got):\n%s", diff)
	}
}

func TestHeadlessVSyncPacing(t *testing.T) {
	w := NewHeadless(Props{RefreshRate: 50})
	clock := time.Unix(0, 0)
	var slept []time.Duration
	w.now = func() time.Time { return clock }
	w.sleep = func(d time.Duration) {
		slept = append(slept, d)
		clock = clock.Add(d)
	}

	if !w.IsVSync() {
		t.Fatalf("expected vsync to be enabled by default")
	}
	w.OnUpdate()
	clock = clock.Add(5 * time.Millisecond)
	w.OnUpdate()
	w.SetVSync(false)
	w.OnUpdate()

	if diff := cmp.Diff([]time.Duration{15 * time.Millisecond}, slept); diff != "" {
		t.Errorf("sleep mismatch (-want +got):\n%s", diff)
	}
}

func TestHeadlessDefaults(t *testing.T) {
	w := NewHeadless(Props{Title: "x"})
	if w.Width() != 1280 || w.Height() != 720 {
		t.Errorf("expected the default size, got %dx%d", w.Width(), w.Height())
	}
	if w.Title() != "x" {
		t.Errorf("unexpected title %q", w.Title())
	}
	if err := w.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("expected a second close to succeed: %v", err)
	}
}

var _ Window = (*Headless)(nil)
var _ Window = (*Device)(nil)
