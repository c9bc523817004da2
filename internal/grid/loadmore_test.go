package grid

import (
	"context"
	"testing"
	"time"

	"empgrid/internal/model"
	"empgrid/internal/source"
)

func TestLoadMoreGate(t *testing.T) {
	l := NewLoadMore(200)
	far := Geometry{ScrollTop: 0, ScrollHeight: 3000, ClientHeight: 600}
	if l.OnScroll(far) {
		t.Fatalf("should not trigger far from bottom")
	}
	near := Geometry{ScrollTop: 2250, ScrollHeight: 3000, ClientHeight: 600}
	if near.Remaining() != 150 {
		t.Fatalf("remaining: %d", near.Remaining())
	}
	if !l.OnScroll(near) {
		t.Fatalf("should trigger at 150 < 200")
	}
	if !l.Loading() {
		t.Fatalf("loading should be set")
	}
	if l.OnScroll(near) {
		t.Fatalf("second trigger while loading")
	}
	l.Done()
	if l.Loading() {
		t.Fatalf("loading should clear")
	}
	exact := Geometry{ScrollTop: 2200, ScrollHeight: 3000, ClientHeight: 600}
	if l.OnScroll(exact) {
		t.Fatalf("remaining == threshold must not trigger")
	}
}

// Mirrors the scroll scenario end to end: one trigger, a deferred append of
// a synthesized batch, then loading clears.
func TestLoadMoreScenario(t *testing.T) {
	g := New(model.NewCollection(), Options{})
	seed, err := source.Seed()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := g.Append(seed...); err != nil {
		t.Fatalf("append: %v", err)
	}
	l := NewLoadMore(200)
	fired := 0
	geo := Geometry{ScrollTop: 250, ScrollHeight: 1000, ClientHeight: 600}
	done := make(chan []model.Employee, 1)
	for i := 0; i < 3; i++ {
		if l.OnScroll(geo) {
			fired++
			ctx := l.Begin(context.Background())
			start := g.Store().NextID()
			go func() {
				select {
				case <-time.After(10 * time.Millisecond):
					done <- source.New(1).Synthesize(30, start)
				case <-ctx.Done():
					done <- nil
				}
			}()
		}
	}
	if fired != 1 {
		t.Fatalf("fired %d times", fired)
	}
	if !l.Loading() {
		t.Fatalf("loading should be true while pending")
	}
	batch := <-done
	if err := g.Append(batch...); err != nil {
		t.Fatalf("append batch: %v", err)
	}
	l.Done()
	if l.Loading() {
		t.Fatalf("loading should clear after append")
	}
	if g.Len() != 33 {
		t.Fatalf("rows: %d", g.Len())
	}
}

func TestLoadMoreDisposeCancels(t *testing.T) {
	l := NewLoadMore(5)
	ctx := l.Begin(context.Background())
	l.Dispose()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("context not cancelled")
	}
	if l.Loading() {
		t.Fatalf("dispose should clear loading")
	}
}
