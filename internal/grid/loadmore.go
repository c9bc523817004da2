package grid

import "context"

// Geometry is the scroll state of the container, in the same units as the
// threshold (terminal lines in the TUI).
type Geometry struct {
	ScrollTop    int
	ScrollHeight int
	ClientHeight int
}

func (g Geometry) Remaining() int { return g.ScrollHeight - g.ScrollTop - g.ClientHeight }

// LoadMore gates "load more" requests so that at most one is outstanding.
type LoadMore struct {
	Threshold int

	loading bool
	cancel  context.CancelFunc
}

func NewLoadMore(threshold int) *LoadMore {
	return &LoadMore{Threshold: threshold}
}

func (l *LoadMore) Loading() bool { return l.loading }

// OnScroll reports whether a load should be triggered for this scroll
// position. A true result also marks the controller as loading.
func (l *LoadMore) OnScroll(g Geometry) bool {
	if l.loading {
		return false
	}
	if g.Remaining() >= l.Threshold {
		return false
	}
	l.loading = true
	return true
}

// Begin returns a context for the pending load. Dispose cancels it.
func (l *LoadMore) Begin(parent context.Context) context.Context {
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	l.loading = true
	l.cancel = cancel
	return ctx
}

// Done marks the pending load as complete.
func (l *LoadMore) Done() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.loading = false
}

// Dispose cancels any pending load and clears the loading flag.
func (l *LoadMore) Dispose() { l.Done() }
