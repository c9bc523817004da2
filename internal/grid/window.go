package grid

// VirtualRow is one materialized row of the window.
type VirtualRow struct {
	Index  int
	Offset int // index * row height
}

// Window is the contiguous range of rows that must be rendered for a given
// scroll position. Last is -1 when there are no rows.
type Window struct {
	First       int
	Last        int
	Rows        []VirtualRow
	TotalHeight int
}

func (w Window) Empty() bool { return w.Last < w.First }

// ComputeWindow returns the rows intersecting [scrollTop, scrollTop+viewportH)
// widened by overscan rows on each side.
func ComputeWindow(n, viewportH, rowH, scrollTop, overscan int) Window {
	if rowH <= 0 {
		rowH = 1
	}
	if viewportH < 0 {
		viewportH = 0
	}
	if scrollTop < 0 {
		scrollTop = 0
	}
	if overscan < 0 {
		overscan = 0
	}
	if n <= 0 {
		return Window{First: 0, Last: -1}
	}
	first := scrollTop/rowH - overscan
	if first < 0 {
		first = 0
	}
	// ceil((S+H)/R) in integers
	last := (scrollTop+viewportH+rowH-1)/rowH + overscan
	if last > n-1 {
		last = n - 1
	}
	if first > last {
		// scrolled past the end (e.g. rows were filtered away)
		first = last
	}
	w := Window{First: first, Last: last, TotalHeight: n * rowH}
	w.Rows = make([]VirtualRow, 0, last-first+1)
	for i := first; i <= last; i++ {
		w.Rows = append(w.Rows, VirtualRow{Index: i, Offset: i * rowH})
	}
	return w
}

// Windower recomputes windows and remembers the last one so callers can skip
// rebuilding rows when nothing moved.
type Windower struct {
	RowHeight int
	Overscan  int

	last    Window
	lastN   int
	hasLast bool
}

// Compute returns the window and whether it differs from the previous call.
func (w *Windower) Compute(n, viewportH, scrollTop int) (Window, bool) {
	win := ComputeWindow(n, viewportH, w.RowHeight, scrollTop, w.Overscan)
	changed := !w.hasLast || n != w.lastN || win.First != w.last.First || win.Last != w.last.Last
	w.last, w.lastN, w.hasLast = win, n, true
	return win, changed
}

// Invalidate forces the next Compute to report a change, e.g. after the row
// contents changed without the count changing.
func (w *Windower) Invalidate() { w.hasLast = false }
