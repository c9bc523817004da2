package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"empgrid/internal/grid"
	"empgrid/internal/ingest"
	"empgrid/internal/util/logx"
)

// setupIngest starts the optional record stream and returns the tick that
// drains it, or nil when no stream was requested.
func setupIngest(m *Model) tea.Cmd {
	var opt ingest.Options
	switch {
	case m.cfg.FilePath != "":
		opt = ingest.Options{Source: ingest.SourceFile, Path: m.cfg.FilePath, Follow: m.cfg.Follow}
	case m.cfg.UseStdin:
		opt = ingest.Options{Source: ingest.SourceStdin}
	default:
		return nil
	}
	if m.ingestCancel != nil {
		m.ingestCancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.ingestCancel = cancel
	m.records, m.errs = ingest.Read(ctx, opt)
	logx.Infof("ingest: source=%s path=%s follow=%v", opt.Source, opt.Path, opt.Follow)
	return tick()
}

// drainIngest moves pending streamed records into the grid. Records are
// appended one at a time so a colliding id only drops that record.
func (m *Model) drainIngest() (changed, open bool) {
	for i := 0; i < 500 && m.records != nil; i++ {
		select {
		case r, ok := <-m.records:
			if !ok {
				m.records = nil
				logx.Infof("ingest: stream closed after %d records", m.ingested)
				break
			}
			if err := m.grid.Append(r.Employee); err != nil {
				logx.Warnf("ingest: %s: %v", r.Source, err)
				continue
			}
			m.ingested++
			changed = true
		default:
			i = 500
		}
	}
	for j := 0; j < 20 && m.errs != nil; j++ {
		select {
		case err, ok := <-m.errs:
			if !ok {
				m.errs = nil
				break
			}
			if strings.Contains(strings.ToLower(err.Error()), "token too long") {
				logx.Errorf("ingest error: %v (record line exceeds scanner buffer)", err)
			} else {
				logx.Errorf("ingest error: %v", err)
			}
		default:
			j = 20
		}
	}
	return changed, m.records != nil || m.errs != nil
}

// geometry reports the scroll state of the grid body in terminal lines.
func (m *Model) geometry() grid.Geometry {
	return grid.Geometry{
		ScrollTop:    m.scrollTop,
		ScrollHeight: len(m.rows) * m.cfg.RowHeight,
		ClientHeight: m.bodyHeight(),
	}
}

// maybeLoadMore is called after every scroll movement.
func (m *Model) maybeLoadMore() tea.Cmd {
	if !m.loader.OnScroll(m.geometry()) {
		return nil
	}
	return m.loadMoreCmd()
}

// loadMoreCmd simulates a fetch: after the configured delay it asks the
// update loop to append a synthesized batch. Dispose cancels the wait.
func (m *Model) loadMoreCmd() tea.Cmd {
	ctx := m.loader.Begin(m.ctx)
	m.loadSeq++
	seq, count, delay := m.loadSeq, m.cfg.BatchSize, m.cfg.LoadDelay
	logx.Debugf("load-more: requested seq=%d count=%d", seq, count)
	wait := func() tea.Msg {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
			return batchLoadedMsg{seq: seq, count: count}
		case <-ctx.Done():
			return loadCanceledMsg{seq: seq}
		}
	}
	return tea.Batch(m.spin.Tick, wait)
}

func (m *Model) applyBatch(msg batchLoadedMsg) {
	if msg.seq != m.loadSeq || !m.loader.Loading() {
		logx.Debugf("load-more: dropping stale batch seq=%d", msg.seq)
		return
	}
	recs := m.src.Synthesize(msg.count, m.grid.Store().NextID())
	if err := m.grid.Append(recs...); err != nil {
		logx.Errorf("load-more: %v", err)
		m.lastMsg = "load failed: " + err.Error()
	} else {
		logx.Infof("load-more: appended %d records (total %d)", len(recs), m.grid.Len())
	}
	m.loader.Done()
	m.refreshRows()
}
