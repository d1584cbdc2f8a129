package highlight

import (
	"context"
	"errors"
)

// ErrStaleHighlightVersion reports a warm-up batch computed for text that
// has since been edited.
var ErrStaleHighlightVersion = errors.New("highlight: stale warm-up batch")

// RowResult is the highlighting of one row computed by the worker.
type RowResult struct {
	Spans []Span
	In    State
	Out   State
}

// Batch is a run of consecutive rows computed by the warm-up worker for
// one version of the text.
type Batch struct {
	Version uint64
	Start   int
	Rows    []RowResult
}

// Warmup lexes a snapshot of the rows in the background and delivers the
// results in batches. The channel is closed when the snapshot is done or
// ctx is cancelled. notify, if non-nil, is called after each send so the
// caller can wake its event loop.
func Warmup(ctx context.Context, lexer *Lexer, lines []string, version uint64, batchSize int, notify func()) <-chan Batch {
	if batchSize <= 0 {
		batchSize = 256
	}
	ch := make(chan Batch, 4)
	go func() {
		defer close(ch)
		in := StateNormal
		for start := 0; start < len(lines); start += batchSize {
			end := min(start+batchSize, len(lines))
			b := Batch{Version: version, Start: start, Rows: make([]RowResult, 0, end-start)}
			for _, line := range lines[start:end] {
				spans, out := lexer.Lex(line, in)
				b.Rows = append(b.Rows, RowResult{Spans: spans, In: in, Out: out})
				in = out
			}
			select {
			case ch <- b:
			case <-ctx.Done():
				return
			}
			if notify != nil {
				notify()
			}
		}
	}()
	return ch
}

// Apply merges a worker batch. A batch for an older version is rejected
// with ErrStaleHighlightVersion. Rows the foreground already lexed from a
// known carry state are left alone.
func (h *Highlighter) Apply(b Batch) error {
	if b.Version != h.version {
		return ErrStaleHighlightVersion
	}
	for i, res := range b.Rows {
		r := b.Start + i
		if r >= len(h.rows) {
			break
		}
		rs := &h.rows[r]
		if rs.seen && !rs.dirty && !rs.guessed {
			continue
		}
		rs.spans, rs.in, rs.out = res.Spans, res.In, res.Out
		rs.seen = true
		h.setGuessed(rs, false)
		h.clearDirty(r)
	}
	return nil
}

// warmup is the running worker of a highlighter.
type warmup struct {
	cancel context.CancelFunc
	ch     <-chan Batch
}

// StartWarmup launches the worker over a snapshot of the current rows,
// replacing any running one. The snapshot must match the current version.
func (h *Highlighter) StartWarmup(ctx context.Context, lines []string, batchSize int, notify func()) {
	h.StopWarmup()
	if h.lexer == nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	h.warm = &warmup{
		cancel: cancel,
		ch:     Warmup(ctx, h.lexer, lines, h.version, batchSize, notify),
	}
}

// StopWarmup cancels the running worker, if any.
func (h *Highlighter) StopWarmup() {
	if h.warm != nil {
		h.warm.cancel()
		h.warm = nil
	}
}

// WarmupRunning reports whether a worker is attached.
func (h *Highlighter) WarmupRunning() bool {
	return h.warm != nil
}

// Drain applies every batch that is ready without blocking. It returns
// the number of batches applied. A stale batch stops the worker; the
// foreground keeps computing visible rows on its own.
func (h *Highlighter) Drain() (int, error) {
	if h.warm == nil {
		return 0, nil
	}
	applied := 0
	for {
		select {
		case b, ok := <-h.warm.ch:
			if !ok {
				h.StopWarmup()
				return applied, nil
			}
			if err := h.Apply(b); err != nil {
				h.StopWarmup()
				return applied, err
			}
			applied++
		default:
			return applied, nil
		}
	}
}
