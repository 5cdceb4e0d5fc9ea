// Package journal appends every order transition to an NDJSON file, one
// entry per line, so a run can be audited after the fact.
package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/repairflow/internal/domain/repair"
)

// Entry is one line of the journal
type Entry struct {
	TS          string   `json:"ts"`
	OrderNumber uint64   `json:"order_number"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	ElapsedMs   int64    `json:"elapsed_ms"`
	Errors      []string `json:"validation_errors"`
}

// Writer appends entries to the journal at path. It is a repair.Listener.
type Writer struct {
	fs   afero.Fs
	path string
	now  func() time.Time

	mu   sync.Mutex
	last map[uint64]time.Time
}

// NewWriter creates a journal writer
func NewWriter(fs afero.Fs, path string) *Writer {
	return &Writer{fs: fs, path: path, now: time.Now, last: make(map[uint64]time.Time)}
}

// OnTransition journals a transition. ElapsedMs is the time since the
// previous transition of the same order seen by this writer.
func (w *Writer) OnTransition(ctx context.Context, from repair.StateLabel, to repair.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := w.now()
	w.mu.Lock()
	var elapsed int64
	if prev, ok := w.last[to.OrderNumber]; ok {
		elapsed = now.Sub(prev).Milliseconds()
	}
	if to.Label().IsTerminal() {
		delete(w.last, to.OrderNumber)
	} else {
		w.last[to.OrderNumber] = now
	}
	w.mu.Unlock()

	e := Entry{
		TS:          now.UTC().Format(time.RFC3339Nano),
		OrderNumber: to.OrderNumber,
		From:        from.String(),
		To:          to.Label().String(),
		ElapsedMs:   elapsed,
		Errors:      []string{},
	}
	if inv, ok := to.State.(repair.Invalid); ok {
		e.Errors = append(e.Errors, inv.ValidationErrors...)
	}
	return w.Append(e)
}

// Append writes e as a single line and syncs the file
func (w *Writer) Append(e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.fs.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create journal directory: %w", err)
	}
	f, err := w.fs.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := bw.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return f.Sync()
}

// Read returns every entry of the journal at path, oldest first. A missing
// journal reads as empty.
func Read(fs afero.Fs, path string) ([]Entry, error) {
	f, err := fs.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("journal line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return entries, nil
}
