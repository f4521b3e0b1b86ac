// Package journal appends quote updates to date-organized JSONL files so a
// session's price history can be replayed later.
package journal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Record is one journaled quote update.
type Record struct {
	Time   time.Time `json:"time"`
	Symbol string    `json:"symbol"`
	Price  string    `json:"price"`
	Change string    `json:"change,omitempty"`
	Source string    `json:"source"`
}

// Writer handles async writing of quote records to date-organized files.
// Each Writer gets a short instance id so parallel daemons never share a
// file.
type Writer struct {
	baseDir    string
	maxSizeMB  int
	instanceID string
	writeCh    chan Record
	done       chan struct{}
	wg         sync.WaitGroup

	mu          sync.Mutex
	currentDate string
	out         *lumberjack.Logger
}

// NewWriter creates an async journal writer rooted at baseDir. bufferSize
// bounds the pending queue; maxSizeMB caps a single file before lumberjack
// rolls it.
func NewWriter(baseDir string, bufferSize, maxSizeMB int) *Writer {
	if bufferSize < 1 {
		bufferSize = 1
	}
	if maxSizeMB < 1 {
		maxSizeMB = 1
	}
	w := &Writer{
		baseDir:    baseDir,
		maxSizeMB:  maxSizeMB,
		instanceID: uuid.NewString()[:8],
		writeCh:    make(chan Record, bufferSize),
		done:       make(chan struct{}),
	}

	w.wg.Add(1)
	go w.writeLoop()

	return w
}

// Write queues rec for async writing. A full buffer drops the record.
func (w *Writer) Write(rec Record) error {
	select {
	case <-w.done:
		return fmt.Errorf("journal: writer is closed")
	default:
	}

	select {
	case w.writeCh <- rec:
		return nil
	default:
		slog.Warn("journal: write buffer full, dropping record", "symbol", rec.Symbol)
		return fmt.Errorf("journal: buffer full")
	}
}

// Close shuts down the writer and flushes pending records.
func (w *Writer) Close() error {
	close(w.done)
	w.wg.Wait()

	// Drain whatever the loop left behind.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case rec := <-w.writeCh:
			w.writeRecord(rec)
			continue
		case <-timeout:
			slog.Warn("journal: close timeout, some records may be lost")
		default:
		}
		break
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.out != nil {
		return w.out.Close()
	}
	return nil
}

func (w *Writer) writeLoop() {
	defer w.wg.Done()

	for {
		select {
		case rec := <-w.writeCh:
			w.writeRecord(rec)
		case <-w.done:
			return
		}
	}
}

func (w *Writer) writeRecord(rec Record) {
	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		slog.Error("journal: marshal record", "error", err, "symbol", rec.Symbol)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	date := rec.Time.UTC().Format("2006-01-02")
	if date != w.currentDate || w.out == nil {
		if err := w.rotateForDate(date); err != nil {
			slog.Error("journal: rotate file", "error", err, "date", date)
			return
		}
	}

	if _, err := w.out.Write(append(data, '\n')); err != nil {
		slog.Error("journal: write record", "error", err, "symbol", rec.Symbol)
	}
}

func (w *Writer) rotateForDate(date string) error {
	if w.out != nil {
		w.out.Close()
	}

	dir := filepath.Join(w.baseDir, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		w.out = nil
		return err
	}

	filename := filepath.Join(dir, "quotes-"+w.instanceID+".jsonl")
	w.out = &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    w.maxSizeMB,
		MaxBackups: 100,
		MaxAge:     30,
		Compress:   false,
		LocalTime:  false,
	}
	w.currentDate = date
	slog.Info("journal: opened file", "file", filename)
	return nil
}
