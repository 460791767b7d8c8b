package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// DefaultSegmentBytes caps the uncompressed size of one log segment.
const DefaultSegmentBytes = 64 << 20

// JSONLZstdWriter appends JSON lines to zstd segments named
// <prefix>-<YYYY-MM-DD-HH>-<NNN>.jsonl.zst. A new segment starts every UTC hour
// and whenever the current one reaches segmentBytes. Names sort in write order.
type JSONLZstdWriter struct {
	baseDir      string
	prefix       string
	segmentBytes int64
	now          func() time.Time

	mu      sync.Mutex
	hour    string
	seq     int
	written int64
	f       *os.File
	enc     *zstd.Encoder
	bw      *bufio.Writer
}

func NewJSONLZstdWriter(baseDir, prefix string) *JSONLZstdWriter {
	return &JSONLZstdWriter{
		baseDir:      baseDir,
		prefix:       prefix,
		segmentBytes: DefaultSegmentBytes,
		now:          time.Now,
	}
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

// Write appends v as one line. The line is flushed through the encoder so a
// reader sees it without waiting for Close.
func (w *JSONLZstdWriter) Write(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	hour := w.now().UTC().Format("2006-01-02-15")
	switch {
	case hour != w.hour:
		if err := w.openLocked(hour, 0); err != nil {
			return err
		}
	case w.segmentBytes > 0 && w.written >= w.segmentBytes:
		if err := w.openLocked(hour, w.seq+1); err != nil {
			return err
		}
	}

	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return err
	}
	w.written += int64(len(b)) + 1
	if err := w.bw.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

func (w *JSONLZstdWriter) openLocked(hour string, seq int) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	// Skip segments left by an earlier process for the same hour.
	for {
		if _, err := os.Stat(w.segmentPath(hour, seq)); err != nil {
			break
		}
		seq++
	}
	f, err := os.OpenFile(w.segmentPath(hour, seq), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f, w.enc = f, enc
	w.bw = bufio.NewWriterSize(enc, 64*1024)
	w.hour, w.seq, w.written = hour, seq, 0
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	if w.f == nil {
		return nil
	}
	err := w.bw.Flush()
	if cerr := w.enc.Close(); err == nil {
		err = cerr
	}
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	w.f, w.enc, w.bw = nil, nil, nil
	w.hour = ""
	return err
}

func (w *JSONLZstdWriter) segmentPath(hour string, seq int) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s-%03d.jsonl.zst", w.prefix, hour, seq))
}
