package phh

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokerbirds/internal/fileutil"
	"github.com/lox/pokerbirds/internal/game"
)

// Writer appends completed hands to <dir>/<gameID>.phhs. Each hand is a
// numbered TOML table section so the file stays a valid PHH collection.
type Writer struct {
	dir              string
	includeHoleCards bool
	clock            quartz.Clock
	logger           *log.Logger

	mu sync.Mutex
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithHoleCards writes every player's hole cards instead of masking them.
func WithHoleCards(include bool) WriterOption {
	return func(w *Writer) { w.includeHoleCards = include }
}

// WithClock sets the clock used to timestamp hands.
func WithClock(clock quartz.Clock) WriterOption {
	return func(w *Writer) { w.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) WriterOption {
	return func(w *Writer) { w.logger = logger }
}

// NewWriter creates the directory if needed.
func NewWriter(dir string, opts ...WriterOption) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create hand history dir: %w", err)
	}
	w := &Writer{dir: dir, clock: quartz.NewReal(), logger: log.Default()}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithPrefix("phh")
	return w, nil
}

// Path returns the history file for gameID.
func (w *Writer) Path(gameID string) string {
	return filepath.Join(w.dir, gameID+".phhs")
}

// WriteHands appends the records to the game's history file.
func (w *Writer) WriteHands(gameID string, records []game.HandRecord) error {
	if len(records) == 0 {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	path := w.Path(gameID)
	section, err := lastSection(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var buf bytes.Buffer
	now := w.clock.Now()
	for _, rec := range records {
		hand := FromRecord(rec, Options{Table: gameID, IncludeHoleCards: w.includeHoleCards})
		hand.SetTime(now)
		section++
		if section > 1 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "[%d]\n", section)
		if err := Encode(&buf, hand); err != nil {
			return fmt.Errorf("encode hand %d: %w", rec.Number, err)
		}
	}
	if err := fileutil.AppendFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	w.logger.Debug("wrote hand history", "game_id", gameID, "hands", len(records), "path", path)
	return nil
}

// lastSection returns the highest "[n]" header in the file, or 0.
func lastSection(path string) (int, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()

	last := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) >= 3 && line[0] == '[' && line[len(line)-1] == ']' {
			if n, err := strconv.Atoi(line[1 : len(line)-1]); err == nil && n > last {
				last = n
			}
		}
	}
	return last, scanner.Err()
}
