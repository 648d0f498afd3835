package logs

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

const maxLineBytes = 1 << 20

// Tail returns up to limit final lines of path and the offset just past
// them. A limit <= 0 returns no lines and the current end of file.
func Tail(path string, limit int) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if limit <= 0 {
		end, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, fmt.Errorf("seek log file: %w", err)
		}
		return nil, end, nil
	}

	ring := make([]string, limit)
	count := 0
	offset, err := scanLines(file, func(line string) {
		ring[count%limit] = line
		count++
	})
	if err != nil {
		return nil, 0, err
	}

	if count <= limit {
		return ring[:count], offset, nil
	}
	lines := make([]string, limit)
	start := count % limit
	for i := range lines {
		lines[i] = ring[(start+i)%limit]
	}
	return lines, offset, nil
}

// Follow reports lines appended to path after offset until ctx ends. It polls
// every interval and returns nil when ctx is cancelled.
func Follow(ctx context.Context, path string, offset int64, interval time.Duration, emit func(string)) error {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		next, err := readFrom(path, offset, emit)
		if err != nil {
			return err
		}
		offset = next

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func readFrom(path string, offset int64, emit func(string)) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}
	consumed, err := scanLines(file, emit)
	if err != nil {
		return offset, err
	}
	return offset + consumed, nil
}

// scanLines emits complete lines from r and returns the bytes consumed. A
// trailing line without a newline is left for the next read.
func scanLines(r io.Reader, emit func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			return consumed, nil
		}
		if err != nil {
			return consumed, fmt.Errorf("read log file: %w", err)
		}
		consumed += int64(len(line))
		if len(line) > maxLineBytes {
			line = line[:maxLineBytes]
		}
		emit(trimNewline(line))
	}
}

func trimNewline(line string) string {
	line = line[:len(line)-1]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}
