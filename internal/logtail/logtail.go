package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Read returns the last maxLines lines of the file at path, or every line
// when maxLines is not positive. A missing file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count, idx := 0, 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// reserved keys are printed in the line head rather than as fields.
var reserved = map[string]bool{"time": true, "level": true, "msg": true, "caller": true, "logger": true, "stacktrace": true}

// Format turns one JSON log entry into a single readable line:
//
//	15:04:05 INFO  window created title=Dockyard width=1280
//
// Lines that are not JSON objects are returned unchanged.
func Format(line string) string {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return line
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(trimmed), &entry); err != nil {
		return line
	}

	var b strings.Builder
	if ts, ok := entry["time"].(string); ok {
		b.WriteString(clock(ts))
		b.WriteByte(' ')
	}
	if lvl, ok := entry["level"].(string); ok {
		fmt.Fprintf(&b, "%-5s ", strings.ToUpper(lvl))
	}
	if msg, ok := entry["msg"].(string); ok {
		b.WriteString(msg)
	}

	keys := make([]string, 0, len(entry))
	for k := range entry {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry[k])
	}
	return b.String()
}

// FormatLines applies Format to every line.
func FormatLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Format(line)
	}
	return out
}

// clock keeps the time of day from an ISO8601 timestamp.
func clock(ts string) string {
	i := strings.IndexByte(ts, 'T')
	if i < 0 || len(ts) < i+9 {
		return ts
	}
	return ts[i+1 : i+9]
}
