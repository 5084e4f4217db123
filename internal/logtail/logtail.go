package logtail

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "open log")
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
			return nil, errors.Wrap(err, "read log")
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read log")
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one decoded JSON log line.
type Entry struct {
	Time    time.Time
	Level   string
	Logger  string
	Message string
	Fields  map[string]any
}

// reserved keys are the ones the JSON encoder writes itself.
var reserved = map[string]bool{"ts": true, "level": true, "logger": true, "msg": true, "caller": true, "stacktrace": true}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.000Z0700"}

// Parse decodes a JSON log line. Lines that are not JSON objects report
// false.
func Parse(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "{") {
		return Entry{}, false
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}

	e := Entry{Fields: make(map[string]any)}
	for k, v := range raw {
		if !reserved[k] {
			e.Fields[k] = v
		}
	}
	e.Level, _ = raw["level"].(string)
	e.Logger, _ = raw["logger"].(string)
	e.Message, _ = raw["msg"].(string)
	switch ts := raw["ts"].(type) {
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, ts); err == nil {
				e.Time = t
				break
			}
		}
	case float64:
		sec := int64(ts)
		e.Time = time.Unix(sec, int64((ts-float64(sec))*1e9))
	}
	return e, true
}

// Format renders a log line as "15:04:05 LEVEL message key=value ...".
// Lines that do not decode are returned unchanged.
func Format(line string) string {
	e, ok := Parse(line)
	if !ok {
		return line
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s", strings.ToUpper(e.Level))
	if e.Logger != "" {
		b.WriteString(" [" + e.Logger + "]")
	}
	if e.Message != "" {
		b.WriteString(" " + e.Message)
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	return b.String()
}
