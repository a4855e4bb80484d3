package lrc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Line is one timed lyric line. Lines in a set are ordered by Time,
// non-decreasing; ties keep their original order.
type Line struct {
	Time float64
	Text string
}

// Metadata holds the optional LRC header tags written before the lines.
type Metadata struct {
	Title  string
	Artist string
	Album  string
	By     string
}

// ParseText parses a raw LRC body (as returned by lyric APIs) into timed
// lines. Lines without a parseable timestamp or without text are skipped.
func ParseText(raw string) []Line {
	if raw == "" {
		return nil
	}

	rows := strings.Split(raw, "\n")
	result := make([]Line, 0, len(rows))

	for _, row := range rows {
		line, ok := parseRow(row)
		if !ok {
			continue
		}
		result = append(result, line)
	}

	sortLines(result)
	return result
}

// Parse reads LRC content from r. Comment rows starting with '#' are
// skipped, matching the files the processor writes.
func Parse(r io.Reader) ([]Line, error) {
	var result []Line

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		row := strings.TrimSpace(scanner.Text())
		if row == "" || strings.HasPrefix(row, "#") {
			continue
		}
		line, ok := parseRow(row)
		if !ok {
			continue
		}
		result = append(result, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lrc content: %w", err)
	}

	sortLines(result)
	return result, nil
}

func ParseFile(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lrc file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// IndexAt returns the index of the line active at the given position:
// the largest i with lines[i].Time <= pos, or 0 when the position is
// still before the first line.
func IndexAt(lines []Line, pos float64) int {
	index := 0
	for i, line := range lines {
		if line.Time > pos {
			break
		}
		index = i
	}
	return index
}

// FormatTimestamp renders seconds as an LRC tag, [MM:SS.xx].
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := int(seconds) / 60
	secs := seconds - float64(minutes*60)
	return fmt.Sprintf("[%02d:%05.2f]", minutes, secs)
}

// Write emits lines as an LRC document, header tags first when metadata
// is present. Lines are written in timestamp order.
func Write(w io.Writer, lines []Line, meta *Metadata) error {
	bw := bufio.NewWriter(w)

	if meta != nil {
		if meta.Title != "" {
			fmt.Fprintf(bw, "[ti:%s]\n", meta.Title)
		}
		if meta.Artist != "" {
			fmt.Fprintf(bw, "[ar:%s]\n", meta.Artist)
		}
		if meta.Album != "" {
			fmt.Fprintf(bw, "[al:%s]\n", meta.Album)
		}
		if meta.By != "" {
			fmt.Fprintf(bw, "[by:%s]\n", meta.By)
		}
		fmt.Fprintln(bw)
	}

	sorted := make([]Line, len(lines))
	copy(sorted, lines)
	sortLines(sorted)

	for _, line := range sorted {
		fmt.Fprintf(bw, "%s%s\n", FormatTimestamp(line.Time), line.Text)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write lrc content: %w", err)
	}
	return nil
}

func WriteFile(path string, lines []Line, meta *Metadata) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create lrc file: %w", err)
	}

	if err := Write(f, lines, meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func sortLines(lines []Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Time < lines[j].Time
	})
}

func parseRow(row string) (Line, bool) {
	trimmed := strings.TrimSpace(row)
	if !strings.HasPrefix(trimmed, "[") {
		return Line{}, false
	}

	end := strings.Index(trimmed, "]")
	if end <= 1 {
		return Line{}, false
	}

	text := strings.TrimSpace(trimmed[end+1:])
	if text == "" {
		return Line{}, false
	}

	seconds, err := parseClock(trimmed[1:end])
	if err != nil {
		return Line{}, false
	}

	return Line{Time: seconds, Text: text}, true
}

func parseClock(raw string) (float64, error) {
	if raw == "" {
		return 0, errors.New("empty time value")
	}

	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time format: %s", raw)
	}

	var hours, minutes, seconds float64
	var err error

	idx := 0
	if len(parts) == 3 {
		hours, err = parseFloatSafe(parts[0])
		if err != nil {
			return 0, err
		}
		idx = 1
	}

	minutes, err = parseFloatSafe(parts[idx])
	if err != nil {
		return 0, err
	}
	seconds, err = parseFloatSafe(parts[idx+1])
	if err != nil {
		return 0, err
	}

	total := hours*3600 + minutes*60 + seconds
	if total < 0 {
		return 0, errors.New("negative time not allowed")
	}

	return total, nil
}

func parseFloatSafe(s string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", s, err)
	}
	return value, nil
}
