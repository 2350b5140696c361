package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/amirjon-1/interview-backend/internal/model/transcript"
)

// ParseDocument decodes a submitted body into the transcript document shape.
// The body must be a JSON object; unknown fields are tolerated and survive in
// the raw bytes.
func ParseDocument(raw []byte) (transcript.Document, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return transcript.Document{}, fmt.Errorf("body is not a JSON object: %w", err)
	}
	if probe == nil {
		return transcript.Document{}, fmt.Errorf("body is not a JSON object")
	}

	var doc transcript.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return transcript.Document{}, fmt.Errorf("body does not match the transcript shape: %w", err)
	}
	return doc, nil
}

// FormatDocument pretty-prints the raw document with a trailing newline,
// the exact byte form persisted by the backup file and object storage sinks.
func FormatDocument(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to format document: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// TranscriptText flattens turns as "<role>: <text>" lines in turn order. The
// fields are used as stored, with no re-cleaning.
func TranscriptText(doc transcript.Document) string {
	lines := make([]string, 0, len(doc.Turns))
	for _, turn := range doc.Turns {
		lines = append(lines, string(turn.Role)+": "+turn.Text)
	}
	return strings.Join(lines, "\n")
}

// DurationSeconds derives the session length from the boundary timestamps.
// A missing or unparseable boundary yields 0. When endedAt precedes
// startedAt the result is negative; the value is deliberately not clamped.
func DurationSeconds(doc transcript.Document) int {
	start, ok := parseTimestamp(doc.Metadata.StartedAt)
	if !ok {
		return 0
	}
	end, ok := parseTimestamp(doc.Metadata.EndedAt)
	if !ok {
		return 0
	}
	return int(floorDiv(end.UnixMilli()-start.UnixMilli(), 1000))
}

func parseTimestamp(value *string) (time.Time, bool) {
	if value == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, *value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// floorDiv rounds toward negative infinity, unlike Go's integer division.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

var (
	invalidFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	dashRuns             = regexp.MustCompile(`-+`)
)

// SanitizeFilenameToken reduces a timestamp to filesystem-safe characters:
// everything outside [A-Za-z0-9._-] becomes "-", runs of "-" collapse, and
// leading/trailing "-" are trimmed. Sanitizing an already-clean token is a
// no-op.
func SanitizeFilenameToken(value string) string {
	sanitized := invalidFilenameChars.ReplaceAllString(value, "-")
	sanitized = dashRuns.ReplaceAllString(sanitized, "-")
	return strings.Trim(sanitized, "-")
}

const (
	backupFilePrefix = "interview-transcript-"
	backupFileExt    = ".json"
)

// BackupFileName builds the backup filename from the document's generatedAt
// stamp, falling back to the clock when sanitization leaves nothing.
func BackupFileName(generatedAt string, now time.Time, suffix string) string {
	token := SanitizeFilenameToken(generatedAt)
	if token == "" {
		token = strconv.FormatInt(now.UnixMilli(), 10)
	}
	return backupFilePrefix + token + "-" + suffix + backupFileExt
}
