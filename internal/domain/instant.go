package domain

import (
	"fmt"
	"strings"
	"time"
)

// Earlier deployments wrote naive ISO-8601 values that were implicitly UTC.
var naiveInstantLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeInstant strips the monotonic reading and moves t to UTC.
func NormalizeInstant(t time.Time) time.Time {
	return t.Round(0).UTC()
}

func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func ParseInstant(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrDataIntegrity)
	}

	if parsed, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return parsed.UTC(), nil
	}
	for _, layout := range naiveInstantLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: unparsable timestamp %q", ErrDataIntegrity, raw)
}
