package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/splice/internal/model"
)

// marshalArgs converts args to canonical JSON TEXT for storage.
func marshalArgs(args map[string]any) (string, error) {
	if args == nil {
		args = map[string]any{}
	}
	data, err := model.MarshalCanonical(args)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

// unmarshalArgs parses canonical JSON TEXT into a map.
// Numbers decode as json.Number to avoid float64 precision loss above 2^53.
func unmarshalArgs(data string) (map[string]any, error) {
	if data == "" || data == "{}" {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()

	var args map[string]any
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.UTC(), nil
}
