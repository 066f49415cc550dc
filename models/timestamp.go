package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp is a server timestamp. Raw keeps the text exactly as received and
// is what gets written back out; Time is only set when a known layout matched.
type Timestamp struct {
	Time time.Time
	Raw  string

	numeric bool
}

// ParseTimestamp never fails: unknown layouts keep Raw with a zero Time.
func ParseTimestamp(s string) Timestamp {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t, Raw: s}
		}
	}
	return Timestamp{Raw: s}
}

// Valid reports whether Raw was understood.
func (ts Timestamp) Valid() bool {
	return !ts.Time.IsZero()
}

func (ts Timestamp) String() string {
	return ts.Raw
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	if len(data) > 0 && data[0] != '"' {
		// epoch seconds
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("models: decode timestamp: %w", err)
		}
		*ts = Timestamp{Raw: n.String(), numeric: true}
		if f, err := n.Float64(); err == nil {
			sec := int64(f)
			ts.Time = time.Unix(sec, int64((f-float64(sec))*1e9)).UTC()
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("models: decode timestamp: %w", err)
	}
	*ts = ParseTimestamp(s)
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	switch {
	case ts.numeric:
		return []byte(ts.Raw), nil
	case ts.Raw == "" && !ts.Time.IsZero():
		return json.Marshal(ts.Time.Format(time.RFC3339Nano))
	}
	return json.Marshal(ts.Raw)
}
