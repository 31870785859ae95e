package domain

import (
	"encoding/json"
	"time"
)

// TimeLayout is the ISO-8601 form used for node and crosswalk timestamps.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// DefaultVersion is assigned to nodes created without an explicit version.
const DefaultVersion = "1.0.0"

// Metadata describes a Node. Created and Modified are managed by the Node itself.
// Extra holds every free-form key that is not one of the named fields.
//
// A named field given a value it cannot hold (a timestamp that does not parse, a
// non-string name) keeps that value verbatim for serialization; the typed field is
// then left at its zero value.
type Metadata struct {
	Name        string
	Description string
	Version     string
	Created     time.Time
	Modified    time.Time
	Extra       map[string]any

	verbatim map[string]any
}

// Now returns the current time at the precision used for timestamps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses an ISO-8601 timestamp and normalises it to UTC milliseconds.
func ParseTime(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC().Truncate(time.Millisecond), true
}

// Map flattens the metadata into its JSON shape.
func (m Metadata) Map() map[string]any {
	out := make(map[string]any, len(m.Extra)+5)
	for k, v := range m.Extra {
		out[k] = v
	}
	out["name"] = m.Name
	out["description"] = m.Description
	out["version"] = m.Version
	out["created"] = FormatTime(m.Created)
	out["modified"] = FormatTime(m.Modified)
	for k, v := range m.verbatim {
		out[k] = v
	}
	return out
}

// Verbatim returns the input value kept for a named field that could not hold it.
func (m Metadata) Verbatim(key string) (any, bool) {
	v, ok := m.verbatim[key]
	return v, ok
}

func (m *Metadata) keep(key string, v any) {
	if m.verbatim == nil {
		m.verbatim = make(map[string]any)
	}
	m.verbatim[key] = v
}

// MarshalJSON encodes the flattened form.
func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Map())
}

func (m Metadata) clone() Metadata {
	c := m
	c.Extra = make(map[string]any, len(m.Extra))
	for k, v := range m.Extra {
		c.Extra[k] = v
	}
	if m.verbatim != nil {
		c.verbatim = make(map[string]any, len(m.verbatim))
		for k, v := range m.verbatim {
			c.verbatim[k] = v
		}
	}
	return c
}

// newMetadata applies raw over the defaults. Values the named fields cannot hold
// are kept verbatim.
func newMetadata(raw map[string]any, now time.Time) Metadata {
	m := Metadata{
		Version:  DefaultVersion,
		Created:  now,
		Modified: now,
		Extra:    make(map[string]any),
	}
	for k, v := range raw {
		switch k {
		case "name", "description", "version":
			s, ok := v.(string)
			if !ok {
				m.keep(k, v)
				s = ""
			}
			switch k {
			case "name":
				m.Name = s
			case "description":
				m.Description = s
			default:
				m.Version = s
			}
		case "created":
			t, ok := timeValue(v)
			if !ok {
				m.keep(k, v)
			}
			m.Created = t
		case "modified":
			t, ok := timeValue(v)
			if !ok {
				m.keep(k, v)
			}
			m.Modified = t
		default:
			m.Extra[k] = v
		}
	}
	return m
}

func timeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		return ParseTime(t)
	case time.Time:
		return t.UTC().Truncate(time.Millisecond), true
	}
	return time.Time{}, false
}
