package period

import (
	"encoding"
	"encoding/json"
)

var (
	_ encoding.TextMarshaler   = DateTimePeriod{}
	_ encoding.TextUnmarshaler = (*DateTimePeriod)(nil)
	_ json.Marshaler           = DateTimePeriod{}
	_ json.Unmarshaler         = (*DateTimePeriod)(nil)
	_ encoding.TextMarshaler   = DatePeriod{}
	_ encoding.TextUnmarshaler = (*DatePeriod)(nil)
	_ json.Marshaler           = DatePeriod{}
	_ json.Unmarshaler         = (*DatePeriod)(nil)
)

// MarshalText implements encoding.TextMarshaler.
func (p DateTimePeriod) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *DateTimePeriod) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MarshalJSON encodes p as a JSON string.
func (p DateTimePeriod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a JSON string holding an ISO-8601 duration.
func (p *DateTimePeriod) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return p.UnmarshalText([]byte(s))
}

// MarshalText implements encoding.TextMarshaler.
func (p DatePeriod) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It rejects periods with
// a time component.
func (p *DatePeriod) UnmarshalText(text []byte) error {
	v, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MarshalJSON encodes p as a JSON string.
func (p DatePeriod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a JSON string holding a date-only ISO-8601 duration.
func (p *DatePeriod) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return p.UnmarshalText([]byte(s))
}
