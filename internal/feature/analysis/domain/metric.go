package domain

import "encoding/json"

// Metric is a possibly undefined numeric result. Ratios over a zero
// denominator, growth from a non-positive base, and similar cases are
// Undefined rather than NaN or a panic.
type Metric struct {
	Value float64
	Valid bool
}

// Defined wraps a computed value.
func Defined(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// Undefined is the zero Metric.
var Undefined = Metric{}

// MarshalJSON renders an undefined metric as null so API consumers can
// distinguish "no data" from an actual zero.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON accepts null as undefined.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Undefined
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Defined(v)
	return nil
}
