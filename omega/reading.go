package omega

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

type Field uint8

const (
	FieldTime Field = iota
	FieldTemperatureC
	FieldTemperatureF
	FieldHumidity
	FieldDewpointC
	FieldDewpointF
	FieldPressureInHg
	FieldPressureMbar
	FieldPressureMmHg
)

// Display labels, kept apart from parsing and derivation so a label edit
// can never change a numeric result.
var fieldLabels = map[Field]string{
	FieldTime:         "Time in ms",
	FieldTemperatureC: "Temperature in °C",
	FieldTemperatureF: "Temperature in °F",
	FieldHumidity:     "Relative Humidity in %",
	FieldDewpointC:    "Dewpoint in °C",
	FieldDewpointF:    "Dewpoint in °F",
	FieldPressureInHg: "Pressure in inHg",
	FieldPressureMbar: "Pressure in mbar/hPa",
	FieldPressureMmHg: "Pressure in mmHg",
}

func (f Field) Label() string {
	return fieldLabels[f]
}

type Value struct {
	Field Field
	Value float64
}

// Reading is one successful exchange with a transmitter: the derived values
// in presentation order, plus the wall-clock time the reply arrived.
// Immutable once produced.
type Reading struct {
	// units: milliseconds since the unix epoch
	TimeMs int64

	Values []Value
}

// Value returns the value for f, if the reading carries that field.
func (r Reading) Value(f Field) (float64, bool) {
	for _, v := range r.Values {
		if v.Field == f {
			return v.Value, true
		}
	}
	return 0, false
}

func (r Reading) Has(f Field) bool {
	_, ok := r.Value(f)
	return ok
}

// MarshalJSON emits an ordered object: capture time first, then every value
// under its display label.
func (r Reading) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	writeKey(&b, FieldTime.Label())
	b.WriteString(strconv.FormatInt(r.TimeMs, 10))
	for _, v := range r.Values {
		b.WriteByte(',')
		writeKey(&b, v.Field.Label())
		b.WriteString(formatValue(v.Value))
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func writeKey(b *bytes.Buffer, label string) {
	k, _ := json.Marshal(label)
	b.Write(k)
	b.WriteByte(':')
}

func formatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "null" // bad read value
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
