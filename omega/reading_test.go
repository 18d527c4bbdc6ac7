package omega

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Reading {
	return Reading{
		TimeMs: 1598930244970,
		Values: []Value{
			{Field: FieldTemperatureC, Value: 27.3},
			{Field: FieldTemperatureF, Value: 81.1},
			{Field: FieldHumidity, Value: 35.9},
		},
	}
}

func TestReadingValue(t *testing.T) {
	t.Parallel()

	r := sample()
	v, ok := r.Value(FieldTemperatureF)
	require.True(t, ok)
	assert.Equal(t, 81.1, v)

	_, ok = r.Value(FieldPressureInHg)
	assert.False(t, ok)
	assert.True(t, r.Has(FieldHumidity))
	assert.False(t, r.Has(FieldDewpointC))
}

func TestReadingMarshalOrder(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(sample())
	require.NoError(t, err)
	assert.Equal(t,
		`{"Time in ms":1598930244970,"Temperature in °C":27.3,`+
			`"Temperature in °F":81.1,"Relative Humidity in %":35.9}`,
		string(out))
}

func TestReadingMarshalIndent(t *testing.T) {
	t.Parallel()

	out, err := json.MarshalIndent(sample(), "", "    ")
	require.NoError(t, err)
	assert.Equal(t, "{\n"+
		"    \"Time in ms\": 1598930244970,\n"+
		"    \"Temperature in °C\": 27.3,\n"+
		"    \"Temperature in °F\": 81.1,\n"+
		"    \"Relative Humidity in %\": 35.9\n"+
		"}", string(out))
}

func TestReadingMarshalBadValue(t *testing.T) {
	t.Parallel()

	r := Reading{
		TimeMs: 1,
		Values: []Value{{Field: FieldDewpointC, Value: math.Inf(-1)}},
	}
	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"Time in ms":1,"Dewpoint in °C":null}`, string(out))
}

func TestFieldLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Time in ms", FieldTime.Label())
	assert.Equal(t, "Temperature in °C", FieldTemperatureC.Label())
	assert.Equal(t, "Pressure in mbar/hPa", FieldPressureMbar.Label())
	assert.Equal(t, "Dewpoint in °F", FieldDewpointF.Label())
}
