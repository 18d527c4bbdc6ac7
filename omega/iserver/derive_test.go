package iserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numat/omega-tx/omega"
)

func TestDeriveDocumentedExample(t *testing.T) {
	t.Parallel()

	at := time.UnixMilli(1598930244970)
	raw := rawFields{temperatureC: 27.3, humidity: 35.9, pressureInHg: 29.4, hasPressure: true}
	r := derive(raw, at)

	assert.Equal(t, int64(1598930244970), r.TimeMs)

	expect := map[omega.Field]float64{
		omega.FieldTemperatureC: 27.3,
		omega.FieldTemperatureF: 81.1,
		omega.FieldHumidity:     35.9,
		omega.FieldDewpointC:    10.9,
		omega.FieldDewpointF:    51.6,
		omega.FieldPressureInHg: 29.4,
		omega.FieldPressureMbar: 995.6,
		omega.FieldPressureMmHg: 746.8,
	}
	assert.Equal(t, len(expect), len(r.Values))
	for f, want := range expect {
		v, ok := r.Value(f)
		require.True(t, ok, "missing field %q", f.Label())
		assert.InDelta(t, want, v, 1e-9, "field %q", f.Label())
	}
}

func TestDeriveWithoutPressure(t *testing.T) {
	t.Parallel()

	r := derive(rawFields{temperatureC: 27.3, humidity: 35.9}, time.Now())

	for _, f := range []omega.Field{
		omega.FieldTemperatureC, omega.FieldTemperatureF,
		omega.FieldHumidity,
		omega.FieldDewpointC, omega.FieldDewpointF,
	} {
		assert.True(t, r.Has(f), "missing field %q", f.Label())
	}
	for _, f := range []omega.Field{
		omega.FieldPressureInHg, omega.FieldPressureMbar, omega.FieldPressureMmHg,
	} {
		assert.False(t, r.Has(f), "unexpected field %q", f.Label())
	}
}

func TestFahrenheit(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 81.14, fahrenheit(27.3), 1e-9)
	assert.InDelta(t, 32.0, fahrenheit(0), 1e-9)
	assert.InDelta(t, 98.6, fahrenheit(37.0), 1e-9)
	assert.InDelta(t, -40.0, fahrenheit(-40.0), 1e-9)
}

func TestDewpointFixture(t *testing.T) {
	t.Parallel()

	// documented example: 27.3 °C at 35.9 %RH
	assert.InDelta(t, 10.9, dewpoint(27.3, 35.9), 0.1)
	// saturated air: dewpoint equals the temperature
	assert.InDelta(t, 20.0, dewpoint(20.0, 100.0), 0.01)
}

func TestPressureConversions(t *testing.T) {
	t.Parallel()

	r := derive(rawFields{temperatureC: 20, humidity: 50, pressureInHg: 29.4, hasPressure: true}, time.Now())
	inHg, _ := r.Value(omega.FieldPressureInHg)
	mbar, _ := r.Value(omega.FieldPressureMbar)
	mmHg, _ := r.Value(omega.FieldPressureMmHg)
	assert.InDelta(t, inHg*33.8639, mbar, 0.05)
	assert.InDelta(t, inHg*25.4, mmHg, 0.05)
}

func TestRound1(t *testing.T) {
	t.Parallel()

	// rounds, not truncates
	assert.Equal(t, 81.1, round1(81.14))
	assert.Equal(t, 51.6, round1(51.5887))
	assert.Equal(t, 0.3, round1(0.25))
	assert.Equal(t, -0.3, round1(-0.25))
	assert.Equal(t, 746.8, round1(746.76))
}
