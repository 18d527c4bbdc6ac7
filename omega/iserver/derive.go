package iserver

import (
	"math"
	"time"

	"github.com/numat/omega-tx/omega"
)

// rawFields is one parsed reply line, still in device units.
type rawFields struct {
	temperatureC float64
	humidity     float64
	pressureInHg float64
	hasPressure  bool
}

// pressure conversion factors, from inHg
const (
	inHgToMbar = 33.8639
	inHgToMmHg = 25.4
)

// Magnus dewpoint approximation, Alduchov-Eskridge constants
const (
	magnusA = 17.625
	magnusB = 243.04 // °C
)

func fahrenheit(c float64) float64 {
	return c*9/5 + 32
}

func dewpoint(tempC, humidity float64) float64 {
	g := math.Log(humidity/100) + magnusA*tempC/(magnusB+tempC)
	return magnusB * g / (magnusA - g)
}

// round1 rounds half away from zero to one decimal, the presentation
// precision of every reported value.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// derive computes the full labeled output set from one parsed reply.
// Everything is computed in full precision and rounded only at the end;
// the field set is fully determined by the profile that produced raw.
func derive(raw rawFields, at time.Time) omega.Reading {
	dewC := dewpoint(raw.temperatureC, raw.humidity)
	values := []omega.Value{
		{Field: omega.FieldTemperatureC, Value: round1(raw.temperatureC)},
		{Field: omega.FieldTemperatureF, Value: round1(fahrenheit(raw.temperatureC))},
		{Field: omega.FieldHumidity, Value: round1(raw.humidity)},
		{Field: omega.FieldDewpointC, Value: round1(dewC)},
		{Field: omega.FieldDewpointF, Value: round1(fahrenheit(dewC))},
	}
	if raw.hasPressure {
		values = append(values,
			omega.Value{Field: omega.FieldPressureInHg, Value: round1(raw.pressureInHg)},
			omega.Value{Field: omega.FieldPressureMbar, Value: round1(raw.pressureInHg * inHgToMbar)},
			omega.Value{Field: omega.FieldPressureMmHg, Value: round1(raw.pressureInHg * inHgToMmHg)},
		)
	}
	return omega.Reading{TimeMs: at.UnixMilli(), Values: values}
}
