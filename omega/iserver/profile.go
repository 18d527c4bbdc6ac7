package iserver

import "strings"

// RawField identifies one numeric field of a reply line, in wire order.
type RawField uint8

const (
	RawTemperatureC RawField = iota
	RawHumidity
	RawPressureInHg
)

// Profile is the static descriptor of one transmitter model: the command to
// send and the fields its reply line carries, in order. Profiles have no
// behavior and no mutable state; the caller picks one by transmitter type,
// the client never auto-detects the model from wire traffic.
type Profile struct {
	Model   string
	Command string
	Fields  []RawField
}

var (
	// ITHX reports ambient temperature and relative humidity.
	ITHX = Profile{
		Model:   "ithx",
		Command: "SRB",
		Fields:  []RawField{RawTemperatureC, RawHumidity},
	}

	// IBTHX additionally reports barometric pressure in inHg.
	IBTHX = Profile{
		Model:   "ibthx",
		Command: "SRB",
		Fields:  []RawField{RawTemperatureC, RawHumidity, RawPressureInHg},
	}
)

// ProfileFor maps a transmitter type name from the command line to its
// profile.
func ProfileFor(model string) (Profile, bool) {
	switch strings.ToLower(model) {
	case "ithx":
		return ITHX, true
	case "ibthx":
		return IBTHX, true
	}
	return Profile{}, false
}
