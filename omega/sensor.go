package omega

import "context"

type Sensor interface {
	Address() string

	// performs one command/reply exchange with the transmitter
	Get(ctx context.Context) (Reading, error)
}
