package omega

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ErrNotConnected is returned by Get when no connection has been
// established, or after the connection was torn down by a cancellation.
var ErrNotConnected = errors.New("not connected")

// ConnectError reports a failure to establish the TCP connection.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect to %s: %s", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// TimeoutError reports that no terminated reply line arrived within the
// deadline. The connection itself may still be usable.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: no reply within %s", e.Op, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Timeout implements the net.Error convention.
func (e *TimeoutError) Timeout() bool { return true }

// ConnectionLostError reports a socket closed or reset mid-operation.
type ConnectionLostError struct {
	Op  string
	Err error
}

func (e *ConnectionLostError) Error() string {
	return fmt.Sprintf("%s: connection lost: %s", e.Op, e.Err)
}

func (e *ConnectionLostError) Unwrap() error { return e.Err }

// MalformedReplyError reports a reply that does not match the field shape
// expected for the active device profile. No partial reading is produced.
type MalformedReplyError struct {
	Reply  string
	Reason string
}

func (e *MalformedReplyError) Error() string {
	return fmt.Sprintf("malformed reply %q: %s", e.Reply, e.Reason)
}
