package iserver

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/numat/omega-tx/omega"
)

// Wire framing, per the iServer command reference: commands go out as
// "*<CMD>\r", the reply is one CR-terminated line of comma-separated
// decimals. "ERROR!\r" is the firmware's answer to a command it did not
// recognize.
const (
	commandPrefix  = "*"
	lineTerminator = '\r'
	fieldDelimiter = ","
	deviceError    = "ERROR!"
)

// exchange writes one command and reads the reply line. The returned time
// is captured the moment the terminator arrives, before any parsing.
func (c *Client) exchange(ctx context.Context, command string) (string, time.Time, error) {
	timeout := c.timeout()
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	// Bytes already buffered belong to a reply nobody is waiting for
	// anymore (a previous exchange that timed out). Drop them so they are
	// not misread as the answer to this command.
	if n := c.r.Buffered(); n > 0 {
		log.Debugf("discarding %d stale buffered bytes", n)
		_, _ = c.r.Discard(n)
	}

	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return "", time.Time{}, errors.Wrap(err, "set write deadline")
	}
	log.Debugf("sending command %s%s", commandPrefix, command)
	if _, err := c.conn.Write([]byte(commandPrefix + command + string(lineTerminator))); err != nil {
		return "", time.Time{}, c.ioError("write command", timeout, err)
	}

	// No length prefix on the wire; framing is terminator-delimited, so
	// partial reads are buffered until the terminator shows up or the
	// deadline fires.
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return "", time.Time{}, errors.Wrap(err, "set read deadline")
	}
	line, err := c.r.ReadString(lineTerminator)
	if err != nil {
		return "", time.Time{}, c.ioError("read reply", timeout, err)
	}
	at := time.Now()
	line = strings.TrimRight(line, "\r\n")
	log.Debugf("received reply %q", line)
	return line, at, nil
}

func (c *Client) ioError(op string, timeout time.Duration, err error) error {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &omega.TimeoutError{Op: op, Timeout: timeout, Err: err}
	}
	return &omega.ConnectionLostError{Op: op, Err: err}
}

// parse splits one reply line into the numeric fields the profile expects.
// All-or-nothing: any shape mismatch fails the whole reading.
func parse(line string, p Profile) (rawFields, error) {
	if line == deviceError {
		return rawFields{}, &omega.MalformedReplyError{Reply: line, Reason: "device rejected command"}
	}
	parts := strings.Split(line, fieldDelimiter)
	if len(parts) != len(p.Fields) {
		return rawFields{}, &omega.MalformedReplyError{
			Reply:  line,
			Reason: fmt.Sprintf("want %d fields, got %d", len(p.Fields), len(parts)),
		}
	}
	var raw rawFields
	for i, f := range p.Fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return rawFields{}, &omega.MalformedReplyError{
				Reply:  line,
				Reason: fmt.Sprintf("field %d is not a number", i),
			}
		}
		switch f {
		case RawTemperatureC:
			raw.temperatureC = v
		case RawHumidity:
			raw.humidity = v
		case RawPressureInHg:
			raw.pressureInHg = v
			raw.hasPressure = true
		}
	}
	return raw, nil
}
