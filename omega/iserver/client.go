// Package iserver drives Omega iServer environmental transmitters (iTHX-W,
// iBTHX-W) over their raw TCP command port.
package iserver

import (
	"bufio"
	"context"
	"net"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/numat/omega-tx/omega"
)

// iServer factory defaults
const (
	DefaultPort    = 2000
	DefaultTimeout = 2 * time.Second
)

// Client owns a single socket to one transmitter. It is not safe for
// concurrent use: one operation is outstanding at a time, strict
// request/response, no pipelining.
type Client struct {
	Addr    string
	Profile Profile

	// applied to connecting, writing and reading
	Timeout time.Duration

	conn net.Conn
	r    *bufio.Reader
}

var _ omega.Sensor = (*Client)(nil)

func (c *Client) Address() string {
	return c.Addr
}

func (c *Client) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Connect dials the transmitter. The configured timeout bounds the TCP
// handshake; ctx may cancel it earlier. Connecting an already-connected
// client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	log.Debugf("connecting to %s", c.Addr)
	d := net.Dialer{Timeout: c.timeout()}
	conn, err := d.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return &omega.ConnectError{Addr: c.Addr, Err: err}
	}
	c.conn = conn
	c.r = bufio.NewReader(conn)
	return nil
}

// Close releases the socket. Safe to call more than once.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	log.Debugf("closing connection to %s", c.Addr)
	err := c.conn.Close()
	c.conn = nil
	c.r = nil
	return err
}

// Get performs one command/reply exchange and returns the derived reading.
// Every failure mode surfaces as a distinct error; nothing is retried here,
// retry policy belongs to the caller.
func (c *Client) Get(ctx context.Context) (omega.Reading, error) {
	if c.conn == nil {
		return omega.Reading{}, omega.ErrNotConnected
	}

	// A cancelled context tears the socket down promptly, so a late reply
	// can never be taken for the answer to a later command.
	if done := ctx.Done(); done != nil {
		stop := make(chan struct{})
		defer close(stop)
		conn := c.conn
		go func() {
			select {
			case <-done:
				_ = conn.Close()
			case <-stop:
			}
		}()
	}

	line, at, err := c.exchange(ctx, c.Profile.Command)
	if err != nil {
		if ctx.Err() != nil {
			_ = c.Close() // socket is gone, drop it
			return omega.Reading{}, errors.Wrap(ctx.Err(), "query cancelled")
		}
		return omega.Reading{}, err
	}

	raw, err := parse(line, c.Profile)
	if err != nil {
		return omega.Reading{}, err
	}
	return derive(raw, at), nil
}
