package sssp

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"
)

// defaultConnectTimeout bounds the initial socket connect. Reads and
// writes during a scan block until the daemon responds.
const defaultConnectTimeout = 5 * time.Second

// Connection kind tokens understood by Connect. Any token other than
// ConnUnix is dialed as TCP.
const (
	ConnUnix      = "unix"
	ConnTCP       = "tcp"
	ConnRemoteTCP = "remotetcp"
)

// sconn wraps the daemon socket with line-oriented read and write. The
// handle is exclusively owned by one Client.
type sconn struct {
	nc     net.Conn
	reader *bufio.Reader
	closed bool
}

// dial opens a socket to the daemon. kind "unix" dials a Unix domain
// socket; every other token is dialed as TCP.
func dial(kind, address string, timeout time.Duration) (*sconn, error) {
	network := "tcp"
	if kind == ConnUnix {
		network = "unix"
	}

	nc, err := net.DialTimeout(network, address, timeout)
	if err != nil {
		if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
			return nil, NewTimeoutError(fmt.Sprintf("connect to %s timed out", address), err)
		}
		return nil, NewConnectionError(fmt.Sprintf("failed to connect to %s", address), err)
	}

	return &sconn{nc: nc, reader: bufio.NewReader(nc)}, nil
}

// readLine returns the next line with trailing CR and LF stripped,
// whichever terminator the peer used. End-of-stream surfaces as an error
// (io.EOF); an empty string with a nil error is a valid blank protocol
// line. A final unterminated line is returned before the stream error.
func (c *sconn) readLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// writeLine sends one CRLF-terminated message. The line must not itself
// contain a line terminator.
func (c *sconn) writeLine(line string) error {
	_, err := c.nc.Write([]byte(line + "\r\n"))
	return err
}

// writeData sends raw bytes, used for the inline-data request path.
func (c *sconn) writeData(data []byte) error {
	_, err := c.nc.Write(data)
	return err
}

// close releases the socket. Safe to call on a nil or already-closed
// handle.
func (c *sconn) close() error {
	if c == nil || c.closed {
		return nil
	}
	c.closed = true
	return c.nc.Close()
}
