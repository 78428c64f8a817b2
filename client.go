package sssp

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SSSP verbs issued by the client.
const (
	verbScanFile = "SCANFILE"
	verbScanDir  = "SCANDIR"
	verbScanDirR = "SCANDIRR"
	verbScanData = "SCANDATA"
)

const (
	serverGreeting = "OK SSSP/1.0"
	clientVersion  = "SSSP/1.0"

	// Daemon status codes carried by the terminal DONE event.
	codeClean    = "0000"
	codeInfected = "0203"
)

// Client is a session with an SSSP scanning daemon. It owns exactly one
// socket and issues one request at a time; it is not safe for concurrent
// use from multiple goroutines.
type Client struct {
	conn        *sconn
	logger      *zap.Logger
	timeout     time.Duration
	forceInline bool
	inline      bool

	viruses map[string]string
	message string
}

// NewClient creates a disconnected client. Call Connect before scanning.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		logger:  zap.NewNop(),
		timeout: defaultConnectTimeout,
		viruses: map[string]string{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Connect establishes a session with the daemon at address and performs
// the SSSP/1.0 handshake. kind is one of ConnUnix, ConnTCP or
// ConnRemoteTCP; unrecognized kinds are dialed as TCP. ConnRemoteTCP
// additionally switches the session into inline-data mode, for daemons
// with no access to the client's filesystem.
//
// Connect is re-entrant: any previous session is torn down first, so it
// may be called on an already-open client.
func (c *Client) Connect(kind, address string) error {
	if err := c.Close(); err != nil {
		c.logger.Warn("failed to close previous session", zap.Error(err))
	}

	conn, err := dial(kind, address, c.timeout)
	if err != nil {
		return err
	}

	line, err := conn.readLine()
	if err != nil || line != serverGreeting {
		conn.close()
		return NewProtocolError("bad server greeting", err)
	}

	if err := conn.writeLine(clientVersion); err != nil {
		conn.close()
		return NewConnectionError("failed to send protocol version", err)
	}

	line, err = conn.readLine()
	if err != nil || !strings.HasPrefix(line, "ACC ") {
		conn.close()
		return NewProtocolError("bad protocol version handshake", err)
	}

	c.conn = conn
	c.inline = c.forceInline || kind == ConnRemoteTCP
	c.logger.Debug("session established",
		zap.String("kind", kind),
		zap.String("address", address),
		zap.Bool("inline", c.inline))
	return nil
}

// Close ends the session with a BYE exchange and releases the socket.
// It is a no-op on a disconnected client and is safe to call repeatedly.
// An unexpected BYE reply is logged, never an error.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}

	conn := c.conn
	c.conn = nil

	if err := conn.writeLine("BYE"); err == nil {
		if reply, err := conn.readLine(); err != nil || reply != "BYE" {
			c.logger.Warn("unexpected reply to BYE", zap.String("reply", reply))
		}
	}

	return conn.close()
}

// ScanFile scans a single file by path. In inline-data mode the file's
// bytes are streamed inside the request instead.
func (c *Client) ScanFile(path string) (*ScanResult, error) {
	return c.scan(verbScanFile, path)
}

// ScanDir scans the files of a directory, descending into subdirectories
// when recursive is set.
func (c *Client) ScanDir(path string, recursive bool) (*ScanResult, error) {
	verb := verbScanDir
	if recursive {
		verb = verbScanDirR
	}
	return c.scan(verb, path)
}

// LastViruses returns the virus mapping accumulated by the most recent
// scan. It is replaced, not merged, at the start of each scan.
func (c *Client) LastViruses() map[string]string {
	return c.viruses
}

// LastMessage returns the diagnostic message from the most recent scan's
// terminal DONE event.
func (c *Client) LastMessage() string {
	return c.message
}

// scan sends one request and drives the response stream to its terminal
// condition. Daemon-side failures (REJ, DONE FAIL, unknown status codes)
// and mid-scan I/O errors are absorbed into an ERROR outcome; only
// caller-side problems surface as a hard error.
func (c *Client) scan(verb, path string) (*ScanResult, error) {
	if c.conn == nil {
		return nil, NewValidationError("not connected", nil)
	}

	c.viruses = map[string]string{}
	c.message = ""

	if err := c.sendRequest(verb, path); err != nil {
		if IsValidationError(err) {
			return nil, err
		}
		c.logger.Warn("failed to send scan request", zap.Error(err))
		return c.result(OutcomeError), nil
	}

	outcome := OutcomeError
	doneSeen := false

	for {
		line, err := c.conn.readLine()
		if err != nil {
			// Stream ended before the trailing separator: keep whatever
			// classification was last set.
			break
		}

		if line == "" {
			// Blank lines are keep-alives until DONE, then the required
			// trailing separator.
			if doneSeen {
				break
			}
			continue
		}

		token, rest := splitToken(line)
		switch token {
		case "ACC":
			// Request accepted.
		case "REJ":
			c.logger.Warn("scan request rejected", zap.String("detail", rest))
			return c.result(OutcomeError), nil
		case "EVENT", "TYPE", "FILE":
			// Progress and metadata notifications.
		case "OK", "FAIL":
			// Per-item outcomes; classification comes from DONE.
		case "VIRUS":
			name, id := splitToken(rest)
			if id != "" {
				c.viruses[id] = name
			}
		case "DONE":
			outcome = c.classifyDone(rest)
			doneSeen = true
		default:
			c.logger.Debug("ignoring unrecognized response", zap.String("line", line))
		}
	}

	return c.result(outcome), nil
}

// sendRequest writes the wire form of one scan request: a percent-encoded
// path reference, or a SCANDATA header plus raw payload in inline mode.
func (c *Client) sendRequest(verb, path string) error {
	if !c.inline {
		return c.conn.writeLine(verb + " " + url.PathEscape(path))
	}

	payload, err := buildInlinePayload(verb, path)
	if err != nil {
		return err
	}

	// The declared size tells the daemon where the inline data ends; the
	// header is LF-terminated with the payload following immediately.
	msg := append([]byte(fmt.Sprintf("%s %d\n", verbScanData, len(payload))), payload...)
	return c.conn.writeData(msg)
}

// classifyDone interprets the terminal event "DONE <OK|FAIL> <code> <text>".
func (c *Client) classifyDone(rest string) Outcome {
	status, tail := splitToken(rest)
	code, text := splitToken(tail)
	c.message = strings.TrimSpace(code + " " + text)

	if status == "OK" {
		switch code {
		case codeClean:
			return OutcomeClean
		case codeInfected:
			return OutcomeInfected
		}
	}

	c.logger.Warn("scan did not complete cleanly",
		zap.String("status", status),
		zap.String("detail", c.message))
	return OutcomeError
}

func (c *Client) result(outcome Outcome) *ScanResult {
	return &ScanResult{
		Outcome: outcome,
		Viruses: c.viruses,
		Message: c.message,
	}
}

// splitToken splits a response line into its leading token and the rest.
func splitToken(line string) (string, string) {
	if i := strings.IndexByte(line, ' '); i >= 0 {
		return line[:i], line[i+1:]
	}
	return line, ""
}
