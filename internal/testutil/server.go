// Package testutil provides test helpers for the sssp-client-go SDK.
package testutil

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
)

// Script decides how the stub daemon answers one scan request. It
// receives the raw request line and, for SCANDATA requests, the inline
// payload that followed it. The returned lines are written back
// CRLF-terminated; closeConn drops the connection immediately afterwards,
// simulating a daemon that dies mid-response.
type Script func(request string, data []byte) (lines []string, closeConn bool)

// Static returns a Script that replays the same lines for every request.
func Static(lines ...string) Script {
	return func(string, []byte) ([]string, bool) {
		return lines, false
	}
}

// CleanResponse replies like a daemon that scanned and found nothing.
func CleanResponse() Script {
	return Static("ACC 1", "DONE OK 0000 The function call succeeded", "")
}

// InfectedResponse replies like a daemon that found virus in the file
// identified by id.
func InfectedResponse(virus, id string) Script {
	return Static("ACC 1", "VIRUS "+virus+" "+id, "DONE OK 0203 Virus found during virus scan", "")
}

// Option customizes the stub daemon's handshake behavior.
type Option func(*StubDaemon)

// WithGreeting overrides the server greeting line.
func WithGreeting(line string) Option {
	return func(s *StubDaemon) { s.greeting = line }
}

// WithHandshakeReply overrides the reply to the client's version line.
func WithHandshakeReply(line string) Option {
	return func(s *StubDaemon) { s.handshakeReply = line }
}

// WithByeReply overrides the reply to BYE.
func WithByeReply(line string) Option {
	return func(s *StubDaemon) { s.byeReply = line }
}

// StubDaemon is a scripted SSSP server on a loopback listener. It
// performs the greeting and version handshake, then answers each request
// line according to its Script, recording requests and inline payloads
// as it goes.
type StubDaemon struct {
	ln     net.Listener
	script Script

	greeting       string
	handshakeReply string
	byeReply       string

	mu       sync.Mutex
	conns    []net.Conn
	requests []string
	payloads [][]byte

	wg sync.WaitGroup
}

// NewStubDaemon starts a stub daemon with well-behaved handshake defaults
// on a loopback TCP listener.
func NewStubDaemon(script Script, opts ...Option) (*StubDaemon, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	return newStubDaemon(ln, script, opts...), nil
}

// NewUnixStubDaemon starts a stub daemon on a Unix domain socket at path.
func NewUnixStubDaemon(path string, script Script, opts ...Option) (*StubDaemon, error) {
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	return newStubDaemon(ln, script, opts...), nil
}

func newStubDaemon(ln net.Listener, script Script, opts ...Option) *StubDaemon {
	s := &StubDaemon{
		ln:             ln,
		script:         script,
		greeting:       "OK SSSP/1.0",
		handshakeReply: "ACC 1",
		byeReply:       "BYE",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.serve()
	return s
}

// Addr returns the daemon's host:port address.
func (s *StubDaemon) Addr() string {
	return s.ln.Addr().String()
}

// Requests returns the request lines received so far.
func (s *StubDaemon) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Payloads returns the inline SCANDATA payloads received so far, one
// entry per request (nil for path-based requests).
func (s *StubDaemon) Payloads() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.payloads...)
}

// Close stops the listener and drops any open connections.
func (s *StubDaemon) Close() {
	s.ln.Close()
	s.mu.Lock()
	for _, conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *StubDaemon) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

func (s *StubDaemon) handle(conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)

	writeLine(conn, s.greeting)
	version, err := readLine(reader)
	if err != nil || version != "SSSP/1.0" {
		return
	}
	writeLine(conn, s.handshakeReply)

	for {
		request, err := readLine(reader)
		if err != nil {
			return
		}
		if request == "BYE" {
			writeLine(conn, s.byeReply)
			return
		}

		var payload []byte
		if size, ok := scanDataSize(request); ok {
			payload = make([]byte, size)
			if _, err := io.ReadFull(reader, payload); err != nil {
				return
			}
		}

		s.mu.Lock()
		s.requests = append(s.requests, request)
		s.payloads = append(s.payloads, payload)
		s.mu.Unlock()

		lines, closeConn := s.script(request, payload)
		for _, line := range lines {
			writeLine(conn, line)
		}
		if closeConn {
			return
		}
	}
}

// scanDataSize extracts the declared payload size from a SCANDATA header.
func scanDataSize(request string) (int, bool) {
	if !strings.HasPrefix(request, "SCANDATA ") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(request, "SCANDATA "))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func writeLine(w io.Writer, line string) {
	fmt.Fprintf(w, "%s\r\n", line) //nolint:errcheck
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
