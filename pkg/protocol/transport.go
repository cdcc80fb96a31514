package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ErrReadTimeout no line arrived within the configured read timeout.
var ErrReadTimeout = errors.New("read timeout")

// Transport duplex line stream. ReadLine blocks until a full line arrives and returns it
// without the line terminator.
type Transport interface {
	ReadLine(ctx context.Context) (string, error)
	WriteLine(line string) error
}

// TransportError I/O failure on the underlying stream.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type lineResult struct {
	line string
	err  error
}

// LineTransport Transport over any reader/writer pair (stdio, socket, serial port).
// A single goroutine reads lines ahead so ReadLine can give up on timeout or cancellation.
type LineTransport struct {
	r           *bufio.Reader
	w           *bufio.Writer
	readTimeout time.Duration

	once      sync.Once
	closeOnce sync.Once
	lines     chan lineResult
	done      chan struct{}
}

// NewLineTransport readTimeout 0 waits forever.
func NewLineTransport(r io.Reader, w io.Writer, readTimeout time.Duration) *LineTransport {
	return &LineTransport{
		r:           bufio.NewReader(r),
		w:           bufio.NewWriter(w),
		readTimeout: readTimeout,
		lines:       make(chan lineResult, 1),
		done:        make(chan struct{}),
	}
}

func (t *LineTransport) pump() {
	defer close(t.lines)
	for {
		line, err := t.r.ReadString('\n')
		if line != "" && !t.send(lineResult{line: strings.TrimRight(line, "\r\n")}) {
			return
		}
		if err != nil {
			t.send(lineResult{err: err})
			return
		}
	}
}

// send false once the transport is closed.
func (t *LineTransport) send(res lineResult) bool {
	select {
	case t.lines <- res:
		return true
	case <-t.done:
		return false
	}
}

// Close stops the read-ahead goroutine. It does not close the underlying stream; a pump
// blocked inside a read exits once that stream is closed by its owner.
func (t *LineTransport) Close() error {
	t.closeOnce.Do(func() {
		close(t.done)
	})
	return nil
}

func (t *LineTransport) ReadLine(ctx context.Context) (string, error) {
	t.once.Do(func() {
		go t.pump()
	})

	var timeout <-chan time.Time
	if t.readTimeout > 0 {
		timer := time.NewTimer(t.readTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-t.done:
		return "", &TransportError{Op: "read", Err: io.ErrClosedPipe}
	default:
	}

	select {
	case res, ok := <-t.lines:
		if !ok {
			return "", &TransportError{Op: "read", Err: io.EOF}
		}
		if res.err != nil {
			return "", &TransportError{Op: "read", Err: res.err}
		}
		return res.line, nil
	case <-timeout:
		return "", &TransportError{Op: "read", Err: ErrReadTimeout}
	case <-ctx.Done():
		return "", &TransportError{Op: "read", Err: ctx.Err()}
	case <-t.done:
		return "", &TransportError{Op: "read", Err: io.ErrClosedPipe}
	}
}

func (t *LineTransport) WriteLine(line string) error {
	if _, err := t.w.WriteString(line + "\n"); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	if err := t.w.Flush(); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}
