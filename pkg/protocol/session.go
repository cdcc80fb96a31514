package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"lintang/navigatorx/pkg/datastructure"
	"lintang/navigatorx/pkg/server/service"

	"golang.org/x/exp/slog"
)

type State int

const (
	StateIdle State = iota
	StateAwaitingStart
	StateProcessingRequest
	StateStreamingWaypoints
	StateAwaitingAck
	StateSessionEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingStart:
		return "awaiting_start"
	case StateProcessingRequest:
		return "processing_request"
	case StateStreamingWaypoints:
		return "streaming_waypoints"
	case StateAwaitingAck:
		return "awaiting_ack"
	case StateSessionEnded:
		return "session_ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// AckPolicy where the acknowledgement sits relative to each waypoint.
type AckPolicy int

const (
	// AckAfterWaypoint N, then (W, wait A) per waypoint, then E.
	AckAfterWaypoint AckPolicy = iota
	// AckBeforeWaypoint N, then (wait A, W) per waypoint, then E.
	AckBeforeWaypoint
)

func ParseAckPolicy(s string) (AckPolicy, error) {
	switch strings.ToLower(s) {
	case "", "after":
		return AckAfterWaypoint, nil
	case "before":
		return AckBeforeWaypoint, nil
	default:
		return 0, fmt.Errorf("unknown ack policy %q", s)
	}
}

// BadAckPolicy what to do once every ack attempt for a waypoint failed.
type BadAckPolicy int

const (
	AbortOnBadAck BadAckPolicy = iota
	ProceedOnBadAck
)

func ParseBadAckPolicy(s string) (BadAckPolicy, error) {
	switch strings.ToLower(s) {
	case "", "abort":
		return AbortOnBadAck, nil
	case "proceed":
		return ProceedOnBadAck, nil
	default:
		return 0, fmt.Errorf("unknown bad ack policy %q", s)
	}
}

type Options struct {
	AckPolicy AckPolicy
	OnBadAck  BadAckPolicy
	// MaxAckAttempts lines (or read timeouts) accepted while waiting for one acknowledgement.
	MaxAckAttempts   int
	RequireStart     bool
	CoordinateFormat CoordinateFormat
}

func DefaultOptions() Options {
	return Options{
		AckPolicy:        AckAfterWaypoint,
		OnBadAck:         AbortOnBadAck,
		MaxAckAttempts:   3,
		CoordinateFormat: IntegerCoordinates,
	}
}

type Navigator interface {
	ShortestPath(ctx context.Context, srcLat, srcLon float64, dstLat float64, dstLon float64) (service.Route, error)
	VertexCoordinate(id datastructure.VertexID) (datastructure.Coordinate, bool)
}

// Session one peer conversation over a transport. Not safe for concurrent use: the session
// owns the transport until Run returns.
type Session struct {
	opts    Options
	tr      Transport
	nav     Navigator
	log     *slog.Logger
	metrics *Metrics

	state      State
	pending    []datastructure.VertexID
	cursor     int
	eos        bool
	peerClosed bool
}

func NewSession(tr Transport, nav Navigator, opts Options, log *slog.Logger, metrics *Metrics) *Session {
	if opts.MaxAckAttempts < 1 {
		opts.MaxAckAttempts = 1
	}
	return &Session{opts: opts, tr: tr, nav: nav, log: log, metrics: metrics, state: StateIdle}
}

func (s *Session) State() State {
	return s.state
}

// PeerClosed reports whether the last Run ended because the stream reached end of file.
func (s *Session) PeerClosed() bool {
	return s.peerClosed
}

// Run serves requests until the peer sends E, sends an empty line or closes the stream.
// Any other transport failure is returned.
func (s *Session) Run(ctx context.Context) error {
	s.metrics.Sessions.Inc()
	s.eos = false
	s.peerClosed = false
	if s.opts.RequireStart {
		s.state = StateAwaitingStart
		if err := s.awaitStart(ctx); err != nil {
			return s.finish(err)
		}
		s.log.Info("session started")
	}

	s.state = StateIdle
	for !s.eos {
		if _, err := s.ReadEvaluate(ctx); err != nil {
			return s.finish(err)
		}
	}
	return s.finish(nil)
}

func (s *Session) finish(err error) error {
	s.state = StateSessionEnded
	s.eos = true
	if err != nil && errors.Is(err, io.EOF) {
		s.peerClosed = true
		s.log.Info("peer closed the stream")
		return nil
	}
	if err != nil {
		s.log.Error("session ended by transport failure", "err", err)
		return err
	}
	s.log.Info("session ended")
	return nil
}

func (s *Session) awaitStart(ctx context.Context) error {
	for {
		line, err := s.readLine(ctx)
		if err != nil {
			if errors.Is(err, ErrReadTimeout) {
				continue
			}
			return err
		}
		if IsStartOfSession(Fields(line)) {
			return nil
		}
		s.log.Debug("waiting for start of session", "line", line)
	}
}

// readLine reads the next line that is not a comment.
func (s *Session) readLine(ctx context.Context) (string, error) {
	for {
		line, err := s.tr.ReadLine(ctx)
		if err != nil {
			return "", err
		}
		if IsComment(line) {
			s.metrics.Comments.Inc()
			s.log.Debug("comment", "line", line)
			continue
		}
		return line, nil
	}
}

// ReadEvaluate reads one line and dispatches it. An idle read timeout is not an error,
// the line is reported as TokenUnknown and the caller may read again.
func (s *Session) ReadEvaluate(ctx context.Context) (Token, error) {
	line, err := s.readLine(ctx)
	if err != nil {
		if errors.Is(err, ErrReadTimeout) {
			return TokenUnknown, nil
		}
		return "", err
	}
	return s.evaluate(ctx, line)
}

func (s *Session) evaluate(ctx context.Context, line string) (Token, error) {
	fields := Fields(line)
	if len(fields) == 0 {
		s.log.Warn("empty line, ending session", "err", ErrMalformedLine)
		s.eos = true
		return TokenEndOfSession, nil
	}

	tok := Classify(fields)
	switch tok {
	case TokenEndOfSession:
		s.eos = true
	case TokenRequest:
		return tok, s.handleRequest(ctx, fields)
	default:
		s.log.Debug("ignoring line", "token", string(tok), "line", line)
	}
	return tok, nil
}

func (s *Session) handleRequest(ctx context.Context, fields []string) error {
	s.state = StateProcessingRequest
	s.metrics.Requests.Inc()

	path := []datastructure.VertexID{}
	req, err := ParseRequest(fields)
	if err != nil {
		s.log.Warn("bad request", "err", err)
		s.metrics.DeliveryFailures.WithLabelValues(failureMalformedInput).Inc()
	} else {
		route, err := s.nav.ShortestPath(ctx, req.SrcLat, req.SrcLon, req.DstLat, req.DstLon)
		if err != nil {
			s.log.Info("no route for request", "err", err)
			s.metrics.DeliveryFailures.WithLabelValues(failureNoRoute).Inc()
		} else {
			path = route.Vertices
			s.log.Info("route found", "source", route.Source, "dest", route.Dest,
				"waypoints", len(path), "cost", route.Cost, "distance_km", route.DistanceKm)
		}
	}

	s.pending = path
	s.cursor = 0
	defer func() {
		s.pending = nil
	}()

	if err := s.tr.WriteLine(FormatCount(len(path))); err != nil {
		return err
	}
	s.state = StateStreamingWaypoints
	if err := s.deliver(ctx); err != nil {
		return err
	}
	if err := s.tr.WriteLine(string(TokenEndOfSession)); err != nil {
		return err
	}
	if !s.eos {
		s.state = StateIdle
	}
	return nil
}

// deliver streams the pending waypoints. Only transport failures are returned, a missing
// coordinate or a missing acknowledgement stops delivery and is reported here.
func (s *Session) deliver(ctx context.Context) error {
	for s.cursor < len(s.pending) {
		if s.opts.AckPolicy == AckBeforeWaypoint {
			proceed, err := s.gate(ctx)
			if err != nil || !proceed {
				return err
			}
		}

		v := s.pending[s.cursor]
		coord, ok := s.nav.VertexCoordinate(v)
		if !ok {
			s.log.Warn("failed to deliver waypoint", "vertex", v, "err", datastructure.ErrUnknownVertex)
			s.metrics.DeliveryFailures.WithLabelValues(failureUnknownVertex).Inc()
			return nil
		}
		if err := s.tr.WriteLine(FormatWaypoint(coord, s.opts.CoordinateFormat)); err != nil {
			return err
		}
		s.metrics.Waypoints.Inc()

		if s.opts.AckPolicy == AckAfterWaypoint {
			proceed, err := s.gate(ctx)
			if err != nil || !proceed {
				return err
			}
		}
		s.cursor++
		s.state = StateStreamingWaypoints
	}
	return nil
}

// gate waits for an acknowledgement and applies OnBadAck when none arrives.
func (s *Session) gate(ctx context.Context) (bool, error) {
	acked, err := s.awaitAck(ctx)
	if err != nil {
		return false, err
	}
	if acked {
		return true, nil
	}
	if s.eos {
		s.log.Warn("peer ended the session during delivery", "cursor", s.cursor)
		s.metrics.DeliveryFailures.WithLabelValues(failurePeerEndedStream).Inc()
		return false, nil
	}
	if s.opts.OnBadAck == ProceedOnBadAck {
		s.log.Warn("no acknowledgement, proceeding", "cursor", s.cursor)
		return true, nil
	}
	s.log.Warn("failed to get a response", "cursor", s.cursor)
	s.metrics.DeliveryFailures.WithLabelValues(failureMissingAck).Inc()
	return false, nil
}

func (s *Session) awaitAck(ctx context.Context) (bool, error) {
	s.state = StateAwaitingAck
	for attempt := 1; attempt <= s.opts.MaxAckAttempts; attempt++ {
		line, err := s.readLine(ctx)
		if err != nil {
			if !errors.Is(err, ErrReadTimeout) {
				return false, err
			}
			s.log.Warn("acknowledgement timed out", "attempt", attempt)
			s.metrics.AckRetries.Inc()
			continue
		}

		switch tok := Classify(Fields(line)); tok {
		case TokenAck:
			return true, nil
		case TokenEndOfSession:
			s.eos = true
			return false, nil
		default:
			s.log.Warn("expected acknowledgement", "token", string(tok), "line", line, "attempt", attempt)
			s.metrics.AckRetries.Inc()
		}
	}
	return false, nil
}
