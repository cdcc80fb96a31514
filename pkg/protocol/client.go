package protocol

import (
	"context"
	"fmt"

	"lintang/navigatorx/pkg/datastructure"
)

// Client peer side of the protocol, used by navclient and the end to end tests.
type Client struct {
	tr     Transport
	policy AckPolicy
}

func NewClient(tr Transport, policy AckPolicy) *Client {
	return &Client{tr: tr, policy: policy}
}

// Start announces the beginning of a session to a server that requires it.
func (c *Client) Start() error {
	return c.tr.WriteLine(StartOfSession)
}

// RequestPath sends a request and acknowledges every waypoint until the server closes the
// reply with E. Fewer waypoints than announced means delivery was aborted on the server.
func (c *Client) RequestPath(ctx context.Context, req Request) ([]datastructure.Coordinate, error) {
	if err := c.tr.WriteLine(FormatRequest(req)); err != nil {
		return nil, err
	}

	n, err := c.readCount(ctx)
	if err != nil {
		return nil, err
	}

	waypoints := make([]datastructure.Coordinate, 0, n)
	for len(waypoints) < n {
		if c.policy == AckBeforeWaypoint {
			if err := c.tr.WriteLine(string(TokenAck)); err != nil {
				return waypoints, err
			}
		}

		line, err := c.next(ctx)
		if err != nil {
			return waypoints, err
		}
		fields := Fields(line)
		if Classify(fields) == TokenEndOfSession {
			return waypoints, nil
		}
		w, err := ParseWaypoint(fields)
		if err != nil {
			return waypoints, err
		}
		waypoints = append(waypoints, w)

		if c.policy == AckAfterWaypoint {
			if err := c.tr.WriteLine(string(TokenAck)); err != nil {
				return waypoints, err
			}
		}
	}

	line, err := c.next(ctx)
	if err != nil {
		return waypoints, err
	}
	if tok := Classify(Fields(line)); tok != TokenEndOfSession {
		return waypoints, fmt.Errorf("%w: expected end of reply, got %q", ErrMalformedLine, line)
	}
	return waypoints, nil
}

// End closes the session.
func (c *Client) End() error {
	return c.tr.WriteLine(string(TokenEndOfSession))
}

func (c *Client) readCount(ctx context.Context) (int, error) {
	line, err := c.next(ctx)
	if err != nil {
		return 0, err
	}
	return ParseCount(Fields(line))
}

func (c *Client) next(ctx context.Context) (string, error) {
	for {
		line, err := c.tr.ReadLine(ctx)
		if err != nil {
			return "", err
		}
		if !IsComment(line) {
			return line, nil
		}
	}
}
