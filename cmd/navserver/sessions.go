package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"lintang/navigatorx/pkg/config"
	"lintang/navigatorx/pkg/protocol"
	"lintang/navigatorx/pkg/server/service"

	"go.bug.st/serial"
	"golang.org/x/exp/slog"
)

// sessionServer serves protocol sessions one at a time over the configured transport.
type sessionServer struct {
	nav     *service.NavigationService
	opts    protocol.Options
	metrics *protocol.Metrics
	log     *slog.Logger
	cfg     config.TransportOptions
}

func (s *sessionServer) serve(ctx context.Context) error {
	switch s.cfg.Kind {
	case "stdio":
		return s.serveStream(ctx, os.Stdin, os.Stdout, s.log.With("transport", "stdio"))
	case "tcp":
		return s.serveTCP(ctx)
	case "serial":
		return s.serveSerial(ctx)
	default:
		return fmt.Errorf("unknown transport %q", s.cfg.Kind)
	}
}

// serveStream runs sessions back to back until the peer closes the stream.
func (s *sessionServer) serveStream(ctx context.Context, r io.Reader, w io.Writer, log *slog.Logger) error {
	r, w, err := protocol.Encode(r, w, s.cfg.Encoding)
	if err != nil {
		return err
	}
	tr := protocol.NewLineTransport(r, w, s.cfg.ReadTimeout)
	defer tr.Close()
	session := protocol.NewSession(tr, s.nav, s.opts, log, s.metrics)
	for ctx.Err() == nil {
		if err := session.Run(ctx); err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if session.PeerClosed() {
			return nil
		}
	}
	return nil
}

func (s *sessionServer) serveTCP(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	s.log.Info("waiting for peers", "transport", "tcp", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		log := s.log.With("transport", "tcp", "peer", conn.RemoteAddr().String())
		log.Info("peer connected")
		if err := s.serveStream(ctx, conn, conn, log); err != nil {
			log.Warn("peer dropped", "err", err)
		}
		conn.Close()
	}
}

func (s *sessionServer) serveSerial(ctx context.Context) error {
	port, err := serial.Open(s.cfg.Port, &serial.Mode{BaudRate: s.cfg.Baud})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.cfg.Port, err)
	}
	defer port.Close()
	go func() {
		<-ctx.Done()
		port.Close()
	}()

	log := s.log.With("transport", "serial", "port", s.cfg.Port, "baud", s.cfg.Baud)
	log.Info("serial port open")
	return s.serveStream(ctx, port, port, log)
}
