// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

// Package tcpserver accepts TCP connections on a dual-stack listener
// and hands each one to a bounded worker pool. Overload is handled by
// backpressure: when the pool queue is full the new connection is
// dropped instead of stalling the accept loop.
package tcpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/mzheludkov/pinpoint/internal/metrics"
	"github.com/mzheludkov/pinpoint/internal/workpool"
)

// Config carries the listener and pool settings.
type Config struct {
	// Addr is the bind address: an IPv6 literal, an IPv4 literal, or
	// "::" / "0.0.0.0" for any.
	Addr string
	Port int

	Workers      int
	MaxQueueSize int

	// SocketTimeout, when positive, arms one read/write deadline on each
	// accepted connection at accept time; it is not re-armed per read or
	// write.
	SocketTimeout time.Duration

	// AcceptRPS throttles the accept loop when positive. Zero disables
	// the limiter.
	AcceptRPS float64
}

// Handler processes one accepted connection and is responsible for
// closing it.
type Handler func(*Conn)

// Server owns the listening socket, the accept loop and the worker
// pool. It implements suture.Service.
type Server struct {
	cfg     Config
	handler Handler
	log     zerolog.Logger

	pool    *workpool.Pool
	limiter *rate.Limiter

	boundOnce sync.Once
	boundCh   chan struct{}
	bound     net.Addr
}

// New builds a server. The handler is invoked on a pool worker for
// every accepted connection.
func New(cfg Config, handler Handler, log zerolog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		handler: handler,
		log:     log.With().Str("component", "tcpserver").Logger(),
		boundCh: make(chan struct{}),
	}
	if cfg.AcceptRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.AcceptRPS), int(cfg.AcceptRPS)+1)
	}
	return s
}

// Serve binds the listener and runs the accept loop until ctx is
// cancelled. Bind failures are fatal and returned to the supervisor;
// individual accept failures are logged and swallowed.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := s.listen(ctx)
	if err != nil {
		return fmt.Errorf("tcpserver: bind %s port %d: %w", s.cfg.Addr, s.cfg.Port, err)
	}
	s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
	s.boundOnce.Do(func() {
		s.bound = ln.Addr()
		close(s.boundCh)
	})

	s.pool = workpool.New(s.cfg.Workers, s.cfg.MaxQueueSize, s.log)
	defer s.pool.Stop()

	// Closing the listener is what breaks the Accept call below.
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return ctx.Err()
			}
			s.log.Warn().Err(err).Msg("accept failed")
			continue
		}
		metrics.ConnectionsAccepted.Inc()

		if s.limiter != nil && !s.limiter.Allow() {
			metrics.ConnectionsDropped.Inc()
			nc.Close()
			continue
		}

		conn := newConn(nc)
		if s.cfg.SocketTimeout > 0 {
			conn.SetTimeout(s.cfg.SocketTimeout)
		}
		if !s.pool.TrySubmit(func() { s.handler(conn) }) {
			s.log.Warn().
				Str("remote", conn.RemoteAddr()).
				Err(workpool.ErrQueueFull).
				Msg("dropping connection")
			metrics.ConnectionsDropped.Inc()
			conn.Close()
		}
		metrics.PoolQueueDepth.Set(float64(s.pool.QueueDepth()))
	}
}

// listen prefers a dual-stack IPv6 socket and falls back to IPv4 when
// the bind address is an IPv4 literal that IPv6 cannot carry.
func (s *Server) listen(ctx context.Context) (net.Listener, error) {
	lc := net.ListenConfig{Control: controlSocket}
	hostport := net.JoinHostPort(bindHost(s.cfg.Addr), strconv.Itoa(s.cfg.Port))

	ln, err6 := lc.Listen(ctx, "tcp6", hostport)
	if err6 == nil {
		return ln, nil
	}
	if ip := net.ParseIP(s.cfg.Addr); ip != nil && ip.To4() != nil {
		hostport = net.JoinHostPort(s.cfg.Addr, strconv.Itoa(s.cfg.Port))
		if ln, err4 := lc.Listen(ctx, "tcp4", hostport); err4 == nil {
			return ln, nil
		}
	}
	return nil, err6
}

// bindHost maps any-address spellings onto the IPv6 wildcard so the
// dual-stack attempt can cover both families.
func bindHost(addr string) string {
	switch addr {
	case "", "0.0.0.0", "::":
		return "::"
	}
	if ip := net.ParseIP(addr); ip != nil && ip.To4() != nil {
		return "::ffff:" + addr
	}
	return addr
}

// controlSocket sets SO_REUSEADDR and clears IPV6_V6ONLY before bind.
func controlSocket(network, address string, c syscall.RawConn) error {
	var serr error
	err := c.Control(func(fd uintptr) {
		serr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1)
		if serr != nil {
			return
		}
		if network == "tcp6" {
			serr = syscall.SetsockoptInt(int(fd), syscall.IPPROTO_IPV6, syscall.IPV6_V6ONLY, 0)
		}
	})
	if err != nil {
		return err
	}
	return serr
}

// BoundAddr blocks until the listener has bound and returns its
// address. Useful with port 0.
func (s *Server) BoundAddr(ctx context.Context) (net.Addr, error) {
	select {
	case <-s.boundCh:
		return s.bound, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// String names the service in supervisor logs.
func (s *Server) String() string {
	return fmt.Sprintf("tcpserver[%s:%d]", s.cfg.Addr, s.cfg.Port)
}
