// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package httpserver

import (
	"bytes"
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mzheludkov/pinpoint/internal/logging"
	"github.com/mzheludkov/pinpoint/internal/metrics"
	"github.com/mzheludkov/pinpoint/internal/tcpserver"
)

// Config carries the wire limits and CORS settings.
type Config struct {
	MaxHeaderSize int
	MaxBodySize   int

	// SocketTimeout re-arms the connection deadline before every
	// request. Zero leaves the deadline set at accept time.
	SocketTimeout time.Duration

	CORSEnabled bool
	CORSOrigin  string
	CORSMethods string
	CORSHeaders string
}

// Server runs the per-connection HTTP loop on top of tcpserver
// connections.
type Server struct {
	cfg    Config
	router *Router
	log    zerolog.Logger
}

// New builds a server around a finished route table.
func New(cfg Config, router *Router, log zerolog.Logger) *Server {
	if cfg.MaxHeaderSize <= 0 {
		cfg.MaxHeaderSize = DefaultMaxHeaderSize
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	return &Server{
		cfg:    cfg,
		router: router,
		log:    log.With().Str("component", "httpserver").Logger(),
	}
}

// HandleConn serves requests from one connection until it closes, a
// parse error forces a shutdown, or keep-alive is off. It is the
// tcpserver.Handler for the listener.
func (s *Server) HandleConn(c *tcpserver.Conn) {
	defer c.Close()

	var buf []byte
	chunk := make([]byte, 4096)

	for {
		if s.cfg.SocketTimeout > 0 {
			if err := c.SetTimeout(s.cfg.SocketTimeout); err != nil {
				return
			}
		}

		req, consumed, werr, closed := s.readRequest(c, &buf, chunk)
		if closed {
			return
		}
		if werr != nil {
			s.log.Debug().Err(werr).Str("remote", c.RemoteAddr()).Msg("wire error")
			s.write(c, statusResponse(werr.status).encode(false))
			return
		}
		req.RemoteAddr = c.RemoteAddr()
		reqID := logging.NewRequestID()
		req.WithContext(logging.ContextWithRequestID(context.Background(), reqID))

		start := time.Now()
		resp := s.respond(req)
		keep := wantKeepAlive(req)

		s.applyCORS(resp)
		s.write(c, resp.encode(keep))

		elapsed := time.Since(start)
		metrics.RecordRequest(req.Method, resp.Status, elapsed)
		s.log.Debug().
			Str("request_id", reqID).
			Str("method", req.Method).
			Str("path", req.Path).
			Int("status", resp.Status).
			Dur("duration", elapsed).
			Msg("request")

		// Compact: drop the consumed bytes, keep any pipelined tail.
		rest := len(buf) - consumed
		copy(buf, buf[consumed:])
		buf = buf[:rest]

		if !keep {
			return
		}
	}
}

// readRequest accumulates bytes until one full request (head and body)
// is buffered, then parses it. consumed is the total byte length of
// the request within buf. closed reports a clean connection end (or a
// timeout) before a complete request arrived.
func (s *Server) readRequest(c *tcpserver.Conn, buf *[]byte, chunk []byte) (req *Request, consumed int, werr *wireError, closed bool) {
	// Header phase.
	headEnd := -1
	for {
		headEnd = bytes.Index(*buf, []byte(headerEnd))
		if headEnd >= 0 {
			break
		}
		if len(*buf) > s.cfg.MaxHeaderSize {
			return nil, 0, &wireError{status: 431}, false
		}
		n, err := c.Read(chunk)
		if n > 0 {
			*buf = append(*buf, chunk[:n]...)
		}
		if err != nil {
			// EOF, timeout or reset before a complete head: nothing
			// useful to answer.
			return nil, 0, nil, true
		}
	}

	if headEnd > s.cfg.MaxHeaderSize {
		return nil, 0, &wireError{status: 431}, false
	}

	req, werr = parseHead(string((*buf)[:headEnd]))
	if werr != nil {
		return nil, 0, werr, false
	}

	// Body phase.
	bodyLen, werr := contentLength(req, s.cfg.MaxBodySize)
	if werr != nil {
		return nil, 0, werr, false
	}
	total := headEnd + len(headerEnd) + bodyLen
	for len(*buf) < total {
		n, err := c.Read(chunk)
		if n > 0 {
			*buf = append(*buf, chunk[:n]...)
		}
		if err != nil {
			// Short read: the peer promised more body than it sent.
			return nil, 0, &wireError{status: 400}, false
		}
	}

	body := make([]byte, bodyLen)
	copy(body, (*buf)[headEnd+len(headerEnd):total])
	req.Body = body
	return req, total, nil, false
}

// respond runs CORS short-circuiting and the router, converting a
// handler panic into a 500.
func (s *Server) respond(req *Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("path", req.Path).Msg("handler panicked")
			resp = statusResponse(500)
		}
	}()

	if req.Method == "OPTIONS" {
		return NewResponse(204)
	}
	return s.router.Dispatch(req)
}

func (s *Server) applyCORS(resp *Response) {
	if !s.cfg.CORSEnabled {
		return
	}
	resp.SetHeader("Access-Control-Allow-Origin", s.cfg.CORSOrigin)
	resp.SetHeader("Access-Control-Allow-Methods", s.cfg.CORSMethods)
	resp.SetHeader("Access-Control-Allow-Headers", s.cfg.CORSHeaders)
}

// wantKeepAlive applies the version rule: HTTP/1.0 keeps the
// connection only on an explicit keep-alive; later versions keep it
// unless the request says close.
func wantKeepAlive(req *Request) bool {
	conn := lowerASCII(req.Header("Connection"))
	if req.Proto == "HTTP/1.0" {
		return conn == "keep-alive"
	}
	return conn != "close"
}

// write pushes the full payload, looping over partial writes.
func (s *Server) write(c *tcpserver.Conn, p []byte) {
	for len(p) > 0 {
		n, err := c.Write(p)
		if err != nil {
			s.log.Debug().Err(err).Msg("write failed")
			return
		}
		p = p[n:]
	}
}
