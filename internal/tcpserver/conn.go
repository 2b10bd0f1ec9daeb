// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package tcpserver

import (
	"net"
	"sync"
	"time"
)

// Conn wraps an accepted socket. A mutex guards the closed flag so
// Close is idempotent and never races deadline updates; the blocking
// read and write calls themselves run outside the lock (net.Conn
// supports concurrent use, and Close unblocks a pending Read).
type Conn struct {
	mu     sync.Mutex
	nc     net.Conn
	closed bool
	remote string
}

func newConn(nc net.Conn) *Conn {
	return &Conn{nc: nc, remote: nc.RemoteAddr().String()}
}

// RemoteAddr returns the peer address captured at accept time.
func (c *Conn) RemoteAddr() string { return c.remote }

func (c *Conn) alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// Read reads from the socket. A closed connection fails with
// net.ErrClosed.
func (c *Conn) Read(p []byte) (int, error) {
	if !c.alive() {
		return 0, net.ErrClosed
	}
	return c.nc.Read(p)
}

// Write writes to the socket.
func (c *Conn) Write(p []byte) (int, error) {
	if !c.alive() {
		return 0, net.ErrClosed
	}
	return c.nc.Write(p)
}

// SetTimeout arms read and write deadlines d from now. A non-positive
// d clears them.
func (c *Conn) SetTimeout(d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return net.ErrClosed
	}
	if d <= 0 {
		return c.nc.SetDeadline(time.Time{})
	}
	return c.nc.SetDeadline(time.Now().Add(d))
}

// Close shuts the socket down. Repeated calls are no-ops.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.nc.Close()
}
