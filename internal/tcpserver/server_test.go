// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package tcpserver

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func startEcho(t *testing.T, cfg Config) (string, context.CancelFunc) {
	t.Helper()

	srv := New(cfg, func(c *Conn) {
		defer c.Close()
		buf := make([]byte, 1024)
		for {
			n, err := c.Read(buf)
			if n > 0 {
				if _, werr := c.Write(buf[:n]); werr != nil {
					return
				}
			}
			if err != nil {
				return
			}
		}
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	addr, err := srv.BoundAddr(waitCtx)
	if err != nil {
		cancel()
		t.Fatalf("server never bound: %v", err)
	}

	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return addr.String(), cancel
}

func TestEchoRoundTrip(t *testing.T) {
	addr, _ := startEcho(t, Config{Addr: "::", Port: 0, Workers: 2, MaxQueueSize: 8})

	nc, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer nc.Close()

	msg := []byte("ping over loopback")
	if _, err := nc.Write(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := make([]byte, len(msg))
	nc.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, err := io.ReadFull(nc, got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(msg) {
		t.Errorf("echo = %q, want %q", got, msg)
	}
}

func TestServesMultipleConnections(t *testing.T) {
	addr, _ := startEcho(t, Config{Addr: "127.0.0.1", Port: 0, Workers: 4, MaxQueueSize: 16})

	for i := 0; i < 8; i++ {
		nc, err := net.Dial("tcp", addr)
		if err != nil {
			t.Fatalf("dial %d: %v", i, err)
		}
		nc.SetDeadline(time.Now().Add(5 * time.Second))
		if _, err := nc.Write([]byte("x")); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		one := make([]byte, 1)
		if _, err := io.ReadFull(nc, one); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		nc.Close()
	}
}

func TestShutdownClosesListener(t *testing.T) {
	addr, cancel := startEcho(t, Config{Addr: "::", Port: 0, Workers: 1, MaxQueueSize: 2})
	cancel()

	deadline := time.Now().Add(5 * time.Second)
	for {
		nc, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
		if err != nil {
			return // listener is gone
		}
		nc.Close()
		if time.Now().After(deadline) {
			t.Fatal("listener still accepting after shutdown")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSocketTimeoutClosesIdleConn(t *testing.T) {
	addr, _ := startEcho(t, Config{
		Addr: "::", Port: 0, Workers: 1, MaxQueueSize: 2,
		SocketTimeout: 100 * time.Millisecond,
	})

	nc, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer nc.Close()

	nc.SetReadDeadline(time.Now().Add(5 * time.Second))
	one := make([]byte, 1)
	if _, err := nc.Read(one); err != io.EOF {
		t.Errorf("idle connection read = %v, want EOF from server-side timeout", err)
	}
}

func TestConnCloseIdempotent(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()

	c := newConn(a)
	if err := c.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := c.Read(make([]byte, 1)); err != net.ErrClosed {
		t.Errorf("Read after Close = %v, want net.ErrClosed", err)
	}
	if _, err := c.Write([]byte("x")); err != net.ErrClosed {
		t.Errorf("Write after Close = %v, want net.ErrClosed", err)
	}
}
