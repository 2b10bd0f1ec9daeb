// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package httpserver

import (
	"errors"
	"strconv"
	"strings"
)

// Default wire parsing limits.
const (
	DefaultMaxHeaderSize = 64 * 1024
	DefaultMaxBodySize   = 10 * 1024 * 1024
)

// ErrChunkedUnsupported reports a request using chunked transfer
// encoding, which the server does not implement.
var ErrChunkedUnsupported = errors.New("httpserver: chunked transfer encoding unsupported")

// wireError aborts parsing with a status to send before closing.
type wireError struct {
	status int
	err    error
}

func (e *wireError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return statusReason(e.status)
}

func (e *wireError) Unwrap() error { return e.err }

const headerEnd = "\r\n\r\n"

// parseHead parses everything before the blank line: start line and
// header fields. The returned request has no body yet.
func parseHead(head string) (*Request, *wireError) {
	lines := strings.Split(head, "\r\n")
	req, werr := parseStartLine(lines[0])
	if werr != nil {
		return nil, werr
	}

	req.Headers = make(map[string]string, len(lines)-1)
	for _, line := range lines[1:] {
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue // not a header field, skip it
		}
		name := lowerASCII(strings.TrimSpace(line[:colon]))
		value := strings.TrimSpace(line[colon+1:])
		if name == "" {
			continue
		}
		req.Headers[name] = value
	}

	if te := req.Headers["transfer-encoding"]; strings.Contains(lowerASCII(te), "chunked") {
		return nil, &wireError{status: 501, err: ErrChunkedUnsupported}
	}
	return req, nil
}

func parseStartLine(line string) (*Request, *wireError) {
	first := strings.IndexByte(line, ' ')
	if first < 0 {
		return nil, &wireError{status: 400, err: errors.New("httpserver: malformed start line")}
	}
	last := strings.LastIndexByte(line, ' ')
	if last == first {
		return nil, &wireError{status: 400, err: errors.New("httpserver: malformed start line")}
	}

	method := line[:first]
	target := line[first+1 : last]
	proto := line[last+1:]
	if target == "" || !strings.HasPrefix(proto, "HTTP/") {
		return nil, &wireError{status: 400, err: errors.New("httpserver: malformed start line")}
	}

	req := &Request{Method: method, Proto: proto, Path: target}
	if q := strings.IndexByte(target, '?'); q >= 0 {
		req.Path = target[:q]
		req.RawQuery = target[q+1:]
	}
	req.Query = parseQuery(req.RawQuery)
	return req, nil
}

// contentLength reads the Content-Length header. Absent means zero.
func contentLength(req *Request, maxBody int) (int, *wireError) {
	raw, ok := req.Headers["content-length"]
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &wireError{status: 400, err: errors.New("httpserver: bad content-length")}
	}
	if n > maxBody {
		return 0, &wireError{status: 413, err: errors.New("httpserver: body too large")}
	}
	return n, nil
}

// parseQuery splits the raw query on '&', then each pair on the first
// '='. Keys and values are URL-decoded; duplicate keys are kept in
// arrival order. A pair without '=' becomes a key with an empty value.
func parseQuery(raw string) Query {
	var q Query
	if raw == "" {
		return q
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		eq := strings.IndexByte(pair, '=')
		if eq < 0 {
			q.add(urlDecode(pair), "")
			continue
		}
		q.add(urlDecode(pair[:eq]), urlDecode(pair[eq+1:]))
	}
	return q
}

// urlDecode resolves '+' to space and %HH to the named byte. An
// invalid %HH sequence passes the '%' through unchanged.
func urlDecode(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '+':
			b.WriteByte(' ')
		case '%':
			if i+2 < len(s) {
				hi, ok1 := unhex(s[i+1])
				lo, ok2 := unhex(s[i+2])
				if ok1 && ok2 {
					b.WriteByte(hi<<4 | lo)
					i += 2
					continue
				}
			}
			b.WriteByte('%')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
