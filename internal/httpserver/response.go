// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package httpserver

import (
	"strconv"
	"strings"
)

// Response is one HTTP response under construction. Headers keep
// insertion order; Content-Length and Connection are emitted by the
// server, not by handlers.
type Response struct {
	Status  int
	headers []headerKV
	Body    []byte
}

type headerKV struct {
	name  string
	value string
}

// NewResponse builds an empty response with the given status.
func NewResponse(status int) *Response {
	return &Response{Status: status}
}

// Text builds a text/plain response.
func Text(status int, body string) *Response {
	r := NewResponse(status)
	r.SetHeader("Content-Type", "text/plain")
	r.Body = []byte(body)
	return r
}

// JSON builds an application/json response.
func JSON(status int, body string) *Response {
	r := NewResponse(status)
	r.SetHeader("Content-Type", "application/json; charset=utf-8")
	r.Body = []byte(body)
	return r
}

// statusResponse is the canonical error shape: text/plain with the
// reason phrase as body.
func statusResponse(status int) *Response {
	return Text(status, statusReason(status))
}

// SetHeader sets a header, replacing a previous value under the same
// case-insensitive name.
func (r *Response) SetHeader(name, value string) {
	for i := range r.headers {
		if strings.EqualFold(r.headers[i].name, name) {
			r.headers[i].value = value
			return
		}
	}
	r.headers = append(r.headers, headerKV{name: name, value: value})
}

// Header returns the value set under a case-insensitive name.
func (r *Response) Header(name string) (string, bool) {
	for _, h := range r.headers {
		if strings.EqualFold(h.name, name) {
			return h.value, true
		}
	}
	return "", false
}

// encode serializes the response with its status line, every header,
// a Content-Length, and a Connection header per keepAlive.
func (r *Response) encode(keepAlive bool) []byte {
	var b strings.Builder
	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(r.Status))
	b.WriteByte(' ')
	b.WriteString(statusReason(r.Status))
	b.WriteString("\r\n")

	for _, h := range r.headers {
		b.WriteString(h.name)
		b.WriteString(": ")
		b.WriteString(h.value)
		b.WriteString("\r\n")
	}

	b.WriteString("Content-Length: ")
	b.WriteString(strconv.Itoa(len(r.Body)))
	b.WriteString("\r\n")

	if keepAlive {
		b.WriteString("Connection: keep-alive\r\n")
	} else {
		b.WriteString("Connection: close\r\n")
	}

	b.WriteString("\r\n")
	b.Write(r.Body)
	return []byte(b.String())
}

func statusReason(code int) string {
	switch code {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 204:
		return "No Content"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 409:
		return "Conflict"
	case 413:
		return "Payload Too Large"
	case 431:
		return "Request Header Fields Too Large"
	case 500:
		return "Internal Server Error"
	case 501:
		return "Not Implemented"
	case 503:
		return "Service Unavailable"
	}
	return "Unknown"
}
