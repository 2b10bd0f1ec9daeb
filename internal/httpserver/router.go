// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package httpserver

import "strings"

// HandlerFunc produces the response for one request.
type HandlerFunc func(*Request) *Response

// Router matches request paths against patterns in registration order.
// Pattern segments are literals, single-segment captures (":name") or
// rest captures ("*name", which swallows the remainder of the path
// including any slashes). The route table is immutable once serving
// starts.
type Router struct {
	routes []route
}

type route struct {
	method   string
	pattern  string
	segments []string
	handler  HandlerFunc
}

// NewRouter returns an empty router.
func NewRouter() *Router { return &Router{} }

// Handle registers a handler for a method and pattern.
func (rt *Router) Handle(method, pattern string, h HandlerFunc) {
	rt.routes = append(rt.routes, route{
		method:   method,
		pattern:  pattern,
		segments: strings.Split(pattern, "/"),
		handler:  h,
	})
}

// Get registers a GET route.
func (rt *Router) Get(pattern string, h HandlerFunc) { rt.Handle("GET", pattern, h) }

// Post registers a POST route.
func (rt *Router) Post(pattern string, h HandlerFunc) { rt.Handle("POST", pattern, h) }

var knownMethods = map[string]struct{}{
	"GET": {}, "HEAD": {}, "POST": {}, "PUT": {},
	"DELETE": {}, "OPTIONS": {}, "PATCH": {},
}

// Dispatch finds and runs the handler for req.
//
// Every route whose pattern matches the path contributes its method to
// the allowed set; an exact method match wins and runs with captures
// installed. With path matches but no method match the result is 405
// carrying an Allow header; with no path match at all, 404. An empty
// or unknown method token short-circuits to 400.
func (rt *Router) Dispatch(req *Request) *Response {
	if _, ok := knownMethods[req.Method]; !ok {
		return statusResponse(400)
	}

	pathSegs := strings.Split(req.Path, "/")

	var allowed []string
	for _, r := range rt.routes {
		params, ok := match(r.segments, pathSegs, req.Path)
		if !ok {
			continue
		}
		if r.method == req.Method {
			req.Params = params
			return r.handler(req)
		}
		if !containsStr(allowed, r.method) {
			allowed = append(allowed, r.method)
		}
	}

	if len(allowed) > 0 {
		resp := statusResponse(405)
		resp.SetHeader("Allow", strings.Join(allowed, ", "))
		return resp
	}
	return statusResponse(404)
}

// match compares pattern segments to path segments. A rest capture
// rejoins the remaining path segments with '/', so its interior slashes
// are kept.
func match(patSegs, pathSegs []string, path string) (map[string]string, bool) {
	var params map[string]string
	setParam := func(name, value string) {
		if params == nil {
			params = make(map[string]string, 2)
		}
		params[name] = value
	}

	for i, seg := range patSegs {
		if strings.HasPrefix(seg, "*") {
			setParam(seg[1:], restOf(pathSegs, i, path))
			return params, true
		}
		if i >= len(pathSegs) {
			return nil, false
		}
		if strings.HasPrefix(seg, ":") {
			setParam(seg[1:], pathSegs[i])
			continue
		}
		if seg != pathSegs[i] {
			return nil, false
		}
	}
	if len(patSegs) != len(pathSegs) {
		return nil, false
	}
	return params, true
}

// restOf rebuilds the tail of path starting at segment index i. An
// exhausted path yields the empty capture.
func restOf(pathSegs []string, i int, path string) string {
	if i >= len(pathSegs) {
		return ""
	}
	return strings.Join(pathSegs[i:], "/")
}

func containsStr(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
