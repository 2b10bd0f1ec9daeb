// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package api

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mzheludkov/pinpoint/internal/geometry"
	"github.com/mzheludkov/pinpoint/internal/httpserver"
	"github.com/mzheludkov/pinpoint/internal/jsonx"
	"github.com/mzheludkov/pinpoint/internal/logging"
	"github.com/mzheludkov/pinpoint/internal/store"
	"github.com/mzheludkov/pinpoint/internal/users"
)

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func newRouter(t *testing.T) *httpserver.Router {
	t.Helper()
	log := logging.NewTestLogger(testWriter{t})

	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"), log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	w := store.NewWriter(st, 64, log)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	svc := users.New(st, w, users.Config{
		JWTSecret:  "test-secret-0123456789",
		SessionTTL: time.Hour,
		BcryptCost: 4,
	}, log)

	rt := httpserver.NewRouter()
	New(svc, geometry.NewChecker(), log).RegisterRoutes(rt)
	return rt
}

func request(method, path, body, token string) *httpserver.Request {
	req := &httpserver.Request{
		Method:  method,
		Path:    path,
		Proto:   "HTTP/1.1",
		Headers: map[string]string{},
		Body:    []byte(body),
	}
	if token != "" {
		req.Headers["authorization"] = "Bearer " + token
	}
	return req
}

func parseJSON(t *testing.T, resp *httpserver.Response) jsonx.Value {
	t.Helper()
	v, err := jsonx.Parse(string(resp.Body))
	if err != nil {
		t.Fatalf("response body not JSON: %v (%q)", err, resp.Body)
	}
	return v
}

func registerUser(t *testing.T, rt *httpserver.Router, login string) string {
	t.Helper()
	body := fmt.Sprintf(`{"login":%q,"password":"pw"}`, login)
	resp := rt.Dispatch(request("POST", "/api/auth/register", body, ""))
	if resp.Status != 200 {
		t.Fatalf("register status = %d (%s)", resp.Status, resp.Body)
	}
	v := parseJSON(t, resp)
	tok, _ := v.Get("token")
	token, _ := tok.AsString()
	if token == "" {
		t.Fatal("register returned empty token")
	}
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	rt := newRouter(t)
	registerUser(t, rt, "alice")

	// Duplicate register conflicts.
	body := `{"login":"alice","password":"pw"}`
	if resp := rt.Dispatch(request("POST", "/api/auth/register", body, "")); resp.Status != 409 {
		t.Errorf("duplicate register = %d, want 409", resp.Status)
	}

	resp := rt.Dispatch(request("POST", "/api/auth/login", body, ""))
	if resp.Status != 200 {
		t.Fatalf("login status = %d", resp.Status)
	}
	if ct, _ := resp.Header("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	v := parseJSON(t, resp)
	dots, _ := v.Get("dots")
	if arr, ok := dots.AsArray(); !ok || len(arr) != 0 {
		t.Errorf("dots = %v, %v", arr, ok)
	}

	wrong := `{"login":"alice","password":"nope"}`
	if resp := rt.Dispatch(request("POST", "/api/auth/login", wrong, "")); resp.Status != 401 {
		t.Errorf("wrong password = %d, want 401", resp.Status)
	}
}

func TestBodyValidation(t *testing.T) {
	rt := newRouter(t)

	bad := []string{
		``,
		`not json`,
		`[]`,
		`{"login":"a"}`,
		`{"login":1,"password":"pw"}`,
		`{"login":"a","password":null}`,
	}
	for _, body := range bad {
		if resp := rt.Dispatch(request("POST", "/api/auth/login", body, "")); resp.Status != 400 {
			t.Errorf("login body %q = %d, want 400", body, resp.Status)
		}
	}

	// Extra members are tolerated.
	extra := `{"login":"zoe","password":"pw","note":"hi"}`
	if resp := rt.Dispatch(request("POST", "/api/auth/register", extra, "")); resp.Status != 200 {
		t.Errorf("register with extra member = %d, want 200", resp.Status)
	}
}

func TestLogoutAndRemove(t *testing.T) {
	rt := newRouter(t)
	token := registerUser(t, rt, "bob")

	if resp := rt.Dispatch(request("POST", "/api/auth/logout", "", token)); resp.Status != 200 {
		t.Fatalf("logout = %d", resp.Status)
	}
	// The revoked token no longer authorizes anything.
	if resp := rt.Dispatch(request("GET", "/api/main/dots", "", token)); resp.Status != 401 {
		t.Errorf("dots with revoked token = %d, want 401", resp.Status)
	}
	// Logout without a token is still 200.
	if resp := rt.Dispatch(request("POST", "/api/auth/logout", "", "")); resp.Status != 200 {
		t.Errorf("anonymous logout = %d", resp.Status)
	}

	token2 := registerUser(t, rt, "carol")
	if resp := rt.Dispatch(request("POST", "/api/auth/remove", "", token2)); resp.Status != 204 {
		t.Errorf("remove = %d, want 204", resp.Status)
	}
	login := `{"login":"carol","password":"pw"}`
	if resp := rt.Dispatch(request("POST", "/api/auth/login", login, "")); resp.Status != 401 {
		t.Errorf("login after remove = %d, want 401", resp.Status)
	}
	if resp := rt.Dispatch(request("POST", "/api/auth/remove", "", "")); resp.Status != 401 {
		t.Errorf("remove without token = %d, want 401", resp.Status)
	}
}

func TestTimeEndpoint(t *testing.T) {
	rt := newRouter(t)
	before := time.Now().UnixMilli()
	resp := rt.Dispatch(request("GET", "/api/main/time", "", ""))
	after := time.Now().UnixMilli()
	if resp.Status != 200 {
		t.Fatalf("time = %d", resp.Status)
	}
	v := parseJSON(t, resp)
	ms, ok := v.AsNumber()
	if !ok {
		t.Fatalf("time body = %q", resp.Body)
	}
	if int64(ms) < before || int64(ms) > after {
		t.Errorf("time %v outside [%d, %d]", ms, before, after)
	}
}

func TestAddClearGetDots(t *testing.T) {
	rt := newRouter(t)
	token := registerUser(t, rt, "dave")

	add := `{"x":"-1","y":"0.5","r":"2"}`
	resp := rt.Dispatch(request("POST", "/api/main/add", add, token))
	if resp.Status != 200 {
		t.Fatalf("add = %d (%s)", resp.Status, resp.Body)
	}
	v := parseJSON(t, resp)
	hit, _ := v.Get("hit")
	if b, _ := hit.AsBool(); !b {
		t.Error("hit = false, want true (rectangle point)")
	}
	ts, _ := v.Get("time")
	if s, _ := ts.AsString(); len(s) != len("2006-01-02T15:04:05") {
		t.Errorf("time = %q", s)
	}

	miss := `{"x":"100","y":"100","r":"2"}`
	resp = rt.Dispatch(request("POST", "/api/main/add", miss, token))
	v = parseJSON(t, resp)
	hit, _ = v.Get("hit")
	if b, _ := hit.AsBool(); b {
		t.Error("hit = true, want false")
	}

	resp = rt.Dispatch(request("GET", "/api/main/dots", "", token))
	if resp.Status != 200 {
		t.Fatalf("dots = %d", resp.Status)
	}
	arr, _ := parseJSON(t, resp).AsArray()
	if len(arr) != 2 {
		t.Fatalf("history len = %d, want 2", len(arr))
	}
	x0, _ := arr[0].Get("x")
	if s, _ := x0.AsString(); s != "-1" {
		t.Errorf("first dot x = %q", s)
	}

	if resp := rt.Dispatch(request("POST", "/api/main/clear", "", token)); resp.Status != 200 {
		t.Fatalf("clear = %d", resp.Status)
	}
	arr, _ = parseJSON(t, rt.Dispatch(request("GET", "/api/main/dots", "", token))).AsArray()
	if len(arr) != 0 {
		t.Errorf("history after clear = %d", len(arr))
	}
}

func TestAddDotRejectsBadInput(t *testing.T) {
	rt := newRouter(t)
	token := registerUser(t, rt, "erin")

	bad := []string{
		`{"x":"abc","y":"0","r":"1"}`,
		`{"x":"0","y":"1..2","r":"1"}`,
		`{"x":"0","y":"0"}`,
		`{"x":1,"y":"0","r":"1"}`,
	}
	for _, body := range bad {
		if resp := rt.Dispatch(request("POST", "/api/main/add", body, token)); resp.Status != 400 {
			t.Errorf("add %q = %d, want 400", body, resp.Status)
		}
	}
}

func TestAuthRequired(t *testing.T) {
	rt := newRouter(t)
	paths := []struct{ method, path string }{
		{"POST", "/api/main/add"},
		{"POST", "/api/main/clear"},
		{"GET", "/api/main/dots"},
	}
	for _, p := range paths {
		if resp := rt.Dispatch(request(p.method, p.path, `{"x":"0","y":"0","r":"1"}`, "")); resp.Status != 401 {
			t.Errorf("%s %s without token = %d, want 401", p.method, p.path, resp.Status)
		}
		if resp := rt.Dispatch(request(p.method, p.path, `{"x":"0","y":"0","r":"1"}`, "garbage")); resp.Status != 401 {
			t.Errorf("%s %s with garbage token = %d, want 401", p.method, p.path, resp.Status)
		}
	}
}

func TestExtractToken(t *testing.T) {
	mk := func(auth string) *httpserver.Request {
		return &httpserver.Request{Headers: map[string]string{"authorization": auth}}
	}
	if got := extractToken(mk("Bearer abc.def.ghi")); got != "abc.def.ghi" {
		t.Errorf("extractToken = %q", got)
	}
	if got := extractToken(mk("bearer x")); got != "x" {
		t.Errorf("case-insensitive scheme = %q", got)
	}
	if got := extractToken(mk("Basic dXNlcg==")); got != "" {
		t.Errorf("wrong scheme = %q", got)
	}
	if got := extractToken(mk("")); got != "" {
		t.Errorf("empty header = %q", got)
	}
	if got := extractToken(mk("Bearer   padded   ")); got != "padded" {
		t.Errorf("padded = %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rt := newRouter(t)
	// Generate at least one labeled sample.
	rt.Dispatch(request("GET", "/api/main/time", "", ""))

	resp := rt.Dispatch(request("GET", "/metrics", "", ""))
	if resp.Status != 200 {
		t.Fatalf("metrics = %d", resp.Status)
	}
	if ct, _ := resp.Header("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(string(resp.Body), "pinpoint_") {
		t.Errorf("metrics body missing pinpoint_ series: %.120s", resp.Body)
	}
}
