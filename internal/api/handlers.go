// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

// Package api binds the user service and the hit checker to HTTP
// routes. Request bodies go through the jsonx parser and schema
// validation; responses carry jsonx-encoded payloads.
package api

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mzheludkov/pinpoint/internal/geometry"
	"github.com/mzheludkov/pinpoint/internal/httpserver"
	"github.com/mzheludkov/pinpoint/internal/jsonx"
	"github.com/mzheludkov/pinpoint/internal/logging"
	"github.com/mzheludkov/pinpoint/internal/metrics"
	"github.com/mzheludkov/pinpoint/internal/models"
	"github.com/mzheludkov/pinpoint/internal/users"
)

// Handlers carries the dependencies of every route.
type Handlers struct {
	users   *users.Service
	checker *geometry.Checker
	log     zerolog.Logger
	now     func() time.Time
}

// New builds the handler set.
func New(svc *users.Service, checker *geometry.Checker, log zerolog.Logger) *Handlers {
	return &Handlers{
		users:   svc,
		checker: checker,
		log:     log.With().Str("component", "api").Logger(),
		now:     time.Now,
	}
}

// RegisterRoutes installs every endpoint on rt.
func (h *Handlers) RegisterRoutes(rt *httpserver.Router) {
	rt.Post("/api/auth/login", h.handleLogin)
	rt.Post("/api/auth/register", h.handleRegister)
	rt.Post("/api/auth/logout", h.handleLogout)
	rt.Post("/api/auth/remove", h.handleRemove)

	rt.Get("/api/main/time", h.handleTime)
	rt.Post("/api/main/add", h.handleAddDot)
	rt.Post("/api/main/clear", h.handleClearDots)
	rt.Get("/api/main/dots", h.handleGetDots)

	rt.Get("/metrics", h.handleMetrics)
}

func ok(v jsonx.Value) *httpserver.Response {
	return httpserver.JSON(200, v.Encode())
}

func status(code int) *httpserver.Response {
	return httpserver.Text(code, statusText(code))
}

func statusText(code int) string {
	switch code {
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 404:
		return "Not Found"
	case 409:
		return "Conflict"
	case 503:
		return "Service Unavailable"
	default:
		return "Error"
	}
}

// extractToken pulls the bearer token out of Authorization.
func extractToken(req *httpserver.Request) string {
	auth := req.Header("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// parseBody parses the request body as a JSON object and validates it
// against fields. A non-nil response means the request was rejected.
func parseBody(req *httpserver.Request, fields []jsonx.Field) (jsonx.ObjectView, *httpserver.Response) {
	v, err := jsonx.Parse(string(req.Body))
	if err != nil {
		return jsonx.ObjectView{}, status(400)
	}
	if err := jsonx.ValidateObject(v, fields); err != nil {
		return jsonx.ObjectView{}, status(400)
	}
	view, err := jsonx.NewObjectView(v)
	if err != nil {
		return jsonx.ObjectView{}, status(400)
	}
	return view, nil
}

// authedLogin resolves the request's bearer token to a login.
func (h *Handlers) authedLogin(req *httpserver.Request) (string, *httpserver.Response) {
	token := extractToken(req)
	if token == "" {
		return "", status(401)
	}
	login, err := h.users.LoginFromToken(token)
	if err != nil {
		return "", status(401)
	}
	return login, nil
}

// serviceError maps user-service failures onto wire statuses.
func serviceError(err error) *httpserver.Response {
	switch {
	case errors.Is(err, users.ErrInvalidCredentials), errors.Is(err, users.ErrInvalidToken):
		return status(401)
	case errors.Is(err, users.ErrUserExists):
		return status(409)
	case errors.Is(err, users.ErrUserNotFound):
		return status(404)
	default:
		return status(503)
	}
}

var credentialFields = []jsonx.Field{
	{Name: "login", Kind: jsonx.KindString},
	{Name: "password", Kind: jsonx.KindString},
}

func (h *Handlers) handleLogin(req *httpserver.Request) *httpserver.Response {
	view, errResp := parseBody(req, credentialFields)
	if errResp != nil {
		return errResp
	}
	login, _ := view.GetString("login")
	password, _ := view.GetString("password")

	ctx := req.Context()
	token, err := h.users.Login(ctx, login, password)
	if err != nil {
		return serviceError(err)
	}
	dots, err := h.users.Dots(ctx, login)
	if err != nil {
		return serviceError(err)
	}

	return ok(jsonx.Object(
		jsonx.Member{Key: "token", Value: jsonx.String(token)},
		jsonx.Member{Key: "dots", Value: models.DotsToJSON(dots)},
	))
}

func (h *Handlers) handleRegister(req *httpserver.Request) *httpserver.Response {
	view, errResp := parseBody(req, credentialFields)
	if errResp != nil {
		return errResp
	}
	login, _ := view.GetString("login")
	password, _ := view.GetString("password")

	token, err := h.users.Register(req.Context(), login, password)
	if errors.Is(err, users.ErrInvalidCredentials) {
		return status(400)
	}
	if err != nil {
		return serviceError(err)
	}

	return ok(jsonx.Object(
		jsonx.Member{Key: "token", Value: jsonx.String(token)},
		jsonx.Member{Key: "dots", Value: jsonx.Array()},
	))
}

// handleLogout always answers 200; revoking an unknown token is not
// worth reporting to the client.
func (h *Handlers) handleLogout(req *httpserver.Request) *httpserver.Response {
	if token := extractToken(req); token != "" {
		h.users.Logout(token)
	}
	return httpserver.NewResponse(200)
}

func (h *Handlers) handleRemove(req *httpserver.Request) *httpserver.Response {
	token := extractToken(req)
	if token == "" {
		return status(401)
	}
	if err := h.users.RemoveUser(req.Context(), token); err != nil {
		return serviceError(err)
	}
	return httpserver.NewResponse(204)
}

func (h *Handlers) handleTime(*httpserver.Request) *httpserver.Response {
	return ok(jsonx.Number(float64(h.now().UnixMilli())))
}

var dotFields = []jsonx.Field{
	{Name: "x", Kind: jsonx.KindString},
	{Name: "y", Kind: jsonx.KindString},
	{Name: "r", Kind: jsonx.KindString},
}

func (h *Handlers) handleAddDot(req *httpserver.Request) *httpserver.Response {
	login, errResp := h.authedLogin(req)
	if errResp != nil {
		return errResp
	}
	view, errResp := parseBody(req, dotFields)
	if errResp != nil {
		return errResp
	}
	x, _ := view.GetString("x")
	y, _ := view.GetString("y")
	r, _ := view.GetString("r")

	start := h.now()
	hit, err := h.checker.Hit(x, y, r)
	if err != nil {
		// Malformed decimal input.
		return status(400)
	}
	elapsed := h.now().Sub(start)

	dot := models.Dot{
		X: x, Y: y, R: r,
		Hit:        hit,
		ExecTimeMS: elapsed.Milliseconds(),
		Timestamp:  start.Format(models.TimestampLayout),
	}
	h.users.AddDot(login, dot)

	return ok(dot.ToJSON())
}

func (h *Handlers) handleClearDots(req *httpserver.Request) *httpserver.Response {
	login, errResp := h.authedLogin(req)
	if errResp != nil {
		return errResp
	}
	if err := h.users.ClearDots(req.Context(), login); err != nil {
		return serviceError(err)
	}
	return httpserver.NewResponse(200)
}

func (h *Handlers) handleGetDots(req *httpserver.Request) *httpserver.Response {
	login, errResp := h.authedLogin(req)
	if errResp != nil {
		return errResp
	}
	dots, err := h.users.Dots(req.Context(), login)
	if err != nil {
		return serviceError(err)
	}
	return ok(models.DotsToJSON(dots))
}

func (h *Handlers) handleMetrics(req *httpserver.Request) *httpserver.Response {
	body, err := metrics.Render()
	if err != nil {
		h.log.Error().
			Str("request_id", logging.RequestIDFromContext(req.Context())).
			Err(err).
			Msg("metrics render failed")
		return status(503)
	}
	resp := httpserver.Text(200, string(body))
	resp.SetHeader("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	return resp
}
