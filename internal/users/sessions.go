// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package users

import (
	"sync"

	"github.com/mzheludkov/pinpoint/internal/models"
)

// sessionCache holds live tokens and each login's dot history under one
// mutex. Holding a token here is what makes it valid: a well-signed
// token with no cache entry has been revoked.
type sessionCache struct {
	mu      sync.Mutex
	byToken map[string]string
	dots    map[string][]models.Dot
}

func newSessionCache() *sessionCache {
	return &sessionCache{
		byToken: make(map[string]string),
		dots:    make(map[string][]models.Dot),
	}
}

func (c *sessionCache) put(token, login string) {
	c.mu.Lock()
	c.byToken[token] = login
	c.mu.Unlock()
}

func (c *sessionCache) login(token string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	login, ok := c.byToken[token]
	return login, ok
}

func (c *sessionCache) remove(token string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byToken[token]; !ok {
		return false
	}
	delete(c.byToken, token)
	return true
}

// purgeUser drops every session of login plus its dot cache.
func (c *sessionCache) purgeUser(login string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for token, l := range c.byToken {
		if l == login {
			delete(c.byToken, token)
		}
	}
	delete(c.dots, login)
}

func (c *sessionCache) setDots(login string, dots []models.Dot) {
	c.mu.Lock()
	c.dots[login] = dots
	c.mu.Unlock()
}

// getDots returns a copy so callers can serialize without the lock.
func (c *sessionCache) getDots(login string) ([]models.Dot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dots, ok := c.dots[login]
	if !ok {
		return nil, false
	}
	out := make([]models.Dot, len(dots))
	copy(out, dots)
	return out, true
}

func (c *sessionCache) addDot(login string, d models.Dot) {
	c.mu.Lock()
	c.dots[login] = append(c.dots[login], d)
	c.mu.Unlock()
}

func (c *sessionCache) clearDots(login string) {
	c.mu.Lock()
	c.dots[login] = nil
	c.mu.Unlock()
}
