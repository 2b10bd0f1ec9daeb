// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package metrics

import (
	"strings"
	"testing"
	"time"
)

func TestRecordRequestAndRender(t *testing.T) {
	RecordRequest("GET", 200, 5*time.Millisecond)
	RecordRequest("POST", 404, time.Millisecond)
	ConnectionsAccepted.Inc()
	PoolQueueDepth.Set(3)
	RecordBreakerState("store", 2)

	out, err := Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := string(out)

	for _, want := range []string{
		`pinpoint_http_requests_total{method="GET",status_code="200"}`,
		`pinpoint_http_requests_total{method="POST",status_code="404"}`,
		"pinpoint_tcp_connections_accepted_total",
		"pinpoint_workpool_queue_depth 3",
		`pinpoint_circuit_breaker_state{name="store"} 2`,
		`pinpoint_circuit_breaker_transitions_total{name="store",to="2"}`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered metrics missing %q", want)
		}
	}
}
