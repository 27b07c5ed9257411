package metrics

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/webhookrelay/relay-go/client"
)

var _ client.Recorder = (*Metrics)(nil)

func TestRecordTraffic(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.FrameReceived(client.TypeStatus)
	m.FrameReceived(client.TypeStatus)
	m.FrameReceived(client.TypeWebhook)
	m.MessageSent(client.ActionAuth)
	m.MessageSent(client.ActionPong)
	m.ForwardCompleted(client.OutcomeDelivered, 250*time.Millisecond, 2)
	m.ForwardCompleted(client.OutcomeFailed, time.Second, 0)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	byName := map[string]int{}
	for _, f := range families {
		byName[f.GetName()] = len(f.GetMetric())

		switch f.GetName() {
		case "relay_forward_response_bytes_total":
			if val := f.GetMetric()[0].GetCounter().GetValue(); val != 2 {
				t.Errorf("response bytes = %f, want 2", val)
			}
		case "relay_forward_latency_seconds":
			if n := f.GetMetric()[0].GetHistogram().GetSampleCount(); n != 2 {
				t.Errorf("latency samples = %d, want 2", n)
			}
		}
	}

	want := map[string]int{
		"relay_frames_received_total":        2, // status + webhook
		"relay_messages_sent_total":          2, // auth + pong
		"relay_forwards_total":               2, // delivered + failed
		"relay_forward_latency_seconds":      1,
		"relay_forward_response_bytes_total": 1,
	}
	for name, n := range want {
		if byName[name] != n {
			t.Errorf("%s: %d label combinations, want %d", name, byName[name], n)
		}
	}
}

func TestServerEndpoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.FrameReceived(client.TypeStatus)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer("127.0.0.1:0", reg, func() string { return "subscribed" }, logger)
	ts := httptest.NewServer(srv.Router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	var health map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if health["status"] != "ok" || health["state"] != "subscribed" {
		t.Errorf("healthz = %v", health)
	}

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `relay_frames_received_total{type="status"} 1`) {
		t.Errorf("metrics output missing frame counter:\n%s", body)
	}
}
