// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dd-trace-core/go-tracecore/internal/log"
)

const (
	defaultAgentAddr    = "localhost:8126"
	defaultHTTPTimeout  = 10 * time.Second
	traceCountHeader    = "X-Datadog-Trace-Count"
	agentRateDefaultKey = "service:,env:"
)

var defaultDialer = &net.Dialer{
	Timeout:   30 * time.Second,
	KeepAlive: 30 * time.Second,
}

// HTTPCollector sends finished traces to a Datadog agent's v0.4 traces
// endpoint over msgpack, and feeds the agent's per-(service,env) sampling
// rate response back into whichever SamplerFeedback finalization passes it.
type HTTPCollector struct {
	url     string
	client  *http.Client
	headers map[string]string
}

// NewHTTPCollector builds a collector posting to addr (host:port of the
// agent). An empty addr uses the default local agent address.
func NewHTTPCollector(addr string, client *http.Client) *HTTPCollector {
	if addr == "" {
		addr = defaultAgentAddr
	}
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:       http.ProxyFromEnvironment,
				DialContext: defaultDialer.DialContext,
			},
			Timeout: defaultHTTPTimeout,
		}
	}
	return &HTTPCollector{
		url:    fmt.Sprintf("http://%s/v0.4/traces", addr),
		client: client,
		headers: map[string]string{
			"Content-Type":                "application/msgpack",
			"Datadog-Meta-Lang":           "go",
			"Datadog-Meta-Tracer-Version": "0.1.0",
		},
	}
}

// Send implements Collector. spans is a single trace's worth of finished
// spans, already sampled; sampler receives the agent's rate response, if
// any.
func (c *HTTPCollector) Send(spans []*SpanData, sampler SamplerFeedback) error {
	p := newPayload()
	if err := p.push(spanList(spans)); err != nil {
		return fmt.Errorf("tracecore: encoding trace: %w", err)
	}

	req, err := http.NewRequest("POST", c.url, p)
	if err != nil {
		return fmt.Errorf("tracecore: building request: %w", err)
	}
	req.ContentLength = int64(p.size())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set(traceCountHeader, strconv.Itoa(p.itemCount()))

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("tracecore: sending trace: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("tracecore: agent responded %s", resp.Status)
	}

	if sampler != nil {
		rates, err := decodeAgentRates(resp.Body)
		if err != nil {
			log.Debug("tracecore: decoding agent rates: %v", err)
			return nil
		}
		sampler.UpdateAgentRates(rates)
	}
	return nil
}

func decodeAgentRates(body io.Reader) (map[ServiceEnv]float64, error) {
	var raw struct {
		Rates map[string]float64 `json:"rate_by_service"`
	}
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, err
	}
	out := make(map[ServiceEnv]float64, len(raw.Rates))
	for key, rate := range raw.Rates {
		if key == agentRateDefaultKey {
			out[ServiceEnv{}] = rate
			continue
		}
		svc, env := parseServiceEnvKey(key)
		out[ServiceEnv{Service: svc, Env: env}] = rate
	}
	return out, nil
}

// parseServiceEnvKey splits the agent's "service:<svc>,env:<env>" rate-table
// key into its two components.
func parseServiceEnvKey(key string) (service, env string) {
	for _, part := range strings.Split(key, ",") {
		switch {
		case strings.HasPrefix(part, "service:"):
			service = strings.TrimPrefix(part, "service:")
		case strings.HasPrefix(part, "env:"):
			env = strings.TrimPrefix(part, "env:")
		}
	}
	return service, env
}
