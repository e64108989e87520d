package server

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgplot/pkg/cache"
	"github.com/matzehuels/svgplot/pkg/errors"
	"github.com/matzehuels/svgplot/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(fc, cache.NewScopedKeyer(nil, "server:"), logger)
	ts := httptest.NewServer(New(runner, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/healthz")
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("GET /healthz = %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("response missing X-Request-ID")
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestTicks(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/ticks?min=-0.2&max=4.2&m=8")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var got ticksResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Min != 0 || got.Max != 4 || got.Step != 0.5 || got.Count != 9 {
		t.Errorf("grid = [%v, %v] step %v count %d, want [0, 4] step 0.5 count 9", got.Min, got.Max, got.Step, got.Count)
	}
	wantLabels := []string{"0.0", "0.5", "1.0", "1.5", "2.0", "2.5", "3.0", "3.5", "4.0"}
	if !slices.Equal(got.Labels, wantLabels) {
		t.Errorf("labels = %v, want %v", got.Labels, wantLabels)
	}
	if !slices.Equal(got.DomainLabels, wantLabels) {
		t.Errorf("domain_labels = %v, want %v", got.DomainLabels, wantLabels)
	}
	if got.Termination != "no better j possible" {
		t.Errorf("termination = %q", got.Termination)
	}
}

func TestTicksStrictAndFormat(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/ticks?min=0&max=4.3&flexible=false&fmt=%25.2f")
	var got ticksResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Min > 0 || got.Max < 4.3 {
		t.Errorf("strict grid [%v, %v] does not cover [0, 4.3]", got.Min, got.Max)
	}
	// Integral grids ignore the format.
	if len(got.Labels) == 0 || strings.Contains(got.Labels[0], ".") {
		t.Errorf("labels = %v, want integers", got.Labels)
	}
}

func TestTicksStrictAcrossZero(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/ticks?min=-16.365569725848104&max=75.2567306046731&m=2&flexible=false")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got ticksResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Min != -40 || got.Max != 80 || got.Step != 40 {
		t.Errorf("grid = [%v, %v] step %v, want [-40, 80] step 40", got.Min, got.Max, got.Step)
	}
}

func TestWriteJSONUnencodable(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, ticksResponse{Score: math.NaN()})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var got errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Code != errors.ErrCodeInternal {
		t.Errorf("code = %s, want %s", got.Code, errors.ErrCodeInternal)
	}
}

func TestTicksErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
		code   errors.Code
	}{
		{"missing min", "max=1", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad max", "min=0&max=x", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad m", "min=0&max=1&m=two", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad flexible", "min=0&max=1&flexible=maybe", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad nice", "min=0&max=1&nice=1,x", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"degenerate", "min=1&max=1", http.StatusBadRequest, errors.ErrCodeInvalidDomain},
		{"small m", "min=0&max=1&m=1", http.StatusBadRequest, errors.ErrCodeInvalidConfig},
	}
	ts := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, ts.URL+"/ticks?"+tt.query)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var e errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if e.Code != tt.code || e.Message == "" {
				t.Errorf("error = %+v, want code %s", e, tt.code)
			}
		})
	}
}

const plotBody = `{"x_legend": "n", "y_legend": "t", "points": [[1, 1], [2, 2], [3, 3], [4, 4]]}`

func TestPlot(t *testing.T) {
	ts := newTestServer(t)

	post := func() *http.Response {
		resp, err := http.Post(ts.URL+"/plot?x_zero=true&y_zero=1", "application/json", strings.NewReader(plotBody))
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := post()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if xc := resp.Header.Get("X-Cache"); xc != "miss" {
		t.Errorf("X-Cache = %q, want miss", xc)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), ">0.0</text>") || !strings.HasSuffix(string(body), "</svg>") {
		t.Errorf("unexpected SVG body: %.200s", body)
	}

	if xc := post().Header.Get("X-Cache"); xc != "hit" {
		t.Errorf("second X-Cache = %q, want hit", xc)
	}
}

func TestPlotErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		body   string
		status int
	}{
		{"malformed", "", `{"points": [`, http.StatusBadRequest},
		{"empty", "", `{"points": []}`, http.StatusBadRequest},
		{"bad flag", "?x_zero=perhaps", plotBody, http.StatusBadRequest},
		{"bad width", "?width=-3", plotBody, http.StatusBadRequest},
		{"too small", "?width=50", plotBody, http.StatusBadRequest},
	}
	ts := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/plot"+tt.query, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/plot")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /plot status = %d, want 405", resp.StatusCode)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, log.New(io.Discard)), log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	if err := <-done; err != nil && err != http.ErrServerClosed {
		t.Errorf("ListenAndServe() = %v", err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidDomain, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeSearchExhausted, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{errors.Wrap(errors.ErrCodeInvalidInput, &http.MaxBytesError{Limit: 1}, "decode"), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
