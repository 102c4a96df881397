package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSetupWithJSON(t *testing.T) {
	var buf bytes.Buffer
	l := SetupWith("info", "json", &buf)
	l.Debug("hidden")
	l.Info("catalog_built", "countries", 3)

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug record leaked at info level: %s", line)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("not json: %v (%s)", err, line)
	}
	if rec["msg"] != "catalog_built" {
		t.Errorf("msg = %v, want catalog_built", rec["msg"])
	}
	if rec["countries"] != float64(3) {
		t.Errorf("countries = %v, want 3", rec["countries"])
	}
	if L() != l {
		t.Error("L() should return the logger installed by SetupWith")
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	SetupWith("debug", "text", &buf)
	Component("raster").Info("raster_done")
	if !strings.Contains(buf.String(), "component=raster") {
		t.Errorf("missing component attribute: %s", buf.String())
	}
}

func TestAccessMiddleware(t *testing.T) {
	var buf bytes.Buffer
	l := SetupWith("debug", "text", &buf)
	h := AccessMiddleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(SourceHeader, "redis")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("abc"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dotmap?name=world_2", nil))

	out := buf.String()
	for _, want := range []string{"dotmap_access", "level=DEBUG", "status=418", "bytes=3", "path=/api/dotmap", "dataset_name=world_2", "source=redis"} {
		if !strings.Contains(out, want) {
			t.Errorf("access log missing %q: %s", want, out)
		}
	}
}

func TestAccessMiddlewareDatasetDefaults(t *testing.T) {
	var buf bytes.Buffer
	l := SetupWith("debug", "text", &buf)
	h := AccessMiddleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/dotmap/versions", nil))
	out := buf.String()
	for _, want := range []string{"level=WARN", "status=503", "dataset_name=world"} {
		if !strings.Contains(out, want) {
			t.Errorf("access log missing %q: %s", want, out)
		}
	}
	if strings.Contains(out, "source=") {
		t.Errorf("source logged without header: %s", out)
	}

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if out := buf.String(); strings.Contains(out, "dataset_name") {
		t.Errorf("non-dataset path carries dataset_name: %s", out)
	}
}
