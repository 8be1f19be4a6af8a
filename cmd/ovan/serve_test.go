package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/pflag"
	"github.com/vango-dev/ovan/internal/config"
	"github.com/vango-dev/ovan/pkg/inspect"
)

func parseServeFlags(t *testing.T, args ...string) (serveFlags, *pflag.FlagSet) {
	t.Helper()
	var f serveFlags
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	bindServeFlags(fs, &f)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return f, fs
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	file := `{"name": "file", "inspector": {"port": 8000}, "metrics": {"enabled": true}}`
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(file), 0644); err != nil {
		t.Fatal(err)
	}

	f, fs := parseServeFlags(t, "--dir", dir, "--port", "9000", "--metrics=false")
	cfg, err := loadConfig(f, fs)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Name != "file" {
		t.Errorf("Name = %q, want value from file", cfg.Name)
	}
	if cfg.Inspector.Port != 9000 {
		t.Errorf("Port = %d, want flag value", cfg.Inspector.Port)
	}
	if cfg.Metrics.Enabled {
		t.Error("--metrics=false should override the file")
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	f, fs := parseServeFlags(t, "--dir", t.TempDir())
	cfg, err := loadConfig(f, fs)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Address() != "localhost:7070" {
		t.Errorf("Address() = %q", cfg.Address())
	}

	f, fs = parseServeFlags(t, "--dir", t.TempDir(), "--log-level", "loud")
	if _, err := loadConfig(f, fs); err == nil {
		t.Error("expected an invalid log level to fail")
	}
}

func TestApp_OpensTemplates(t *testing.T) {
	cfg := config.New()
	cfg.Name = "demo"
	cfg.Metrics.Enabled = true
	cfg.Tracing.Enabled = true

	a, err := newApp(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	t.Cleanup(a.Close)
	srv := httptest.NewServer(a.handler)
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/overlays?template=dialog&id=hello", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("open status = %d", resp.StatusCode)
	}

	a.system.Scheduler().Flush()

	it, ok := a.provider.Snapshot().Item("hello")
	if !ok || !it.IsOpen || !it.IsMounted {
		t.Fatalf("item = %+v, %v; want open and mounted", it, ok)
	}

	resp, err = http.Get(srv.URL + "/render")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	html := string(body)
	for _, want := range []string{`data-portal="overlay-root"`, `data-testid="overlay-host"`, "Dialog hello"} {
		if !strings.Contains(html, want) {
			t.Errorf("render missing %q:\n%s", want, html)
		}
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `ovan_dispatch_total{action="ADD",status="changed",system="demo/ovan"} 1`) {
		t.Errorf("metrics missing ADD counter:\n%s", body)
	}

	resp, err = http.Get(srv.URL + "/snapshot")
	if err != nil {
		t.Fatal(err)
	}
	var view inspect.SnapshotView
	_ = json.NewDecoder(resp.Body).Decode(&view)
	resp.Body.Close()
	if view.Current == nil || *view.Current != "hello" {
		t.Errorf("snapshot current = %v", view.Current)
	}
}

func TestApp_ArchivesThroughDefaultCredentialChain(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDARCHIVE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	var (
		mu    sync.Mutex
		paths []string
		auth  string
	)
	bucket := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		auth = r.Header.Get("Authorization")
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(bucket.Close)

	cfg := config.New()
	cfg.Name = "demo"
	cfg.Archive.Bucket = "snaps"
	cfg.Archive.Endpoint = bucket.URL
	cfg.Archive.Region = "eu-west-1"

	a, err := newApp(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	t.Cleanup(a.Close)
	srv := httptest.NewServer(a.handler)
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/archive", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("archive status = %d", resp.StatusCode)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 1 || !strings.HasPrefix(paths[0], "PUT /snaps/snapshots/") {
		t.Errorf("requests = %v, want one path-style PUT", paths)
	}
	if !strings.Contains(auth, "Credential=AKIDARCHIVE/") {
		t.Errorf("Authorization = %q, want env credentials", auth)
	}
}

func TestCheckOrigin(t *testing.T) {
	check := checkOrigin([]string{"http://allowed.test"})

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://inspector.test", true},
		{"http://allowed.test", true},
		{"http://evil.test", false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://inspector.test/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := check(r); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--short"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != version {
		t.Errorf("version output = %q", out.String())
	}
}
