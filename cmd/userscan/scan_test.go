package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/userscan/internal/config"
)

// TestNewScanCmd tests the scan command creation.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if !strings.HasPrefix(cmd.Use, "scan") {
			t.Errorf("expected use to start with 'scan', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{
			"sites", "config", "variants", "max-variants", "proxy", "tor",
			"tor-timeout", "timeout", "concurrency", "conn-limit", "deadline",
			"strict", "include-skipped", "show-uncertain", "exif", "json",
			"markdown", "output", "user-agent",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %s", name)
			}
		}
	})

	t.Run("requires a username argument", func(t *testing.T) {
		t.Parallel()
		c := NewScanCmd()
		c.SetArgs([]string{})
		c.SetOut(new(bytes.Buffer))
		c.SetErr(new(bytes.Buffer))
		if err := c.Execute(); err == nil {
			t.Error("expected error without username argument")
		}
	})
}

// TestBuildConfig tests flag-to-config mapping.
func TestBuildConfig(t *testing.T) {
	t.Chdir(t.TempDir()) // keep a stray .userscan out of the picture

	t.Run("defaults", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"alice"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Usernames) != 1 || cfg.Usernames[0] != "alice" {
			t.Errorf("expected usernames [alice], got %v", cfg.Usernames)
		}
		if cfg.Concurrency != config.DefaultConcurrency {
			t.Errorf("expected default concurrency, got %d", cfg.Concurrency)
		}
		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("expected default timeout, got %v", cfg.Timeout)
		}
		if cfg.Deadline != 0 {
			t.Errorf("expected no deadline, got %v", cfg.Deadline)
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		cmd := NewScanCmd()
		args := []string{
			"--concurrency", "5",
			"--conn-limit", "7",
			"--timeout", "3s",
			"--deadline", "30s",
			"--strict",
			"--variants",
			"--json",
			"--proxy", "socks5://127.0.0.1:9050",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"alice", "bob"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Concurrency != 5 {
			t.Errorf("expected concurrency 5, got %d", cfg.Concurrency)
		}
		if cfg.ConnLimit != 7 {
			t.Errorf("expected conn limit 7, got %d", cfg.ConnLimit)
		}
		if cfg.Timeout != 3*time.Second {
			t.Errorf("expected timeout 3s, got %v", cfg.Timeout)
		}
		if cfg.Deadline != 30*time.Second {
			t.Errorf("expected deadline 30s, got %v", cfg.Deadline)
		}
		if !cfg.Strict || !cfg.Variants || !cfg.JSONReport {
			t.Error("expected strict, variants, and json to be set")
		}
		if cfg.Proxy != "socks5://127.0.0.1:9050" {
			t.Errorf("unexpected proxy %q", cfg.Proxy)
		}
		if len(cfg.Usernames) != 2 {
			t.Errorf("expected 2 usernames, got %v", cfg.Usernames)
		}
	})

	t.Run("config file provides defaults, flags win", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), ".userscan")
		content := "concurrency: 3\ntimeout: 7s\nstrict: true\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"-c", configPath, "--concurrency", "9"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"alice"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Concurrency != 9 {
			t.Errorf("expected flag to win with 9, got %d", cfg.Concurrency)
		}
		if cfg.Timeout != 7*time.Second {
			t.Errorf("expected file timeout 7s, got %v", cfg.Timeout)
		}
		if !cfg.Strict {
			t.Error("expected strict from config file")
		}
	})

	t.Run("explicit missing config file fails", func(t *testing.T) {
		cmd := NewScanCmd()
		missing := filepath.Join(t.TempDir(), "nope")
		if err := cmd.ParseFlags([]string{"-c", missing}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := buildConfig(cmd, []string{"alice"}); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})
}

// TestRunScanCmd runs a scan end to end against a local test server.
func TestRunScanCmd(t *testing.T) {
	t.Chdir(t.TempDir())

	newServer := func(t *testing.T) *httptest.Server {
		t.Helper()
		mux := http.NewServeMux()
		mux.HandleFunc("/u/", func(w http.ResponseWriter, r *http.Request) {
			if strings.TrimPrefix(r.URL.Path, "/u/") == "alice" {
				fmt.Fprint(w, "<html>profile of alice</html>")
				return
			}
			http.NotFound(w, r)
		})
		srv := httptest.NewServer(mux)
		t.Cleanup(srv.Close)
		return srv
	}

	t.Run("json report", func(t *testing.T) {
		srv := newServer(t)
		catalogPath := writeCatalog(t, fmt.Sprintf(`sites:
  - name: exists
    url: %s/u/{}
  - name: never
    url: %s/missing/{}
`, srv.URL, srv.URL))

		cmd := NewScanCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"-s", catalogPath, "--json", "alice"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, `"found"`) {
			t.Errorf("expected a found verdict in output, got %q", output)
		}
		if !strings.Contains(output, `"not_found"`) {
			t.Errorf("expected a not_found verdict in output, got %q", output)
		}
		if !strings.Contains(output, "alice") {
			t.Errorf("expected username in output, got %q", output)
		}
	})

	t.Run("csv file output", func(t *testing.T) {
		srv := newServer(t)
		catalogPath := writeCatalog(t, fmt.Sprintf(`sites:
  - name: exists
    url: %s/u/{}
`, srv.URL))
		outPath := filepath.Join(t.TempDir(), "out", "report.csv")

		cmd := NewScanCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"-s", catalogPath, "--json", "-o", outPath, "alice"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("failed to read csv: %v", err)
		}
		if !strings.Contains(string(content), "Username,Site,Verdict") {
			t.Errorf("expected csv header, got %q", string(content))
		}
		if !strings.Contains(string(content), "alice,exists,found") {
			t.Errorf("expected found row, got %q", string(content))
		}
	})

	t.Run("unsupported output extension fails", func(t *testing.T) {
		srv := newServer(t)
		catalogPath := writeCatalog(t, fmt.Sprintf(`sites:
  - name: exists
    url: %s/u/{}
`, srv.URL))
		outPath := filepath.Join(t.TempDir(), "report.txt")

		cmd := NewScanCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"-s", catalogPath, "--json", "-o", outPath, "alice"})

		err := cmd.Execute()
		if err == nil {
			t.Fatal("expected error for unsupported extension")
		}
		if !strings.Contains(err.Error(), "unsupported output extension") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("conflicting report formats fail", func(t *testing.T) {
		cmd := NewScanCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"--json", "--markdown", "alice"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for --json with --markdown")
		}
	})

	t.Run("tor with proxy fails", func(t *testing.T) {
		cmd := NewScanCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"--tor", "--proxy", "socks5://127.0.0.1:9050", "alice"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for --tor with --proxy")
		}
	})

	t.Run("missing catalog fails", func(t *testing.T) {
		cmd := NewScanCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"-s", filepath.Join(t.TempDir(), "nope.yaml"), "alice"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for missing catalog")
		}
	})
}
