package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeEnv(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadEnvFile(t *testing.T) {
	path := writeEnv(t, "# comment\nAPP_NAME=probe\nexport SECRET=\"s3cr3t\"\n")

	got, err := ReadEnvFile(path)
	if err != nil {
		t.Fatalf("ReadEnvFile() error = %v", err)
	}

	want := map[string]string{"APP_NAME": "probe", "SECRET": "s3cr3t"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadEnvFile() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadEnvFile_Missing(t *testing.T) {
	got, err := ReadEnvFile(filepath.Join(t.TempDir(), "nope.env"))
	if err != nil {
		t.Fatalf("ReadEnvFile() error = %v, want nil for missing file", err)
	}
	if len(got) != 0 {
		t.Errorf("ReadEnvFile() = %v, want empty", got)
	}
}

func TestReadEnvFile_DoesNotTouchProcessEnv(t *testing.T) {
	path := writeEnv(t, "UPSTREAM_PROBE_TEST_ONLY=1\n")

	if _, err := ReadEnvFile(path); err != nil {
		t.Fatalf("ReadEnvFile() error = %v", err)
	}
	if _, ok := os.LookupEnv("UPSTREAM_PROBE_TEST_ONLY"); ok {
		t.Error("ReadEnvFile() leaked a key into the process environment")
	}
}

func TestLoad_EnvFileDoesNotOverrideConfig(t *testing.T) {
	envPath := writeEnv(t, "PORT=5000\nHOST=127.0.0.1\nUPSTREAM_URL=http://internal.local\nLOG_FORMAT=text\nCOLOR_MODE=never\n")

	cfg, err := Load(&CLI{Config: writeConfig(t, ""), EnvFile: envPath})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d (.env keys are inert)", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Upstream.URL != DefaultUpstreamURL {
		t.Errorf("Upstream.URL = %q, want %q", cfg.Upstream.URL, DefaultUpstreamURL)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}
	if cfg.Color.Mode != "auto" {
		t.Errorf("Color.Mode = %q, want %q", cfg.Color.Mode, "auto")
	}

	want := map[string]string{
		"PORT":         "5000",
		"HOST":         "127.0.0.1",
		"UPSTREAM_URL": "http://internal.local",
		"LOG_FORMAT":   "text",
		"COLOR_MODE":   "never",
	}
	if diff := cmp.Diff(want, cfg.Env); diff != "" {
		t.Errorf("Env mismatch (-want +got):\n%s", diff)
	}
	if cfg.EnvFileErr() != nil {
		t.Errorf("EnvFileErr() = %v, want nil", cfg.EnvFileErr())
	}
}

func TestLoad_EnvFileDoesNotOverrideTOML(t *testing.T) {
	cfgPath := writeConfig(t, `
[server]
port = 8000

[upstream]
url = "https://example.org"
`)
	envPath := writeEnv(t, "PORT=4000\nUPSTREAM_URL=http://localhost:9999\nUNUSED=kept\n")

	cfg, err := Load(&CLI{Config: cfgPath, EnvFile: envPath})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000 (from TOML)", cfg.Server.Port)
	}
	if cfg.Upstream.URL != "https://example.org" {
		t.Errorf("Upstream.URL = %q, want %q (from TOML)", cfg.Upstream.URL, "https://example.org")
	}
	if cfg.Env["UNUSED"] != "kept" {
		t.Errorf("Env[UNUSED] = %q, want %q", cfg.Env["UNUSED"], "kept")
	}
	if cfg.EnvFile.File != envPath {
		t.Errorf("EnvFile.File = %q, want %q", cfg.EnvFile.File, envPath)
	}
}

func TestLoad_EnvFileFromTOML(t *testing.T) {
	envPath := writeEnv(t, "HOST=127.0.0.1\n")
	cfgPath := writeConfig(t, "[env]\nfile = \""+filepath.ToSlash(envPath)+"\"\n")

	cfg, err := Load(&CLI{Config: cfgPath})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.EnvFile.File != filepath.ToSlash(envPath) {
		t.Errorf("EnvFile.File = %q, want %q (from env.file)", cfg.EnvFile.File, filepath.ToSlash(envPath))
	}
	if cfg.Env["HOST"] != "127.0.0.1" {
		t.Errorf("Env[HOST] = %q, want %q", cfg.Env["HOST"], "127.0.0.1")
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q (.env keys are inert)", cfg.Server.Host, "0.0.0.0")
	}
}

func TestLoad_BrokenEnvFileIsIgnored(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"unterminated quote", func(t *testing.T) string { return writeEnv(t, "SECRET=\"unterminated\n") }},
		{"directory", func(t *testing.T) string { return t.TempDir() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)

			cfg, err := Load(&CLI{Config: writeConfig(t, ""), EnvFile: path})
			if err != nil {
				t.Fatalf("Load() error = %v, want a broken .env to be ignored", err)
			}
			if cfg.EnvFileErr() == nil {
				t.Error("EnvFileErr() = nil, want the read error")
			}
			if len(cfg.Env) != 0 {
				t.Errorf("Env = %v, want empty", cfg.Env)
			}
			if cfg.Server.Port != DefaultPort {
				t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
			}

			var buf bytes.Buffer
			cfg.LogEnvFile(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
			if !strings.Contains(buf.String(), "env file ignored") {
				t.Errorf("expected env file warning, got: %q", buf.String())
			}
		})
	}
}

func TestLoad_NonNumericPortInEnvFile(t *testing.T) {
	envPath := writeEnv(t, "PORT=abc\n")

	cfg, err := Load(&CLI{Config: writeConfig(t, ""), EnvFile: envPath})
	if err != nil {
		t.Fatalf("Load() error = %v, want PORT in .env to be inert", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Env["PORT"] != "abc" {
		t.Errorf("Env[PORT] = %q, want %q", cfg.Env["PORT"], "abc")
	}
}

func TestLogEnvFile_LoadedFileLogsKeyCountOnly(t *testing.T) {
	cfg := &Config{
		EnvFile: EnvFileConfig{File: ".env"},
		Env:     map[string]string{"SECRET": "s3cr3t"},
	}

	var buf bytes.Buffer
	cfg.LogEnvFile(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	out := buf.String()
	if !strings.Contains(out, "keys=1") {
		t.Errorf("expected key count in log, got: %q", out)
	}
	if strings.Contains(out, "s3cr3t") {
		t.Errorf("env value leaked into log: %q", out)
	}
	if strings.Contains(out, "level=WARN") {
		t.Errorf("unexpected warning for a readable file: %q", out)
	}
}
