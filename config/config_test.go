package config

import (
	"os"
	"path/filepath"
	"testing"
)

//nolint:gocyclo
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `scenario:
  config_path: "input/v3.1/kelheim-v3.1-25pct.config.xml"
  staging_dir: "/tmp/prepared"
java:
  jar: "matsim-kelheim-3.1.jar"
  max_heap: "8G"
  args: ["-XX:+UseParallelGC"]
store:
  backend: "sqlite"
  path: "runs.db"
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "cli"
  username: "user"
  password: "pass"
  qos: 1
metrics:
  sinks:
    - type: "nop"
  prometheus_addr: ":9100"
sentry:
  environment: "ci"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"scenario.config_path", cfg.Scenario.ConfigPath, "input/v3.1/kelheim-v3.1-25pct.config.xml"},
		{"scenario.staging_dir", cfg.Scenario.StagingDir, "/tmp/prepared"},
		{"scenario.version", cfg.Scenario.Version, "3.1"},
		{"java.jar", cfg.Java.Jar, "matsim-kelheim-3.1.jar"},
		{"java.max_heap", cfg.Java.MaxHeap, "8G"},
		{"java.main_class", cfg.Java.MainClass, DefaultMainClass},
		{"java.args", len(cfg.Java.Args), 1},
		{"store.backend", cfg.Store.Backend, "sqlite"},
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.MQTT.ClientID, "cli"},
		{"username", cfg.MQTT.Username, "user"},
		{"password", cfg.MQTT.Password, "pass"},
		{"qos", cfg.MQTT.QoS, byte(1)},
		{"topic_prefix", cfg.MQTT.TopicPrefix, "kelheim/runs"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"prometheus_addr", cfg.Metrics.PrometheusAddr, ":9100"},
		{"sentry.environment", cfg.Sentry.Environment, "ci"},
		{"logging.level", cfg.Logging.Level, "info"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Scenario.ConfigPath != "input/v3.1/kelheim-v3.1-config.xml" {
		t.Errorf("config path %q", cfg.Scenario.ConfigPath)
	}
	if cfg.Scenario.DownloadTimeout().Seconds() != 120 {
		t.Errorf("download timeout %v", cfg.Scenario.DownloadTimeout())
	}
	if cfg.Java.Binary != "java" || cfg.Java.MaxHeap != "20G" {
		t.Errorf("java defaults %+v", cfg.Java)
	}
	if cfg.Store.Backend != "jsonl" || cfg.Store.Path != "runs.jsonl" {
		t.Errorf("store defaults %+v", cfg.Store)
	}
	if cfg.MQTT.Enabled() {
		t.Errorf("mqtt should be disabled without broker")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("KELHEIM_JAVA__MAX_HEAP", "4G")
	t.Setenv("KELHEIM_STORE__PATH", "other.jsonl")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Java.MaxHeap != "4G" {
		t.Errorf("max_heap %q", cfg.Java.MaxHeap)
	}
	if cfg.Store.Path != "other.jsonl" {
		t.Errorf("store path %q", cfg.Store.Path)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestValidateErrors(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "mongo"
	cfg.Java.MaxHeap = "lots"
	cfg.Sentry.TracesSampleRate = 2
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestStoreModule(t *testing.T) {
	c := StoreConfig{Backend: "rotating", Path: "runs.jsonl", MaxSizeMB: 5}
	m := c.Module()
	if m.Type != "rotating" || m.Conf["path"] != "runs.jsonl" || m.Conf["max_size_mb"] != 5 {
		t.Fatalf("unexpected module config %+v", m)
	}
}
