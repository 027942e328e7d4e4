package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// writeConfig writes a config file into a temp dir and resets viper
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestInitializeDefaults(t *testing.T) {
	path := writeConfig(t, "model_path: /models/forest.json\n")

	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if AppConfig.ModelPath != "/models/forest.json" {
		t.Errorf("ModelPath = %q", AppConfig.ModelPath)
	}
	if AppConfig.ModelFormat != "forest" {
		t.Errorf("ModelFormat = %q, expected forest", AppConfig.ModelFormat)
	}
	if AppConfig.BrowserTimeout != 30*time.Second {
		t.Errorf("BrowserTimeout = %v, expected 30s", AppConfig.BrowserTimeout)
	}
	if AppConfig.ONNXInputName != "float_input" {
		t.Errorf("ONNXInputName = %q", AppConfig.ONNXInputName)
	}
}

func TestInitializeEnvOverride(t *testing.T) {
	path := writeConfig(t, "model_path: /from/file.json\n")
	t.Setenv("JOBMATCH_MODEL_PATH", "/from/env.json")

	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if AppConfig.ModelPath != "/from/env.json" {
		t.Errorf("ModelPath = %q, expected env override", AppConfig.ModelPath)
	}
}

func TestInitializeRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown model format", content: "model_format: pickle\n"},
		{name: "both taxonomy sources", content: "taxonomy_path: a.yaml\ntaxonomy_ref: b@1\n"},
		{name: "non positive timeout", content: "browser_timeout: 0s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if err := Initialize(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSet(t *testing.T) {
	path := writeConfig(t, "model_format: forest\n")
	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if err := Set("model_path", "/m/forest.json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if Get("model_path") != "/m/forest.json" {
		t.Errorf("Get(model_path) = %q", Get("model_path"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "/m/forest.json") {
		t.Errorf("config file was not updated:\n%s", data)
	}

	if err := Set("json", "true"); err == nil {
		t.Error("expected error for a key that is not settable")
	}
	if err := Set("model_format", "pickle"); err == nil {
		t.Error("expected error for an invalid value")
	}
}

func TestGetConfigPath(t *testing.T) {
	path := writeConfig(t, "")
	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := GetConfigPath(); got != path {
		t.Errorf("GetConfigPath() = %q, expected %q", got, path)
	}
}

func TestSetKeepsOverridesOutOfFile(t *testing.T) {
	path := writeConfig(t, "model_format: forest\n")
	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	// what --debug and --json leave in viper
	viper.Set("debug", true)
	viper.Set("json", true)
	t.Setenv("JOBMATCH_METRICS_FILE", "/tmp/from-env.prom")

	if err := Set("model_path", "/m/forest.json"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "/m/forest.json") {
		t.Errorf("config file was not updated:\n%s", content)
	}
	if !strings.Contains(content, "model_format: forest") {
		t.Errorf("existing key lost:\n%s", content)
	}
	for _, leaked := range []string{"debug", "json", "from-env"} {
		if strings.Contains(content, leaked) {
			t.Errorf("runtime override %q written to config file:\n%s", leaked, content)
		}
	}
	if !AppConfig.Debug {
		t.Error("in-process override should still apply")
	}
}
