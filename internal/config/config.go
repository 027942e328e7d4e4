package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appDirName = ".jobmatch"
	envPrefix  = "JOBMATCH"
)

// Config holds the application configuration
type Config struct {
	// Taxonomy source: a file path, or a name@version from the registry.
	// The built-in taxonomy is used when both are empty.
	TaxonomyPath string `mapstructure:"taxonomy_path"`
	TaxonomyRef  string `mapstructure:"taxonomy_ref"`

	ModelPath   string `mapstructure:"model_path"`
	ModelFormat string `mapstructure:"model_format"` // forest, onnx

	ONNXLibraryPath string `mapstructure:"onnx_library_path"`
	ONNXInputName   string `mapstructure:"onnx_input_name"`
	ONNXOutputName  string `mapstructure:"onnx_output_name"`

	MetricsFile    string        `mapstructure:"metrics_file"`
	BrowserTimeout time.Duration `mapstructure:"browser_timeout"`

	LogJSON bool `mapstructure:"json"`
	Debug   bool `mapstructure:"debug"`
}

// Keys that may be changed with Set
var SettableKeys = []string{
	"taxonomy_path", "taxonomy_ref", "model_path", "model_format",
	"onnx_library_path", "onnx_input_name", "onnx_output_name",
	"metrics_file", "browser_timeout",
}

var AppConfig *Config

// Dir returns the directory holding the config file and the database
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, appDirName), nil
}

// Initialize loads or creates the configuration file. An explicit path
// overrides the default ~/.jobmatch/config.yaml.
func Initialize(path string) error {
	configFile := path
	if configFile == "" {
		configDir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		configFile = filepath.Join(configDir, "config.yaml")

		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			if err := createDefaultConfig(configFile); err != nil {
				return err
			}
		}
	}

	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := load()
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

func setDefaults() {
	viper.SetDefault("taxonomy_path", "")
	viper.SetDefault("taxonomy_ref", "")
	viper.SetDefault("model_path", "")
	viper.SetDefault("model_format", "forest")
	viper.SetDefault("onnx_library_path", "")
	viper.SetDefault("onnx_input_name", "float_input")
	viper.SetDefault("onnx_output_name", "probabilities")
	viper.SetDefault("metrics_file", "")
	viper.SetDefault("browser_timeout", 30*time.Second)
	viper.SetDefault("json", false)
	viper.SetDefault("debug", false)
}

func load() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.TaxonomyPath != "" && cfg.TaxonomyRef != "" {
		return nil, fmt.Errorf("taxonomy_path and taxonomy_ref are mutually exclusive")
	}
	switch cfg.ModelFormat {
	case "forest", "onnx":
	default:
		return nil, fmt.Errorf("invalid model_format %q: must be forest or onnx", cfg.ModelFormat)
	}
	if cfg.BrowserTimeout <= 0 {
		return nil, fmt.Errorf("browser_timeout must be positive")
	}
	return cfg, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# jobmatch configuration

# Skill taxonomy: leave both empty for the built-in taxonomy.
# taxonomy_path points at a YAML/JSON document, taxonomy_ref at an imported
# version ("name@version", see 'jobmatch taxonomy import').
taxonomy_path: ""
taxonomy_ref: ""

# Classifier artifact. model_format: forest (JSON export) or onnx
model_path: ""
model_format: forest

# onnxruntime shared library, only needed for model_format: onnx
onnx_library_path: ""
onnx_input_name: float_input
onnx_output_name: probabilities

# Prometheus textfile written after each analysis (empty disables)
metrics_file: ""

# Page load limit when fetching a job description with --jd-url
browser_timeout: 30s
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// IsSettable reports whether key may be changed with Set
func IsSettable(key string) bool {
	for _, k := range SettableKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Set updates a configuration value and writes it back to the file
func Set(key, value string) error {
	if !IsSettable(key) {
		return fmt.Errorf("invalid key %q: must be one of %v", key, SettableKeys)
	}
	previous := viper.Get(key)
	viper.Set(key, value)
	cfg, err := load()
	if err != nil {
		viper.Set(key, previous)
		return err
	}
	if err := writeKey(key, value); err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

// writeKey updates one key in the config file. The global viper also holds
// flag and env values, so the file is rewritten from its own contents only.
func writeKey(key, value string) error {
	v := viper.New()
	v.SetConfigFile(GetConfigPath())
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	v.Set(key, value)
	return v.WriteConfig()
}

// Get retrieves a configuration value
func Get(key string) string {
	return viper.GetString(key)
}

// GetConfigPath returns the path to the config file in use
func GetConfigPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	dir, _ := Dir()
	return filepath.Join(dir, "config.yaml")
}
