// Package config assembles server options from flags, an optional
// YAML config file, and environment variables. Precedence: flags over
// file over environment over built-in defaults.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// DefaultPort is the port the server listens on unless told otherwise.
const DefaultPort = 8866

// Config holds every option the server takes at startup. NotebookPath
// is the positional argument: a single .ipynb file serves that one
// notebook at /, a directory serves a browsable tree.
type Config struct {
	Port              int    `yaml:"port"`
	Template          string `yaml:"template"`
	StaticRoot        string `yaml:"static"`
	StripSources      bool   `yaml:"strip_sources"`
	Autoreload        bool   `yaml:"autoreload"`
	ConnectionDirRoot string `yaml:"connection_dir"`
	LogMode           string `yaml:"log_mode"`
	Debug             bool   `yaml:"debug"`

	NotebookPath string `yaml:"-"`
}

// Default returns the baseline configuration with environment
// fallbacks already applied.
func Default() Config {
	return Config{
		Port:         envInt("VOILA_PORT", DefaultPort),
		Template:     envString("VOILA_TEMPLATE", "default"),
		StripSources: true,
		LogMode:      envString("VOILA_LOG_MODE", "development"),
	}
}

// Load parses command line arguments (without the program name) into a
// Config. A --config YAML file, when given, is layered between the
// defaults and any explicitly set flags.
func Load(args []string) (Config, error) {
	cfg := Default()

	fs := pflag.NewFlagSet("voila", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: voila [OPTIONS] NOTEBOOK_PATH\n\n")
		fs.PrintDefaults()
	}

	configFile := fs.String("config", "", "YAML config file")
	port := fs.Int("port", cfg.Port, "port to listen on")
	template := fs.String("template", cfg.Template, "template name (empty disables template resolution)")
	staticRoot := fs.String("static", cfg.StaticRoot, "directory holding the built-in static assets")
	stripSources := fs.Bool("strip-sources", cfg.StripSources, "strip code cell sources from rendered pages")
	autoreload := fs.Bool("autoreload", cfg.Autoreload, "re-read the notebook on every request")
	connectionDir := fs.String("connection-dir", cfg.ConnectionDirRoot, "root for the temporary connection file directory")
	logMode := fs.String("log-mode", cfg.LogMode, "log output mode (development or production)")
	debug := fs.Bool("debug", cfg.Debug, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *configFile != "" {
		if err := loadFile(*configFile, &cfg); err != nil {
			return Config{}, err
		}
	}

	// Only explicitly set flags override the file layer.
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "template":
			cfg.Template = *template
		case "static":
			cfg.StaticRoot = *staticRoot
		case "strip-sources":
			cfg.StripSources = *stripSources
		case "autoreload":
			cfg.Autoreload = *autoreload
		case "connection-dir":
			cfg.ConnectionDirRoot = *connectionDir
		case "log-mode":
			cfg.LogMode = *logMode
		case "debug":
			cfg.Debug = *debug
		}
	})

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		cfg.NotebookPath = rest[0]
	default:
		return Config{}, fmt.Errorf("expected at most one notebook path, got %d arguments", len(rest))
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}
