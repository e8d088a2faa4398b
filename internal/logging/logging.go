// internal/logging/logging.go
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mau.fi/zeroconfig"
	"gopkg.in/yaml.v3"
)

// LogConfigEnv names a zeroconfig YAML file that replaces the default
// console logger.
const LogConfigEnv = "SITECFG_LOG_CONFIG"

// Setup installs the global logger. A zeroconfig file (configPath, or
// $SITECFG_LOG_CONFIG when empty) takes precedence over the console writer.
func Setup(level string, configPath string) error {
	if configPath == "" {
		configPath = os.Getenv(LogConfigEnv)
	}
	if configPath != "" {
		return loadConfig(configPath)
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	log.Logger = NewConsole(os.Stderr, lvl)
	return nil
}

// NewConsole returns a human-readable logger writing to w.
func NewConsole(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func loadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("log config %s is not readable: %w", path, err)
	}
	var cfg zeroconfig.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("log config %s is not valid yaml: %w", path, err)
	}
	logger, err := cfg.Compile()
	if err != nil {
		return fmt.Errorf("log config %s is not valid for zerolog, see go.mau.fi/zeroconfig documentation: %w", path, err)
	}
	log.Logger = *logger
	return nil
}
