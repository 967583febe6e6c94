// Package config resolves runtime settings from flags, the environment, an
// optional .env file and defaults, in that order of precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/grammarquiz/internal/llm"
	"github.com/abhisek/grammarquiz/internal/store"
)

// Config is the resolved application configuration.
type Config struct {
	LLM llm.Config

	DBPath string
	Lang   string

	LogLevel  string
	LogFormat string
	LogFile   string
}

// envKeys maps viper keys to the environment variables that set them.
var envKeys = map[string]string{
	"provider":           "API_PROVIDER",
	"model":              "OPENROUTER_MODEL",
	"openrouter-api-key": "OPENROUTER_API_KEY",
	"gemini-api-key":     "GEMINI_API_KEY",
	"anthropic-api-key":  "ANTHROPIC_API_KEY",
	"openai-api-key":     "OPENAI_API_KEY",
	"db":                 "GRAMMARQUIZ_DB",
	"lang":               "GRAMMARQUIZ_LANG",
	"log-level":          "GRAMMARQUIZ_LOG_LEVEL",
	"log-format":         "GRAMMARQUIZ_LOG_FORMAT",
	"log-file":           "GRAMMARQUIZ_LOG_FILE",
}

// RegisterFlags adds the shared persistent flags to the root command.
func RegisterFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("provider", llm.ProviderOpenRouter, "LLM provider (openrouter, gemini, anthropic, openai)")
	f.String("model", "", "Model override for the selected provider")
	f.String("db", "", "SQLite database path (default: XDG data dir)")
	f.StringP("lang", "l", "en", "UI language (en, ja)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	f.String("log-file", "", "Log file for the TUI (default: next to the database)")
	f.String("env-file", ".env", "Optional dotenv file with API keys")
}

// Load resolves the configuration for cmd.
func Load(cmd *cobra.Command) (*Config, error) {
	v := viperForCmd(cmd)

	cfg := &Config{
		LLM:       llm.DefaultConfig(),
		DBPath:    v.GetString("db"),
		Lang:      v.GetString("lang"),
		LogLevel:  v.GetString("log-level"),
		LogFormat: v.GetString("log-format"),
		LogFile:   v.GetString("log-file"),
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(v.GetString("provider")))
	cfg.LLM.OpenRouter.APIKey = v.GetString("openrouter-api-key")
	cfg.LLM.Gemini.APIKey = v.GetString("gemini-api-key")
	cfg.LLM.Anthropic.APIKey = v.GetString("anthropic-api-key")
	cfg.LLM.OpenAI.APIKey = v.GetString("openai-api-key")
	cfg.LLM.SetModel(v.GetString("model"))

	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		cfg.DBPath = p
	} else if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(filepath.Dir(cfg.DBPath), "grammarquiz.log")
	}

	return cfg, nil
}

// viperForCmd binds a command's flags, the environment and the dotenv file
// to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}

	// Values from the dotenv file rank above flag defaults and below the
	// real environment.
	if path := v.GetString("env-file"); path != "" {
		for key, val := range readDotenv(path) {
			v.SetDefault(key, val)
		}
	}

	v.SetConfigName("grammarquiz")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/grammarquiz")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// readDotenv returns viper keys set by the dotenv file at path. A missing
// file yields nothing.
func readDotenv(path string) map[string]string {
	dv := viper.New()
	dv.SetConfigFile(path)
	dv.SetConfigType("env")
	if err := dv.ReadInConfig(); err != nil {
		slog.Debug("no dotenv file", "path", path, "error", err)
		return nil
	}

	out := make(map[string]string)
	for key, env := range envKeys {
		name := strings.ToLower(env)
		if dv.IsSet(name) {
			out[key] = dv.GetString(name)
		}
	}
	return out
}
