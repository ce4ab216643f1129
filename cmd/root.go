package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"news-herald/internal/config"
	"news-herald/internal/storage"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
	appCfg   config.Config
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "news-herald",
	Short: "News Herald CLI",
	Long:  "Ingest syndication feeds, summarize new items with an LLM and publish them once.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(appCfg.App)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override app.log_level (debug, info, warn, error)")
}

// envKeys are bound to HERALD_* variables, e.g. HERALD_PUBLISH_X_ACCESS_TOKEN.
var envKeys = []string{
	"app.log_level", "app.log_format",
	"database.path",
	"feeds.urls", "feeds.per_source_limit", "feeds.timeout", "feeds.user_agent",
	"llm.provider", "llm.api_url", "llm.api_key", "llm.model", "llm.temperature", "llm.timeout", "llm.prompt_file",
	"publish.backend", "publish.dry_run", "publish.max_length", "publish.append_link", "publish.timeout",
	"publish.x.base_url", "publish.x.access_token",
	"publish.quaily.base_url", "publish.quaily.api_key", "publish.quaily.channel_slug",
	"redis.enabled", "redis.addr", "redis.username", "redis.password", "redis.db", "redis.lock_ttl",
	"server.addr",
	"schedule.fetch", "schedule.post",
}

func initConfig() {
	v := viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/news-herald")
		v.AddConfigPath("configs")
	}

	v.SetEnvPrefix("HERALD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(&appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing config: %v\n", err)
		os.Exit(1)
	}

	if logLevel != "" {
		appCfg.App.LogLevel = logLevel
	}
	appCfg.FillDefaults()
}

// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() config.Config {
	return appCfg
}

func setupLogging(app config.AppConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(app.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(app.LogFormat, "json") {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// openDB opens the configured database and applies pending migrations.
func openDB(cfg config.Config) (*storage.DB, error) {
	db, err := storage.OpenAndMigrate(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}
	return db, nil
}
