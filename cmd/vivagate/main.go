package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vivaexam/vivagate/internal/gateway"
	"github.com/vivaexam/vivagate/internal/handler"
	appI18n "github.com/vivaexam/vivagate/internal/i18n"
	"github.com/vivaexam/vivagate/internal/model"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vivagate",
		Short: "Browser-facing gateway for the AI oral exam platform",
	}

	serve := serveCmd()
	root.AddCommand(serve)

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `vivagate --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":3000", "HTTP listen address")
	f.String("backend-url", "http://localhost:5000", "Exam platform backend base URL")
	f.Int("list-timeout", 30, "Session listing timeout in seconds")
	f.StringP("lang", "l", "en", "Default language for gateway error messages (en, vi)")
	f.String("base-path", "", "URL prefix for sub-path deployments (e.g. /exam)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	// A local .env is the development-time way to point at a non-default
	// backend; absence is not an error.
	_ = godotenv.Load()

	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("VIVAGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("vivagate")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/vivagate")
	v.AddConfigPath("/etc/vivagate")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	// Normalize base path.
	basePath := strings.TrimRight(v.GetString("base-path"), "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	cfg := model.Config{
		BackendURL:  v.GetString("backend-url"),
		BasePath:    basePath,
		ListTimeout: v.GetInt("list-timeout"),
	}
	if cfg.ListTimeout <= 0 {
		cfg.ListTimeout = 30
	}

	backend := gateway.New(cfg.BackendURL)
	h := handler.New(backend, cfg)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(handler.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	r.Use(handler.LogIdentity)

	if basePath != "" {
		r.Route(basePath, func(sub chi.Router) {
			h.Routes(sub)
		})
	} else {
		h.Routes(r)
	}

	addr := v.GetString("addr")
	slog.Info("starting gateway",
		"addr", addr,
		"backend_url", cfg.BackendURL,
		"list_timeout", cfg.ListTimeout,
		"lang", lang,
		"base_path", basePath,
	)
	return http.ListenAndServe(addr, r)
}
