package main

import (
	"flag"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ryan-kosiba/nutriclaude/client"
	"github.com/ryan-kosiba/nutriclaude/internal/logger"
	"github.com/ryan-kosiba/nutriclaude/internal/mcptools"
)

type config struct {
	ServiceURL    string
	ServerName    string
	ServerVersion string
	LogLevel      zerolog.Level
}

func loadConfig() *config {
	cfg := &config{
		ServiceURL:    getEnvOrDefault("NUTRICLAUDE_SERVICE_URL", "http://localhost:8080"),
		ServerName:    getEnvOrDefault("MCP_SERVER_NAME", "nutriclaude-mcp"),
		ServerVersion: getEnvOrDefault("MCP_SERVER_VERSION", "0.1.0"),
	}
	rawLevel := getEnvOrDefault("LOG_LEVEL", "info")

	// flags override env
	flag.StringVar(&cfg.ServiceURL, "service-url", cfg.ServiceURL, "Base URL of the nutriclaude service")
	flag.StringVar(&rawLevel, "log-level", rawLevel, "Log level: debug|info|warn|error")
	flag.Parse()

	cfg.LogLevel = parseLogLevel(rawLevel)
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(levelStr string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func run() error {
	cfg := loadConfig()
	zerolog.SetGlobalLevel(cfg.LogLevel)
	// stdout carries the MCP protocol
	log.Logger = logger.NewTo(os.Stderr, cfg.ServerName).With().Caller().Logger()

	api, err := client.New(cfg.ServiceURL)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to create client")
		return err
	}

	s, err := mcptools.NewServer(cfg.ServerName, cfg.ServerVersion, api)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to register tools")
		return err
	}

	log.Info().Str("service_url", cfg.ServiceURL).Msg("Starting nutriclaude MCP server (stdio transport)")
	return server.ServeStdio(s)
}

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("MCP server exited with error")
		os.Exit(1)
	}
}
