package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/harmos/intakebot/internal/api"
	"github.com/harmos/intakebot/internal/flow"
	"github.com/harmos/intakebot/internal/mailer"
	"github.com/harmos/intakebot/internal/metrics"
	"github.com/harmos/intakebot/internal/songs"
	"github.com/harmos/intakebot/internal/util"
)

func main() {
	// Initialize structured logger
	initializeLogger()

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	// Build module options
	reg := metrics.New()
	songsClient := songs.NewClient(buildSongsOptions(flags, reg)...)
	relayClient := mailer.NewClient(buildRelayOptions(flags)...)
	sender := mailer.NewSMTPSender(buildSMTPOptions(flags)...)
	controller := flow.NewController(relayClient, flow.WithMetrics(reg))

	server, err := api.NewServer(buildAPIOptions(flags, controller, songsClient, sender, reg)...)
	if err != nil {
		slog.Error("Failed to configure API server", "error", err)
		os.Exit(1)
	}

	slog.Info("Bootstrapping intakebot with configured modules")
	slog.Debug("Final configuration",
		"api_addr", *flags.apiAddr,
		"catalog_url_set", *flags.catalogURL != "",
		"relay_url_set", *flags.relayURL != "",
		"smtp_host", *flags.smtpHost,
		"smtp_user_set", *flags.smtpUser != "")
	if err := server.Run(); err != nil {
		slog.Error("intakebot failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("intakebot exited successfully")
}

// Config holds environment configuration
type Config struct {
	APIAddr     string
	CatalogURL  string
	RelayURL    string
	Destination string
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
}

// Flags holds command line flag values
type Flags struct {
	apiAddr     *string
	catalogURL  *string
	relayURL    *string
	destination *string
	smtpHost    *string
	smtpPort    *int
	smtpUser    *string
	smtpPass    *string
}

// initializeLogger sets up structured logging with debug level
func initializeLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		APIAddr:     os.Getenv("API_ADDR"),
		CatalogURL:  os.Getenv("CATALOG_URL"),
		RelayURL:    os.Getenv("RELAY_URL"),
		Destination: os.Getenv("CANDIDATURE_DESTINATION"),
		SMTPHost:    os.Getenv("SMTP_HOST"),
		SMTPPort:    util.ParseIntEnv("SMTP_PORT", mailer.DefaultSMTPPort),
		SMTPUser:    os.Getenv("SMTP_USER"),
		SMTPPass:    os.Getenv("SMTP_PASS"),
	}

	// The original deployment stored the mailbox password under this name.
	if config.SMTPPass == "" {
		config.SMTPPass = os.Getenv("HARMOS_EMAIL_PASS")
	}

	slog.Debug("environment variables loaded",
		"API_ADDR", config.APIAddr,
		"CATALOG_URL_SET", config.CatalogURL != "",
		"RELAY_URL_SET", config.RelayURL != "",
		"CANDIDATURE_DESTINATION_SET", config.Destination != "",
		"SMTP_HOST", config.SMTPHost,
		"SMTP_PORT", config.SMTPPort,
		"SMTP_USER_SET", config.SMTPUser != "",
		"SMTP_PASS_SET", config.SMTPPass != "")

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		apiAddr:     flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		catalogURL:  flag.String("catalog-url", config.CatalogURL, "song catalog base URL (overrides $CATALOG_URL)"),
		relayURL:    flag.String("relay-url", config.RelayURL, "candidature relay endpoint URL (overrides $RELAY_URL)"),
		destination: flag.String("destination", config.Destination, "candidature destination mailbox (overrides $CANDIDATURE_DESTINATION)"),
		smtpHost:    flag.String("smtp-host", config.SMTPHost, "SMTP host for outgoing mail (overrides $SMTP_HOST)"),
		smtpPort:    flag.Int("smtp-port", config.SMTPPort, "SMTP port for outgoing mail (overrides $SMTP_PORT)"),
		smtpUser:    flag.String("smtp-user", config.SMTPUser, "SMTP username and sender mailbox (overrides $SMTP_USER)"),
		smtpPass:    flag.String("smtp-pass", config.SMTPPass, "SMTP password (overrides $SMTP_PASS)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"apiAddr", *flags.apiAddr,
		"catalogURL_set", *flags.catalogURL != "",
		"relayURL_set", *flags.relayURL != "",
		"destination_set", *flags.destination != "",
		"smtpHost", *flags.smtpHost,
		"smtpPort", *flags.smtpPort,
		"smtpUser_set", *flags.smtpUser != "",
		"smtpPass_set", *flags.smtpPass != "")

	return flags
}

// buildSongsOptions constructs song catalog client options
func buildSongsOptions(flags Flags, reg *metrics.Metrics) []songs.Option {
	opts := []songs.Option{songs.WithMetrics(reg)}
	if *flags.catalogURL != "" {
		opts = append(opts, songs.WithBaseURL(*flags.catalogURL))
	}
	return opts
}

// buildRelayOptions constructs relay client options. When no relay URL is
// given the client posts to this process's own candidature endpoint.
func buildRelayOptions(flags Flags) []mailer.Option {
	var opts []mailer.Option
	relayURL := *flags.relayURL
	if relayURL == "" {
		addr := *flags.apiAddr
		if addr == "" {
			addr = api.DefaultAddr
		}
		if addr[0] == ':' {
			addr = "localhost" + addr
		}
		relayURL = "http://" + addr + "/api/candidature"
		slog.Debug("No relay URL provided, defaulting to local endpoint", "relay_url", relayURL)
	}
	opts = append(opts, mailer.WithRelayURL(relayURL))
	if *flags.destination != "" {
		opts = append(opts, mailer.WithDestination(*flags.destination))
	}
	return opts
}

// buildSMTPOptions constructs SMTP sender options
func buildSMTPOptions(flags Flags) []mailer.SMTPOption {
	var opts []mailer.SMTPOption
	if *flags.smtpHost != "" {
		opts = append(opts, mailer.WithSMTPHost(*flags.smtpHost, *flags.smtpPort))
	}
	if *flags.smtpUser != "" {
		opts = append(opts, mailer.WithSMTPCredentials(*flags.smtpUser, *flags.smtpPass))
	}
	return opts
}

// buildAPIOptions constructs API server options
func buildAPIOptions(flags Flags, controller *flow.Controller, songsClient *songs.Client, sender mailer.Sender, reg *metrics.Metrics) []api.Option {
	opts := []api.Option{
		api.WithController(controller),
		api.WithSongsClient(songsClient),
		api.WithEmailSender(sender),
		api.WithMetrics(reg),
	}
	if *flags.apiAddr != "" {
		opts = append(opts, api.WithAddr(*flags.apiAddr))
	}
	return opts
}
