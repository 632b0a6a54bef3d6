package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"invoicehub-backend/logger"
)

type Config struct {
	Port             string
	DatabaseURL      string
	Environment      string
	JWTSecret        string
	JWTExpiryHours   int
	UploadDir        string
	PublicBaseURL    string
	PlaceholderImage string
	CORSOrigins      []string

	RolloverSchedule string
	ReminderSchedule string

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioPhoneNumber    string
	TwilioWhatsAppNumber string

	LogLevel  string
	LogFormat string
	LogOutput string
}

// App is the configuration loaded at startup.
var App = Defaults()

// Defaults returns a configuration with every optional value filled in.
func Defaults() *Config {
	return &Config{
		Port:             "8080",
		Environment:      "development",
		JWTExpiryHours:   24,
		UploadDir:        "uploads",
		PublicBaseURL:    "http://localhost:8080",
		PlaceholderImage: "/assets/img/placeholder.png",
		CORSOrigins:      []string{"http://localhost:3000"},
		RolloverSchedule: "0 0 * * *",
		ReminderSchedule: "0 9 * * *",
		LogLevel:         "info",
		LogFormat:        "console",
		LogOutput:        "stdout",
	}
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	d := Defaults()
	cfg := &Config{
		Port:             getEnvOrDefault("PORT", d.Port),
		DatabaseURL:      os.Getenv("DB_URL"),
		Environment:      getEnvOrDefault("APP_ENV", d.Environment),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTExpiryHours:   d.JWTExpiryHours,
		UploadDir:        getEnvOrDefault("UPLOAD_DIR", d.UploadDir),
		PublicBaseURL:    strings.TrimRight(getEnvOrDefault("PUBLIC_BASE_URL", d.PublicBaseURL), "/"),
		PlaceholderImage: getEnvOrDefault("PLACEHOLDER_IMAGE", d.PlaceholderImage),
		CORSOrigins:      d.CORSOrigins,
		RolloverSchedule: getEnvOrDefault("ROLLOVER_SCHEDULE", d.RolloverSchedule),
		ReminderSchedule: getEnvOrDefault("REMINDER_SCHEDULE", d.ReminderSchedule),

		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber:    os.Getenv("TWILIO_PHONE_NUMBER"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", d.LogLevel),
		LogFormat: getEnvOrDefault("LOG_FORMAT", d.LogFormat),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", d.LogOutput),
	}

	if env := os.Getenv("JWT_EXPIRY_HOURS"); env != "" {
		if h, err := strconv.Atoi(env); err == nil && h > 0 {
			cfg.JWTExpiryHours = h
		}
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	App = cfg
	return cfg, nil
}

// Validate checks the keys a server process cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DB_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// TwilioEnabled reports whether outbound SMS can be sent.
func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}

func (c *Config) LoggerConfig() logger.LogConfig {
	lc := logger.DefaultConfig()
	lc.Level = c.LogLevel
	lc.Format = c.LogFormat
	lc.Output = c.LogOutput
	return lc
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
