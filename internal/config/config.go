package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "Pacific/Honolulu"
	fallbackTimezone  = "UTC"
	configPathEnv     = "RECORD_SCANNER_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	logLevelEnv       = "LOG_LEVEL"
	portEnv           = "PORT"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	HTTP          HTTPConfig         `yaml:"http"`
	Courts        CourtsConfig       `yaml:"courts"`
	Arrests       ArrestsConfig      `yaml:"arrests"`
	Notifications NotificationConfig `yaml:"notifications"`
	Server        ServerConfig       `yaml:"server"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig holds a Postgres URL or a SQLite path.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines how often ingestion runs.
type SchedulerConfig struct {
	Interval time.Duration  `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	LockFile string         `yaml:"lockFile"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HTTPConfig tunes outbound requests to record sources.
type HTTPConfig struct {
	UserAgent       string        `yaml:"userAgent"`
	IndexTimeout    time.Duration `yaml:"indexTimeout"`
	DocumentTimeout time.Duration `yaml:"documentTimeout"`
}

// CourtsConfig lists the court-record sources searched per client.
type CourtsConfig struct {
	Delay         time.Duration       `yaml:"delay"`
	State         string              `yaml:"state"`
	County        string              `yaml:"county"`
	MaxResults    int                 `yaml:"maxResults"`
	Sources       []CourtSourceConfig `yaml:"sources"`
	PublicRecords CourtSourceConfig   `yaml:"publicRecords"`
}

// CourtSourceConfig describes one external source and the scanner strategy that reads it.
type CourtSourceConfig struct {
	Name    string            `yaml:"name"`
	Scanner string            `yaml:"scanner"`
	URL     string            `yaml:"url"`
	Enabled bool              `yaml:"enabled"`
	Options map[string]string `yaml:"options"`
}

// ArrestsConfig points at the arrest-log publisher and the values stamped on its records.
type ArrestsConfig struct {
	IndexURL          string `yaml:"indexUrl"`
	Agency            string `yaml:"agency"`
	County            string `yaml:"county"`
	DefaultLocation   string `yaml:"defaultLocation"`
	ChargePlaceholder string `yaml:"chargePlaceholder"`
	IDPrefix          string `yaml:"idPrefix"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken    string `yaml:"botToken"`
	ChatID      string `yaml:"chatId"`
	MinSeverity string `yaml:"minSeverity"`
}

// ServerConfig configures the JSON API.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if fileCfg, err := Parse(raw); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

// Parse decodes a YAML document without applying defaults.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(portEnv); v != "" {
		if _, err := strconv.Atoi(v); err == nil {
			c.Server.Port = v
		}
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, fallbackTimezone)
		loc = time.UTC
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}
	if override.Scheduler.LockFile != "" {
		base.Scheduler.LockFile = override.Scheduler.LockFile
	}

	if override.HTTP.UserAgent != "" {
		base.HTTP.UserAgent = override.HTTP.UserAgent
	}
	if override.HTTP.IndexTimeout > 0 {
		base.HTTP.IndexTimeout = override.HTTP.IndexTimeout
	}
	if override.HTTP.DocumentTimeout > 0 {
		base.HTTP.DocumentTimeout = override.HTTP.DocumentTimeout
	}

	if override.Courts.Delay > 0 {
		base.Courts.Delay = override.Courts.Delay
	}
	if override.Courts.State != "" {
		base.Courts.State = override.Courts.State
	}
	if override.Courts.County != "" {
		base.Courts.County = override.Courts.County
	}
	if override.Courts.MaxResults > 0 {
		base.Courts.MaxResults = override.Courts.MaxResults
	}
	if len(override.Courts.Sources) > 0 {
		base.Courts.Sources = override.Courts.Sources
	}
	if override.Courts.PublicRecords.Name != "" {
		base.Courts.PublicRecords = override.Courts.PublicRecords
	}

	if override.Arrests.IndexURL != "" {
		base.Arrests.IndexURL = override.Arrests.IndexURL
	}
	if override.Arrests.Agency != "" {
		base.Arrests.Agency = override.Arrests.Agency
	}
	if override.Arrests.County != "" {
		base.Arrests.County = override.Arrests.County
	}
	if override.Arrests.DefaultLocation != "" {
		base.Arrests.DefaultLocation = override.Arrests.DefaultLocation
	}
	if override.Arrests.ChargePlaceholder != "" {
		base.Arrests.ChargePlaceholder = override.Arrests.ChargePlaceholder
	}
	if override.Arrests.IDPrefix != "" {
		base.Arrests.IDPrefix = override.Arrests.IDPrefix
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}
	if override.Notifications.Telegram.MinSeverity != "" {
		base.Notifications.Telegram.MinSeverity = override.Notifications.Telegram.MinSeverity
	}

	if override.Server.Port != "" {
		base.Server.Port = override.Server.Port
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Database:  DatabaseConfig{DSN: "records.db"},
		Scheduler: SchedulerConfig{Interval: 24 * time.Hour, Timezone: defaultTimezone, LockFile: "recordscanner.lock"},
		HTTP:      HTTPConfig{IndexTimeout: 30 * time.Second, DocumentTimeout: 60 * time.Second},
		Courts: CourtsConfig{
			Delay: time.Second,
			State: "HI",
			Sources: []CourtSourceConfig{
				{
					Name:    "Hawaii State Judiciary eCourt Kokua",
					Scanner: "table",
					URL:     "https://jimspss1.courts.state.hi.us/JIMSCitizenAccess/PartySearch.aspx",
					Enabled: true,
					Options: map[string]string{"searchParam": "partyName"},
				},
				{
					Name:    "Hawaii Circuit Court Calendar",
					Scanner: "table",
					URL:     "https://www.courts.state.hi.us/calendars/circuit",
					Enabled: true,
				},
				{
					Name:    "Hawaii District Court Calendar",
					Scanner: "table",
					URL:     "https://www.courts.state.hi.us/calendars/district",
					Enabled: true,
				},
			},
			PublicRecords: CourtSourceConfig{
				Name:    "Public Court Records",
				Scanner: "json",
				URL:     "https://api.publiccourtrecords.example/v1/search",
				Enabled: true,
				Options: map[string]string{"searchParam": "q", "stateParam": "state"},
			},
		},
		Arrests: ArrestsConfig{
			IndexURL:          "https://www.honolulupd.org/information/arrest-logs/",
			Agency:            "Honolulu Police Department",
			County:            "Honolulu",
			DefaultLocation:   "Honolulu, HI",
			ChargePlaceholder: "Charges pending",
			IDPrefix:          "HPD",
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{MinSeverity: "critical"},
		},
		Server: ServerConfig{Port: "8080"},
	}
}
