package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SiteConfig holds settings for the auction site itself.
type SiteConfig struct {
	BaseURL  string   `yaml:"base_url"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	Searches []string `yaml:"searches"`
}

// MonitorConfig holds general settings for one monitoring pass.
type MonitorConfig struct {
	SeenFile      string `yaml:"seen_file"`
	HistoryDB     string `yaml:"history_db"`
	PageCap       int    `yaml:"page_cap"`
	SettleDelayMs int    `yaml:"settle_delay_ms"`
	Headless      bool   `yaml:"headless"`
}

// SettleDelay returns the base wait inserted after navigations so client-side
// rendering can finish before page state is read.
func (m MonitorConfig) SettleDelay() time.Duration {
	return time.Duration(m.SettleDelayMs) * time.Millisecond
}

// VisionConfig holds the settings for the inspection-report summarizer.
type VisionConfig struct {
	ApiURL    string `yaml:"api_url"`
	ApiKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// TwilioConfig holds the WhatsApp delivery settings.
type TwilioConfig struct {
	AccountSID       string   `yaml:"account_sid"`
	AuthToken        string   `yaml:"auth_token"`
	From             string   `yaml:"from"`
	Recipients       []string `yaml:"recipients"`
	PrimaryRecipient string   `yaml:"primary_recipient"`
	SendDelayMs      int      `yaml:"send_delay_ms"`
	MaxMessageLen    int      `yaml:"max_message_len"`
}

// SendDelay returns the pacing delay between two sends.
func (t TwilioConfig) SendDelay() time.Duration {
	return time.Duration(t.SendDelayMs) * time.Millisecond
}

// Config is the complete structure for the config.yml file.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Monitor MonitorConfig `yaml:"monitor"`
	Vision  VisionConfig  `yaml:"vision"`
	Twilio  TwilioConfig  `yaml:"twilio"`
}

// LoadConfig reads the YAML config, applies defaults and lets secrets be
// overridden from the environment (a .env file is honored when present).
func LoadConfig(filepath string) *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("Error unmarshalling config YAML: %v", err)
	}

	// Secrets never have to live in the YAML file.
	cfg.Site.Username = getEnv("SITE_USERNAME", cfg.Site.Username)
	cfg.Site.Password = getEnv("SITE_PASSWORD", cfg.Site.Password)
	cfg.Vision.ApiKey = getEnv("VISION_API_KEY", cfg.Vision.ApiKey)
	cfg.Twilio.AccountSID = getEnv("TWILIO_ACCOUNT_SID", cfg.Twilio.AccountSID)
	cfg.Twilio.AuthToken = getEnv("TWILIO_AUTH_TOKEN", cfg.Twilio.AuthToken)

	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Monitor.SeenFile == "" {
		cfg.Monitor.SeenFile = "seen_lots.txt"
	}
	if cfg.Monitor.HistoryDB == "" {
		cfg.Monitor.HistoryDB = "history.db"
	}
	if cfg.Monitor.PageCap <= 0 {
		cfg.Monitor.PageCap = 50
	}
	if cfg.Monitor.SettleDelayMs <= 0 {
		cfg.Monitor.SettleDelayMs = 3000
	}
	if cfg.Vision.ApiURL == "" {
		cfg.Vision.ApiURL = "https://api.openai.com/v1/chat/completions"
	}
	if cfg.Vision.Model == "" {
		cfg.Vision.Model = "gpt-4o"
	}
	if cfg.Vision.MaxTokens <= 0 {
		cfg.Vision.MaxTokens = 300
	}
	if cfg.Twilio.SendDelayMs <= 0 {
		cfg.Twilio.SendDelayMs = 2000
	}
	if cfg.Twilio.MaxMessageLen == 0 {
		// WhatsApp rejects bodies past 1600 characters.
		cfg.Twilio.MaxMessageLen = 1500
	}
	if cfg.Twilio.PrimaryRecipient == "" && len(cfg.Twilio.Recipients) > 0 {
		cfg.Twilio.PrimaryRecipient = cfg.Twilio.Recipients[len(cfg.Twilio.Recipients)-1]
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
