package config

import (
	"fmt"
	"os"
	"strings"

	coreconfig "filebot/core/config"
	coredatabase "filebot/core/database"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// LinksConfig holds URL templates for the issued access links.
// Placeholders: {file_key} in stream/download, {username} and
// {message_id} in telegram.
type LinksConfig struct {
	StreamTemplate   string `yaml:"stream_template" envconfig:"LINKS_STREAM_TEMPLATE"`
	DownloadTemplate string `yaml:"download_template" envconfig:"LINKS_DOWNLOAD_TEMPLATE"`
	TelegramTemplate string `yaml:"telegram_template" envconfig:"LINKS_TELEGRAM_TEMPLATE"`
}

// BotConfig holds settings specific to the file relay flow.
type BotConfig struct {
	Name string `yaml:"name" envconfig:"BOT_NAME"`
	// ArchiveChatID is the private channel every upload is forwarded to.
	ArchiveChatID int64 `yaml:"archive_chat_id" envconfig:"ARCHIVE_CHAT_ID"`
	// Store selects the metadata store backend: "postgres" or "memory".
	Store string `yaml:"store" envconfig:"FILE_STORE"`
}

const (
	// StorePostgres selects the durable sqlx-backed metadata store.
	StorePostgres = "postgres"
	// StoreMemory selects the in-process store (dev profile only).
	StoreMemory = "memory"
)

// Config aggregates the application configuration.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Bot      BotConfig           `yaml:"bot"`
	Links    LinksConfig         `yaml:"links"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// Load reads the application config from a YAML file with env overrides.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and fills defaults in place.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return err
	}
	if cfg.Core.Telegram.AdminID == 0 {
		return fmt.Errorf("telegram.admin_id is required")
	}

	if cfg.Bot.Name == "" {
		cfg.Bot.Name = "File to Link Bot"
	}
	if cfg.Bot.ArchiveChatID == 0 {
		return fmt.Errorf("bot.archive_chat_id is required")
	}

	store := strings.ToLower(strings.TrimSpace(cfg.Bot.Store))
	if store == "" {
		store = StorePostgres
	}
	switch store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("invalid bot.store %q; allowed: postgres, memory", cfg.Bot.Store)
	}
	cfg.Bot.Store = store

	if cfg.Links.StreamTemplate == "" {
		cfg.Links.StreamTemplate = "https://stream.example.com/{file_key}"
	}
	if cfg.Links.DownloadTemplate == "" {
		cfg.Links.DownloadTemplate = "https://download.example.com/{file_key}"
	}
	if cfg.Links.TelegramTemplate == "" {
		cfg.Links.TelegramTemplate = "https://t.me/{username}/{message_id}"
	}
	for name, tpl := range map[string]string{
		"links.stream_template":   cfg.Links.StreamTemplate,
		"links.download_template": cfg.Links.DownloadTemplate,
	} {
		if !strings.Contains(tpl, "{file_key}") {
			return fmt.Errorf("%s must contain the {file_key} placeholder", name)
		}
	}
	if !strings.Contains(cfg.Links.TelegramTemplate, "{message_id}") {
		return fmt.Errorf("links.telegram_template must contain the {message_id} placeholder")
	}
	return nil
}
