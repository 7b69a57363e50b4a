package config

import (
	"strings"
	"testing"

	coreconfig "filebot/core/config"
)

func validConfig() *Config {
	return &Config{
		Core: coreconfig.Config{
			Telegram: coreconfig.TelegramConfig{
				Token:   "123:abc",
				AdminID: 42,
				RunMode: "longpoll",
			},
		},
		Bot: BotConfig{ArchiveChatID: -100123},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Bot.Name == "" {
		t.Fatal("bot name default not applied")
	}
	if cfg.Bot.Store != StorePostgres {
		t.Fatalf("store default = %q, want postgres", cfg.Bot.Store)
	}
	if !strings.Contains(cfg.Links.StreamTemplate, "{file_key}") {
		t.Fatalf("stream template default missing placeholder: %q", cfg.Links.StreamTemplate)
	}
	if !strings.Contains(cfg.Links.TelegramTemplate, "{message_id}") {
		t.Fatalf("telegram template default missing placeholder: %q", cfg.Links.TelegramTemplate)
	}
}

func TestNormalizeRequiresAdminID(t *testing.T) {
	cfg := validConfig()
	cfg.Core.Telegram.AdminID = 0
	if err := Normalize(cfg); err == nil {
		t.Fatal("Normalize accepted missing admin_id")
	}
}

func TestNormalizeRequiresArchiveChat(t *testing.T) {
	cfg := validConfig()
	cfg.Bot.ArchiveChatID = 0
	if err := Normalize(cfg); err == nil {
		t.Fatal("Normalize accepted missing archive_chat_id")
	}
}

func TestNormalizeRejectsUnknownStore(t *testing.T) {
	cfg := validConfig()
	cfg.Bot.Store = "redis"
	if err := Normalize(cfg); err == nil {
		t.Fatal("Normalize accepted unknown store backend")
	}
}

func TestNormalizeRejectsBadTemplates(t *testing.T) {
	cfg := validConfig()
	cfg.Links.StreamTemplate = "https://stream.example.com/static"
	if err := Normalize(cfg); err == nil {
		t.Fatal("Normalize accepted stream template without {file_key}")
	}

	cfg = validConfig()
	cfg.Links.TelegramTemplate = "https://t.me/{username}"
	if err := Normalize(cfg); err == nil {
		t.Fatal("Normalize accepted telegram template without {message_id}")
	}
}

func TestNormalizeDelegatesCoreValidation(t *testing.T) {
	cfg := validConfig()
	cfg.Core.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("Normalize accepted empty token")
	}
}
