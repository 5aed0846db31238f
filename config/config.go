package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port             string
	DBPath           string
	SiteURL          string
	RefreshDays      int
	VKAPIToken       string
	VKGroupID        string
	VKConfirmToken   string
	GigaChatEndpoint string
	GigaChatAuthKey  string
	GigaChatModel    string
	EmbedderEndpoint string
	EmbedderAPIKey   string
	EmbedderModel    string
	SpellerEndpoint  string
	ToxicityEndpoint string
	TriggersPath     string
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "err", err)
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	refreshDays := 4
	if v := os.Getenv("REFRESH_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			refreshDays = n
		}
	}
	cfg := AppConfig{
		Port:             get("PORT", "8080"),
		DBPath:           get("DB_PATH", "knowledge.db"),
		SiteURL:          get("SITE_URL", "https://education.vk.company/"),
		RefreshDays:      refreshDays,
		VKAPIToken:       get("VK_API_TOKEN", ""),
		VKGroupID:        get("VK_GROUP_ID", ""),
		VKConfirmToken:   get("VK_CONFIRMATION_TOKEN", ""),
		GigaChatEndpoint: get("GIGACHAT_ENDPOINT", ""),
		GigaChatAuthKey:  get("GIGACHAT_AUTH_KEY", ""),
		GigaChatModel:    get("GIGACHAT_MODEL", "GigaChat"),
		EmbedderEndpoint: get("EMB_ENDPOINT", ""),
		EmbedderAPIKey:   get("EMB_API_KEY", ""),
		EmbedderModel:    get("EMB_MODEL", "all-MiniLM-L6-v2"),
		SpellerEndpoint:  get("SPELLER_ENDPOINT", ""),
		ToxicityEndpoint: get("TOXICITY_ENDPOINT", ""),
		TriggersPath:     get("TRIGGERS_PATH", ""),
	}
	slog.Info("config loaded", "port", cfg.Port, "db", cfg.DBPath, "site", cfg.SiteURL, "refresh_days", cfg.RefreshDays)
	return cfg
}
