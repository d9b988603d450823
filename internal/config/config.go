package config

import (
	"os"
	"strconv"
	"strings"
)

// QuotaLimits 普通用户每日操作上限，均可通过环境变量调整
type QuotaLimits struct {
	Add    int
	Edit   int
	Delete int
	Apply  int
}

// Config 全部来自环境变量（本地开发配合 .env）
type Config struct {
	Port        string
	DatabaseURL string
	ImagesDir   string
	FrontendURL string

	SessionSecret string

	// Bangumi OAuth
	BangumiClientID     string
	BangumiClientSecret string
	BangumiRedirectURL  string

	// 管理员 Bangumi 用户 ID 列表
	Admins []string

	Quota QuotaLimits
}

func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8000"),
		DatabaseURL: getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=moegraph port=5432 sslmode=disable TimeZone=Asia/Shanghai"),
		ImagesDir:   getEnv("IMAGES_DIR", "images"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		SessionSecret: getEnv("SESSION_SECRET", "secret_key_change_me"),

		BangumiClientID:     os.Getenv("BGM_CLIENT_ID"),
		BangumiClientSecret: os.Getenv("BGM_CLIENT_SECRET"),
		BangumiRedirectURL:  getEnv("BGM_REDIRECT_URI", "http://localhost:8000/api/auth/callback"),

		Quota: QuotaLimits{
			Add:    getEnvInt("QUOTA_ADD_LIMIT", 10),
			Edit:   getEnvInt("QUOTA_EDIT_LIMIT", 10),
			Delete: getEnvInt("QUOTA_DELETE_LIMIT", 1),
			Apply:  getEnvInt("QUOTA_APPLY_LIMIT", 1),
		},
	}

	for _, id := range strings.Split(getEnv("ADMIN_IDS", "1173408"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			cfg.Admins = append(cfg.Admins, id)
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
