package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config 服务配置，来源：.env 文件 + 环境变量（环境变量优先）
type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Shopee      ShopeeConfig
	JWT         JWTConfig
	LogLevel    string
}

// DatabaseConfig Postgres 连接配置
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ShopeeConfig 开放平台 partner 级配置
type ShopeeConfig struct {
	BaseURL    string
	PartnerID  int64
	PartnerKey string
	// PushSecret 校验 Shopee 推送签名；留空则跳过校验（仅限开发环境）
	PushSecret string
}

// JWTConfig 后台登录 JWT 配置
type JWTConfig struct {
	SecretKey string
	Issuer    string
}

// Load 加载配置
func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.AutomaticEnv()

	// .env 不存在也没关系，直接用环境变量
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "shopee_dash"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Shopee: ShopeeConfig{
			BaseURL:    strings.TrimSpace(getEnvOrViper("SHOPEE_BASE_URL", "")),
			PartnerID:  viper.GetInt64("SHOPEE_PARTNER_ID"),
			PartnerKey: strings.TrimSpace(getEnvOrViper("SHOPEE_PARTNER_KEY", "")),
			PushSecret: strings.TrimSpace(getEnvOrViper("SHOPEE_PUSH_SECRET", "")),
		},
		JWT: JWTConfig{
			SecretKey: getEnvOrViper("JWT_SECRET", "shopee-dash-secret-change-in-production"),
			Issuer:    getEnvOrViper("JWT_ISSUER", "shopee-dash"),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	if cfg.Shopee.PartnerID == 0 {
		return nil, fmt.Errorf("SHOPEE_PARTNER_ID is required")
	}
	if cfg.Shopee.PartnerKey == "" {
		return nil, fmt.Errorf("SHOPEE_PARTNER_KEY is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
