package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/maccessmap/backend/config"
)

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env: getEnv("ENV", "dev"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "maccessmap"),
			User:     getEnv("MYSQL_USER", "maccessmap"),
			Password: getEnv("MYSQL_PASSWORD", "secret"),
		},
		ApiServer: config.ServerConfigs{
			Host:           getEnv("HOST", ""),
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
			MaxLimit:       getEnvInt("API_MAX_LIMIT", 50),
			DefaultLimit:   getEnvInt("API_DEFAULT_LIMIT", 10),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token_secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: getEnvDuration("ACCESS_TOKEN_DURATION", time.Hour),
			},
			RefreshToken: config.TokenConfigs{
				Name:       "refresh_token",
				Expiration: getEnvDuration("REFRESH_TOKEN_DURATION", 20*24*time.Hour),
			},
			Google: config.OAuth2Config{
				Name:     "google",
				Issuer:   "https://accounts.google.com",
				ClientID: getEnv("GOOGLE_CLIENT_ID", ""),
				IDField:  "email",
			},
		},
		Session: config.SessionConfigs{
			Secret: getEnv("SESSION_SECRET", "session_secret"),
			Name:   "auth_session",
		},
		Storage: config.S3Configs{
			Region:         getEnv("STORAGE_REGION", "auto"),
			Endpoint:       getEnv("STORAGE_ENDPOINT", ""),
			PublicEndpoint: getEnv("STORAGE_PUBLIC_ENDPOINT", ""),
			AccessKey:      getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:      getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:         getEnv("STORAGE_BUCKET", "maccessmap"),
			SSLDisabled:    getEnv("STORAGE_SSL_DISABLE", "false") == "true",
		},
		File: config.FileConfigs{
			MaxSize: int64(getEnvInt("MAX_UPLOAD_SIZE", 5*1024*1024)),
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDRESS", "localhost:6379"),
		},
		Pinata: config.PinataConfigs{
			Token:   getEnv("PINATA_TOKEN", ""),
			Gateway: getEnv("PINATA_GATEWAY", "https://gateway.pinata.cloud"),
		},
		Classifier: config.ClassifierConfigs{
			URL:   getEnv("CLASSIFIER_URL", "https://api-inference.huggingface.co"),
			Token: getEnv("CLASSIFIER_TOKEN", ""),
			Model: getEnv("CLASSIFIER_MODEL", "facebook/bart-large-mnli"),
		},
		Geocoder: config.GeocoderConfigs{
			URL: getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		},
		Eth:   s.loadEthConfig(),
		Badge: config.BadgeConfigs{
			MintTimeout: getEnvDuration("MINT_TIMEOUT", 2*time.Minute),
		},
	}
}

func (s *srv) loadEthConfig() config.EthConfigs {
	cfg := config.EthConfigs{}
	if path := os.Getenv("ETH_CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			panic(err)
		}
	}

	cfg.PrivateKey = os.Getenv("ETH_PRIVATE_KEY")
	return cfg
}
