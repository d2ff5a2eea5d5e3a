package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	EventChannelBase       string
	JWTSecret              string
	JWTRefreshSecret       string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	GitDaemonURL           string
	GitDaemonToken         string
	GitDaemonTimeout       time.Duration
	AnnouncementCacheTTL   time.Duration
	RatingStatsCacheTTL    time.Duration
	ProfilePhotoMaxMB      int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PRP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "PRP API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("events.channel_base", "prp")
	v.SetDefault("cloudinary.folder", "prp/avatars")
	v.SetDefault("git.daemon_timeout", "10s")
	v.SetDefault("announcements.cache_ttl", "1m")
	v.SetDefault("rating_stats.cache_ttl", "5m")
	v.SetDefault("profile.photo_max_mb", 5)

	gitTimeout, err := time.ParseDuration(v.GetString("git.daemon_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid git daemon timeout: %w", err)
	}

	announcementTTL, err := time.ParseDuration(v.GetString("announcements.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid announcement cache ttl: %w", err)
	}

	ratingTTL, err := time.ParseDuration(v.GetString("rating_stats.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid rating stats cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		EventChannelBase:       v.GetString("events.channel_base"),
		JWTSecret:              v.GetString("jwt.secret"),
		JWTRefreshSecret:       v.GetString("jwt.refresh_secret"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		GitDaemonURL:           v.GetString("git.daemon_url"),
		GitDaemonToken:         v.GetString("git.daemon_token"),
		GitDaemonTimeout:       gitTimeout,
		AnnouncementCacheTTL:   announcementTTL,
		RatingStatsCacheTTL:    ratingTTL,
		ProfilePhotoMaxMB:      v.GetInt("profile.photo_max_mb"),
	}

	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		return Config{}, fmt.Errorf("jwt secrets must be provided")
	}

	if cfg.ProfilePhotoMaxMB <= 0 {
		cfg.ProfilePhotoMaxMB = 5
	}

	return cfg, nil
}
