package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Scalev
	ScalevBaseURL string
	ScalevAPIKey  string
	ScalevStoreID string

	// Webhooks
	WebhookSecret   string
	WebhookDedupTTL time.Duration

	// HTTP server
	ListenAddr string

	// Product detail fan-out
	DetailWorkers int

	// SFTP (catalog export)
	SFTPHost string
	SFTPPort int
	SFTPUser string
	SFTPPass string
	SFTPDir  string
}

func Load() Config {
	return Config{
		ScalevBaseURL: getenv("SCALEV_BASE_URL", "https://api.scalev.id/v2"),
		ScalevAPIKey:  os.Getenv("SCALEV_API_KEY"),
		ScalevStoreID: os.Getenv("SCALEV_STORE_ID"),

		WebhookSecret:   os.Getenv("SCALEV_WEBHOOK_SECRET"),
		WebhookDedupTTL: getenvDuration("WEBHOOK_DEDUP_TTL", 10*time.Minute),

		ListenAddr: getenv("LISTEN_ADDR", ":8080"),

		DetailWorkers: getenvInt("DETAIL_WORKERS", 10),

		SFTPHost: os.Getenv("SFTP_HOST"),
		SFTPPort: getenvInt("SFTP_PORT", 22),
		SFTPUser: os.Getenv("SFTP_USER"),
		SFTPPass: os.Getenv("SFTP_PASS"),
		SFTPDir:  getenv("SFTP_DIR", "/inbound"),
	}
}

// Validate checks the credentials needed to talk to Scalev at all.
// Missing values are fatal: every upstream call would fail anyway.
func (c Config) Validate() error {
	if c.ScalevAPIKey == "" {
		return errors.New("config: missing env SCALEV_API_KEY")
	}
	if c.ScalevStoreID == "" {
		return errors.New("config: missing env SCALEV_STORE_ID")
	}
	return nil
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
