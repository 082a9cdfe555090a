package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	MongoURI     string
	Database     string
	Port         int
	ContactsFile string
	SessionTTL   time.Duration
}

// Load reads configuration from the environment with local-development
// fallbacks. Keys map to env vars by upper-casing (mongo_uri -> MONGO_URI).
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("database", "personal-notes-manager")
	v.SetDefault("port", 3000)
	v.SetDefault("contacts_file", "data/contacts.json")
	v.SetDefault("session_ttl", "24h")

	v.AutomaticEnv()

	ttl, err := time.ParseDuration(v.GetString("session_ttl"))
	if err != nil {
		return nil, err
	}

	return &Config{
		MongoURI:     v.GetString("mongo_uri"),
		Database:     v.GetString("database"),
		Port:         v.GetInt("port"),
		ContactsFile: v.GetString("contacts_file"),
		SessionTTL:   ttl,
	}, nil
}
