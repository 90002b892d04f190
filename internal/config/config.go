package config

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}
}

// Config holds all runtime settings, read from the environment.
type Config struct {
	DiscordToken      string `env:"DISCORD_TOKEN,required"`
	StoragePath       string `env:"STORAGE_PATH" envDefault:"datastore.json"`
	AIProvider        string `env:"AI_PROVIDER" envDefault:"pollinations"`
	Persona           string `env:"BOT_PERSONA"`
	InitSlashCommands bool   `env:"INIT_SLASH_COMMANDS" envDefault:"true"`

	// LiveSyncIntervalSec is how often the live coordinator reconciles
	// per-guild session jobs against their toggles.
	LiveSyncIntervalSec int `env:"LIVE_SYNC_INTERVAL" envDefault:"60"`
}

// New parses the environment into a Config. Missing required values are
// fatal, matching startup behavior elsewhere in the bot.
func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("[ERR] Config error: %v", err)
	}
	return cfg
}
