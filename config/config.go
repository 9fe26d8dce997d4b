package config

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Survey       Survey
	AdminIDs     []int64
	GeminiApiKey string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Survey struct {
	// WaveID labels the cohort new respondents are assigned to.
	WaveID string
	// MessageLimit caps outbound text chunks; Telegram-style transports cut
	// messages off around 4096 characters, so keep headroom.
	MessageLimit int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("WAVE_ID", "wave_1")
	viper.SetDefault("MESSAGE_LIMIT", 4000)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Survey.WaveID = viper.GetString("WAVE_ID")
	config.Survey.MessageLimit = viper.GetInt("MESSAGE_LIMIT")

	config.AdminIDs = parseAdminIDs(viper.GetString("ADMIN_IDS"))
	if len(config.AdminIDs) == 0 {
		log.Warn().Msg("ADMIN_IDS is empty; admin endpoints will reject every caller")
	}

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	log.Info().Str("wave", config.Survey.WaveID).Int("admins", len(config.AdminIDs)).Msg("Config loaded")
	return &config, nil
}

func parseAdminIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Warn().Str("value", part).Msg("Skipping malformed admin id")
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// IsAdmin reports whether the external user id is on the static
// administrator allow-list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
