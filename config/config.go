package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Exam         Exam
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

// Exam holds scoring and selection knobs the services read at runtime.
type Exam struct {
	// PassThreshold is the percent score treated as "passing" a domain when
	// weighting adaptive selection.
	PassThreshold float64
	// FreeTierQuestionLimit caps the question pool for callers without a
	// premium entitlement. 0 means no cap.
	FreeTierQuestionLimit int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("PASS_THRESHOLD", 70.0)
	viper.SetDefault("FREE_TIER_QUESTION_LIMIT", 0)

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

	config.Exam.PassThreshold = viper.GetFloat64("PASS_THRESHOLD")
	config.Exam.FreeTierQuestionLimit = viper.GetInt("FREE_TIER_QUESTION_LIMIT")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	log.Info().Str("port", config.Server.Port).Msg("Config loaded")
	return &config, nil
}
