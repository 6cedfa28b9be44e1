package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port int

	ProfilePath  string
	QuestLogPath string

	OpenAIKey   string
	OpenAIModel string

	LogMode string
}

// Load reads config.yaml when present and falls back to defaults.
// Environment variables (OPENAI_API_KEY, PORT, ...) win over both.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("server.port", 5000)
	v.SetDefault("data.profile_path", "data/user_data.csv")
	v.SetDefault("data.quest_log_path", "data/quest_log.csv")
	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("log.mode", "prod")

	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("openai.model", "OPENAI_MODEL")
	_ = v.BindEnv("log.mode", "LOG_MODE")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{
		Port:         v.GetInt("server.port"),
		ProfilePath:  v.GetString("data.profile_path"),
		QuestLogPath: v.GetString("data.quest_log_path"),
		OpenAIKey:    v.GetString("openai.api_key"),
		OpenAIModel:  v.GetString("openai.model"),
		LogMode:      v.GetString("log.mode"),
	}

	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	return cfg, nil
}
