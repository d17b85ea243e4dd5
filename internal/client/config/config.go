// Package config loads client configuration from a YAML file, environment
// variables (prefix FAMBOARD) and built-in defaults, in that priority.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all client settings
type Config struct {
	ServerURL      string        // адрес удаленного сервиса
	DBPath         string        // путь к локальной BoltDB базе
	Token          string        // bearer токен доступа
	RequestTimeout time.Duration // таймаут одного HTTP запроса
	Debounce       time.Duration // пауза перед фоновой синхронизацией после правки
	BackoffInitial time.Duration // стартовый интервал повторов
	BackoffMax     time.Duration // потолок интервала повторов
	BackoffElapsed time.Duration // суммарный лимит повторов
}

// Load reads configuration. path may be empty: then $HOME/.famboard.yaml
// and ./.famboard.yaml are tried and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("db_path", "famboard-client.db")
	v.SetDefault("token", "")
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("debounce", "2s")
	v.SetDefault("backoff_initial", "1s")
	v.SetDefault("backoff_max", "60s")
	v.SetDefault("backoff_elapsed", "5m")

	v.SetEnvPrefix("FAMBOARD")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(".famboard")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			// Отсутствие файла не ошибка - работаем на умолчаниях
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	return &Config{
		ServerURL:      v.GetString("server_url"),
		DBPath:         v.GetString("db_path"),
		Token:          v.GetString("token"),
		RequestTimeout: v.GetDuration("request_timeout"),
		Debounce:       v.GetDuration("debounce"),
		BackoffInitial: v.GetDuration("backoff_initial"),
		BackoffMax:     v.GetDuration("backoff_max"),
		BackoffElapsed: v.GetDuration("backoff_elapsed"),
	}, nil
}
