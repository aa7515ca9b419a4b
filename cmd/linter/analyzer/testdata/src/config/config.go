package config

import "os"

type Config struct {
	ServerAddress string
	BaseURL       string
}

func New() *Config {
	cfg := &Config{
		ServerAddress: ":8080",
		BaseURL:       "http://localhost:8080",
	}

	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if base, ok := os.LookupEnv("BASE_URL"); ok {
		cfg.BaseURL = base
	}

	return cfg
}
