package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turbekoff/calckeys/pkg/env"
)

type Config struct {
	BotToken              string        `yaml:"telegram_token" env:"CALCBOT_TELEGRAM_TOKEN,required"`
	BotOffset             int           `yaml:"telegram_offset" env:"CALCBOT_TELEGRAM_OFFSET" env-default:"20"`
	BotTimeout            int           `yaml:"telegram_timeout" env:"CALCBOT_TELEGRAM_TIMEOUT" env-default:"60"`
	SessionTTLTimeout     time.Duration `yaml:"session_ttl_timeout" env:"CALCBOT_SESSION_TTL_TIMEOUT" env-default:"20m"`
	SessionCleanupTimeout time.Duration `yaml:"session_cleanup_timeout" env:"CALCBOT_SESSION_CLEANUP_TIMEOUT" env-default:"1m"`
	ShutdownTimeout       time.Duration `yaml:"shutdown_timeout" env:"CALCBOT_SHUTDOWN_TIMEOUT" env-default:"2m"`
	Precision             int           `yaml:"precision" env:"CALCBOT_PRECISION" env-default:"40"`
}

const configFileEnv = "CALCBOT_CONFIG_FILE"

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.ReadFile(os.Getenv(configFileEnv), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config, error: %v\n", err)
	}

	bot, err := LoadBot(config, log.Default())
	if err != nil {
		log.Fatalf("failed to connect telegram, error: %v\n", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Println("starting calculator bot")
		if err := bot.Run(); !errors.Is(err, ErrClosed) {
			log.Printf("failed to start calculator bot, error: %s\n", err)
		}
		quit <- os.Interrupt
	}()

	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	log.Println("stopping calculator bot")
	if err := bot.Shutdown(ctx); err != nil {
		log.Printf("failed to graceful shutdown calculator bot, error: %s\n", err)
	}
	log.Println("calculator bot stopped")
}
