package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env  string `env:"APP_ENV" env-default:"development"`
		Port int    `env:"APP_PORT" env-default:"8080"`
	}
	Sentry struct {
		DSN string `env:"SENTRY_DSN"`
	}
	Playback struct {
		// Minimum percentage of an item's height that must be visible
		// before the scroll surface reports it as viewable.
		VisibilityThreshold int           `env:"PLAYBACK_VISIBILITY_THRESHOLD" env-default:"50"`
		DoubleTapWindow     time.Duration `env:"PLAYBACK_DOUBLE_TAP_WINDOW" env-default:"300ms"`
	}
	Compose struct {
		MaxImages        int           `env:"COMPOSE_MAX_IMAGES" env-default:"5"`
		MaxVideoDuration time.Duration `env:"COMPOSE_MAX_VIDEO_DURATION" env-default:"60s"`
		ToastDuration    time.Duration `env:"COMPOSE_TOAST_DURATION" env-default:"2s"`
	}
	Recorder struct {
		MinDuration time.Duration `env:"RECORDER_MIN_DURATION" env-default:"1s"`
	}
	Submit struct {
		RatePer time.Duration `env:"SUBMIT_RATE_PER" env-default:"5s"`
		Burst   int           `env:"SUBMIT_BURST" env-default:"3"`
	}
	Refresher struct {
		MinInterval time.Duration `env:"REFRESHER_MIN_INTERVAL" env-default:"1m"`
		MaxInterval time.Duration `env:"REFRESHER_MAX_INTERVAL" env-default:"2m"`
		PoolSize    int           `env:"REFRESHER_POOL_SIZE" env-default:"5"`
	}
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadConfig(".env", cfg); err != nil {
		// No .env file in most deployments, fall back to the process environment.
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
