package config

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config is read from BOSS_* environment variables
type Config struct {
	Addr              string        `env:"BOSS_ADDR,default=:8000"`
	AllowedOrigins    string        `env:"BOSS_ALLOWED_ORIGINS,default=*"`
	LogLevel          string        `env:"BOSS_LOG_LEVEL,default=info"`
	DevLogging        bool          `env:"BOSS_DEV_LOGGING,default=false"`
	Seed              int64         `env:"BOSS_SEED,default=0"`
	RoomSweepInterval time.Duration `env:"BOSS_ROOM_SWEEP_INTERVAL,default=5m"`
	MaxMessageBytes   int64         `env:"BOSS_MAX_MESSAGE_BYTES,default=4096"`
}

// Load decodes the environment and checks the result
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("could not read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("BOSS_ADDR must not be empty")
	}
	if c.RoomSweepInterval <= 0 {
		return fmt.Errorf("BOSS_ROOM_SWEEP_INTERVAL must be positive, got %s", c.RoomSweepInterval)
	}
	if c.MaxMessageBytes <= 0 {
		return fmt.Errorf("BOSS_MAX_MESSAGE_BYTES must be positive, got %d", c.MaxMessageBytes)
	}
	return nil
}

// Origins splits AllowedOrigins. A "*" entry allows every origin.
func (c Config) Origins() []string {
	origins := []string{}
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Rand is seeded from Seed, or from the clock when Seed is 0
func (c Config) Rand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
