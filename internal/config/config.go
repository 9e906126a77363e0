package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bradylowe/pinochle/internal/engine"
	"github.com/bradylowe/pinochle/internal/player"
)

const envPrefix = "PINOCHLE_"

// Config is the runtime configuration shared by every command.
type Config struct {
	Variant        string `json:"variant"`
	Bots           string `json:"bots"`
	Seed           uint64 `json:"seed"`
	WinningScore   int    `json:"winning_score"`
	MaxHands       int    `json:"max_hands"`
	PartnerScoring bool   `json:"partner_scoring"`
	Workers        int    `json:"workers"`
	Trials         int    `json:"trials"`
	Games          int    `json:"games"`
	LogLevel       string `json:"log_level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Variant:      engine.VariantSingle,
		Bots:         player.KindSimple,
		WinningScore: 150,
		MaxHands:     100,
		Trials:       200,
		Games:        100,
		LogLevel:     "info",
	}
}

// Load builds the configuration from defaults, then the JSON file at path (if
// path is not empty), then a .env file in the working directory, then the
// PINOCHLE_* environment.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := json.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(envPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = n
		return nil
	}

	str("VARIANT", &c.Variant)
	str("BOTS", &c.Bots)
	str("LOG_LEVEL", &c.LogLevel)
	for key, dst := range map[string]*int{
		"WINNING_SCORE": &c.WinningScore,
		"MAX_HANDS":     &c.MaxHands,
		"WORKERS":       &c.Workers,
		"TRIALS":        &c.Trials,
		"GAMES":         &c.Games,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	if v, ok := lookup(envPrefix + "SEED"); ok && v != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", envPrefix, err)
		}
		c.Seed = seed
	}
	if v, ok := lookup(envPrefix + "PARTNER_SCORING"); ok && v != "" {
		on, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sPARTNER_SCORING: %w", envPrefix, err)
		}
		c.PartnerScoring = on
	}
	return nil
}

// Validate checks the configuration against the known variants and bot kinds.
func (c Config) Validate() error {
	v, err := engine.VariantByName(c.Variant)
	if err != nil {
		return err
	}
	if c.PartnerScoring && !v.PartnerScoringAllowed {
		return fmt.Errorf("variant %s does not allow partner scoring", c.Variant)
	}
	if _, err := player.ByKind(c.Bots); err != nil {
		return err
	}
	if c.WinningScore < 0 || c.MaxHands < 0 || c.Workers < 0 {
		return errors.New("limits and worker counts must not be negative")
	}
	if c.WinningScore == 0 && c.MaxHands == 0 {
		return errors.New("set a winning score or a hand limit")
	}
	if c.Trials <= 0 || c.Games <= 0 {
		return errors.New("trials and games must be positive")
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// GameVariant resolves the configured variant.
func (c Config) GameVariant() engine.Variant {
	v, _ := engine.VariantByName(c.Variant)
	return v
}

// GameOptions turns the configuration into engine options.
func (c Config) GameOptions(logger *zap.Logger) []engine.Option {
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithWinningScore(c.WinningScore),
		engine.WithPartnerScoring(c.PartnerScoring),
	}
	if c.Seed != 0 {
		opts = append(opts, engine.WithSeed(c.Seed))
	}
	return opts
}

// Logger builds a development logger at the configured level.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = level
	return zc.Build()
}
