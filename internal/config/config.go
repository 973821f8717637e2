package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from environment variables before mapping them onto
// Settings fields, e.g. FC_LEAGUE_KEY -> league_key.
const envPrefix = "FC_"

// Settings holds everything the CLI needs to talk to one Yahoo league.
type Settings struct {
	LeagueKey    string        `koanf:"league_key"    validate:"required"`
	DBPath       string        `koanf:"db_path"`
	OAuthFile    string        `koanf:"oauth_file"`
	RawRoot      string        `koanf:"raw_root"`
	PollInterval time.Duration `koanf:"poll_interval" validate:"min=1m"`
	LogLevel     string        `koanf:"log_level"     validate:"oneof=debug info warn error"`
	LogJSON      bool          `koanf:"log_json"`
}

func defaults() Settings {
	return Settings{
		DBPath:       "data/cache.sqlite",
		OAuthFile:    "data/yahoo_oauth.json",
		RawRoot:      "",
		PollInterval: 5 * time.Minute,
		LogLevel:     "info",
	}
}

// Load reads settings from defaults, an optional .env file, and FC_* env vars,
// then validates them. A missing .env is not an error.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			return key, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := validator.New().Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}
