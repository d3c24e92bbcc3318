// Package cfgloader loads and validates the service configuration at startup.
package cfgloader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"

	envKey     = "ENVIRONMENT"
	dirEnvKey  = "CONFIG_DIR"
	defaultDir = "./config"
)

// MustLoad loads the configuration for the environment named by ENVIRONMENT
// from ${CONFIG_DIR:-./config}/${ENVIRONMENT}.yaml and exits the process when
// it is missing or invalid. A .env file in the working directory is loaded first.
//
// Fields map to the YAML document through `yaml` tags, take `default` tag values
// when absent, are checked with `validate` tags and are printed masked when
// tagged `mask:"true"`. ${VAR} references in the file are expanded from the
// environment.
//
//	type Config struct {
//	    Host     string `yaml:"host" validate:"required"`
//	    Port     int    `yaml:"port" default:"8080"`
//	    Password string `yaml:"password" mask:"true"`
//	}
func MustLoad[T any](opts ...Option) T {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	_ = godotenv.Load()

	env := os.Getenv(envKey)
	dir := os.Getenv(dirEnvKey)
	if dir == "" {
		dir = defaultDir
	}

	config, err := Load[T](dir, env)
	if err != nil {
		slog.Error("[cfgloader]: " + err.Error())
		os.Exit(1)
	}

	if !o.Silent {
		printConfig(config)
	}
	return config
}

// Load reads, expands, defaults and validates the configuration of env from dir.
func Load[T any](dir, env string) (T, error) {
	var config T

	if reflect.TypeOf(config) == nil || reflect.TypeOf(config).Kind() == reflect.Pointer {
		return config, fmt.Errorf("config type must be a struct, got %T", config)
	}

	if !slices.Contains([]string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}, env) {
		return config, fmt.Errorf(
			"%s env variable is not set or invalid (%q). Choices are: production, staging, dev, local, test",
			envKey, env,
		)
	}

	path := filepath.Join(dir, env+".yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, fmt.Errorf("config file not found in the path %s", path)
	}
	if err != nil {
		return config, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	if err = yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to unmarshal %s config file: %w", env, err)
	}

	if err = defaults.Set(&config); err != nil {
		return config, fmt.Errorf("failed to set default values for config: %w", err)
	}

	if err = validate(&config); err != nil {
		return config, fmt.Errorf("invalid fields in %s config -> %w", env, err)
	}

	return config, nil
}

func validate(config any) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(config)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors) //nolint: errorlint // validator returns the concrete type
	if !ok {
		return err
	}

	failed := make([]string, 0, len(errs))
	for _, fe := range errs {
		tag := fe.Tag()
		if fe.Param() != "" {
			tag += "=" + fe.Param()
		}
		failed = append(failed, fmt.Sprintf("%s: %s", fe.Namespace(), tag))
	}
	return fmt.Errorf("%s", strings.Join(failed, ",  "))
}
