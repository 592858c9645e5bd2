// Package config loads the runtime settings consumed by the hashing registry
// and the signing helpers: the application secret key, the ordered password
// hasher list, and per-algorithm cost knobs.
//
// Settings come from an optional YAML file with environment-variable
// overrides (prefix "DJUTIL", e.g. DJUTIL_SECRET_KEY). Both sources are read
// once at startup; the hasher registry built from the result is immutable
// for the process lifetime, so changing the hasher list requires a restart.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/hasbyte1/go-django-utils/hashing"
)

// EnvPrefix is the environment variable prefix for overrides.
const EnvPrefix = "DJUTIL"

// ErrNoSecretKey is returned by [Config.Validate] when signing is requested
// without a configured secret key.
var ErrNoSecretKey = errors.New("config: secret_key is not set")

// Config carries every setting this module reads.
type Config struct {
	// SecretKey is the application secret used by the signing package.
	SecretKey string `mapstructure:"secret_key"`

	// PasswordHashers is the ordered algorithm list for the hashing registry;
	// the first entry is used for new passwords. Empty selects
	// [hashing.DefaultAlgorithms].
	PasswordHashers []string `mapstructure:"password_hashers"`

	// PBKDF2Iterations overrides the PBKDF2 iteration count for new hashes.
	PBKDF2Iterations int `mapstructure:"pbkdf2_iterations"`

	// BcryptCost overrides the bcrypt work factor for new hashes.
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// Default returns the built-in settings: no secret key, the default
// algorithm list, and each hasher's own cost defaults.
func Default() Config {
	return Config{PasswordHashers: hashing.DefaultAlgorithms}
}

// Load reads settings from the YAML file at path (skipped when path is
// empty) and applies environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("password_hashers", hashing.DefaultAlgorithms)
	v.SetDefault("pbkdf2_iterations", 0)
	v.SetDefault("bcrypt_cost", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	// AutomaticEnv does not feed Unmarshal for keys absent from the file, so
	// pick string and slice overrides up explicitly.
	if s := v.GetString("secret_key"); s != "" {
		cfg.SecretKey = s
	}
	if hs := v.GetStringSlice("password_hashers"); len(hs) > 0 {
		cfg.PasswordHashers = hs
	}
	return cfg, nil
}

// Validate checks invariants that hold for every use of the Config. The
// secret key is checked separately by [Config.ValidateSigning], because
// hashing-only deployments do not need one.
func (c Config) Validate() error {
	if len(c.PasswordHashers) == 0 {
		return errors.New("config: password_hashers must not be empty")
	}
	return nil
}

// ValidateSigning checks the settings signing operations require.
func (c Config) ValidateSigning() error {
	if c.SecretKey == "" {
		return ErrNoSecretKey
	}
	return nil
}

// Registry builds the hasher registry described by the Config. Construction
// is lazy: an unknown algorithm name in PasswordHashers surfaces on the
// registry's first use.
func (c Config) Registry() *hashing.Registry {
	return hashing.NewRegistry(hashing.Options{
		Algorithms:       c.PasswordHashers,
		PBKDF2Iterations: c.PBKDF2Iterations,
		BcryptCost:       c.BcryptCost,
	})
}
