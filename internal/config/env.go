package config

import (
	"fmt"
	"time"

	"github.com/AlexZinkM/walletkeeper/internal/crypto"
	"github.com/AlexZinkM/walletkeeper/internal/store"
	"github.com/AlexZinkM/walletkeeper/internal/tier"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the application.
// Passwords are never configured: they arrive per request or are prompted
// by the CLI.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	Store      string `envconfig:"WALLET_STORE" default:"file"` // file, sqlite or memory
	Dir        string `envconfig:"WALLET_DIR" default:"wallets"`
	SQLitePath string `envconfig:"WALLET_SQLITE_PATH" default:"walletkeeper.db"`
	Medium     string `envconfig:"WALLET_MEDIUM" default:"local"` // local, companion or hardware

	SessionLifetime time.Duration `envconfig:"SESSION_LIFETIME" default:"15m"`

	KDF            string `envconfig:"KDF" default:"scrypt"`
	Cipher         string `envconfig:"CIPHER" default:"aes-256-gcm"`
	ScryptN        int    `envconfig:"SCRYPT_N" default:"262144"`
	ScryptR        int    `envconfig:"SCRYPT_R" default:"8"`
	ScryptP        int    `envconfig:"SCRYPT_P" default:"1"`
	Argon2Time     uint32 `envconfig:"ARGON2_TIME" default:"3"`
	Argon2MemoryKB uint32 `envconfig:"ARGON2_MEMORY_KB" default:"65536"`
	Argon2Threads  uint8  `envconfig:"ARGON2_THREADS" default:"4"`

	MinPasswordLength    int  `envconfig:"MIN_PASSWORD_LENGTH" default:"0"`
	ConcealMissingWallet bool `envconfig:"CONCEAL_MISSING_WALLET" default:"false"`

	EntropySampleCap     int           `envconfig:"ENTROPY_SAMPLE_CAP" default:"64"`
	EntropySampleTimeout time.Duration `envconfig:"ENTROPY_SAMPLE_TIMEOUT" default:"30s"`

	Ledger        string `envconfig:"LEDGER" default:"solana"` // solana or fake
	SolanaRPCURL  string `envconfig:"SOLANA_RPC_URL" default:"https://api.mainnet-beta.solana.com"`
	PriceCurrency string `envconfig:"PRICE_CURRENCY" default:""`
	CoinGeckoURL  string `envconfig:"COINGECKO_URL" default:""`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// Load reads and validates configuration from environment variables
// without touching the global instance.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the values envconfig cannot.
func (c *Config) Validate() error {
	switch c.Store {
	case store.KindFile, store.KindSQLite, store.KindMemory:
	default:
		return fmt.Errorf("WALLET_STORE must be file, sqlite or memory, got %q", c.Store)
	}
	if _, err := tier.ParseMedium(c.Medium); err != nil {
		return fmt.Errorf("WALLET_MEDIUM: %w", err)
	}
	if c.SessionLifetime <= 0 {
		return fmt.Errorf("SESSION_LIFETIME must be positive")
	}
	if err := c.CodecParams().Validate(); err != nil {
		return fmt.Errorf("invalid encryption settings: %w", err)
	}
	if c.MinPasswordLength < 0 {
		return fmt.Errorf("MIN_PASSWORD_LENGTH must not be negative")
	}
	switch c.Ledger {
	case "solana", "fake":
	default:
		return fmt.Errorf("LEDGER must be solana or fake, got %q", c.Ledger)
	}
	return nil
}

// CodecParams returns the encryption parameters for new secrets.
func (c *Config) CodecParams() crypto.Params {
	return crypto.Params{
		KDF:    c.KDF,
		Cipher: c.Cipher,
		Scrypt: crypto.ScryptParams{N: c.ScryptN, R: c.ScryptR, P: c.ScryptP},
		Argon2: crypto.Argon2Params{Time: c.Argon2Time, MemoryKB: c.Argon2MemoryKB, Threads: c.Argon2Threads},
	}
}

// StoreOptions returns the options for store.Open.
func (c *Config) StoreOptions() store.Options {
	medium, _ := tier.ParseMedium(c.Medium)
	return store.Options{
		Kind:       c.Store,
		Dir:        c.Dir,
		SQLitePath: c.SQLitePath,
		Medium:     medium,
	}
}
