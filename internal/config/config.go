package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Network   NetworkConfig   `toml:"network"`
	Arena     ArenaConfig     `toml:"arena"`
	Database  DatabaseConfig  `toml:"database"`
	Scripting ScriptingConfig `toml:"scripting"`
	Logging   LoggingConfig   `toml:"logging"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	StartTime int64  // set at boot, not from config
}

type NetworkConfig struct {
	BindHost       string        `toml:"bind_host"`
	Port           int           `toml:"port"` // PORT env overrides
	TickRate       time.Duration `toml:"tick_rate"`
	OutQueueSize   int           `toml:"out_queue_size"`
	WriteTimeout   time.Duration `toml:"write_timeout"`
	ReadTimeout    time.Duration `toml:"read_timeout"`
	PingInterval   time.Duration `toml:"ping_interval"`
	MaxMessageSize int64         `toml:"max_message_size"`
	MessagesPerSec int           `toml:"messages_per_second"` // 0 = unlimited
	Codec          string        `toml:"codec"`      // "json" or "msgpack"
	StaticDir      string        `toml:"static_dir"` // empty = no static files
	AllowedOrigins []string      `toml:"allowed_origins"`
}

// Addr returns the host:port the HTTP listener binds to.
func (n NetworkConfig) Addr() string {
	return fmt.Sprintf("%s:%d", n.BindHost, n.Port)
}

type ArenaConfig struct {
	TuningPath string `toml:"tuning_path"` // yaml; missing file = built-in constants
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty disables the kill log
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	FlushInterval   time.Duration `toml:"flush_interval"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads an optional .env file and the TOML config at path. A missing config
// file leaves the defaults in place. PORT from the environment wins over the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if p := os.Getenv("PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid PORT %q", p)
		}
		cfg.Network.Port = port
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	return nil
}

func (c *Config) validate() error {
	if c.Network.TickRate <= 0 {
		return fmt.Errorf("network.tick_rate must be positive, got %s", c.Network.TickRate)
	}
	if c.Database.DSN != "" && c.Database.FlushInterval <= 0 {
		return fmt.Errorf("database.flush_interval must be positive, got %s", c.Database.FlushInterval)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "stickman-arena",
		},
		Network: NetworkConfig{
			BindHost:       "0.0.0.0",
			Port:           3000,
			TickRate:       time.Second / 30,
			OutQueueSize:   64,
			WriteTimeout:   10 * time.Second,
			ReadTimeout:    60 * time.Second,
			PingInterval:   25 * time.Second,
			MaxMessageSize: 1 << 16,
			MessagesPerSec: 240,
			Codec:          "json",
			StaticDir:      "public",
			AllowedOrigins: []string{"*"},
		},
		Arena: ArenaConfig{
			TuningPath: "data/yaml/arena.yaml",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
			FlushInterval:   5 * time.Second,
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
