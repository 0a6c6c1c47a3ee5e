package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"node-manager/pkg/utils"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	CORS    CORSConfig    `yaml:"cors"`
	Store   StoreConfig   `yaml:"store"`
	Node    NodeConfig    `yaml:"node"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`
	Mode         string `yaml:"mode"`
}

type CORSConfig struct {
	Enabled      bool     `yaml:"enabled"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type StoreConfig struct {
	DataDir         string `yaml:"data_dir"`
	CredentialFile  string `yaml:"credential_file"`
	SetupMarkerFile string `yaml:"setup_marker_file"`
}

// NodeConfig holds the external commands. Timeouts are seconds; 0 disables.
// Env entries are KEY=VALUE pairs added to the daemon's own environment.
type NodeConfig struct {
	Shell          string   `yaml:"shell"`
	WorkDir        string   `yaml:"work_dir"`
	Env            []string `yaml:"env"`
	StatusCommand  string   `yaml:"status_command"`
	SetupCommand   string   `yaml:"setup_command"`
	RestartCommand string   `yaml:"restart_command"`
	CommandTimeout int      `yaml:"command_timeout"`
	SetupTimeout   int      `yaml:"setup_timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			ReadTimeout: 30,
			Mode:        "release",
		},
		CORS: CORSConfig{
			Enabled:      true,
			AllowOrigins: []string{"*"},
		},
		Store: StoreConfig{
			DataDir:         ".",
			CredentialFile:  "api_key.txt",
			SetupMarkerFile: "setup_complete.txt",
		},
		Node: NodeConfig{
			Shell:          "/bin/sh",
			StatusCommand:  "sudo gala-node status",
			SetupCommand:   "sudo ./setup.sh",
			RestartCommand: "pm2 restart node-manager",
			CommandTimeout: 60,
			SetupTimeout:   300,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig starts from Default, overlays the YAML file at path (if any),
// then environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Server.Host = getEnvAsString("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsInt("SERVER_PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getEnvAsInt("READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.Mode = getEnvAsString("GIN_MODE", cfg.Server.Mode)

	cfg.CORS.Enabled = getEnvAsBool("CORS_ENABLED", cfg.CORS.Enabled)
	cfg.CORS.AllowOrigins = getEnvAsSlice("CORS_ALLOW_ORIGINS", cfg.CORS.AllowOrigins)

	cfg.Store.DataDir = getEnvAsString("DATA_DIR", cfg.Store.DataDir)
	cfg.Store.CredentialFile = getEnvAsString("CREDENTIAL_FILE", cfg.Store.CredentialFile)
	cfg.Store.SetupMarkerFile = getEnvAsString("SETUP_MARKER_FILE", cfg.Store.SetupMarkerFile)

	cfg.Node.Shell = getEnvAsString("SHELL_PATH", cfg.Node.Shell)
	cfg.Node.WorkDir = getEnvAsString("NODE_WORK_DIR", cfg.Node.WorkDir)
	cfg.Node.Env = getEnvAsSlice("NODE_COMMAND_ENV", cfg.Node.Env)
	cfg.Node.StatusCommand = getEnvAsString("STATUS_COMMAND", cfg.Node.StatusCommand)
	cfg.Node.SetupCommand = getEnvAsString("SETUP_COMMAND", cfg.Node.SetupCommand)
	cfg.Node.RestartCommand = getEnvAsString("RESTART_COMMAND", cfg.Node.RestartCommand)
	cfg.Node.CommandTimeout = getEnvAsInt("COMMAND_TIMEOUT", cfg.Node.CommandTimeout)
	cfg.Node.SetupTimeout = getEnvAsInt("SETUP_TIMEOUT", cfg.Node.SetupTimeout)

	cfg.Logging.Level = getEnvAsString("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnvAsString("LOG_FORMAT", cfg.Logging.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := utils.ValidatePort(c.Server.Port); err != nil {
		return err
	}
	if strings.TrimSpace(c.Node.StatusCommand) == "" ||
		strings.TrimSpace(c.Node.SetupCommand) == "" ||
		strings.TrimSpace(c.Node.RestartCommand) == "" {
		return fmt.Errorf("status, setup and restart commands are required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server mode %q", c.Server.Mode)
	}
	if c.Node.CommandTimeout < 0 || c.Node.SetupTimeout < 0 {
		return fmt.Errorf("command timeouts must not be negative")
	}
	for _, kv := range c.Node.Env {
		if k, _, ok := strings.Cut(kv, "="); !ok || k == "" {
			return fmt.Errorf("node env entry %q is not KEY=VALUE", kv)
		}
	}
	return nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeout) * time.Second
}

// WriteTimeout defaults to the longest command timeout plus some headroom so
// a response is never cut off while a command is still running.
func (c *Config) WriteTimeout() time.Duration {
	if c.Server.WriteTimeout > 0 {
		return time.Duration(c.Server.WriteTimeout) * time.Second
	}
	if c.Node.CommandTimeout == 0 || c.Node.SetupTimeout == 0 {
		return 0
	}
	longest := max(c.Node.CommandTimeout, c.Node.SetupTimeout)
	return time.Duration(longest+10) * time.Second
}

func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.Node.CommandTimeout) * time.Second
}

func (c *Config) SetupTimeout() time.Duration {
	return time.Duration(c.Node.SetupTimeout) * time.Second
}

func getEnvAsString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
