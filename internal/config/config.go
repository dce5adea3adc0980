package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"module-keeper/internal/env"

	"github.com/spf13/viper"
)

/**
 * Server configuration parameters
 * @property {string} address - Server listening address (e.g. ":8080")
 * @property {string} mode - Application mode (debug/release/test)
 * @property {string} socket - Optional unix socket path served next to the TCP address
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"`
	Socket  string `mapstructure:"socket"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

/**
 * Module repository and presentation settings
 * @property {string} working_dir - Project root holding the package index and vendor dir
 * @property {string} index_file - Available-package index, relative to working_dir
 * @property {string} installed_file - Composer installed.json, relative to working_dir
 * @property {int} client_port - Port of the module-client daemon that performs installs
 * @property {string} default_logo - Logo asset reported for every module
 * @property {string} extra_key - Key of the module block inside a version's extra metadata
 * @property {string} latest_strategy - "key" (ascending key sort) or "semver"
 */
type ModuleConfig struct {
	WorkingDir     string `mapstructure:"working_dir"`
	IndexFile      string `mapstructure:"index_file"`
	InstalledFile  string `mapstructure:"installed_file"`
	ClientPort     int    `mapstructure:"client_port"`
	DefaultLogo    string `mapstructure:"default_logo"`
	ExtraKey       string `mapstructure:"extra_key"`
	LatestStrategy string `mapstructure:"latest_strategy"`
}

// AuthConfig guards the action API with HS256 bearer tokens when JWTSecret is set
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type AppConfig struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Module ModuleConfig `mapstructure:"module"`
	Auth   AuthConfig   `mapstructure:"auth"`
}

const (
	DefaultClientPort  = 8021
	DefaultLogo        = "/bundles/moderabackendmodule/images/default.png"
	DefaultExtraKey    = "modera-module"
	DefaultIndexFile   = "packages.json"
	DefaultInstalled   = "vendor/composer/installed.json"
	DefaultServerAddr  = ":8080"
	DefaultLatestOrder = "key"
)

var ErrInvalidConfig = errors.New("invalid configuration")

var (
	Config     AppConfig
	configLock sync.Mutex
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", DefaultServerAddr)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.socket", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "console")
	v.SetDefault("module.working_dir", ".")
	v.SetDefault("module.index_file", DefaultIndexFile)
	v.SetDefault("module.installed_file", DefaultInstalled)
	v.SetDefault("module.client_port", DefaultClientPort)
	v.SetDefault("module.default_logo", DefaultLogo)
	v.SetDefault("module.extra_key", DefaultExtraKey)
	v.SetDefault("module.latest_strategy", DefaultLatestOrder)
}

/**
 * Load application configuration from YAML file
 * @param {string} file - Explicit config file, empty to search "." and the keeper dir
 * @returns {*AppConfig} Parsed configuration with defaults applied
 * @description
 * - A missing config file is not an error, defaults and MODULE_KEEPER_* env vars apply
 */
func LoadConfig(file string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("MODULE_KEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(env.KeeperDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the module facade cannot work with
func (c *AppConfig) Validate() error {
	if c.Module.ClientPort <= 0 || c.Module.ClientPort > 65535 {
		return fmt.Errorf("%w: module.client_port %d out of range", ErrInvalidConfig, c.Module.ClientPort)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("%w: server.mode must be debug, release or test, got '%s'", ErrInvalidConfig, c.Server.Mode)
	}
	switch c.Module.LatestStrategy {
	case "key", "semver":
	default:
		return fmt.Errorf("%w: module.latest_strategy must be 'key' or 'semver', got '%s'",
			ErrInvalidConfig, c.Module.LatestStrategy)
	}
	return nil
}

// IndexPath returns the absolute-or-relative path of the available-package index
func (m ModuleConfig) IndexPath() string {
	return joinWorkingDir(m.WorkingDir, m.IndexFile)
}

// InstalledPath returns the path of the installed-package list
func (m ModuleConfig) InstalledPath() string {
	return joinWorkingDir(m.WorkingDir, m.InstalledFile)
}

func joinWorkingDir(dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}

var configFile string

// Get returns a copy of the active configuration
func Get() AppConfig {
	configLock.Lock()
	defer configLock.Unlock()
	return Config
}

/**
 * Initialize global configuration
 * @param {string} file - Explicit config file, empty for the default search path
 * @returns {error} Returns error if the file exists but cannot be parsed
 */
func InitConfig(file string) error {
	cfg, err := LoadConfig(file)
	if err != nil {
		return err
	}
	configLock.Lock()
	defer configLock.Unlock()
	configFile = file
	Config = *cfg
	return nil
}

/**
 * Reload configuration from the file used by InitConfig
 * @returns {error} Returns error if reloading fails, the previous config stays active
 */
func ReloadConfig() error {
	configLock.Lock()
	file := configFile
	configLock.Unlock()

	cfg, err := LoadConfig(file)
	if err != nil {
		return err
	}
	configLock.Lock()
	defer configLock.Unlock()
	Config = *cfg
	return nil
}
