package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/Virv12/mpris-over-http/logger"
)

const (
	AppName     = "mpris-over-http"
	AppVersion  = "0.2.0"
	serviceType = "_http._tcp"
	domain      = "local."
)

type Config struct {
	Api      *ApiConfig
	MPRIS    *MPRISConfig
	Zeroconf *ZeroConfig
	LogLevel logger.Level
}

type ApiConfig struct {
	Enabled   bool
	Bind      string
	Port      int
	StaticDir string
	CORS      *CORSConfig

	// SSE tuning
	KeepAlive       time.Duration
	PositionRefresh time.Duration
}

type CORSConfig struct {
	Origins []string
}

type MPRISConfig struct {
	Timeout time.Duration
}

type ZeroConfig struct {
	Enabled      bool
	InstanceName string
	ServiceType  string
	Domain       string
	Port         int
	TxtRecords   []string
}

// Addr returns the listen address for the HTTP server.
func (c *ApiConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// parseLogLevel converts a string to a logger.Level
func parseLogLevel(levelStr string) logger.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return logger.DEBUG
	case "INFO":
		return logger.INFO
	case "WARN":
		return logger.WARN
	case "ERROR":
		return logger.ERROR
	case "FATAL":
		return logger.FATAL
	default:
		return logger.INFO // default
	}
}

func setDefaults() {
	viper.SetDefault("api.enabled", true)
	viper.SetDefault("api.port", 3000)
	viper.SetDefault("bind", "127.0.0.1")
	viper.SetDefault("static.dir", "")
	viper.SetDefault("cors.origins", []string{})

	viper.SetDefault("mpris.timeout", "5s")

	viper.SetDefault("sse.keepalive", "30s")
	viper.SetDefault("sse.position_refresh", "2s")

	viper.SetDefault("zeroconf.enabled", true)
	viper.SetDefault("LogLevel", "INFO")
}

func New() (*Config, error) {
	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(filepath.Join("/etc", AppName))
	viper.AddConfigPath(filepath.Join("$HOME", ".config", AppName))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with defaults if not found
		if _, isNotFound := err.(viper.ConfigFileNotFoundError); !isNotFound {
			logger.Warn("[config] failed to read config: %v", err)
		}
	}

	port := viper.GetInt("api.port")
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", port)
	}

	mprisTimeout := viper.GetDuration("mpris.timeout")
	if mprisTimeout <= 0 {
		mprisTimeout = 5 * time.Second
	}

	keepAlive := viper.GetDuration("sse.keepalive")
	if keepAlive <= 0 {
		keepAlive = 30 * time.Second
	}

	positionRefresh := viper.GetDuration("sse.position_refresh")
	if positionRefresh <= 0 {
		positionRefresh = 2 * time.Second
	}

	var cors *CORSConfig
	if origins := viper.GetStringSlice("cors.origins"); len(origins) > 0 {
		cors = &CORSConfig{Origins: origins}
	}

	apiCfg := ApiConfig{
		Enabled:         viper.GetBool("api.enabled"),
		Bind:            viper.GetString("bind"),
		Port:            port,
		StaticDir:       viper.GetString("static.dir"),
		CORS:            cors,
		KeepAlive:       keepAlive,
		PositionRefresh: positionRefresh,
	}

	mpriscfg := MPRISConfig{
		Timeout: mprisTimeout,
	}

	zerocfg := ZeroConfig{
		Enabled:      viper.GetBool("zeroconf.enabled"),
		InstanceName: AppName,
		ServiceType:  serviceType,
		Domain:       domain,
		Port:         port,
		TxtRecords:   []string{"version=" + AppVersion},
	}

	cfg := Config{
		Api:      &apiCfg,
		MPRIS:    &mpriscfg,
		Zeroconf: &zerocfg,
		LogLevel: parseLogLevel(viper.GetString("LogLevel")),
	}

	return &cfg, nil
}

// Watch reloads the log level when the config file changes on disk.
// Only the log level is applied live; everything else needs a restart.
func Watch() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		level := parseLogLevel(viper.GetString("LogLevel"))
		logger.SetLevel(level)
		logger.Info("[config] reloaded %s, log level set to %s", e.Name, viper.GetString("LogLevel"))
	})
	viper.WatchConfig()
}
