package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName = "agencycheck"
	envPrefix  = "AGENCYCHECK"
)

type Config struct {
	DataPath       string `mapstructure:"-"`
	DBPath         string `mapstructure:"-"`
	CurriculumPath string `mapstructure:"-"`
	// ConfigFile is empty when no agencycheck.yaml was found.
	ConfigFile string `mapstructure:"-"`

	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Report ReportConfig `mapstructure:"report"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ReportConfig struct {
	CacheSize      int    `mapstructure:"cache_size"`
	DefaultWindow  string `mapstructure:"default_window"`
	ThemePolicy    string `mapstructure:"theme_policy"`
	CategoryPolicy string `mapstructure:"category_policy"`
	OverallPolicy  string `mapstructure:"overall_policy"`
}

// New resolves the data directory layout and layers agencycheck.yaml and
// AGENCYCHECK_* environment variables over the defaults.
func New(dataPath string) (Config, error) {
	if strings.TrimSpace(dataPath) == "" {
		return Config{}, fmt.Errorf("data path is required")
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dataPath)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DataPath = dataPath
	cfg.DBPath = filepath.Join(dataPath, ".agencycheck", "agencycheck.db")
	cfg.CurriculumPath = filepath.Join(dataPath, "curriculum.yaml")
	cfg.ConfigFile = v.ConfigFileUsed()
	if cfg.Report.CacheSize <= 0 {
		cfg.Report.CacheSize = 128
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "tint")
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("report.cache_size", 128)
	v.SetDefault("report.default_window", "trainingYear")
	v.SetDefault("report.theme_policy", "binary:2")
	v.SetDefault("report.category_policy", "binary:2")
	v.SetDefault("report.overall_policy", "graduated:3")
}
