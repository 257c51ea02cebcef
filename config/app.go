package config

import (
	"log"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName  string `mapstructure:"app_name"`
	Port     string `mapstructure:"port"`
	Env      string `mapstructure:"app_env"`
	Debug    bool   `mapstructure:"debug"`
	InitType string `mapstructure:"platform_init"`

	RedisAddr string `mapstructure:"redis_addr"`
	RedisPass string `mapstructure:"redis_pass"`

	DBDriver   string `mapstructure:"db_driver"`
	MySQLDSN   string `mapstructure:"mysql_dsn"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// defaults also tells viper which env vars to read.
var defaults = map[string]interface{}{
	"app_name":      "platform",
	"port":          "8080",
	"app_env":       "development",
	"debug":         false,
	"platform_init": "all",
	"redis_addr":    "",
	"redis_pass":    "",
	"db_driver":     "",
	"mysql_dsn":     "",
	"sqlite_path":   "platform.db",
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		cfg, err := Load(viper.New())
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		AppConfig = cfg
	})
}

// Load reads the configuration from the environment (and any config file
// already set on v) on top of the defaults.
func Load(v *viper.Viper) (*Config, error) {
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	settings := make(map[string]interface{}, len(defaults))
	for k := range defaults {
		settings[k] = v.Get(k)
	}
	cfg := &Config{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(settings); err != nil {
		return nil, err
	}
	return cfg, nil
}
