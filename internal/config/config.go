package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wheelibin/phuey/internal/constants"
)

type Config struct {
	BridgeIP    string        `mapstructure:"bridgeIp"`
	Username    string        `mapstructure:"username"`
	DeviceType  string        `mapstructure:"deviceType"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Verbose     bool          `mapstructure:"verbose"`
	LogFile     string        `mapstructure:"logFile"`
	PresetsFile string        `mapstructure:"presetsFile"`
	GeoLocation string        `mapstructure:"geoLocation"`
	SunriseMin  string        `mapstructure:"sunriseMin"`
	SunriseMax  string        `mapstructure:"sunriseMax"`
	SunsetMin   string        `mapstructure:"sunsetMin"`
	SunsetMax   string        `mapstructure:"sunsetMax"`
}

var keys = []string{
	"bridgeIp", "username", "deviceType", "timeout", "verbose", "logFile", "presetsFile",
	"geoLocation", "sunriseMin", "sunriseMax", "sunsetMin", "sunsetMax",
}

// flag name -> config key
var flagKeys = map[string]string{
	"bridge":       "bridgeIp",
	"user":         "username",
	"device-type":  "deviceType",
	"timeout":      "timeout",
	"verbose":      "verbose",
	"log-file":     "logFile",
	"presets-file": "presetsFile",
	"geo-location": "geoLocation",
}

// BindFlags makes set flags override the config file and environment.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the config file, PHUEY_* environment variables and bound flags,
// in increasing order of precedence. configFile overrides the search path;
// without it a missing config file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	v.SetDefault("deviceType", constants.DefaultDeviceType)
	v.SetDefault("timeout", constants.DefaultTimeout)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")               // name of config file (without extension)
		v.AddConfigPath("/etc/phuey/")          // path to look for the config file in
		v.AddConfigPath("$HOME/.config/phuey/") // call multiple times to add many search paths
		v.AddConfigPath(".")                    // optionally look for config in the working directory
	}

	v.SetEnvPrefix("PHUEY")
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}
