package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wheelibin/phuey/internal/config"
	"github.com/wheelibin/phuey/internal/phuey"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	flags := pflag.NewFlagSet("phuey", pflag.ExitOnError)
	flags.StringP("bridge", "b", "", "bridge IP address")
	flags.StringP("user", "u", "", "username issued by the bridge")
	flags.BoolP("verbose", "v", false, "log requests and responses")
	flags.String("device-type", "", "device type to register with --authorize")
	flags.Duration("timeout", 0, "bridge request timeout")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.String("presets-file", "", "TOML file of light state presets")
	flags.String("geo-location", "", "lat,lng used for sunrise and sunset")
	configFile := flags.String("config", "", "config file (default searches /etc/phuey, ~/.config/phuey and .)")

	var opts phuey.Options
	flags.BoolVar(&opts.Authorize, "authorize", false, "register with the bridge, press its link button first")
	flags.BoolVar(&opts.List, "list", false, "list everything on the bridge")
	flags.BoolVar(&opts.FindLights, "find-lights", false, "search for new lights")
	flags.StringSliceVarP(&opts.Lights, "light", "l", nil, "light ids or names, comma separated")
	flags.StringVarP(&opts.Group, "group", "g", "", "group id")
	flags.StringVarP(&opts.Scene, "scene", "s", "", "recall a scene by id or name")
	flags.StringVarP(&opts.Command, "command", "c", "", "state to send, e.g. on=true,bri=200,xy=0.3:0.4")
	flags.StringVarP(&opts.Preset, "preset", "p", "", "named state from the presets file")
	flags.StringVar(&opts.At, "at", "", "schedule the command at sunrise or sunset, e.g. sunset-30m")

	// ExitOnError handles parse failures
	_ = flags.Parse(os.Args[1:])

	v := viper.New()
	if err := config.BindFlags(v, flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.Load(v, *configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	logger.Debug("phuey starting", "bridge", cfg.BridgeIP)

	if err := phuey.NewPhuey(logger, cfg, os.Stdout).Run(opts); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *log.Logger {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	var out io.Writer = os.Stderr
	if cfg.LogFile != "" {
		out = &lumberjack.Logger{
			Filename: cfg.LogFile,
			MaxAge:   3,
		}
	}

	return log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: cfg.LogFile != "",
		TimeFormat:      "2006/01/02 15:04:05",
	})
}
