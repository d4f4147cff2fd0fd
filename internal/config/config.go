// Package config loads the optional .toks.toml configuration file and the
// supplementary per-language keyword/type override profile.
package config

import "github.com/spf13/viper"

// Config holds the defaults toks reads from .toks.toml. IndexPath,
// SeverityMask, ShowSeverity and DefaultLanguage have CLI flag
// equivalents (-i, -L, -s, -l), and the flag wins when it is set;
// LogFormat, LogLevel and LangProfile are set only here. Environment
// variables are not read.
type Config struct {
	IndexPath       string `mapstructure:"indexPath"`
	LogFormat       string `mapstructure:"logFormat"`
	LogLevel        string `mapstructure:"logLevel"`
	SeverityMask    string `mapstructure:"severityMask"`
	ShowSeverity    bool   `mapstructure:"showSeverity"`
	DefaultLanguage string `mapstructure:"defaultLanguage"`
	LangProfile     string `mapstructure:"langProfile"`
}

// DefaultConfig returns the configuration toks uses when no .toks.toml is
// present.
func DefaultConfig() *Config {
	return &Config{
		IndexPath:       "TOKS",
		LogFormat:       "human",
		LogLevel:        "info",
		SeverityMask:    "A",
		ShowSeverity:    false,
		DefaultLanguage: "C",
		LangProfile:     "",
	}
}

// Load reads .toks.toml from dir (the working directory the tool was
// invoked from), falling back to DefaultConfig when the file is absent.
func Load(dir string) (*Config, error) {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("indexPath", def.IndexPath)
	v.SetDefault("logFormat", def.LogFormat)
	v.SetDefault("logLevel", def.LogLevel)
	v.SetDefault("severityMask", def.SeverityMask)
	v.SetDefault("showSeverity", def.ShowSeverity)
	v.SetDefault("defaultLanguage", def.DefaultLanguage)
	v.SetDefault("langProfile", def.LangProfile)

	v.SetConfigName(".toks")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
