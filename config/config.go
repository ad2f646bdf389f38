package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port      string          `mapstructure:"port"`
	LogLevel  string          `mapstructure:"log_level"`
	LogPretty bool            `mapstructure:"log_pretty"`
	UploadDir string          `mapstructure:"upload_dir"`
	MongoURI  string          `mapstructure:"MONGODB_URI"`
	Database  string          `mapstructure:"database"`
	JWTSecret string          `mapstructure:"JWT_SECRET"`
	SignedURL SignedURLConfig `mapstructure:"signed_url"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
}

type SignedURLConfig struct {
	Secret     string `mapstructure:"SIGNED_URL_SECRET"`
	TTLSeconds int64  `mapstructure:"ttl_seconds"`
}

type PipelineConfig struct {
	Backend        string `mapstructure:"backend"`
	GeminiAPIKeys  string `mapstructure:"GEMINI_API_KEYS"`
	OpenAIAPIKey   string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL  string `mapstructure:"openai_base_url"`
	ExtractModel   string `mapstructure:"extract_model"`
	SynthesisModel string `mapstructure:"synthesis_model"`
	ChunkSize      int    `mapstructure:"chunk_size"`
}

// GeminiKeys splits the comma separated key list from the environment.
func (p PipelineConfig) GeminiKeys() []string {
	var keys []string
	for _, k := range strings.Split(p.GeminiAPIKeys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("database", "medicase")
	v.SetDefault("signed_url.ttl_seconds", 900)
	v.SetDefault("pipeline.backend", "gemini")
	v.SetDefault("pipeline.extract_model", "gemini-2.0-flash")
	v.SetDefault("pipeline.synthesis_model", "gemini-1.5-pro")
	v.SetDefault("pipeline.chunk_size", 50)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("MONGODB_URI")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("signed_url.SIGNED_URL_SECRET", "SIGNED_URL_SECRET")
	v.BindEnv("pipeline.GEMINI_API_KEYS", "GEMINI_API_KEYS")
	v.BindEnv("pipeline.OPENAI_API_KEY", "OPENAI_API_KEY")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
