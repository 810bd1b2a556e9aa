package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Ozon    OzonConfig    `yaml:"ozon"`
	Bedrock BedrockConfig `yaml:"bedrock"`
	Engine  EngineConfig  `yaml:"engine"`
	RunLog  RunLogConfig  `yaml:"run_log"`
	Policy  PolicyConfig  `yaml:"policy"`
}

// OzonConfig holds Ozon Seller API credentials and connection settings
type OzonConfig struct {
	ClientID       string `yaml:"client_id"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c OzonConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BedrockConfig holds AWS Bedrock configuration for AI reply generation.
// AccessKey/SecretKey are optional; when empty the default credential
// chain is used (IAM role, shared profile).
type BedrockConfig struct {
	Region         string `yaml:"region"`
	ModelID        string `yaml:"model_id"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Enabled        bool   `yaml:"enabled"`
}

// Timeout returns the configured timeout as a duration
func (c BedrockConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// EngineConfig holds review processing defaults
type EngineConfig struct {
	Limit                 int  `yaml:"limit"`
	DelayMS               int  `yaml:"delay_ms"`
	RatingMin             int  `yaml:"rating_min"`
	RatingMax             int  `yaml:"rating_max"`
	PhotoLaneIncludesText bool `yaml:"photo_lane_includes_text"`
}

// Delay returns the pause between successive write calls
func (c EngineConfig) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// RunLogConfig holds run log storage settings.
// Type is "local" or "s3"; "s3" writes locally and mirrors each record
// to the configured bucket.
type RunLogConfig struct {
	Type      string `yaml:"type"`
	LocalPath string `yaml:"local_path"`
	S3Bucket  string `yaml:"s3_bucket"`
	S3Region  string `yaml:"s3_region"`
}

// PolicyConfig holds the company policy document location
type PolicyConfig struct {
	Path string `yaml:"path"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Ozon.BaseURL == "" {
		c.Ozon.BaseURL = "https://api-seller.ozon.ru"
	}
	if c.Ozon.TimeoutSeconds == 0 {
		c.Ozon.TimeoutSeconds = 30
	}
	if c.Bedrock.Region == "" {
		c.Bedrock.Region = "us-east-1"
	}
	if c.Bedrock.ModelID == "" {
		c.Bedrock.ModelID = "anthropic.claude-3-sonnet-20240229-v1:0"
	}
	if c.Bedrock.MaxTokens == 0 {
		c.Bedrock.MaxTokens = 4000
	}
	if c.Bedrock.TimeoutSeconds == 0 {
		c.Bedrock.TimeoutSeconds = 60
	}
	if c.Engine.Limit == 0 {
		c.Engine.Limit = 100
	}
	if c.Engine.DelayMS == 0 {
		c.Engine.DelayMS = 1500
	}
	if c.Engine.RatingMin == 0 {
		c.Engine.RatingMin = 4
	}
	if c.Engine.RatingMax == 0 {
		c.Engine.RatingMax = 5
	}
	if c.RunLog.Type == "" {
		c.RunLog.Type = "local"
	}
	if c.RunLog.LocalPath == "" {
		c.RunLog.LocalPath = "./data/runlog.json"
	}
	if c.RunLog.S3Region == "" {
		c.RunLog.S3Region = "us-east-1"
	}
	if c.Policy.Path == "" {
		c.Policy.Path = "./references/company-policy.md"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so credentials
// can live in .env locally and in real env vars in scheduled execution.
// The config file is optional: when path does not exist a default config
// is built from the environment alone.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg *Config
	if _, err := os.Stat(path); err == nil {
		cfg, err = Load(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = &Config{}
		cfg.applyDefaults()
	}

	if v := os.Getenv("OZON_CLIENT_ID"); v != "" {
		cfg.Ozon.ClientID = v
	}
	if v := os.Getenv("OZON_API_KEY"); v != "" {
		cfg.Ozon.APIKey = v
	}
	if v := os.Getenv("OZON_BASE_URL"); v != "" {
		cfg.Ozon.BaseURL = v
	}
	if v := os.Getenv("BEDROCK_MODEL_ID"); v != "" {
		cfg.Bedrock.ModelID = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Bedrock.Region = v
	}
	if v := os.Getenv("AWS_BEDROCK_ACCESS_KEY"); v != "" {
		cfg.Bedrock.AccessKey = v
	}
	if v := os.Getenv("AWS_BEDROCK_SECRET_KEY"); v != "" {
		cfg.Bedrock.SecretKey = v
	}
	if v := os.Getenv("RUNLOG_S3_BUCKET"); v != "" {
		cfg.RunLog.S3Bucket = v
		cfg.RunLog.Type = "s3"
	}
	if v := os.Getenv("POLICY_PATH"); v != "" {
		cfg.Policy.Path = v
	}

	return cfg, nil
}

// Validate checks that required credentials are present.
// Called once at process start; a failure here aborts the run.
func (c *Config) Validate() error {
	if c.Ozon.ClientID == "" || c.Ozon.APIKey == "" {
		return fmt.Errorf("missing OZON_CLIENT_ID or OZON_API_KEY")
	}
	if c.RunLog.Type == "s3" && c.RunLog.S3Bucket == "" {
		return fmt.Errorf("run_log.type is s3 but no s3_bucket configured")
	}
	return nil
}
