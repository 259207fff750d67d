package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	SES      SESConfig      `yaml:"ses"`
	Campaign CampaignConfig `yaml:"campaign"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection.
func (c ServerConfig) GetHost() string {
	// In a container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// StorageConfig holds the DynamoDB contact store configuration.
type StorageConfig struct {
	ContactsTable string `yaml:"contacts_table"`
	EmailIndex    string `yaml:"email_index"`
	AWSRegion     string `yaml:"aws_region"`
	AWSProfile    string `yaml:"aws_profile"` // Empty string uses default credential chain (IAM role on ECS)
}

// GetAWSProfile returns the AWS profile, with environment variable override.
func (c StorageConfig) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return ""
		}
		return envProfile
	}
	// On ECS/Lambda, don't use a profile - use IAM role
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return ""
	}
	return c.AWSProfile
}

// SESConfig holds AWS SES API configuration.
type SESConfig struct {
	Region         string `yaml:"region"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-send timeout as a duration.
func (c SESConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CampaignConfig holds broadcast settings.
type CampaignConfig struct {
	FromAddress        string `yaml:"from_address"`
	UnsubscribeBaseURL string `yaml:"unsubscribe_base_url"`
	// ContinueOnError isolates per-recipient send failures instead of
	// aborting the whole broadcast on the first one. Off by default.
	ContinueOnError bool `yaml:"continue_on_error"`
}

// CORSConfig holds the allowed browser origins for the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Storage.ContactsTable == "" {
		cfg.Storage.ContactsTable = "newsletter-contacts"
	}
	if cfg.Storage.EmailIndex == "" {
		cfg.Storage.EmailIndex = "email-index"
	}
	if cfg.Storage.AWSRegion == "" {
		cfg.Storage.AWSRegion = "us-east-1"
	}
	if cfg.SES.Region == "" {
		cfg.SES.Region = cfg.Storage.AWSRegion
	}
	if cfg.SES.TimeoutSeconds == 0 {
		cfg.SES.TimeoutSeconds = 30
	}
	if cfg.Campaign.FromAddress == "" {
		cfg.Campaign.FromAddress = "contato@conselheirocristao.com.br"
	}
	if cfg.Campaign.UnsubscribeBaseURL == "" {
		cfg.Campaign.UnsubscribeBaseURL = "https://conselheirocristao.com.br/unsubscribe"
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"https://conselheirocristao.com.br", "http://localhost:5173"}
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if accessKey := os.Getenv("AWS_SES_ACCESS_KEY"); accessKey != "" {
		cfg.SES.AccessKey = accessKey
	}
	if secretKey := os.Getenv("AWS_SES_SECRET_KEY"); secretKey != "" {
		cfg.SES.SecretKey = secretKey
	}
	if region := os.Getenv("AWS_SES_REGION"); region != "" {
		cfg.SES.Region = region
	}
	if table := os.Getenv("CONTACTS_TABLE"); table != "" {
		cfg.Storage.ContactsTable = table
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		cfg.Storage.AWSRegion = region
	}
	if from := os.Getenv("CAMPAIGN_FROM_ADDRESS"); from != "" {
		cfg.Campaign.FromAddress = from
	}
	if base := os.Getenv("UNSUBSCRIBE_BASE_URL"); base != "" {
		cfg.Campaign.UnsubscribeBaseURL = base
	}

	return cfg, nil
}
