package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SDKVersion is reported in the User-Agent of every request
const SDKVersion = "1.0.0"

// DefaultBaseURL points at the Blaaiz development environment
const DefaultBaseURL = "https://api-dev.blaaiz.com"

// ClientConfiguration holds the settings shared by every API call. It is
// built once and never mutated afterwards.
type ClientConfiguration struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// ClientOption customizes a ClientConfiguration at construction time
type ClientOption func(*ClientConfiguration)

// WithBaseURL overrides the API base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *ClientConfiguration) {
		c.BaseURL = baseURL
	}
}

// WithTimeout overrides the request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfiguration) {
		c.Timeout = timeout
	}
}

// NewClientConfiguration validates and freezes the client settings
func NewClientConfiguration(apiKey string, opts ...ClientOption) (*ClientConfiguration, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	conf := &ClientConfiguration{
		APIKey:    apiKey,
		BaseURL:   DefaultBaseURL,
		Timeout:   30 * time.Second,
		UserAgent: UserAgent(),
	}
	for _, opt := range opts {
		opt(conf)
	}

	conf.BaseURL = strings.TrimRight(conf.BaseURL, "/")
	if conf.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if conf.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive")
	}

	return conf, nil
}

// ClientConfig builds the client configuration from the environment
func ClientConfig() (*ClientConfiguration, error) {
	viper.AutomaticEnv()
	viper.SetDefault("BLAAIZ_BASE_URL", DefaultBaseURL)
	viper.SetDefault("BLAAIZ_TIMEOUT", 30)

	return NewClientConfiguration(
		viper.GetString("BLAAIZ_API_KEY"),
		WithBaseURL(viper.GetString("BLAAIZ_BASE_URL")),
		WithTimeout(time.Duration(viper.GetInt("BLAAIZ_TIMEOUT"))*time.Second),
	)
}

// UserAgent identifies the SDK to the API and to remote file hosts
func UserAgent() string {
	return fmt.Sprintf("Blaaiz-Go-SDK/%s", SDKVersion)
}

// SetupConfig loads an optional .env file into viper. A missing file is not
// an error; the process environment still applies.
func SetupConfig() error {
	viper.AddConfigPath("..")
	viper.AddConfigPath(".")

	envFilePath := os.Getenv("ENV_FILE_PATH")
	if envFilePath == "" {
		envFilePath = ".env"
	}

	viper.SetConfigName(envFilePath)
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}
