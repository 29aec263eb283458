package classifier

import (
	"errors"
	"os"
)

type Config struct {
	Enabled bool
	BaseURL string
	Model   string
	APIKey  string
}

func LoadConfigFromEnv() (*Config, error) {
	cfg := &Config{
		Enabled: os.Getenv("CLASSIFIER_ENABLED") == "true",
		BaseURL: os.Getenv("CLASSIFIER_BASE_URL"),
		Model:   os.Getenv("CLASSIFIER_MODEL"),
		APIKey:  os.Getenv("CLASSIFIER_API_KEY"),
	}

	if !cfg.Enabled {
		return cfg, nil
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("CLASSIFIER_BASE_URL environment variable not set")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	return cfg, nil
}

// New builds the classifier selected by cfg; a disabled config yields Nop.
func New(cfg *Config) (Classifier, error) {
	if cfg == nil || !cfg.Enabled {
		return Nop{}, nil
	}

	opts := []HTTPClientOption{WithModel(cfg.Model)}
	if cfg.APIKey != "" {
		opts = append(opts, WithAPIKey(cfg.APIKey))
	}
	return NewHTTPClient(cfg.BaseURL, opts...)
}
