package scoring

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config enumerates every tunable of the scoring policies in one place.
type Config struct {
	Baseline       int `yaml:"baseline"`
	EmptyTextScore int `yaml:"emptyTextScore"`

	ShortTextLength  int `yaml:"shortTextLength"`
	ShortTextPenalty int `yaml:"shortTextPenalty"`
	LongTextLength   int `yaml:"longTextLength"`
	LongTextPenalty  int `yaml:"longTextPenalty"`

	// KeywordPenalty is subtracted once per distinct suspicious term found.
	KeywordPenalty     int      `yaml:"keywordPenalty"`
	SuspiciousKeywords []string `yaml:"suspiciousKeywords"`

	// Domain entries are matched as substrings of the URL host, e.g. "bbc.".
	TrustedDomains         []string `yaml:"trustedDomains"`
	TrustedDomainBonus     int      `yaml:"trustedDomainBonus"`
	UntrustedDomains       []string `yaml:"untrustedDomains"`
	UntrustedDomainPenalty int      `yaml:"untrustedDomainPenalty"`

	Model ModelConfig `yaml:"model"`
}

type ModelConfig struct {
	PrefixLength  int           `yaml:"prefixLength"`
	Timeout       time.Duration `yaml:"timeout"`
	TrustedLabels []string      `yaml:"trustedLabels"`
}

func DefaultConfig() Config {
	return Config{
		Baseline:         50,
		EmptyTextScore:   30,
		ShortTextLength:  200,
		ShortTextPenalty: 10,
		LongTextLength:   3000,
		LongTextPenalty:  5,
		KeywordPenalty:   15,
		SuspiciousKeywords: []string{
			"shocking",
			"click here",
			"you won't believe",
			"conspiracy",
			"scam",
			"fake",
			"hoax",
		},
		TrustedDomains:         []string{"bbc.", "reuters.", "nytimes.", "theguardian.", "apnews."},
		TrustedDomainBonus:     20,
		UntrustedDomains:       []string{"infowars.", "naturalnews.", "beforeitsnews.", "worldnewsdailyreport."},
		UntrustedDomainPenalty: 25,
		Model: ModelConfig{
			PrefixLength:  1000,
			Timeout:       10 * time.Second,
			TrustedLabels: []string{"real", "true", "reliable", "trustworthy"},
		},
	}
}

// LoadConfig decodes YAML on top of DefaultConfig; keys absent from the
// document keep their default values.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode scoring config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads the YAML file at path, or returns defaults when path is empty.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		slog.Info("No scoring config path set, using defaults")
		return DefaultConfig(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open scoring config %s: %w", path, err)
	}
	defer f.Close()

	return LoadConfig(f)
}

func (c Config) Validate() error {
	if c.Baseline < 0 || c.Baseline > 100 {
		return fmt.Errorf("baseline must be between 0 and 100, got %d", c.Baseline)
	}
	if c.EmptyTextScore < 0 || c.EmptyTextScore > 100 {
		return fmt.Errorf("emptyTextScore must be between 0 and 100, got %d", c.EmptyTextScore)
	}
	if c.ShortTextLength < 0 || c.LongTextLength < c.ShortTextLength {
		return fmt.Errorf("text length thresholds out of order: short=%d long=%d", c.ShortTextLength, c.LongTextLength)
	}
	if c.ShortTextPenalty < 0 || c.LongTextPenalty < 0 || c.KeywordPenalty < 0 ||
		c.TrustedDomainBonus < 0 || c.UntrustedDomainPenalty < 0 {
		return errors.New("penalties and bonuses must not be negative")
	}
	if c.Model.PrefixLength <= 0 {
		return fmt.Errorf("model.prefixLength must be positive, got %d", c.Model.PrefixLength)
	}
	if c.Model.Timeout <= 0 {
		return fmt.Errorf("model.timeout must be positive, got %s", c.Model.Timeout)
	}
	return nil
}

func (c *Config) normalize() {
	c.SuspiciousKeywords = normalizeTerms(c.SuspiciousKeywords)
	c.TrustedDomains = normalizeTerms(c.TrustedDomains)
	c.UntrustedDomains = normalizeTerms(c.UntrustedDomains)
	c.Model.TrustedLabels = normalizeTerms(c.Model.TrustedLabels)
}

// normalizeTerms lower-cases, trims and de-duplicates while keeping order.
func normalizeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
