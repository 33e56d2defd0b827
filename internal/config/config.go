package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type Config struct {
	//===============
	//  Search scope
	//===============
	// Search query handed verbatim to the result scraper. Mandatory.
	query string
	// Result-count hint embedded in the search URL. The recommended UI bound
	// is 2-100, but any positive integer is accepted here; range validation
	// is a presentation concern.
	numResults int
	// Short region/language code used verbatim in the outbound request.
	locale string
	// Substrings matched against each full result URL; any match drops the
	// result. Callers can exclude by domain, path fragment, or any substring.
	excludeList []string

	//===============
	// Concurrency
	//===============
	// Maximum number of simultaneous in-flight fetches during the crawl
	// phase; it does not control OS threads or CPU parallelism.
	concurrency int

	//===============
	// Retry
	//===============
	// Maximum total attempts per fetch.
	maxAttempts int
	// Delay between attempt i (0-indexed) and i+1 is backoffUnit * backoffBase^i.
	backoffBase float64
	// One backoff time unit.
	backoffUnit time.Duration
	// Capped maximum backoff delay.
	backoffMaxDuration time.Duration
	// Randomized variation added on top of each backoff delay.
	jitter time.Duration
	// Controls the random number generator used for jitter.
	randomSeed int64

	//===============
	// Fetch
	//===============
	// Maximum time of a single fetch request.
	timeout time.Duration
	// User agent for the request header. Empty means one is picked from the
	// built-in pool once per process.
	userAgent string
}

type configDTO struct {
	Query              string        `json:"query"`
	NumResults         int           `json:"numResults,omitempty"`
	Locale             string        `json:"locale,omitempty"`
	ExcludeList        []string      `json:"excludeList,omitempty"`
	Concurrency        int           `json:"concurrency,omitempty"`
	MaxAttempts        int           `json:"maxAttempts,omitempty"`
	BackoffBase        float64       `json:"backoffBase,omitempty"`
	BackoffUnit        time.Duration `json:"backoffUnit,omitempty"`
	BackoffMaxDuration time.Duration `json:"backoffMaxDuration,omitempty"`
	Jitter             time.Duration `json:"jitter,omitempty"`
	RandomSeed         int64         `json:"randomSeed,omitempty"`
	Timeout            time.Duration `json:"timeout,omitempty"`
	UserAgent          string        `json:"userAgent,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	// Start with default config
	cfg, err := WithDefault(dto.Query).Build()
	if err != nil {
		return Config{}, err
	}

	// ExcludeList can be empty - always use DTO values
	cfg.excludeList = dto.ExcludeList

	// For other fields, only override if a non-zero value is provided
	if dto.NumResults != 0 {
		cfg.numResults = dto.NumResults
	}
	if dto.Locale != "" {
		cfg.locale = dto.Locale
	}
	if dto.Concurrency != 0 {
		cfg.concurrency = dto.Concurrency
	}
	if dto.MaxAttempts != 0 {
		cfg.maxAttempts = dto.MaxAttempts
	}
	if dto.BackoffBase != 0 {
		cfg.backoffBase = dto.BackoffBase
	}
	if dto.BackoffUnit != 0 {
		cfg.backoffUnit = dto.BackoffUnit
	}
	if dto.BackoffMaxDuration != 0 {
		cfg.backoffMaxDuration = dto.BackoffMaxDuration
	}
	if dto.Jitter != 0 {
		cfg.jitter = dto.Jitter
	}
	if dto.RandomSeed != 0 {
		cfg.randomSeed = dto.RandomSeed
	}
	if dto.Timeout != 0 {
		cfg.timeout = dto.Timeout
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}

	return cfg, nil
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	cfg, err := newConfigFromDTO(cfgDTO)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefault creates a new Config with the provided query and default
// values for all other fields. query is mandatory and must not be empty -
// Build will return an error if it is.
func WithDefault(query string) *Config {
	defaultConfig := Config{
		query:              query,
		numResults:         10,
		locale:             "",
		excludeList:        []string{},
		concurrency:        5,
		maxAttempts:        3,
		backoffBase:        2.0,
		backoffUnit:        time.Second,
		backoffMaxDuration: 30 * time.Second,
		jitter:             0,
		randomSeed:         time.Now().UnixNano(),
		timeout:            10 * time.Second,
		userAgent:          "",
	}
	return &defaultConfig
}

func (c *Config) WithQuery(query string) *Config {
	c.query = query
	return c
}

func (c *Config) WithNumResults(numResults int) *Config {
	c.numResults = numResults
	return c
}

func (c *Config) WithLocale(locale string) *Config {
	c.locale = locale
	return c
}

func (c *Config) WithExcludeList(excludeList []string) *Config {
	c.excludeList = excludeList
	return c
}

func (c *Config) WithConcurrency(concurrency int) *Config {
	c.concurrency = concurrency
	return c
}

func (c *Config) WithMaxAttempts(attempts int) *Config {
	c.maxAttempts = attempts
	return c
}

func (c *Config) WithBackoffBase(base float64) *Config {
	c.backoffBase = base
	return c
}

func (c *Config) WithBackoffUnit(unit time.Duration) *Config {
	c.backoffUnit = unit
	return c
}

func (c *Config) WithBackoffMaxDuration(duration time.Duration) *Config {
	c.backoffMaxDuration = duration
	return c
}

func (c *Config) WithJitter(jitter time.Duration) *Config {
	c.jitter = jitter
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) Build() (Config, error) {
	if c.query == "" {
		return Config{}, fmt.Errorf("%w: query cannot be empty", ErrInvalidConfig)
	}
	if c.numResults < 1 {
		return Config{}, fmt.Errorf("%w: numResults must be positive", ErrInvalidConfig)
	}
	if c.concurrency < 1 {
		return Config{}, fmt.Errorf("%w: concurrency must be positive", ErrInvalidConfig)
	}
	if c.maxAttempts < 1 {
		return Config{}, fmt.Errorf("%w: maxAttempts must be positive", ErrInvalidConfig)
	}
	if c.backoffBase <= 0 {
		return Config{}, fmt.Errorf("%w: backoffBase must be positive", ErrInvalidConfig)
	}
	return *c, nil
}

func (c *Config) Query() string {
	return c.query
}

func (c *Config) NumResults() int {
	return c.numResults
}

func (c *Config) Locale() string {
	return c.locale
}

func (c *Config) ExcludeList() []string {
	return c.excludeList
}

func (c *Config) Concurrency() int {
	return c.concurrency
}

func (c *Config) MaxAttempts() int {
	return c.maxAttempts
}

func (c *Config) BackoffBase() float64 {
	return c.backoffBase
}

func (c *Config) BackoffUnit() time.Duration {
	return c.backoffUnit
}

func (c *Config) BackoffMaxDuration() time.Duration {
	return c.backoffMaxDuration
}

func (c *Config) Jitter() time.Duration {
	return c.jitter
}

func (c *Config) RandomSeed() int64 {
	return c.randomSeed
}

func (c *Config) Timeout() time.Duration {
	return c.timeout
}

func (c *Config) UserAgent() string {
	return c.userAgent
}
