package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Capture struct {
		FPS                int    `yaml:"fps"`
		ProcessEveryNFrame int    `yaml:"process_every_n_frames"`
		ReplayDir          string `yaml:"replay_dir"`
	} `yaml:"capture"`
	OCR struct {
		ServiceURL      string        `yaml:"service_url"`
		Timeout         time.Duration `yaml:"timeout"`
		TesseractBinary string        `yaml:"tesseract_binary"`
		TitleFraction   float64       `yaml:"title_fraction"`
		AuctionFraction float64       `yaml:"auction_fraction"`
	} `yaml:"ocr"`
	Audio struct {
		ChunkSeconds  int    `yaml:"chunk_seconds"`
		QueueSize     int    `yaml:"queue_size"`
		SampleRate    int    `yaml:"sample_rate"`
		FFmpegBinary  string `yaml:"ffmpeg_binary"`
		InputFormat   string `yaml:"input_format"`
		Device        string `yaml:"device"`
		WhisperBinary string `yaml:"whisper_binary"`
		WhisperModel  string `yaml:"whisper_model"`
	} `yaml:"audio"`
	Listings struct {
		APIBaseURL     string        `yaml:"api_base_url"`
		AppID          string        `yaml:"app_id"`
		Timeout        time.Duration `yaml:"timeout"`
		ScraperEnabled bool          `yaml:"scraper_enabled"`
		ScraperURL     string        `yaml:"scraper_url"`
		ScraperTimeout time.Duration `yaml:"scraper_timeout"`
	} `yaml:"listings"`
	Pricing struct {
		CacheDB             string        `yaml:"cache_db"`
		CacheTTL            time.Duration `yaml:"cache_ttl"`
		MinComparables      int           `yaml:"min_comparables"`
		MaxComparables      int           `yaml:"max_comparables"`
		SimilarityThreshold float64       `yaml:"similarity_threshold"`
	} `yaml:"pricing"`
	Advisor struct {
		Provider  string `yaml:"provider"` // anthropic, openai, or empty to disable
		APIKey    string `yaml:"api_key"`
		Model     string `yaml:"model"`
		BaseURL   string `yaml:"base_url"`
		MaxTokens int    `yaml:"max_tokens"`
	} `yaml:"advisor"`
	SessionLog struct {
		DB         string `yaml:"db"`
		MaxEntries int    `yaml:"max_entries"`
	} `yaml:"session_log"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && (c.Advisor.Provider == "" || c.Advisor.Provider == "anthropic") {
		c.Advisor.Provider = "anthropic"
		c.Advisor.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.Advisor.Provider == "openai" {
		c.Advisor.APIKey = v
	}
	if v := os.Getenv("EBAY_APP_ID"); v != "" {
		c.Listings.AppID = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Enabled = true
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Enabled = true
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Capture.FPS <= 0 {
		c.Capture.FPS = 5
	}
	if c.Capture.ProcessEveryNFrame <= 0 {
		c.Capture.ProcessEveryNFrame = 3
	}
	if c.OCR.TitleFraction <= 0 || c.OCR.TitleFraction >= 1 {
		c.OCR.TitleFraction = 0.40
	}
	if c.OCR.AuctionFraction <= 0 || c.OCR.AuctionFraction >= 1 {
		c.OCR.AuctionFraction = 0.35
	}
	if c.OCR.Timeout <= 0 {
		c.OCR.Timeout = 3 * time.Second
	}
	if c.Audio.ChunkSeconds <= 0 {
		c.Audio.ChunkSeconds = 7
	}
	if c.Audio.QueueSize <= 0 {
		c.Audio.QueueSize = 4
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Listings.Timeout <= 0 {
		c.Listings.Timeout = 10 * time.Second
	}
	if c.Listings.ScraperTimeout <= 0 {
		c.Listings.ScraperTimeout = 20 * time.Second
	}
	if c.Pricing.CacheDB == "" {
		c.Pricing.CacheDB = "pricing_cache.db"
	}
	if c.Pricing.CacheTTL <= 0 {
		c.Pricing.CacheTTL = 12 * time.Hour
	}
	if c.Pricing.MinComparables <= 0 {
		c.Pricing.MinComparables = 3
	}
	if c.Pricing.MaxComparables <= 0 {
		c.Pricing.MaxComparables = 10
	}
	if c.Pricing.SimilarityThreshold <= 0 {
		c.Pricing.SimilarityThreshold = 0.45
	}
	if c.Advisor.MaxTokens <= 0 {
		c.Advisor.MaxTokens = 1000
	}
	if c.SessionLog.DB == "" {
		c.SessionLog.DB = "session_log.db"
	}
	if c.SessionLog.MaxEntries <= 0 {
		c.SessionLog.MaxEntries = 50
	}
	if c.Kafka.WriteTimeout <= 0 {
		c.Kafka.WriteTimeout = 10 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Capture.FPS > 30 {
		return fmt.Errorf("capture.fps must be <= 30")
	}
	if c.Pricing.SimilarityThreshold > 1 {
		return fmt.Errorf("pricing.similarity_threshold must be <= 1")
	}
	switch c.Advisor.Provider {
	case "", "anthropic", "openai":
	default:
		return fmt.Errorf("advisor.provider must be anthropic, openai, or empty")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka is enabled")
	}
	return nil
}
