package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port           int           `yaml:"port" default:"5000"`
		Host           string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout    time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout   time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout    time.Duration `yaml:"idle_timeout" default:"60s"`
		AITimeout      time.Duration `yaml:"ai_timeout" default:"2m"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"server"`

	RateLimit struct {
		Enabled           bool `yaml:"enabled" default:"true"`
		RequestsPerMinute int  `yaml:"requests_per_minute" default:"60"`
		Burst             int  `yaml:"burst" default:"10"`
	} `yaml:"rate_limit"`

	LLM struct {
		Provider    string        `yaml:"provider" default:"claude"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model"`
		MaxTokens   int           `yaml:"max_tokens" default:"2048"`
		Temperature float32       `yaml:"temperature" default:"0.2"`
		Timeout     time.Duration `yaml:"timeout" default:"60s"`
		// MaxResumeChars bounds the resume text forwarded in prompts
		MaxResumeChars int `yaml:"max_resume_chars" default:"12000"`
		// BreakerFailures consecutive failures open the circuit for BreakerCooldown
		BreakerFailures int           `yaml:"breaker_failures" default:"5"`
		BreakerCooldown time.Duration `yaml:"breaker_cooldown" default:"30s"`
	} `yaml:"llm"`

	Scoring struct {
		Baseline int `yaml:"baseline" default:"90"`
	} `yaml:"scoring"`

	Upload struct {
		MaxSizeBytes int64  `yaml:"max_size_bytes" default:"5242880"`
		FormField    string `yaml:"form_field" default:"resume"`
		DefaultRole  string `yaml:"default_role" default:"General Software Engineer"`
	} `yaml:"upload"`

	Interview struct {
		QuestionCount int `yaml:"question_count" default:"5"`
	} `yaml:"interview"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`

	Redis struct {
		Enabled      bool          `yaml:"enabled" default:"false"`
		URL          string        `yaml:"url" default:"redis://localhost:6379"`
		Password     string        `yaml:"password"`
		DB           int           `yaml:"db" default:"0"`
		Timeout      time.Duration `yaml:"timeout" default:"5s"`
		SessionTTL   time.Duration `yaml:"session_ttl" default:"24h"`
		HistoryLimit int           `yaml:"history_limit" default:"50"`
	} `yaml:"redis"`

	History struct {
		Backend     string `yaml:"backend" default:"memory"`
		DatabaseURL string `yaml:"database_url"`
		MaxEntries  int    `yaml:"max_entries" default:"100"`
	} `yaml:"history"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// Default returns a configuration populated with defaults only
func Default() *Config {
	config := &Config{}

	config.Server.Port = 5000
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.AITimeout = 2 * time.Minute
	config.Server.AllowedOrigins = []string{"*"}

	config.RateLimit.Enabled = true
	config.RateLimit.RequestsPerMinute = 60
	config.RateLimit.Burst = 10

	config.LLM.Provider = "claude"
	config.LLM.MaxTokens = 2048
	config.LLM.Temperature = 0.2
	config.LLM.Timeout = 60 * time.Second
	config.LLM.MaxResumeChars = 12000
	config.LLM.BreakerFailures = 5
	config.LLM.BreakerCooldown = 30 * time.Second

	config.Scoring.Baseline = 90

	config.Upload.MaxSizeBytes = 5 << 20
	config.Upload.FormField = "resume"
	config.Upload.DefaultRole = "General Software Engineer"

	config.Interview.QuestionCount = 5

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.Timeout = 5 * time.Second
	config.Redis.SessionTTL = 24 * time.Hour
	config.Redis.HistoryLimit = 50

	config.History.Backend = "memory"
	config.History.MaxEntries = 100

	return config
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
			}
		}
	}

	config.loadFromEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "claude", "gemini":
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.LLM.Provider)
	}

	switch strings.ToLower(c.History.Backend) {
	case "memory":
	case "postgres":
		if c.History.DatabaseURL == "" {
			return fmt.Errorf("history backend postgres requires history.database_url (DATABASE_URL)")
		}
	default:
		return fmt.Errorf("unsupported history backend: %s", c.History.Backend)
	}

	if c.Upload.MaxSizeBytes <= 0 {
		return fmt.Errorf("upload.max_size_bytes must be positive")
	}

	if c.Interview.QuestionCount <= 0 {
		return fmt.Errorf("interview.question_count must be positive")
	}

	return nil
}

// HTTPWriteTimeout is the server write timeout, long enough for AI routes to finish
func (c *Config) HTTPWriteTimeout() time.Duration {
	return max(c.Server.WriteTimeout, c.Server.AITimeout+10*time.Second)
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	if rpm := os.Getenv("RATE_LIMIT_RPM"); rpm != "" {
		if v, err := strconv.Atoi(rpm); err == nil {
			c.RateLimit.RequestsPerMinute = v
			c.RateLimit.Enabled = v > 0
		}
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if baseline := os.Getenv("SCORING_BASELINE"); baseline != "" {
		if v, err := strconv.Atoi(baseline); err == nil {
			c.Scoring.Baseline = v
		}
	}

	if maxSize := os.Getenv("UPLOAD_MAX_SIZE_BYTES"); maxSize != "" {
		if v, err := strconv.ParseInt(maxSize, 10, 64); err == nil {
			c.Upload.MaxSizeBytes = v
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if redisEnabled := os.Getenv("REDIS_ENABLED"); redisEnabled != "" {
		c.Redis.Enabled = redisEnabled == "true" || redisEnabled == "1"
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			c.Redis.SessionTTL = d
		}
	}

	if backend := os.Getenv("HISTORY_BACKEND"); backend != "" {
		c.History.Backend = backend
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.History.DatabaseURL = dsn
	}

	c.loadLoggingAdapterEnvVars()
}

// loadLoggingAdapterEnvVars loads environment variables for logging adapters
func (c *Config) loadLoggingAdapterEnvVars() {
	for i := range c.Logging.Adapters {
		adapter := &c.Logging.Adapters[i]

		switch adapter.Type {
		case "file":
			if path := os.Getenv("LOG_FILE_PATH"); path != "" {
				if adapter.Options == nil {
					adapter.Options = make(map[string]interface{})
				}
				adapter.Options["file_path"] = path
			}
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
