package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port              string   `yaml:"port"`
	WebDir            string   `yaml:"web_dir"`
	SessionTTLMinutes int      `yaml:"session_ttl_minutes"`
	AllowedOrigins    []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	URL   string `yaml:"url"`
	Key   string `yaml:"key"`
	Debug bool   `yaml:"debug"`
}

type SupabaseConfig struct {
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon_key"`
}

type LLMConfig struct {
	BaseURL        string `yaml:"base_url"`
	Key            string `yaml:"key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type RAGConfig struct {
	ChunkSize              int `yaml:"chunk_size"`
	ChunkOverlap           int `yaml:"chunk_overlap"`
	TopK                   int `yaml:"top_k"`
	ConversationGapSeconds int `yaml:"conversation_gap_seconds"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Supabase SupabaseConfig `yaml:"supabase"`
	LLM      LLMConfig      `yaml:"llm"`
	RAG      RAGConfig      `yaml:"rag"`
}

const (
	defaultChunkSize       = 1500 // chars
	defaultChunkOverlap    = 300  // chars
	defaultTopK            = 4
	defaultConversationGap = 1800 // seconds
	defaultLLMTimeout      = 60   // seconds
	defaultSessionTTL      = 480  // minutes
)

func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// secrets can be kept out of the yaml file
	overrideFromEnv(&cfg.Database.Key, "SUPABASE_DB_PASSWORD")
	overrideFromEnv(&cfg.Supabase.AnonKey, "SUPABASE_ANON_KEY")
	overrideFromEnv(&cfg.LLM.Key, "OPENROUTER_KEY")

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func overrideFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.WebDir == "" {
		c.Server.WebDir = "./web"
	}
	if c.Server.SessionTTLMinutes <= 0 {
		c.Server.SessionTTLMinutes = defaultSessionTTL
	}
	if c.RAG.ChunkSize <= 0 {
		c.RAG.ChunkSize = defaultChunkSize
	}
	if c.RAG.ChunkOverlap <= 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		c.RAG.ChunkOverlap = defaultChunkOverlap
	}
	if c.RAG.TopK <= 0 {
		c.RAG.TopK = defaultTopK
	}
	if c.RAG.ConversationGapSeconds <= 0 {
		c.RAG.ConversationGapSeconds = defaultConversationGap
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeout
	}
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.Supabase.URL == "" {
		return fmt.Errorf("supabase.url is required")
	}
	return nil
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Server.SessionTTLMinutes) * time.Minute
}

func (c *Config) ConversationGap() time.Duration {
	return time.Duration(c.RAG.ConversationGapSeconds) * time.Second
}

func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}
