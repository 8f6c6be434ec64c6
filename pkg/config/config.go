package config

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Data       DataConfig       `yaml:"data"`
	Cache      CacheConfig      `yaml:"cache"`
	Wiki       WikiConfig       `yaml:"wiki"`
	Generation GenerationConfig `yaml:"generation"`
	Trick      TrickConfig      `yaml:"trick"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	AllowedOrigins  string        `yaml:"allowed_origins"  env:"CORS_ALLOWED_ORIGINS"    env-default:"*"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  env:"SERVER_REQUEST_TIMEOUT"  env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Origins splits AllowedOrigins on commas.
func (s ServerConfig) Origins() []string {
	var out []string
	for o := range strings.SplitSeq(s.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// DataConfig locates the catalog, lines, template and wordbank files.
type DataConfig struct {
	Dir string        `yaml:"dir" env:"DATA_DIR" env-default:"data"`
	TTL time.Duration `yaml:"ttl" env:"DATA_TTL" env-default:"1m"`
}

// CacheConfig selects the abbreviation cache backend.
type CacheConfig struct {
	Backend     string `yaml:"backend"      env:"CACHE_BACKEND"      env-default:"json"`
	Path        string `yaml:"path"         env:"CACHE_PATH"         env-default:"cache/abbreviations_cache.json"`
	SQLitePath  string `yaml:"sqlite_path"  env:"CACHE_SQLITE_PATH"  env-default:"cache/abbreviations.db"`
	PostgresDSN string `yaml:"postgres_dsn" env:"CACHE_POSTGRES_DSN"`
}

// WikiConfig holds encyclopedia lookup settings.
type WikiConfig struct {
	Enabled   bool          `yaml:"enabled"    env:"WIKI_ENABLED"    env-default:"true"`
	BaseURL   string        `yaml:"base_url"   env:"WIKI_BASE_URL"   env-default:"https://en.wikipedia.org/api/rest_v1"`
	UserAgent string        `yaml:"user_agent" env:"WIKI_USER_AGENT" env-default:"mnemo/1.0 (memory trick service)"`
	Timeout   time.Duration `yaml:"timeout"    env:"WIKI_TIMEOUT"    env-default:"10s"`
}

// GenerationConfig selects the text-generation backend. An empty Backend
// picks the first provider with a key; "none" disables generation.
type GenerationConfig struct {
	Backend    string `yaml:"backend"     env:"GENERATION_BACKEND"`
	Model      string `yaml:"model"       env:"GENERATION_MODEL"`
	BaseURL    string `yaml:"base_url"    env:"GENERATION_BASE_URL"`
	MaxTokens  int    `yaml:"max_tokens"  env:"GENERATION_MAX_TOKENS" env-default:"512"`
	Structured bool   `yaml:"structured"  env:"GENERATION_STRUCTURED" env-default:"true"`
	// QueueSize > 0 serializes requests through a queue of that size.
	QueueSize int `yaml:"queue_size" env:"GENERATION_QUEUE_SIZE" env-default:"0"`

	OpenAIKey   string `yaml:"openai_api_key"   env:"OPENAI_API_KEY"`
	OpenAIModel string `yaml:"openai_model"     env:"OPENAI_MODEL"`
	GrokKey     string `yaml:"grok_api_key"     env:"GROK_API_KEY"`
	GrokModel   string `yaml:"grok_model"       env:"GROK_MODEL"`
	KimiKey     string `yaml:"kimi_api_key"     env:"KIMI_API_KEY"`
	MoonshotKey string `yaml:"moonshot_api_key" env:"MOONSHOT_API_KEY"`
	HFToken     string `yaml:"hf_token"         env:"HF_TOKEN"`
	GeminiKey   string `yaml:"gemini_api_key"   env:"GEMINI_API_KEY"`
	GeminiModel string `yaml:"gemini_model"     env:"GEMINI_MODEL"`
}

// Generation backends besides the OpenAI-compatible presets.
const (
	BackendGemini = "gemini"
	BackendNone   = "none"
)

// autoOrder is the preference when no backend is named.
var autoOrder = []string{"grok", "openai", BackendGemini, "kimi", "moonshot", "huggingface"}

// ResolvedBackend returns the backend to use, resolving an empty Backend to
// the first provider with a key, or "none".
func (g GenerationConfig) ResolvedBackend() string {
	if b := strings.ToLower(strings.TrimSpace(g.Backend)); b != "" {
		return b
	}
	for _, b := range autoOrder {
		if g.APIKey(b) != "" {
			return b
		}
	}
	return BackendNone
}

// APIKey returns the key configured for backend.
func (g GenerationConfig) APIKey(backend string) string {
	switch strings.ToLower(backend) {
	case "openai", "local":
		return g.OpenAIKey
	case "grok":
		return g.GrokKey
	case "kimi":
		return g.KimiKey
	case "moonshot":
		return g.MoonshotKey
	case "huggingface":
		return g.HFToken
	case BackendGemini:
		return g.GeminiKey
	}
	return ""
}

// ModelFor returns the model override for backend, if any.
func (g GenerationConfig) ModelFor(backend string) string {
	if g.Model != "" {
		return g.Model
	}
	switch strings.ToLower(backend) {
	case "openai":
		return g.OpenAIModel
	case "grok":
		return g.GrokModel
	case BackendGemini:
		return g.GeminiModel
	}
	return ""
}

// TrickConfig tunes the trick generator.
type TrickConfig struct {
	SentenceThreshold int `yaml:"sentence_threshold" env:"TRICK_SENTENCE_THRESHOLD" env-default:"5"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
