package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Keys     APIKeys
	Ai       AIConfig
	Pipeline PipelineConfig
	Google   GoogleConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	KitCacheTTL        time.Duration
}

type APIKeys struct {
	GoogleGemini string
	Jina         string
	HuggingFace  string
	Tavily       string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "jina"
	OllamaBaseURL     string
	OllamaModel       string // embedding model served by Ollama
	LLMProvider       string // "openai", "ollama", "huggingface"
	LLMBaseURL        string // OpenAI-compatible endpoint, e.g. Groq
	WebSearchResults  int
	WebSearchCacheTTL time.Duration
}

// PipelineConfig holds the options the launch kit pipeline is constructed with.
type PipelineConfig struct {
	ModelName          string
	APIKey             string
	MaxAgentIterations int
	RetrievalK         int
	PerStageTimeout    time.Duration
}

type GoogleConfig struct {
	CalendarID        string
	RequestsPerSecond float64
	TimeZone          string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8080, http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			KitCacheTTL:        getEnvAsDuration("LAUNCH_KIT_CACHE_TTL", time.Hour),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			Tavily:       getEnv("TAVILY_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
			WebSearchResults:  getEnvAsInt("WEB_SEARCH_MAX_RESULTS", 4),
			WebSearchCacheTTL: getEnvAsDuration("WEB_SEARCH_CACHE_TTL", 30*time.Minute),
		},
		Pipeline: PipelineConfig{
			ModelName:          getEnv("LLM_MODEL", "llama3-70b-8192"),
			APIKey:             getEnv("LLM_API_KEY", getEnv("GROQ_API_KEY", "")),
			MaxAgentIterations: getEnvAsInt("MAX_AGENT_ITERATIONS", 15),
			RetrievalK:         getEnvAsInt("RETRIEVAL_K", 4),
			PerStageTimeout:    getEnvAsDuration("PER_STAGE_TIMEOUT", 90*time.Second),
		},
		Google: GoogleConfig{
			CalendarID:        getEnv("GOOGLE_CALENDAR_ID", "primary"),
			RequestsPerSecond: getEnvAsFloat("GOOGLE_CALENDAR_RPS", 5),
			TimeZone:          getEnv("GOOGLE_CALENDAR_TIMEZONE", "UTC"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
