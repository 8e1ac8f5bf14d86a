package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App  AppConfig
	Keys APIKeys
	Ai   AIConfig
	Rag  RAGConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	MaxUploadSize      int // bytes
}

type APIKeys struct {
	OpenAI       string
	GoogleGemini string
}

type AIConfig struct {
	// The remote embedding provider is Gemini; an empty key means the
	// local fallback is active from process start.
	EmbeddingFallback string // "ollama" or "lexical"
	OllamaBaseURL     string
	OllamaEmbedModel  string
	LLMProvider       string // "openai", "gemini" or "ollama"
	LLMModel          string
}

type RAGConfig struct {
	ChunkSize      int
	ChunkOverlap   int
	WindowTurns    int // past turns handed to the model as context
	TopK           int // retrieved chunks per question
	HebrewPhrases  []string
	EnglishPhrases []string
	HebrewExact    []string
	EnglishExact   []string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			MaxUploadSize:      getEnvAsInt("MAX_UPLOAD_SIZE", 100*1024*1024),
		},
		Keys: APIKeys{
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingFallback: getEnv("EMBEDDING_FALLBACK", "lexical"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
		},
		Rag: RAGConfig{
			ChunkSize:      getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap:   getEnvAsInt("CHUNK_OVERLAP", 200),
			WindowTurns:    getEnvAsInt("MEMORY_WINDOW_TURNS", 5),
			TopK:           getEnvAsInt("RETRIEVAL_TOP_K", 6),
			HebrewPhrases:  getEnvAsList("DOC_PHRASES_HE", "הקובץ,המסמך,הטקסט,המידע"),
			EnglishPhrases: getEnvAsList("DOC_PHRASES_EN", "the file,the document,this document,this file"),
			HebrewExact:    getEnvAsList("DOC_EXACT_HE", "תסביר על הקובץ בבקשה,תן לי סיכום,מה יש במסמך"),
			EnglishExact:   getEnvAsList("DOC_EXACT_EN", "explain in english,summarize this,what's in this"),
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

func getEnvAsList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
