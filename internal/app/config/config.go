package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr      string
	InternalToken string

	// DatabaseURL is optional: without it the lead-capture routes are off.
	DatabaseURL string

	// LLMProvider selects the structuring backend: openai, ollama or gemini.
	LLMProvider    string
	LLMTimeout     time.Duration
	MaxPromptChars int

	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string

	OllamaURL   string
	OllamaModel string

	GeminiAPIKey string
	GeminiModel  string

	FontDir   string
	OutputDir string
}

// MustLoad is the server entrypoint: it insists on the internal API token.
func MustLoad() Config {
	cfg := Load()
	if cfg.InternalToken == "" {
		log.Fatalf("missing env INTERNAL_TOKEN")
	}
	return cfg
}

// Load reads the environment without hard requirements; the one-shot CLI
// runs fine with nothing but a provider key set.
func Load() Config {
	return Config{
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		InternalToken: env("INTERNAL_TOKEN", ""),
		DatabaseURL:   env("DATABASE_URL", ""),

		LLMProvider:    env("LLM_PROVIDER", "openai"),
		LLMTimeout:     envDuration("LLM_TIMEOUT", 60*time.Second),
		MaxPromptChars: envInt("LLM_MAX_PROMPT_CHARS", 12000),

		OpenAIBaseURL: env("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIAPIKey:  env("OPENAI_API_KEY", ""),
		OpenAIModel:   env("OPENAI_MODEL", "gpt-4o-mini"),

		OllamaURL:   env("OLLAMA_URL", "http://127.0.0.1:11434"),
		OllamaModel: env("OLLAMA_MODEL", "mistral"),

		GeminiAPIKey: env("GEMINI_API_KEY", ""),
		GeminiModel:  env("GEMINI_MODEL", "gemini-2.5-flash"),

		FontDir:   env("FONT_DIR", "assets/fonts"),
		OutputDir: env("OUTPUT_DIR", "output_devis"),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", k, err)
	}
	return n
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", k, err)
	}
	return d
}
