package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/zakahfir/microflow-ai/internal/app/config"
	apphttp "github.com/zakahfir/microflow-ai/internal/app/http"
	"github.com/zakahfir/microflow-ai/internal/infra/db/postgres"
	"github.com/zakahfir/microflow-ai/internal/llm"
	"github.com/zakahfir/microflow-ai/internal/llm/gemini"
	"github.com/zakahfir/microflow-ai/internal/llm/ollama"
	"github.com/zakahfir/microflow-ai/internal/llm/openai"
)

func Run() {
	cfg := config.MustLoad()

	backend, err := NewBackend(context.Background(), cfg)
	if err != nil {
		log.Fatalf("llm backend: %v", err)
	}
	log.Printf("llm backend=%s", cfg.LLMProvider)

	var db *postgres.DB
	if cfg.DatabaseURL != "" {
		db, err = postgres.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer db.Close()
	} else {
		log.Printf("no DATABASE_URL, lead capture disabled")
	}

	router := apphttp.NewRouter(cfg, db, backend)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("listening on %s", cfg.HTTPAddr)
	log.Fatal(srv.ListenAndServe())
}

// NewBackend builds the structuring backend named by the configuration.
// The choice is made once, here; nothing downstream branches on providers.
func NewBackend(ctx context.Context, cfg config.Config) (llm.Backend, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("LLM_PROVIDER=openai needs OPENAI_API_KEY")
		}
		return openai.New(openai.Config{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
		}, nil), nil
	case "ollama":
		return ollama.New(ollama.Config{
			BaseURL: cfg.OllamaURL,
			Model:   cfg.OllamaModel,
		}, nil), nil
	case "gemini":
		return gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}
