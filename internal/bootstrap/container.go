package bootstrap

import (
	"log"

	"chainchat-be/internal/config"
	"chainchat-be/internal/controller"
	"chainchat-be/internal/pkg/logger"
	"chainchat-be/internal/repository/memory"
	"chainchat-be/internal/service"
	"chainchat-be/pkg/chunker"
	"chainchat-be/pkg/embedding"
	"chainchat-be/pkg/llm/factory"
	"chainchat-be/pkg/rag/augment"
	ragsession "chainchat-be/pkg/rag/session"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	ChatController     controller.IChatController

	// Exposed for graceful shutdown
	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Embedding Providers
	// The remote is selected once at startup; the failover owns the
	// sticky remote → local transition for the rest of the process.
	var remote embedding.Provider
	if cfg.Keys.GoogleGemini != "" {
		remote = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		log.Printf("[INFO] No remote embedding credential, starting on local fallback")
	}

	var fallback embedding.Provider
	if cfg.Ai.EmbeddingFallback == "ollama" {
		fallback = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)
		log.Printf("[INFO] Embedding fallback: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else {
		fallback = embedding.NewLexicalProvider(0)
		log.Printf("[INFO] Embedding fallback: LEXICAL (in-process)")
	}
	embeddings := embedding.NewFailover(remote, fallback, sysLogger)

	// 3. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Stores
	documentRepo := memory.NewDocumentRepository()
	sessionRepo := memory.NewSessionRepository()

	// 5. Domain Components
	splitter := chunker.NewSplitter(cfg.Rag.ChunkSize, cfg.Rag.ChunkOverlap)
	sessionManager := ragsession.NewManager(sessionRepo, cfg.Rag.WindowTurns)
	augmenter := augment.New([]augment.LanguagePack{
		{Phrases: cfg.Rag.HebrewPhrases, ExactMatches: cfg.Rag.HebrewExact, Prefix: "בהתבסס על המסמך שהועלה, "},
		{Phrases: cfg.Rag.EnglishPhrases, ExactMatches: cfg.Rag.EnglishExact, Prefix: "Based on the uploaded document, ", CaseFold: true},
	})

	// 6. Services
	documentService := service.NewDocumentService(documentRepo, splitter, embeddings, sysLogger)
	chatService := service.NewChatService(
		documentService,
		embeddings,
		llmProvider,
		sessionManager,
		augmenter,
		sysLogger,
		cfg.Rag.TopK,
	)

	// 7. Controllers
	return &Container{
		DocumentController: controller.NewDocumentController(documentService, cfg.App.MaxUploadSize),
		ChatController:     controller.NewChatController(chatService),
		Logger:             sysLogger,
	}
}
