package service

import (
	"context"
	"fmt"

	"chainchat-be/internal/dto"
	"chainchat-be/internal/pkg/logger"
	"chainchat-be/pkg/embedding"
	"chainchat-be/pkg/llm"
	"chainchat-be/pkg/rag/augment"
	"chainchat-be/pkg/rag/prompt"
	"chainchat-be/pkg/rag/session"
	"chainchat-be/pkg/store"
	"chainchat-be/pkg/vectorstore"
)

// quotaAnswer is the degraded-mode answer returned when the chat model
// rejects the call for quota reasons. Ingestion keeps working on the
// local embedding fallback; only answer generation is blocked.
const quotaAnswer = `The language model provider has run out of quota.

Document processing still works (local embeddings), but chat responses are blocked until the provider quota is restored. Your documents stay ready - ask again once quota is available.`

// IChatService is the conversation engine: mode selection, retrieval,
// model invocation and transcript upkeep. Ask never returns an error;
// every failure becomes a structured response.
type IChatService interface {
	Ask(ctx context.Context, request *dto.AskRequest) *dto.AskResponse
	History(sessionID string) (*dto.HistoryResponse, error)
}

type chatService struct {
	documents      IDocumentService
	embeddings     embedding.Provider
	llmProvider    llm.LLMProvider
	sessionManager *session.Manager
	augmenter      *augment.Augmenter
	sysLogger      logger.ILogger
	topK           int
}

func NewChatService(
	documents IDocumentService,
	embeddings embedding.Provider,
	llmProvider llm.LLMProvider,
	sessionManager *session.Manager,
	augmenter *augment.Augmenter,
	sysLogger logger.ILogger,
	topK int,
) IChatService {
	if topK <= 0 {
		topK = 6
	}
	return &chatService{
		documents:      documents,
		embeddings:     embeddings,
		llmProvider:    llmProvider,
		sessionManager: sessionManager,
		augmenter:      augmenter,
		sysLogger:      sysLogger,
		topK:           topK,
	}
}

func (cs *chatService) Ask(ctx context.Context, request *dto.AskRequest) *dto.AskResponse {
	sess := cs.sessionManager.GetOrCreate(request.SessionId)
	sess.Lock()
	defer sess.Unlock()

	// Mode is derived, never stored: an ingestion between two turns
	// promotes the session to RAG on its very next question.
	index := cs.documents.Index()
	if index == nil || index.Len() == 0 {
		return cs.askDirect(ctx, sess, request.Question)
	}
	return cs.askRag(ctx, sess, index, request.Question)
}

func (cs *chatService) askDirect(ctx context.Context, sess *store.Session, question string) *dto.AskResponse {
	cs.sessionManager.EnsureMemoryShape(sess, store.MemoryShapeDirect)

	messages := toLLMMessages(cs.sessionManager.ContextWindow(sess))
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})

	answer, err := cs.llmProvider.Chat(ctx, messages)
	if err != nil {
		return cs.failure(sess, dto.ModeDirectChat, err)
	}

	cs.sessionManager.RecordTurn(sess, question, answer)

	return &dto.AskResponse{
		Success:      true,
		Answer:       answer,
		Sources:      []dto.SourceDTO{},
		SessionId:    sess.ID,
		MessageCount: sess.MessageCount,
		Mode:         dto.ModeDirectChat,
	}
}

func (cs *chatService) askRag(ctx context.Context, sess *store.Session, index *vectorstore.Index, question string) *dto.AskResponse {
	cs.sessionManager.EnsureMemoryShape(sess, store.MemoryShapeRag)

	// Anchor deictic document references before embedding so retrieval
	// is biased toward document content.
	augmented, rewritten := cs.augmenter.Rewrite(question)
	if rewritten {
		cs.sysLogger.Debug("chat", "question augmented for retrieval", map[string]interface{}{
			"session_id": sess.ID,
		})
	}

	queryVector, err := cs.embeddings.EmbedQuery(ctx, augmented)
	if err != nil {
		return cs.failure(sess, dto.ModeRagChat, err)
	}
	results := index.Search(queryVector, cs.topK)

	retrieved := make([]store.Chunk, len(results))
	for i, res := range results {
		retrieved[i] = res.Chunk
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: prompt.NewContextualBuilder(retrieved).Build()},
	}
	messages = append(messages, toLLMMessages(cs.sessionManager.ContextWindow(sess))...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: augmented})

	answer, err := cs.llmProvider.Chat(ctx, messages)
	if err != nil {
		return cs.failure(sess, dto.ModeRagChat, err)
	}

	cs.sessionManager.RecordTurn(sess, augmented, answer)

	return &dto.AskResponse{
		Success:      true,
		Answer:       answer,
		Sources:      dedupeSources(retrieved),
		SessionId:    sess.ID,
		MessageCount: sess.MessageCount,
		Mode:         dto.ModeRagChat,
	}
}

// failure converts any error raised while answering into a structured
// result; nothing propagates past the engine boundary.
func (cs *chatService) failure(sess *store.Session, mode string, err error) *dto.AskResponse {
	cs.sysLogger.Error("chat", "failed to answer question", map[string]interface{}{
		"session_id": sess.ID,
		"mode":       mode,
		"error":      err.Error(),
	})

	if embedding.IsQuotaExceeded(err) {
		return &dto.AskResponse{
			Success:   false,
			Message:   "LLM provider quota exceeded",
			Answer:    quotaAnswer,
			Sources:   []dto.SourceDTO{},
			SessionId: sess.ID,
			Mode:      mode,
		}
	}

	return &dto.AskResponse{
		Success:   false,
		Message:   fmt.Sprintf("Error processing question: %v", err),
		Answer:    "I encountered an error while processing your question. Please try again.",
		Sources:   []dto.SourceDTO{},
		SessionId: sess.ID,
		Mode:      mode,
	}
}

func (cs *chatService) History(sessionID string) (*dto.HistoryResponse, error) {
	sess, err := cs.sessionManager.History(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	var messages []dto.HistoryMessageDTO
	if sess.Memory != nil {
		messages = make([]dto.HistoryMessageDTO, 0, len(sess.Memory.Messages))
		for _, msg := range sess.Memory.Messages {
			messages = append(messages, dto.HistoryMessageDTO{
				Role:    msg.Role,
				Content: msg.Content,
			})
		}
	}

	return &dto.HistoryResponse{
		SessionId:    sess.ID,
		CreatedAt:    sess.CreatedAt,
		MessageCount: sess.MessageCount,
		Messages:     messages,
	}, nil
}

func toLLMMessages(transcript []store.Message) []llm.Message {
	messages := make([]llm.Message, 0, len(transcript))
	for _, msg := range transcript {
		role := llm.RoleUser
		if msg.Role == store.RoleAI {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: msg.Content})
	}
	return messages
}

// dedupeSources builds the citation list, reporting each distinct
// passage once even if it was retrieved more than once.
func dedupeSources(chunks []store.Chunk) []dto.SourceDTO {
	type sourceKey struct {
		filename string
		chunkID  int
		preview  string
	}

	seen := make(map[sourceKey]struct{}, len(chunks))
	sources := make([]dto.SourceDTO, 0, len(chunks))
	for _, chunk := range chunks {
		preview := contentPreview(chunk.Text)
		key := sourceKey{filename: chunk.Filename, chunkID: chunk.Index, preview: preview}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		sources = append(sources, dto.SourceDTO{
			Filename:       chunk.Filename,
			ChunkId:        chunk.Index,
			ContentPreview: preview,
		})
	}
	return sources
}

func contentPreview(text string) string {
	const limit = 200
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
