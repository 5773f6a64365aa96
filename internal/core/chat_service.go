package core

import (
	"context"
	"log"
	"strings"
	"sync"

	"astronova.app/server/internal/store"
)

const (
	chatTemperature = 0.7

	// Fixed user-facing replies. These are UX contract, not placeholders:
	// chat failures never surface as errors.
	emptyReplyFallback = "Os dados estelares estão momentaneamente inacessíveis."
	sendFailureReply   = "Erro de conexão com o servidor de efemérides. Tente novamente."
	missingKeyReply    = "ERRO CRÍTICO: Chave de API ausente."
)

// ChatService holds the single live conversational context. Starting a new
// session (on profile submission) discards the previous one.
type ChatService struct {
	gateway ModelGateway

	mu      sync.Mutex
	session ChatSession
}

func NewChatService(gateway ModelGateway) *ChatService {
	return &ChatService{gateway: gateway}
}

func (s *ChatService) Enabled() bool {
	return s.gateway != nil
}

// StartSession creates a fresh session scoped to the given profile, seeded
// with the synthetic opening exchange. A nil profile starts an anonymous
// session.
func (s *ChatService) StartSession(profile *store.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gateway == nil {
		s.session = nil
		return
	}
	s.session = s.gateway.StartChat(systemInstruction, chatTemperature, seedHistory(profile))
}

// Send forwards one user turn and always returns a reply string: the model's
// text, a fallback when the model returned empty content, or an apology when
// the gateway failed. The caller appends both turns to the transcript and is
// responsible for serializing sends.
func (s *ChatService) Send(ctx context.Context, text string) string {
	if s.gateway == nil {
		return missingKeyReply
	}

	s.mu.Lock()
	if s.session == nil {
		// Lazily fall back to an anonymous session.
		s.session = s.gateway.StartChat(systemInstruction, chatTemperature, nil)
	}
	session := s.session
	s.mu.Unlock()

	reply, err := session.Send(ctx, text)
	if err != nil {
		log.Printf("Chat send failed: %v", err)
		return sendFailureReply
	}
	if strings.TrimSpace(reply) == "" {
		log.Println("Gemini chat reply was empty, substituting fallback text.")
		return emptyReplyFallback
	}
	return reply
}
