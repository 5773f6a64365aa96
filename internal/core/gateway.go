package core

import (
	"context"

	"github.com/google/generative-ai-go/genai"
)

// SeedTurn is one pre-recorded exchange used to open a chat session with a
// shared frame of reference before the user types anything.
type SeedTurn struct {
	Role string // "user" or "model"
	Text string
}

// ChatSession is one live conversational context with the model.
type ChatSession interface {
	Send(ctx context.Context, text string) (string, error)
}

// ModelGateway abstracts the generative model provider. A nil gateway means
// the service is running without an API key and no calls may be attempted.
type ModelGateway interface {
	StartChat(systemInstruction string, temperature float32, seedHistory []SeedTurn) ChatSession
	GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, maxOutputTokens int32) (string, error)
}
