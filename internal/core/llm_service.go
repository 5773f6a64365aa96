package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"astronova.app/server/internal/config"
)

const defaultModelName = "gemini-1.5-flash-latest"

// GeminiService is the concrete ModelGateway backed by the Google GenAI API.
type GeminiService struct {
	client *genai.Client
}

func NewGeminiService() *GeminiService {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}

	return &GeminiService{
		client: client,
	}
}

func (s *GeminiService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

func (s *GeminiService) StartChat(systemInstruction string, temperature float32, seedHistory []SeedTurn) ChatSession {
	model := s.client.GenerativeModel(defaultModelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	temp := temperature
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: &temp,
	}

	chatSession := model.StartChat()
	for _, turn := range seedHistory {
		chatSession.History = append(chatSession.History, &genai.Content{
			Role:  turn.Role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}

	return &geminiChatSession{session: chatSession}
}

type geminiChatSession struct {
	session *genai.ChatSession
}

// Send forwards one user turn to the live session. An empty reply is a valid
// result and is left to the caller to substitute.
func (c *geminiChatSession) Send(ctx context.Context, text string) (string, error) {
	resp, err := c.session.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}
	return extractText(resp), nil
}

// GenerateStructured issues a single-shot request constrained to a JSON
// response schema and returns the raw JSON text.
func (s *GeminiService) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, maxOutputTokens int32) (string, error) {
	model := s.client.GenerativeModel(defaultModelName)

	maxTokens := maxOutputTokens
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens:  &maxTokens,
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini structured generation failed: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty structured response")
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			builder.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}
	return builder.String()
}
