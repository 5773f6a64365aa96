package core

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
)

// fakeSession records sent turns and replies with canned content. A non-nil
// block channel makes Send wait, which the busy-flag test uses to keep a
// send in flight.
type fakeSession struct {
	mu    sync.Mutex
	reply string
	err   error
	block chan struct{}
	sent  []string
}

func (f *fakeSession) Send(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	f.sent = append(f.sent, text)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return f.reply, f.err
}

func (f *fakeSession) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeGateway dispatches structured requests on recognizable prompt markers
// and hands out the configured session for chats.
type fakeGateway struct {
	mu sync.Mutex

	session     *fakeSession
	lastSystem  string
	lastHistory []SeedTurn
	chatsOpened int

	coreJSON   string
	coreErr    error
	planetJSON string
	planetErr  error
	moonJSON   string
	moonErr    error

	structuredCalls int
}

func (f *fakeGateway) StartChat(systemInstruction string, temperature float32, seedHistory []SeedTurn) ChatSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatsOpened++
	f.lastSystem = systemInstruction
	f.lastHistory = seedHistory
	if f.session == nil {
		f.session = &fakeSession{reply: "resposta"}
	}
	return f.session
}

func (f *fakeGateway) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, maxOutputTokens int32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.structuredCalls++

	switch {
	case strings.Contains(prompt, "PARTE 1"):
		return f.coreJSON, f.coreErr
	case strings.Contains(prompt, "PARTE 2"):
		return f.planetJSON, f.planetErr
	case strings.Contains(prompt, "Lua exata"):
		return f.moonJSON, f.moonErr
	}
	return "", errors.New("unexpected prompt")
}

// configure mutates the canned responses without racing an in-flight
// background generation.
func (f *fakeGateway) configure(fn func(*fakeGateway)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeGateway) structuredCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.structuredCalls
}

const validCoreJSON = `{
	"resumo_geral": {
		"saudacao": "Olá, Maria",
		"arquetipo_principal": "A Guerreira Filósofa",
		"frase_poder": "A coragem molda o destino.",
		"introducao_longa": "Maria, seu mapa revela..."
	},
	"balanco_elemental": {"fogo": 40, "terra": 20, "ar": 25, "agua": 15, "elemento_dominante": "Fogo"},
	"numerologia": {"numero_destino": 7, "numero_alma": 3, "interpretacao_completa": "O número 7..."},
	"insights_praticos": {"cor_favoravel": "Vermelho", "cristal_poder": "Granada", "desafio_atual": "Paciência", "missao_alma": "Liderar"},
	"interacao_ia_chat": {"sugestoes_avancadas": ["O que significa meu ascendente?", "Fale sobre minha Lua"]},
	"sol": {"signo": "Áries", "grau": "15°", "casa": "Casa 1", "interpretacao": "Sol em Áries..."},
	"lua": {"signo": "Câncer", "fase": "Crescente", "casa": "Casa 4", "interpretacao": "Lua em Câncer..."},
	"ascendente": {"signo": "Áries", "interpretacao": "Ascendente em Áries..."},
	"descendente": {"signo": "Libra", "interpretacao": "Descendente em Libra..."},
	"meio_do_ceu": {"signo": "Capricórnio", "interpretacao": "MC em Capricórnio..."}
}`

const validPlanetJSON = `{
	"planetas_pessoais": {"mercurio": "Mercúrio em Touro...", "venus": "Vênus em Peixes...", "marte": "Marte em Leão..."},
	"planetas_sociais": {"jupiter": "Júpiter em Sagitário...", "saturno": "Saturno em Aquário..."},
	"planetas_transpessoais": {"urano": "Urano em Escorpião...", "netuno": "Netuno em Peixes...", "plutao": "Plutão em Capricórnio..."}
}`

const validMoonJSON = `{"sign": "Câncer", "zodiacIndex": 3, "phase": "Crescente", "description": "Sensibilidade à flor da pele."}`
