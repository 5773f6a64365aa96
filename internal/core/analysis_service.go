package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"astronova.app/server/internal/store"
)

const (
	dossierMaxOutputTokens = 8192 // generous allowance, the texts are long by design
	moonMaxOutputTokens    = 1024
)

// ErrModelUnavailable is returned when no API key was configured and the
// model gateway is disabled.
var ErrModelUnavailable = errors.New("model gateway unavailable")

// AnalysisService runs the structured dossier and moon-snapshot requests.
type AnalysisService struct {
	gateway ModelGateway
}

func NewAnalysisService(gateway ModelGateway) *AnalysisService {
	return &AnalysisService{gateway: gateway}
}

func (s *AnalysisService) Enabled() bool {
	return s.gateway != nil
}

// RunFullAnalysis issues the two dossier requests concurrently, validates each
// half independently and merges them. All-or-nothing: if either request fails,
// returns malformed JSON or omits its required top-level section, no Dossier
// is produced at all.
func (s *AnalysisService) RunFullAnalysis(ctx context.Context, profile store.Profile) (*Dossier, error) {
	if s.gateway == nil {
		return nil, ErrModelUnavailable
	}

	var corePart corePartResponse
	var planetPart planetPartResponse

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		text, err := s.gateway.GenerateStructured(gctx, buildCoreDossierPrompt(profile), coreDossierSchema(), dossierMaxOutputTokens)
		if err != nil {
			return fmt.Errorf("core dossier request failed: %w", err)
		}
		if err := json.Unmarshal([]byte(text), &corePart); err != nil {
			return fmt.Errorf("core dossier response is not valid JSON: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		text, err := s.gateway.GenerateStructured(gctx, buildPlanetDossierPrompt(profile), planetDossierSchema(), dossierMaxOutputTokens)
		if err != nil {
			return fmt.Errorf("planet dossier request failed: %w", err)
		}
		if err := json.Unmarshal([]byte(text), &planetPart); err != nil {
			return fmt.Errorf("planet dossier response is not valid JSON: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if corePart.GeneralSummary == nil {
		return nil, errors.New("core dossier response missing resumo_geral")
	}
	if planetPart.Personal == nil {
		return nil, errors.New("planet dossier response missing planetas_pessoais")
	}

	return mergeDossier(corePart, planetPart), nil
}

// RunMoonSnapshot is an independent single-shot reading. It shares inputs with
// the dossier pipeline but neither blocks it nor is blocked by it; its failure
// simply yields no snapshot.
func (s *AnalysisService) RunMoonSnapshot(ctx context.Context, profile store.Profile) (*MoonSnapshot, error) {
	if s.gateway == nil {
		return nil, ErrModelUnavailable
	}

	text, err := s.gateway.GenerateStructured(ctx, buildMoonPrompt(profile), moonSnapshotSchema(), moonMaxOutputTokens)
	if err != nil {
		return nil, fmt.Errorf("moon snapshot request failed: %w", err)
	}

	var snapshot MoonSnapshot
	if err := json.Unmarshal([]byte(text), &snapshot); err != nil {
		return nil, fmt.Errorf("moon snapshot response is not valid JSON: %w", err)
	}
	return &snapshot, nil
}
