package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"astronova.app/server/internal/search"
	"astronova.app/server/internal/store"
)

const (
	dossierReadyNoticeFmt = "Olá, %s. Seu dossiê completo foi compilado. Analisei cada aspecto, casa e planeta com profundidade. Role o painel para ler sua análise detalhada."
	dossierFailedNotice   = "AstroNova Prime: Detectada instabilidade na rede de efemérides. Os dados profundos falharam, mas estou disponível para consulta via chat."

	transcriptLimit = 200
)

var (
	// ErrEmptyMessage marks an empty or whitespace-only send: a no-op with
	// no turn appended and no gateway call.
	ErrEmptyMessage = errors.New("message content is empty")
	// ErrBusy marks a send attempted while another one is in flight.
	ErrBusy = errors.New("a chat send is already in flight")
)

// ProfileInput is the settings-form payload.
type ProfileInput struct {
	Name          string `json:"name"`
	BirthDate     string `json:"birth_date"`
	BirthTime     string `json:"birth_time"`
	BirthLocation string `json:"birth_location"`
}

// SessionState is the full renderable state of the live session.
type SessionState struct {
	Profile       *store.Profile  `json:"profile"`
	Messages      []store.Message `json:"messages"`
	Dossier       *Dossier        `json:"dossier,omitempty"`
	Moon          *MoonSnapshot   `json:"moon,omitempty"`
	AnalysisError bool            `json:"analysis_error"`
	Busy          bool            `json:"busy"`
}

// SessionService owns the live session: the single profile, its transcript,
// the generated readings and the transient flags. All mutations funnel
// through it.
type SessionService struct {
	store    *store.SQLiteStore
	chat     *ChatService
	analysis *AnalysisService
	search   *search.Controller

	mu            sync.Mutex
	busy          bool
	analysisError bool
}

func NewSessionService(db *store.SQLiteStore, chat *ChatService, analysis *AnalysisService, searchCtl *search.Controller) *SessionService {
	return &SessionService{
		store:    db,
		chat:     chat,
		analysis: analysis,
		search:   searchCtl,
	}
}

// SubmitProfile installs a new profile and kicks off generation. The prior
// dossier, moon snapshot, transcript and error flag are cleared before
// anything else happens; the moon snapshot runs in the background while the
// dossier pipeline completes synchronously. Chat remains usable whatever the
// dossier outcome.
func (s *SessionService) SubmitProfile(ctx context.Context, input ProfileInput) (*SessionState, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.BirthDate) == "" {
		return nil, errors.New("name and birth date are required")
	}

	profile := &store.Profile{
		Name:          strings.TrimSpace(input.Name),
		BirthDate:     input.BirthDate,
		BirthTime:     input.BirthTime,
		BirthLocation: input.BirthLocation,
	}
	if err := s.store.ReplaceProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to install new profile: %w", err)
	}

	s.mu.Lock()
	s.analysisError = false
	s.mu.Unlock()
	s.search.Reset(profile.BirthLocation)
	s.chat.StartSession(profile)

	if s.analysis.Enabled() {
		go s.refreshMoonSnapshot(*profile)

		dossier, err := s.analysis.RunFullAnalysis(ctx, *profile)
		if err != nil {
			log.Printf("Full analysis failed for profile %s: %v", profile.ID, err)
			s.mu.Lock()
			s.analysisError = true
			s.mu.Unlock()
			s.appendModelNotice(dossierFailedNotice)
		} else {
			if err := s.saveReading(profile.ID, store.ReadingKindDossier, dossier); err != nil {
				log.Printf("Failed to store dossier for profile %s: %v", profile.ID, err)
			}
			s.appendModelNotice(fmt.Sprintf(dossierReadyNoticeFmt, firstName(profile.Name)))
		}
	}

	return s.State()
}

// refreshMoonSnapshot publishes the moon slot independently of the dossier
// pipeline. Failure is silent: the widget simply does not render.
func (s *SessionService) refreshMoonSnapshot(profile store.Profile) {
	snapshot, err := s.analysis.RunMoonSnapshot(context.Background(), profile)
	if err != nil {
		log.Printf("Moon snapshot failed for profile %s: %v", profile.ID, err)
		return
	}
	if err := s.saveReading(profile.ID, store.ReadingKindMoon, snapshot); err != nil {
		log.Printf("Failed to store moon snapshot for profile %s: %v", profile.ID, err)
	}
}

// SendMessage appends a user turn, obtains the model reply and appends it.
// Sends are serialized by the busy flag; a second send while one is in
// flight is rejected with ErrBusy.
func (s *SessionService) SendMessage(ctx context.Context, text string) (*store.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.busy = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	// Without a credential the chat degrades to a fixed error stub: no user
	// turn is recorded and no gateway call is made.
	if !s.chat.Enabled() {
		stub := store.Message{Role: "model", Content: missingKeyReply}
		if err := s.store.CreateMessage(&stub); err != nil {
			return nil, fmt.Errorf("failed to store degraded-mode reply: %w", err)
		}
		return &stub, nil
	}

	userMsg := store.Message{Role: "user", Content: text}
	if err := s.store.CreateMessage(&userMsg); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	reply := s.chat.Send(ctx, text)

	modelMsg := store.Message{Role: "model", Content: reply}
	if err := s.store.CreateMessage(&modelMsg); err != nil {
		return nil, fmt.Errorf("failed to store model message: %w", err)
	}
	return &modelMsg, nil
}

// State assembles the current session snapshot from the store and the
// transient flags.
func (s *SessionService) State() (*SessionState, error) {
	profile, err := s.store.GetProfile()
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	messages, err := s.store.GetMessages(transcriptLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}

	state := &SessionState{Profile: profile, Messages: messages}
	s.mu.Lock()
	state.AnalysisError = s.analysisError
	state.Busy = s.busy
	s.mu.Unlock()

	if profile != nil {
		if dossier := new(Dossier); s.loadReading(profile.ID, store.ReadingKindDossier, dossier) {
			state.Dossier = dossier
		}
		if moon := new(MoonSnapshot); s.loadReading(profile.ID, store.ReadingKindMoon, moon) {
			state.Moon = moon
		}
	}
	return state, nil
}

func (s *SessionService) saveReading(profileID, kind string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}
	return s.store.SaveReading(profileID, kind, string(raw))
}

func (s *SessionService) loadReading(profileID, kind string, out any) bool {
	reading, err := s.store.GetReading(profileID, kind)
	if err != nil {
		log.Printf("Failed to load %s reading for profile %s: %v", kind, profileID, err)
		return false
	}
	if reading == nil {
		return false
	}
	if err := json.Unmarshal([]byte(reading.Payload), out); err != nil {
		log.Printf("Stored %s reading for profile %s is not valid JSON: %v", kind, profileID, err)
		return false
	}
	return true
}

func (s *SessionService) appendModelNotice(text string) {
	notice := store.Message{Role: "model", Content: text}
	if err := s.store.CreateMessage(&notice); err != nil {
		log.Printf("Failed to store model notice: %v", err)
	}
}

func firstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return fullName
	}
	return fields[0]
}
