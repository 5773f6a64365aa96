package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func submitProfile(t *testing.T, s *SQLiteStore, name string) *Profile {
	t.Helper()
	p := &Profile{
		Name:          name,
		BirthDate:     "1990-04-02",
		BirthTime:     "14:30",
		BirthLocation: "São Paulo, São Paulo, Brasil",
	}
	require.NoError(t, s.ReplaceProfile(p))
	require.NotEmpty(t, p.ID)
	return p
}

func TestReplaceProfileClearsEverything(t *testing.T) {
	s := newTestStore(t)

	first := submitProfile(t, s, "Maria Silva")
	require.NoError(t, s.CreateMessage(&Message{Role: "user", Content: "olá"}))
	require.NoError(t, s.CreateMessage(&Message{Role: "model", Content: "oi"}))
	require.NoError(t, s.SaveReading(first.ID, ReadingKindDossier, `{"x":1}`))
	require.NoError(t, s.SaveReading(first.ID, ReadingKindMoon, `{"y":2}`))

	second := submitProfile(t, s, "João Souza")

	profile, err := s.GetProfile()
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, second.ID, profile.ID)
	assert.Equal(t, "João Souza", profile.Name)

	messages, err := s.GetMessages(100, 0)
	require.NoError(t, err)
	assert.Empty(t, messages)

	for _, kind := range []string{ReadingKindDossier, ReadingKindMoon} {
		reading, err := s.GetReading(first.ID, kind)
		require.NoError(t, err)
		assert.Nil(t, reading)
	}
}

func TestGetProfileWhenNoneSubmitted(t *testing.T) {
	s := newTestStore(t)
	profile, err := s.GetProfile()
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestMessagesKeepInsertionOrder(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		role := "user"
		if i%2 == 1 {
			role = "model"
		}
		require.NoError(t, s.CreateMessage(&Message{Role: role, Content: fmt.Sprintf("turno %d", i)}))
	}

	messages, err := s.GetMessages(100, 0)
	require.NoError(t, err)
	require.Len(t, messages, 5)
	for i, msg := range messages {
		assert.Equal(t, fmt.Sprintf("turno %d", i), msg.Content)
	}
}

func TestSaveReadingReplacesSameKind(t *testing.T) {
	s := newTestStore(t)
	p := submitProfile(t, s, "Maria Silva")

	require.NoError(t, s.SaveReading(p.ID, ReadingKindMoon, `{"phase":"Cheia"}`))
	require.NoError(t, s.SaveReading(p.ID, ReadingKindMoon, `{"phase":"Minguante"}`))

	reading, err := s.GetReading(p.ID, ReadingKindMoon)
	require.NoError(t, err)
	require.NotNil(t, reading)
	assert.Equal(t, `{"phase":"Minguante"}`, reading.Payload)
}

func TestSaveReadingForSupersededProfileIsDiscarded(t *testing.T) {
	s := newTestStore(t)
	first := submitProfile(t, s, "Maria Silva")
	submitProfile(t, s, "João Souza")

	// A background generation finishing late must not resurrect old state.
	require.NoError(t, s.SaveReading(first.ID, ReadingKindMoon, `{"phase":"Cheia"}`))

	reading, err := s.GetReading(first.ID, ReadingKindMoon)
	require.NoError(t, err)
	assert.Nil(t, reading)
}

func TestGetReadingWhenAbsent(t *testing.T) {
	s := newTestStore(t)
	p := submitProfile(t, s, "Maria Silva")

	reading, err := s.GetReading(p.ID, ReadingKindDossier)
	require.NoError(t, err)
	assert.Nil(t, reading)
}
