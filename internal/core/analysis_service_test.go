package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astronova.app/server/internal/store"
)

var testProfile = store.Profile{
	ID:            "p-1",
	Name:          "Maria Silva",
	BirthDate:     "1990-04-02",
	BirthTime:     "14:30",
	BirthLocation: "São Paulo, São Paulo, Brasil",
}

func TestRunFullAnalysisMergesBothParts(t *testing.T) {
	gw := &fakeGateway{coreJSON: validCoreJSON, planetJSON: validPlanetJSON}
	svc := NewAnalysisService(gw)

	dossier, err := svc.RunFullAnalysis(context.Background(), testProfile)
	require.NoError(t, err)
	require.NotNil(t, dossier)

	// Sections coming wholly from part 1.
	assert.Equal(t, "Olá, Maria", dossier.GeneralSummary.Greeting)
	assert.Equal(t, "A Guerreira Filósofa", dossier.GeneralSummary.MainArchetype)
	assert.Equal(t, float64(40), dossier.ElementalBalance.Fire)
	assert.Equal(t, "Fogo", dossier.ElementalBalance.DominantElement)
	assert.Equal(t, 7, dossier.Numerology.DestinyNumber)
	assert.Equal(t, "Granada", dossier.PracticalInsights.PowerCrystal)
	assert.Len(t, dossier.ChatInteraction.AdvancedSuggestions, 2)

	// Angular points from part 1, nested under the astral map.
	assert.Equal(t, "Áries", dossier.AstralMap.Sun.Sign)
	assert.Equal(t, "Crescente", dossier.AstralMap.Moon.Phase)
	assert.Equal(t, "Libra", dossier.AstralMap.Descendant.Sign)
	assert.Equal(t, "Capricórnio", dossier.AstralMap.Midheaven.Sign)

	// Planetary tiers from part 2, nested alongside them.
	assert.Equal(t, "Mercúrio em Touro...", dossier.AstralMap.Personal.Mercury)
	assert.Equal(t, "Saturno em Aquário...", dossier.AstralMap.Social.Saturn)
	assert.Equal(t, "Plutão em Capricórnio...", dossier.AstralMap.Transpersonal.Pluto)

	assert.Equal(t, 2, gw.structuredCallCount())
}

func TestRunFullAnalysisAbsentWhenOneRequestFails(t *testing.T) {
	gw := &fakeGateway{coreJSON: validCoreJSON, planetErr: errors.New("boom")}
	svc := NewAnalysisService(gw)

	dossier, err := svc.RunFullAnalysis(context.Background(), testProfile)
	assert.Error(t, err)
	assert.Nil(t, dossier, "a half-successful analysis must not produce a partial dossier")
}

func TestRunFullAnalysisAbsentOnMalformedJSON(t *testing.T) {
	gw := &fakeGateway{coreJSON: "not json at all", planetJSON: validPlanetJSON}
	svc := NewAnalysisService(gw)

	dossier, err := svc.RunFullAnalysis(context.Background(), testProfile)
	assert.Error(t, err)
	assert.Nil(t, dossier)
}

func TestRunFullAnalysisAbsentWhenRequiredFieldMissing(t *testing.T) {
	t.Run("part 1 without resumo_geral", func(t *testing.T) {
		gw := &fakeGateway{coreJSON: `{"balanco_elemental": {"fogo": 1}}`, planetJSON: validPlanetJSON}
		dossier, err := NewAnalysisService(gw).RunFullAnalysis(context.Background(), testProfile)
		assert.Error(t, err)
		assert.Nil(t, dossier)
	})

	t.Run("part 2 without planetas_pessoais", func(t *testing.T) {
		gw := &fakeGateway{coreJSON: validCoreJSON, planetJSON: `{"planetas_sociais": {"jupiter": "x"}}`}
		dossier, err := NewAnalysisService(gw).RunFullAnalysis(context.Background(), testProfile)
		assert.Error(t, err)
		assert.Nil(t, dossier)
	})
}

func TestRunFullAnalysisWithoutGateway(t *testing.T) {
	svc := NewAnalysisService(nil)
	dossier, err := svc.RunFullAnalysis(context.Background(), testProfile)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Nil(t, dossier)
}

func TestRunMoonSnapshot(t *testing.T) {
	gw := &fakeGateway{moonJSON: validMoonJSON}
	svc := NewAnalysisService(gw)

	snapshot, err := svc.RunMoonSnapshot(context.Background(), testProfile)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "Câncer", snapshot.Sign)
	assert.Equal(t, 3, snapshot.ZodiacIndex)
	assert.Equal(t, "Crescente", snapshot.Phase)
}

func TestRunMoonSnapshotFailureYieldsAbsent(t *testing.T) {
	gw := &fakeGateway{moonErr: errors.New("timeout")}
	svc := NewAnalysisService(gw)

	snapshot, err := svc.RunMoonSnapshot(context.Background(), testProfile)
	assert.Error(t, err)
	assert.Nil(t, snapshot)
}
