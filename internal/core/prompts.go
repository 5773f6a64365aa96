package core

import (
	"fmt"

	"github.com/google/generative-ai-go/genai"

	"astronova.app/server/internal/store"
)

const systemInstruction = `Você é o AstroNova Prime.
Sua missão: Gerar relatórios ASTROLÓGICOS DEFINITIVOS E MASSIVOS.
O usuário exige profundidade extrema.

Regras de Estilo:
1. DETALHAMENTO MÁXIMO: Não resuma. Expanda.
2. TÓPICO POR TÓPICO: Ao explicar um posicionamento, quebre em conceitos (O que é, O que significa no signo, O que significa na casa).
3. EDUCACIONAL: Ensine astrologia enquanto interpreta.
4. TEXTO RICO: Use parágrafos claros.`

// seedHistory builds the synthetic opening exchange that gives every later
// turn a shared frame of reference. A nil profile yields an anonymous session.
func seedHistory(profile *store.Profile) []SeedTurn {
	if profile == nil {
		return nil
	}

	contextPrompt := fmt.Sprintf(
		"NATIVO: %s\nNASCIMENTO: %s às %s\nLOCAL: %s\nMODO: RELATÓRIO COMPLETO (SEM RESUMOS).",
		profile.Name, profile.BirthDate, profile.BirthTime, profile.BirthLocation,
	)

	return []SeedTurn{
		{
			Role: "user",
			Text: fmt.Sprintf("INICIAR ANÁLISE COMPLETA PARA: %s", contextPrompt),
		},
		{
			Role: "model",
			Text: fmt.Sprintf("Entendido. Iniciando processamento profundo de todos os vetores astrológicos para %s. O relatório será extenso e detalhado.", profile.Name),
		},
	}
}

func profileBaseInfo(profile store.Profile) string {
	return fmt.Sprintf("Nome: %q Data: %s Hora: %s Local: %s",
		profile.Name, profile.BirthDate, profile.BirthTime, profile.BirthLocation)
}

// buildCoreDossierPrompt asks for part 1 of the dossier: general data,
// elements, numerology and the five angular points. The greeting and the
// numerology derivation must address the literal name string.
func buildCoreDossierPrompt(profile store.Profile) string {
	return fmt.Sprintf(`%s
GERAR PARTE 1 DO DOSSIÊ: DADOS GERAIS, ELEMENTOS, NUMEROLOGIA E PONTOS ANGULARES (Sol, Lua, Asc, Desc, MC).

OBRIGATÓRIO:
1. Na "introducao_longa", você deve saudar nominalmente %q e falar diretamente com essa pessoa.
2. Na "numerologia", calcule EXPLICITAMENTE para o nome %q e explique o cálculo.

Detalhe muito bem o Sol, Lua e Ascendente.`,
		profileBaseInfo(profile), profile.Name, profile.Name)
}

// buildPlanetDossierPrompt asks for part 2: long-form interpretive text for
// the eight planets, grouped in personal / social / transpersonal tiers.
func buildPlanetDossierPrompt(profile store.Profile) string {
	return fmt.Sprintf(`%s
GERAR PARTE 2 DO DOSSIÊ: DETALHAMENTO PROFUNDO DOS PLANETAS.
Gere textos longos e inspiradores para:
1. Planetas Pessoais (Mercúrio, Vênus, Marte).
2. Planetas Sociais (Júpiter, Saturno).
3. Planetas Transpessoais (Urano, Netuno, Plutão).
Ensine sobre o conceito do planeta, seu signo e sua casa.`,
		profileBaseInfo(profile))
}

func buildMoonPrompt(profile store.Profile) string {
	return fmt.Sprintf(`Lua exata para: %s, %s, %s.
JSON: { "sign": "Signo", "zodiacIndex": 0-11, "phase": "Fase", "description": "Resumo emocional." }`,
		profile.BirthDate, profile.BirthTime, profile.BirthLocation)
}

func stringSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func anglePlacementSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"signo":         stringSchema(),
			"interpretacao": stringSchema(),
		},
	}
}

// coreDossierSchema keeps the angular points flat at the top level so the
// merge step can nest them under mapa_astral without conflict.
func coreDossierSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"resumo_geral": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"saudacao":            stringSchema(),
					"arquetipo_principal": stringSchema(),
					"frase_poder":         stringSchema(),
					"introducao_longa":    stringSchema(),
				},
			},
			"balanco_elemental": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"fogo":               {Type: genai.TypeNumber},
					"terra":              {Type: genai.TypeNumber},
					"ar":                 {Type: genai.TypeNumber},
					"agua":               {Type: genai.TypeNumber},
					"elemento_dominante": stringSchema(),
				},
			},
			"numerologia": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"numero_destino":         {Type: genai.TypeInteger},
					"numero_alma":            {Type: genai.TypeInteger},
					"interpretacao_completa": stringSchema(),
				},
			},
			"insights_praticos": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"cor_favoravel": stringSchema(),
					"cristal_poder": stringSchema(),
					"desafio_atual": stringSchema(),
					"missao_alma":   stringSchema(),
				},
			},
			"interacao_ia_chat": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"sugestoes_avancadas": {
						Type:  genai.TypeArray,
						Items: stringSchema(),
					},
				},
			},
			"sol": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"signo":         stringSchema(),
					"grau":          stringSchema(),
					"casa":          stringSchema(),
					"interpretacao": stringSchema(),
				},
			},
			"lua": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"signo":         stringSchema(),
					"fase":          stringSchema(),
					"casa":          stringSchema(),
					"interpretacao": stringSchema(),
				},
			},
			"ascendente":  anglePlacementSchema(),
			"descendente": anglePlacementSchema(),
			"meio_do_ceu": anglePlacementSchema(),
		},
	}
}

func planetDossierSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"planetas_pessoais": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"mercurio": stringSchema(),
					"venus":    stringSchema(),
					"marte":    stringSchema(),
				},
			},
			"planetas_sociais": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"jupiter": stringSchema(),
					"saturno": stringSchema(),
				},
			},
			"planetas_transpessoais": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"urano":  stringSchema(),
					"netuno": stringSchema(),
					"plutao": stringSchema(),
				},
			},
		},
	}
}

func moonSnapshotSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"sign":        stringSchema(),
			"zodiacIndex": {Type: genai.TypeInteger},
			"phase":       stringSchema(),
			"description": stringSchema(),
		},
	}
}
