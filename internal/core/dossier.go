package core

// Dossier wire types. The JSON field names are the contract shared with the
// structured-response schemas in prompts.go and must not drift from them.

type GeneralSummary struct {
	Greeting         string `json:"saudacao"`
	MainArchetype    string `json:"arquetipo_principal"`
	PowerPhrase      string `json:"frase_poder"`
	LongIntroduction string `json:"introducao_longa"`
}

type ElementalBalance struct {
	Fire            float64 `json:"fogo"`
	Earth           float64 `json:"terra"`
	Air             float64 `json:"ar"`
	Water           float64 `json:"agua"`
	DominantElement string  `json:"elemento_dominante"`
}

type SunPlacement struct {
	Sign           string `json:"signo"`
	Degree         string `json:"grau"`
	House          string `json:"casa"`
	Interpretation string `json:"interpretacao"`
}

type MoonPlacement struct {
	Sign           string `json:"signo"`
	Phase          string `json:"fase"`
	House          string `json:"casa"`
	Interpretation string `json:"interpretacao"`
}

type AnglePlacement struct {
	Sign           string `json:"signo"`
	Interpretation string `json:"interpretacao"`
}

type PersonalPlanets struct {
	Mercury string `json:"mercurio"`
	Venus   string `json:"venus"`
	Mars    string `json:"marte"`
}

type SocialPlanets struct {
	Jupiter string `json:"jupiter"`
	Saturn  string `json:"saturno"`
}

type TranspersonalPlanets struct {
	Uranus  string `json:"urano"`
	Neptune string `json:"netuno"`
	Pluto   string `json:"plutao"`
}

type AstralMap struct {
	Sun           SunPlacement         `json:"sol"`
	Moon          MoonPlacement        `json:"lua"`
	Ascendant     AnglePlacement       `json:"ascendente"`
	Descendant    AnglePlacement       `json:"descendente"`
	Midheaven     AnglePlacement       `json:"meio_do_ceu"`
	Personal      PersonalPlanets      `json:"planetas_pessoais"`
	Social        SocialPlanets        `json:"planetas_sociais"`
	Transpersonal TranspersonalPlanets `json:"planetas_transpessoais"`
}

type Numerology struct {
	DestinyNumber      int    `json:"numero_destino"`
	SoulNumber         int    `json:"numero_alma"`
	FullInterpretation string `json:"interpretacao_completa"`
}

type PracticalInsights struct {
	FavorableColor   string `json:"cor_favoravel"`
	PowerCrystal     string `json:"cristal_poder"`
	CurrentChallenge string `json:"desafio_atual"`
	SoulMission      string `json:"missao_alma"`
}

type ChatInteraction struct {
	AdvancedSuggestions []string `json:"sugestoes_avancadas"`
}

type Dossier struct {
	GeneralSummary    GeneralSummary    `json:"resumo_geral"`
	ElementalBalance  ElementalBalance  `json:"balanco_elemental"`
	AstralMap         AstralMap         `json:"mapa_astral"`
	Numerology        Numerology        `json:"numerologia"`
	PracticalInsights PracticalInsights `json:"insights_praticos"`
	ChatInteraction   ChatInteraction   `json:"interacao_ia_chat"`
}

// MoonSnapshot is the compact moon-only reading. It keeps its own wire format
// (English keys) and is never merged into the Dossier.
type MoonSnapshot struct {
	Sign        string `json:"sign"`
	ZodiacIndex int    `json:"zodiacIndex"` // 0 for Aries, 1 for Taurus, etc.
	Phase       string `json:"phase"`
	Description string `json:"description"`
}

// corePartResponse mirrors the part-1 schema: angular points stay flat at the
// top level to keep the merge a plain disjoint-field union. Pointer fields
// allow required-presence checks after decoding.
type corePartResponse struct {
	GeneralSummary    *GeneralSummary    `json:"resumo_geral"`
	ElementalBalance  *ElementalBalance  `json:"balanco_elemental"`
	Numerology        *Numerology        `json:"numerologia"`
	PracticalInsights *PracticalInsights `json:"insights_praticos"`
	ChatInteraction   *ChatInteraction   `json:"interacao_ia_chat"`
	Sun               *SunPlacement      `json:"sol"`
	Moon              *MoonPlacement     `json:"lua"`
	Ascendant         *AnglePlacement    `json:"ascendente"`
	Descendant        *AnglePlacement    `json:"descendente"`
	Midheaven         *AnglePlacement    `json:"meio_do_ceu"`
}

type planetPartResponse struct {
	Personal      *PersonalPlanets      `json:"planetas_pessoais"`
	Social        *SocialPlanets        `json:"planetas_sociais"`
	Transpersonal *TranspersonalPlanets `json:"planetas_transpessoais"`
}

// mergeDossier joins the two partial responses into one denormalized record.
// The two schemas populate disjoint fields, so the union needs no conflict
// resolution: angular points come from part 1, planetary tiers from part 2.
func mergeDossier(corePart corePartResponse, planetPart planetPartResponse) *Dossier {
	d := &Dossier{}

	if corePart.GeneralSummary != nil {
		d.GeneralSummary = *corePart.GeneralSummary
	}
	if corePart.ElementalBalance != nil {
		d.ElementalBalance = *corePart.ElementalBalance
	}
	if corePart.Numerology != nil {
		d.Numerology = *corePart.Numerology
	}
	if corePart.PracticalInsights != nil {
		d.PracticalInsights = *corePart.PracticalInsights
	}
	if corePart.ChatInteraction != nil {
		d.ChatInteraction = *corePart.ChatInteraction
	}

	if corePart.Sun != nil {
		d.AstralMap.Sun = *corePart.Sun
	}
	if corePart.Moon != nil {
		d.AstralMap.Moon = *corePart.Moon
	}
	if corePart.Ascendant != nil {
		d.AstralMap.Ascendant = *corePart.Ascendant
	}
	if corePart.Descendant != nil {
		d.AstralMap.Descendant = *corePart.Descendant
	}
	if corePart.Midheaven != nil {
		d.AstralMap.Midheaven = *corePart.Midheaven
	}

	if planetPart.Personal != nil {
		d.AstralMap.Personal = *planetPart.Personal
	}
	if planetPart.Social != nil {
		d.AstralMap.Social = *planetPart.Social
	}
	if planetPart.Transpersonal != nil {
		d.AstralMap.Transpersonal = *planetPart.Transpersonal
	}

	return d
}
