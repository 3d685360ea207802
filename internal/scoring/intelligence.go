package scoring

import (
	"sort"
	"strconv"

	"psymap-go/internal/models"
)

// DominantIntelligenceCategories is the canonical category order, also used
// as the default tie-break order for recommendations.
var DominantIntelligenceCategories = []string{
	"linguistic",
	"logical-mathematical",
	"spatial",
	"bodily-kinesthetic",
	"musical",
	"interpersonal",
	"intrapersonal",
	"naturalistic",
}

var intelligenceProfiles = map[string]models.Recommendation{
	"linguistic": {
		Category:    "linguistic",
		Label:       "Linguistic",
		Description: "You learn best through words. Reading, writing, storytelling and discussion-heavy activities will play to your strengths.",
	},
	"logical-mathematical": {
		Category:    "logical-mathematical",
		Label:       "Logical-Mathematical",
		Description: "You reason in patterns and systems. Problem sets, experiments and structured analysis suit you well.",
	},
	"spatial": {
		Category:    "spatial",
		Label:       "Spatial",
		Description: "You think in images and space. Diagrams, maps, modelling and design work will come naturally.",
	},
	"bodily-kinesthetic": {
		Category:    "bodily-kinesthetic",
		Label:       "Bodily-Kinesthetic",
		Description: "You learn by doing. Hands-on practice, building and movement-based activities fit you best.",
	},
	"musical": {
		Category:    "musical",
		Label:       "Musical",
		Description: "You are attuned to rhythm and sound. Mnemonics, rhythm and audio material will reinforce your learning.",
	},
	"interpersonal": {
		Category:    "interpersonal",
		Label:       "Interpersonal",
		Description: "You thrive with others. Group work, teaching peers and collaborative projects suit you.",
	},
	"intrapersonal": {
		Category:    "intrapersonal",
		Label:       "Intrapersonal",
		Description: "You know yourself well. Independent study, reflection and self-paced goals work in your favour.",
	},
	"naturalistic": {
		Category:    "naturalistic",
		Label:       "Naturalistic",
		Description: "You classify and observe. Fieldwork, categorisation and real-world examples will anchor concepts for you.",
	},
}

// DominantIntelligence scores the eight-category multiple-intelligences
// test: each response adds weight x value into its question's category
// bucket.
type DominantIntelligence struct {
	order []string
}

// NewDominantIntelligence builds the strategy. tieOrder controls which
// category wins an exact tie in recommendations; nil means the canonical
// category order.
func NewDominantIntelligence(tieOrder []string) *DominantIntelligence {
	if len(tieOrder) == 0 {
		tieOrder = DominantIntelligenceCategories
	}
	return &DominantIntelligence{order: tieOrder}
}

func (s *DominantIntelligence) Slug() string { return "dominant-intelligence" }

func (s *DominantIntelligence) Categories() []string {
	return append([]string(nil), s.order...)
}

func (s *DominantIntelligence) CalculateScores(responses []Response, questions []models.Question) CategoryScores {
	scores := zeroScores(s.order)
	idx := indexQuestions(questions)

	for _, r := range dedupe(responses) {
		q, ok := idx[r.QuestionCode]
		if !ok {
			continue
		}
		value, ok := responseValue(q, r.Value)
		if !ok {
			continue
		}
		scores[q.Category] += q.Weight * value
	}
	return scores
}

// ProcessScores normalizes each bucket against an even share of the test
// type's raw ceiling (maxScore / category count).
func (s *DominantIntelligence) ProcessScores(raw CategoryScores, _ int, maxScore float64) CategoryScores {
	ceiling := 0.0
	if len(s.order) > 0 {
		ceiling = maxScore / float64(len(s.order))
	}
	return normalizeByCeiling(raw, ceiling)
}

// GenerateRecommendations reports the top two categories, ranked descending
// with exact ties broken by the configured category order.
func (s *DominantIntelligence) GenerateRecommendations(scores CategoryScores) []models.Recommendation {
	ranked := rankCategories(scores, s.order)

	var recs []models.Recommendation
	for _, category := range ranked {
		if len(recs) == 2 || scores[category] <= 0 {
			break
		}
		if profile, ok := intelligenceProfiles[category]; ok {
			recs = append(recs, profile)
		}
	}
	return recs
}

// responseValue resolves the numeric contribution of a submitted value,
// preferring the matching option's score over a bare numeric parse.
func responseValue(q *models.Question, value string) (float64, bool) {
	if opt := q.OptionByValue(value); opt != nil {
		return opt.Score, true
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// rankCategories sorts categories by score descending; equal scores keep the
// order given by tieOrder.
func rankCategories(scores CategoryScores, tieOrder []string) []string {
	pos := make(map[string]int, len(tieOrder))
	for i, c := range tieOrder {
		pos[c] = i
	}

	ranked := append([]string(nil), tieOrder...)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := scores[ranked[i]], scores[ranked[j]]
		if si != sj {
			return si > sj
		}
		return pos[ranked[i]] < pos[ranked[j]]
	})
	return ranked
}
