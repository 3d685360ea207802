package scoring

import (
	"psymap-go/internal/models"
)

// VARKCategories in definition order.
var VARKCategories = []string{
	"visual",
	"auditory",
	"reading-writing",
	"kinesthetic",
}

// DefaultVARKTolerance is how far (in processed points) a category may trail
// the top score and still be reported as a co-dominant learning style.
const DefaultVARKTolerance = 10.0

var varkProfiles = map[string]models.Recommendation{
	"visual": {
		Category:    "visual",
		Label:       "Visual",
		Description: "You absorb material best as diagrams, charts and spatial layouts. Redraw notes as mind maps and flowcharts.",
	},
	"auditory": {
		Category:    "auditory",
		Label:       "Auditory",
		Description: "You learn through listening and discussion. Record lectures, talk concepts through and use study groups.",
	},
	"reading-writing": {
		Category:    "reading-writing",
		Label:       "Reading/Writing",
		Description: "Text is your medium. Rewrite notes in your own words, use lists and read widely around each topic.",
	},
	"kinesthetic": {
		Category:    "kinesthetic",
		Label:       "Kinesthetic",
		Description: "You need to do the thing. Use labs, simulations, worked examples and real cases over abstract summaries.",
	},
}

// VARK scores the learning-style test by frequency count: each response
// increments exactly one category, with no weighting.
type VARK struct {
	tolerance float64
}

func NewVARK(tolerance float64) *VARK {
	if tolerance < 0 {
		tolerance = DefaultVARKTolerance
	}
	return &VARK{tolerance: tolerance}
}

func (s *VARK) Slug() string { return "vark" }

func (s *VARK) Categories() []string {
	return append([]string(nil), VARKCategories...)
}

func (s *VARK) CalculateScores(responses []Response, questions []models.Question) CategoryScores {
	scores := zeroScores(VARKCategories)
	idx := indexQuestions(questions)

	for _, r := range dedupe(responses) {
		q, ok := idx[r.QuestionCode]
		if !ok {
			continue
		}
		opt := q.OptionByValue(r.Value)
		if opt == nil || opt.Category == "" {
			continue
		}
		scores[opt.Category]++
	}
	return scores
}

// ProcessScores normalizes counts against the test type's fixed maximum
// category count.
func (s *VARK) ProcessScores(raw CategoryScores, _ int, maxScore float64) CategoryScores {
	return normalizeByCeiling(raw, maxScore)
}

// GenerateRecommendations reports every category within the tolerance of the
// top score as a co-dominant learning style. Unlike DISC, ties are not
// collapsed to a single winner.
func (s *VARK) GenerateRecommendations(scores CategoryScores) []models.Recommendation {
	top := 0.0
	for _, category := range VARKCategories {
		if scores[category] > top {
			top = scores[category]
		}
	}
	if top <= 0 {
		return nil
	}

	var recs []models.Recommendation
	for _, category := range VARKCategories {
		if top-scores[category] <= s.tolerance {
			recs = append(recs, varkProfiles[category])
		}
	}
	return recs
}
