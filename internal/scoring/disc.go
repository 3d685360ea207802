package scoring

import (
	"psymap-go/internal/models"
)

// DISCCategories in definition order; the first category wins an exact tie.
var DISCCategories = []string{
	"dominance",
	"influence",
	"steadiness",
	"conscientiousness",
}

var discProfiles = map[string]models.Recommendation{
	"dominance": {
		Category:    "dominance",
		Label:       "Dominance",
		Description: "Direct and results-driven. You push for outcomes, take charge under pressure and prefer autonomy over consensus.",
	},
	"influence": {
		Category:    "influence",
		Label:       "Influence",
		Description: "Outgoing and persuasive. You energise groups, build relationships quickly and work best in collaborative settings.",
	},
	"steadiness": {
		Category:    "steadiness",
		Label:       "Steadiness",
		Description: "Patient and dependable. You bring calm consistency to teams and prefer stable, supportive environments.",
	},
	"conscientiousness": {
		Category:    "conscientiousness",
		Label:       "Conscientiousness",
		Description: "Precise and analytical. You value accuracy and standards, and do your best work with clear expectations.",
	},
}

// DISC scores the forced-choice personality-pattern test: each response
// contributes one point to exactly one category, resolved through the chosen
// option.
type DISC struct{}

func NewDISC() *DISC { return &DISC{} }

func (s *DISC) Slug() string { return "personality-pattern" }

func (s *DISC) Categories() []string {
	return append([]string(nil), DISCCategories...)
}

func (s *DISC) CalculateScores(responses []Response, questions []models.Question) CategoryScores {
	scores := zeroScores(DISCCategories)
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

// ProcessScores divides each bucket by the total number of counted
// responses. The total is recovered from the buckets themselves, since every
// counted response lands in exactly one.
func (s *DISC) ProcessScores(raw CategoryScores, _ int, _ float64) CategoryScores {
	total := 0.0
	for _, v := range raw {
		total += v
	}
	return normalizeByTotal(raw, int(total))
}

// GenerateRecommendations reports the single highest-scoring category as the
// primary personality descriptor.
func (s *DISC) GenerateRecommendations(scores CategoryScores) []models.Recommendation {
	best := ""
	bestScore := 0.0
	for _, category := range DISCCategories {
		if scores[category] > bestScore {
			best = category
			bestScore = scores[category]
		}
	}
	if best == "" {
		return nil
	}
	return []models.Recommendation{discProfiles[best]}
}
