package scoring

import (
	"psymap-go/internal/models"
)

// Response is one submitted answer as handed to a strategy. Strategies are
// pure: no I/O, deterministic for a given input.
type Response struct {
	QuestionCode string
	Value        string
}

// CategoryScores maps a category name to its score, raw or processed
// depending on context.
type CategoryScores map[string]float64

// Strategy scores one test type. Implementations must skip responses whose
// question is missing from the supplied metadata, let the last duplicate
// response for a question win, and return all-zero scores for empty input.
type Strategy interface {
	Slug() string
	Categories() []string
	// CalculateScores accumulates raw per-category scores from responses.
	CalculateScores(responses []Response, questions []models.Question) CategoryScores
	// ProcessScores converts raw scores to the 0-100 scale. maxScore is the
	// test type's configured raw ceiling; responseCount is the number of
	// distinct questions answered.
	ProcessScores(raw CategoryScores, responseCount int, maxScore float64) CategoryScores
	// GenerateRecommendations derives guidance from processed scores.
	GenerateRecommendations(scores CategoryScores) []models.Recommendation
}

// Registry resolves a strategy by the algorithm slug carried on a TestType.
// Adding a test type means registering one more strategy here.
type Registry struct {
	strategies map[string]Strategy
}

func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{strategies: make(map[string]Strategy, len(strategies))}
	for _, s := range strategies {
		r.strategies[s.Slug()] = s
	}
	return r
}

// DefaultRegistry returns a registry with the three built-in strategies.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewDominantIntelligence(nil),
		NewDISC(),
		NewVARK(DefaultVARKTolerance),
	)
}

func (r *Registry) Get(slug string) (Strategy, bool) {
	s, ok := r.strategies[slug]
	return s, ok
}

// zeroScores returns a score map with every category present at zero, so
// empty response lists still produce a full score set.
func zeroScores(categories []string) CategoryScores {
	scores := make(CategoryScores, len(categories))
	for _, c := range categories {
		scores[c] = 0
	}
	return scores
}

// dedupe collapses duplicate responses for the same question, keeping the
// last one in input order. Mirrors the persistence upsert contract.
func dedupe(responses []Response) []Response {
	seen := make(map[string]int, len(responses))
	out := make([]Response, 0, len(responses))
	for _, r := range responses {
		if i, ok := seen[r.QuestionCode]; ok {
			out[i] = r
			continue
		}
		seen[r.QuestionCode] = len(out)
		out = append(out, r)
	}
	return out
}

// indexQuestions builds a lookup of question metadata by code.
func indexQuestions(questions []models.Question) map[string]*models.Question {
	idx := make(map[string]*models.Question, len(questions))
	for i := range questions {
		idx[questions[i].Code] = &questions[i]
	}
	return idx
}
