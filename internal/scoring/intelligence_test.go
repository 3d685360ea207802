package scoring

import (
	"fmt"
	"testing"

	"psymap-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// intelligenceFixture builds one question per category plus matching
// top-score responses.
func intelligenceFixture(weight float64, value string) ([]models.Question, []Response) {
	questions := make([]models.Question, 0, len(DominantIntelligenceCategories))
	responses := make([]Response, 0, len(DominantIntelligenceCategories))
	for i, category := range DominantIntelligenceCategories {
		code := fmt.Sprintf("di-q%02d", i+1)
		questions = append(questions, scaleQuestion(code, category, weight))
		responses = append(responses, Response{QuestionCode: code, Value: value})
	}
	return questions, responses
}

func TestIntelligenceMaxResponsesScoreHundred(t *testing.T) {
	s := NewDominantIntelligence(nil)
	questions, responses := intelligenceFixture(1, "5")

	raw := s.CalculateScores(responses, questions)
	// 8 categories, one question each at weight 1 x value 5: ceiling is
	// maxScore 40 / 8 = 5 per category.
	processed := s.ProcessScores(raw, len(responses), 40)

	for _, category := range DominantIntelligenceCategories {
		assert.Equal(t, 100.0, processed[category], category)
	}
}

func TestIntelligenceWeightMultipliesValue(t *testing.T) {
	s := NewDominantIntelligence(nil)
	questions := []models.Question{scaleQuestion("q1", "spatial", 2)}
	responses := []Response{{QuestionCode: "q1", Value: "4"}}

	raw := s.CalculateScores(responses, questions)

	assert.Equal(t, 8.0, raw["spatial"])
	assert.Equal(t, 0.0, raw["musical"])
}

func TestIntelligenceEmptyResponses(t *testing.T) {
	s := NewDominantIntelligence(nil)
	questions, _ := intelligenceFixture(1, "5")

	raw := s.CalculateScores(nil, questions)

	require.Len(t, raw, len(DominantIntelligenceCategories))
	for category, score := range raw {
		assert.Zero(t, score, category)
	}
	assert.Nil(t, s.GenerateRecommendations(s.ProcessScores(raw, 0, 40)))
}

func TestIntelligenceSkipsUnknownQuestions(t *testing.T) {
	s := NewDominantIntelligence(nil)
	questions := []models.Question{scaleQuestion("q1", "linguistic", 1)}
	responses := []Response{
		{QuestionCode: "q1", Value: "3"},
		{QuestionCode: "ghost", Value: "5"},
	}

	raw := s.CalculateScores(responses, questions)

	assert.Equal(t, 3.0, raw["linguistic"])
	total := 0.0
	for _, v := range raw {
		total += v
	}
	assert.Equal(t, 3.0, total, "unknown question must contribute nothing")
}

func TestIntelligenceDuplicateResponseLastWins(t *testing.T) {
	s := NewDominantIntelligence(nil)
	questions := []models.Question{scaleQuestion("q1", "musical", 1)}
	responses := []Response{
		{QuestionCode: "q1", Value: "2"},
		{QuestionCode: "q1", Value: "5"},
	}

	raw := s.CalculateScores(responses, questions)

	assert.Equal(t, 5.0, raw["musical"])
}

func TestIntelligenceRecommendationsTopTwo(t *testing.T) {
	s := NewDominantIntelligence(nil)
	scores := CategoryScores{
		"linguistic":           40,
		"logical-mathematical": 90,
		"spatial":              70,
		"bodily-kinesthetic":   10,
		"musical":              0,
		"interpersonal":        20,
		"intrapersonal":        30,
		"naturalistic":         15,
	}

	recs := s.GenerateRecommendations(scores)

	require.Len(t, recs, 2)
	assert.Equal(t, "logical-mathematical", recs[0].Category)
	assert.Equal(t, "spatial", recs[1].Category)
	assert.NotEmpty(t, recs[0].Description)
}

func TestIntelligenceRecommendationTieBreak(t *testing.T) {
	scores := CategoryScores{"musical": 80, "linguistic": 80}

	// Default order prefers linguistic; a custom tie order flips it.
	recs := NewDominantIntelligence(nil).GenerateRecommendations(scores)
	require.Len(t, recs, 2)
	assert.Equal(t, "linguistic", recs[0].Category)

	custom := NewDominantIntelligence([]string{"musical", "linguistic"})
	recs = custom.GenerateRecommendations(scores)
	require.Len(t, recs, 2)
	assert.Equal(t, "musical", recs[0].Category)
}

func TestIntelligenceRecommendationsSkipZeroScores(t *testing.T) {
	s := NewDominantIntelligence(nil)
	scores := CategoryScores{"spatial": 55}

	recs := s.GenerateRecommendations(scores)

	require.Len(t, recs, 1, "zero-score categories are never recommended")
	assert.Equal(t, "spatial", recs[0].Category)
}

func TestIntelligenceBareNumericValue(t *testing.T) {
	s := NewDominantIntelligence(nil)
	// Question without a matching option falls back to parsing the value.
	q := models.Question{Code: "q1", Category: "spatial", Weight: 1}
	raw := s.CalculateScores([]Response{{QuestionCode: "q1", Value: "4"}}, []models.Question{q})

	assert.Equal(t, 4.0, raw["spatial"])

	raw = s.CalculateScores([]Response{{QuestionCode: "q1", Value: "not-a-number"}}, []models.Question{q})
	assert.Equal(t, 0.0, raw["spatial"])
}
