package scoring

import (
	"fmt"
	"testing"

	"psymap-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discFixture(count int) []models.Question {
	questions := make([]models.Question, 0, count)
	for i := 0; i < count; i++ {
		questions = append(questions, choiceQuestion(fmt.Sprintf("pp-q%02d", i+1), DISCCategories...))
	}
	return questions
}

func TestDISCSingleCategoryDominance(t *testing.T) {
	s := NewDISC()
	questions := discFixture(4)
	// Always pick option "a", which maps to dominance.
	responses := make([]Response, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, Response{QuestionCode: q.Code, Value: "a"})
	}

	raw := s.CalculateScores(responses, questions)
	processed := s.ProcessScores(raw, len(responses), 0)

	assert.Equal(t, 100.0, processed["dominance"])
	assert.Equal(t, 0.0, processed["influence"])
	assert.Equal(t, 0.0, processed["steadiness"])
	assert.Equal(t, 0.0, processed["conscientiousness"])
}

func TestDISCScoresSumToHundred(t *testing.T) {
	s := NewDISC()
	questions := discFixture(4)
	responses := []Response{
		{QuestionCode: "pp-q01", Value: "a"},
		{QuestionCode: "pp-q02", Value: "a"},
		{QuestionCode: "pp-q03", Value: "b"},
		{QuestionCode: "pp-q04", Value: "d"},
	}

	processed := s.ProcessScores(s.CalculateScores(responses, questions), len(responses), 0)

	assert.Equal(t, 50.0, processed["dominance"])
	assert.Equal(t, 25.0, processed["influence"])
	assert.Equal(t, 25.0, processed["conscientiousness"])

	sum := 0.0
	for _, v := range processed {
		sum += v
	}
	assert.InDelta(t, 100.0, sum, 0.2)
}

func TestDISCInvalidOptionIgnored(t *testing.T) {
	s := NewDISC()
	questions := discFixture(2)
	responses := []Response{
		{QuestionCode: "pp-q01", Value: "z"}, // no such option
		{QuestionCode: "pp-q02", Value: "c"},
	}

	processed := s.ProcessScores(s.CalculateScores(responses, questions), len(responses), 0)

	// Only the valid response counts, so steadiness takes the whole total.
	assert.Equal(t, 100.0, processed["steadiness"])
}

func TestDISCEmptyResponses(t *testing.T) {
	s := NewDISC()

	raw := s.CalculateScores(nil, discFixture(4))
	processed := s.ProcessScores(raw, 0, 0)

	for _, category := range DISCCategories {
		assert.Equal(t, 0.0, processed[category], category)
	}
	assert.Nil(t, s.GenerateRecommendations(processed))
}

func TestDISCRecommendationSingleWinner(t *testing.T) {
	s := NewDISC()
	scores := CategoryScores{"dominance": 25, "influence": 50, "steadiness": 12.5, "conscientiousness": 12.5}

	recs := s.GenerateRecommendations(scores)

	require.Len(t, recs, 1)
	assert.Equal(t, "influence", recs[0].Category)
}

func TestDISCRecommendationTieTakesFirstInOrder(t *testing.T) {
	s := NewDISC()
	scores := CategoryScores{"dominance": 50, "steadiness": 50}

	recs := s.GenerateRecommendations(scores)

	require.Len(t, recs, 1)
	assert.Equal(t, "dominance", recs[0].Category)
}
