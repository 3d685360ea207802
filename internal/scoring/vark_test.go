package scoring

import (
	"fmt"
	"testing"

	"psymap-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func varkFixture(count int) []models.Question {
	questions := make([]models.Question, 0, count)
	for i := 0; i < count; i++ {
		questions = append(questions, choiceQuestion(fmt.Sprintf("vk-q%02d", i+1), VARKCategories...))
	}
	return questions
}

func TestVARKFrequencyCounts(t *testing.T) {
	s := NewVARK(DefaultVARKTolerance)
	questions := varkFixture(8)
	responses := []Response{
		{QuestionCode: "vk-q01", Value: "a"}, // visual
		{QuestionCode: "vk-q02", Value: "a"},
		{QuestionCode: "vk-q03", Value: "a"},
		{QuestionCode: "vk-q04", Value: "a"},
		{QuestionCode: "vk-q05", Value: "b"}, // auditory
		{QuestionCode: "vk-q06", Value: "b"},
		{QuestionCode: "vk-q07", Value: "c"}, // reading-writing
		{QuestionCode: "vk-q08", Value: "d"}, // kinesthetic
	}

	raw := s.CalculateScores(responses, questions)

	assert.Equal(t, 4.0, raw["visual"])
	assert.Equal(t, 2.0, raw["auditory"])
	assert.Equal(t, 1.0, raw["reading-writing"])
	assert.Equal(t, 1.0, raw["kinesthetic"])

	processed := s.ProcessScores(raw, len(responses), 8)
	assert.Equal(t, 50.0, processed["visual"])
	assert.Equal(t, 25.0, processed["auditory"])
	assert.Equal(t, 12.5, processed["reading-writing"])
}

func TestVARKEmptyResponsesNoError(t *testing.T) {
	s := NewVARK(DefaultVARKTolerance)

	raw := s.CalculateScores(nil, varkFixture(8))
	processed := s.ProcessScores(raw, 0, 8)

	require.Len(t, processed, len(VARKCategories))
	for _, category := range VARKCategories {
		assert.Equal(t, 0.0, processed[category], category)
	}
	assert.Nil(t, s.GenerateRecommendations(processed), "all-zero scores yield no styles")
}

func TestVARKCoDominantStyles(t *testing.T) {
	s := NewVARK(10)
	scores := CategoryScores{
		"visual":          50,
		"auditory":        45,
		"reading-writing": 25,
		"kinesthetic":     40,
	}

	recs := s.GenerateRecommendations(scores)

	// visual leads; auditory (5 behind) and kinesthetic (exactly 10 behind)
	// are within tolerance, reading-writing is not.
	require.Len(t, recs, 3)
	categories := []string{recs[0].Category, recs[1].Category, recs[2].Category}
	assert.Equal(t, []string{"visual", "auditory", "kinesthetic"}, categories)
}

func TestVARKSingleDominantStyle(t *testing.T) {
	s := NewVARK(10)
	scores := CategoryScores{
		"visual":          87.5,
		"auditory":        12.5,
		"reading-writing": 0,
		"kinesthetic":     0,
	}

	recs := s.GenerateRecommendations(scores)

	require.Len(t, recs, 1)
	assert.Equal(t, "visual", recs[0].Category)
}

func TestVARKDuplicateResponseLastWins(t *testing.T) {
	s := NewVARK(DefaultVARKTolerance)
	questions := varkFixture(1)
	responses := []Response{
		{QuestionCode: "vk-q01", Value: "a"},
		{QuestionCode: "vk-q01", Value: "d"},
	}

	raw := s.CalculateScores(responses, questions)

	assert.Equal(t, 0.0, raw["visual"])
	assert.Equal(t, 1.0, raw["kinesthetic"])
}
