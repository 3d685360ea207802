package assessment

import (
	"sort"

	"psymap-go/internal/models"
)

// TestProgress is the completion state of one test within a session.
type TestProgress struct {
	Answered             int      `json:"answered"`
	Total                int      `json:"total"`
	RemainingQuestionIDs []string `json:"remainingQuestionIds"`
}

// Complete reports whether every active question has an answer.
func (p TestProgress) Complete() bool {
	return p.Answered >= p.Total
}

// ComputeProgress counts responses against the active question set and lists
// the unanswered questions ordered by their order index. Pure computation;
// never mutates state.
func ComputeProgress(questions []models.Question, responses []models.UserResponse) TestProgress {
	answered := make(map[string]bool, len(responses))
	for _, r := range responses {
		answered[r.QuestionCode] = true
	}

	ordered := append([]models.Question(nil), questions...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})

	progress := TestProgress{Total: len(ordered)}
	for _, q := range ordered {
		if answered[q.Code] {
			progress.Answered++
			continue
		}
		progress.RemainingQuestionIDs = append(progress.RemainingQuestionIDs, q.Code)
	}
	return progress
}
