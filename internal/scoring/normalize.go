package scoring

import "math"

// normalizeByCeiling scales each raw score against a fixed per-category
// ceiling onto 0-100.
func normalizeByCeiling(raw CategoryScores, ceiling float64) CategoryScores {
	processed := make(CategoryScores, len(raw))
	for category, score := range raw {
		if ceiling <= 0 {
			processed[category] = 0
			continue
		}
		processed[category] = clampPercent(score / ceiling * 100)
	}
	return processed
}

// normalizeByTotal scales each raw score against the total number of
// responses onto 0-100. Used by forced-choice scoring, where every response
// lands in exactly one bucket.
func normalizeByTotal(raw CategoryScores, total int) CategoryScores {
	processed := make(CategoryScores, len(raw))
	for category, score := range raw {
		if total <= 0 {
			processed[category] = 0
			continue
		}
		processed[category] = clampPercent(score / float64(total) * 100)
	}
	return processed
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	// One decimal place is plenty for display and keeps stored JSON stable.
	return math.Round(v*10) / 10
}
