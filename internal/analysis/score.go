package analysis

// minSubstantiveLen is the length above which a field counts toward the
// confidence score.
const minSubstantiveLen = 20

var confidenceWeights = []struct {
	field  string
	weight float64
}{
	{"title", 0.15},
	{"summary", 0.25},
	{"problem", 0.15},
	{"solution", 0.20},
	{"limitations", 0.10},
	{"key_contributions", 0.15},
}

const significanceWeight = 0.10

// ConfidenceScore rates a normalized result by weighted field presence.
// A field contributes its weight when its value exceeds minSubstantiveLen
// characters; research_significance contributes a bonus weight whenever it is
// non-empty. The result is the earned fraction of the applicable weight, so
// it always lands in [0, 1].
func ConfidenceScore(fields map[string]string) float64 {
	var score, total float64
	for _, fw := range confidenceWeights {
		if len(fields[fw.field]) > minSubstantiveLen {
			score += fw.weight
		}
		total += fw.weight
	}
	if fields["research_significance"] != "" {
		score += significanceWeight
		total += significanceWeight
	}
	if total == 0 {
		return 0
	}
	return score / total
}
