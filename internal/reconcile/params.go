package reconcile

import (
	"math"
	"strconv"

	"github.com/alfredjeanlab/qastream/internal/model"
)

// questionParams returns the template parameters of a question activity.
func questionParams(q *model.Question) map[string]string {
	return map[string]string{
		model.ParamQuestionID:       q.ID,
		model.ParamLink:             q.Link,
		model.ParamLanguage:         q.Language,
		model.ParamQuestionRating:   formatRating(q.Rating),
		model.ParamNumberOfAnswers:  strconv.Itoa(q.NumAnswers()),
		model.ParamNumberOfComments: strconv.Itoa(q.NumComments()),
	}
}

// formatRating renders a rating with at least one decimal ("4.0", "3.75").
func formatRating(r float64) string {
	if r == math.Trunc(r) && !math.IsInf(r, 0) {
		return strconv.FormatFloat(r, 'f', 1, 64)
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
