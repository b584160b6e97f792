// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"fmt"
	"math"
)

// Quality is a learner's recall grade for a single review attempt, on the
// standard 0-5 scale.
type Quality int

const (
	QualityBlackout          Quality = iota // no recall at all
	QualityIncorrect                        // wrong, answer recognized once shown
	QualityIncorrectFamiliar                // wrong, but the answer felt familiar
	QualityCorrectHard                      // correct with serious effort
	QualityCorrectHesitant                  // correct after some hesitation
	QualityPerfect                          // immediate, confident recall
)

// IsValid reports whether q lies within the 0-5 grading scale.
func (q Quality) IsValid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// Passing reports whether q counts as a successful recall. Quality 3 is the
// lowest passing grade.
func (q Quality) Passing() bool {
	return q >= QualityCorrectHard
}

// String returns a short label like "3 (correct, hard)".
func (q Quality) String() string {
	labels := map[Quality]string{
		QualityBlackout:          "blackout",
		QualityIncorrect:         "incorrect",
		QualityIncorrectFamiliar: "incorrect, familiar",
		QualityCorrectHard:       "correct, hard",
		QualityCorrectHesitant:   "correct, hesitant",
		QualityPerfect:           "perfect",
	}
	if label, ok := labels[q]; ok {
		return fmt.Sprintf("%d (%s)", int(q), label)
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// FromScore maps a quiz accuracy fraction in [0, 1] to the 0-5 scale. Zero
// accuracy is always a blackout; otherwise the fraction scales linearly and
// rounds to the nearest grade.
func FromScore(accuracy float64) Quality {
	if accuracy <= 0 {
		return QualityBlackout
	}
	q := Quality(math.Round(accuracy * 5))
	if q > QualityPerfect {
		q = QualityPerfect
	}
	if q < QualityIncorrect {
		q = QualityIncorrect
	}
	return q
}
