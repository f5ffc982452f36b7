// SPDX-License-Identifier: ice License 1.0

package assessments

import (
	"strings"
)

func (m *AnswerMatching) matches(question *Question, given string) bool {
	expected := question.CorrectAnswer
	if question.Type != ShortAnswerQuestionType || m == nil {
		return given == expected
	}
	if m.TrimSpace {
		given, expected = strings.TrimSpace(given), strings.TrimSpace(expected)
	}
	if m.IgnoreCase {
		return strings.EqualFold(given, expected)
	}

	return given == expected
}

// Score grades the answers against the frozen question set.
// Unanswered questions earn nothing; answers to questions outside the snapshot are ignored.
// A question without points is worth 1.
func (s *Snapshot) Score(answers Answers, matching *AnswerMatching) *Result {
	var earned, possible uint32
	for _, question := range s.Questions {
		points := max(question.Points, 1)
		possible += points
		if given, found := answers[question.ID]; found && matching.matches(question, given) {
			earned += points
		}
	}
	score := percentage(earned, possible)

	return &Result{
		Score:          score,
		Passed:         score >= s.passingScore(),
		PointsEarned:   earned,
		PointsPossible: possible,
	}
}

// Integer round half up of 100*earned/possible.
func percentage(earned, possible uint32) uint8 {
	if possible == 0 {
		return 0
	}

	return uint8((200*uint64(earned) + uint64(possible)) / (2 * uint64(possible))) //nolint:gomnd // .
}
