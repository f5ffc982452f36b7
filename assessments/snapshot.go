// SPDX-License-Identifier: ice License 1.0

package assessments

import (
	"fmt"
	"slices"
	"sort"
	stdlibtime "time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"

	"github.com/ice-blockchain/wintr/time"
)

func newSnapshot(assessment *Assessment, questions []*Question) *Snapshot {
	frozen := make([]*Question, 0, len(questions))
	for _, question := range questions {
		cpy := *question
		cpy.Options = slices.Clone(question.Options)
		frozen = append(frozen, &cpy)
	}
	sort.SliceStable(frozen, func(i, j int) bool {
		return frozen[i].Position < frozen[j].Position
	})
	asmt := *assessment

	return &Snapshot{Assessment: &asmt, Questions: frozen}
}

func (s *Snapshot) passingScore() uint8 {
	if s.Assessment.PassingScore == nil {
		return DefaultPassingScore
	}

	return *s.Assessment.PassingScore
}

func (s *Snapshot) deadline(startedAt stdlibtime.Time) *time.Time {
	if s.Assessment.TimeLimitMinutes == nil {
		return nil
	}

	return time.New(startedAt.Add(stdlibtime.Duration(*s.Assessment.TimeLimitMinutes) * stdlibtime.Minute))
}

func (s *Snapshot) hasQuestion(questionID string) bool {
	for _, question := range s.Questions {
		if question.ID == questionID {
			return true
		}
	}

	return false
}

func (s *Snapshot) questionViews() []*QuestionView {
	views := make([]*QuestionView, 0, len(s.Questions))
	for _, question := range s.Questions {
		views = append(views, &QuestionView{
			ID:      question.ID,
			Type:    question.Type,
			Text:    question.Text,
			Options: slices.Clone(question.Options),
			Points:  question.Points,
		})
	}

	return views
}

func (s *Snapshot) Checksum() string {
	bytes, err := json.Marshal(s)
	if err != nil {
		return ""
	}

	return fmt.Sprintf("%016x", xxh3.Hash(bytes))
}

func (s *Snapshot) verify(checksum string) error {
	if actual := s.Checksum(); actual != checksum {
		return errors.Errorf("snapshot checksum mismatch, expected %v, actual %v", checksum, actual)
	}

	return nil
}

func normalize(assessment *Assessment, questions []*Question) error {
	if assessment == nil || assessment.ID == "" {
		return errors.Wrap(ErrInvalidAssessment, "assessment id is required")
	}
	if assessment.PassingScore != nil && *assessment.PassingScore > 100 { //nolint:gomnd // It's a percentage.
		return errors.Wrapf(ErrInvalidAssessment, "passingScore %v is out of range", *assessment.PassingScore)
	}
	if assessment.TimeLimitMinutes != nil && *assessment.TimeLimitMinutes == 0 {
		return errors.Wrap(ErrInvalidAssessment, "timeLimitMinutes must be positive")
	}
	if assessment.MaxAttempts != nil && *assessment.MaxAttempts == 0 {
		return errors.Wrap(ErrInvalidAssessment, "maxAttempts must be positive")
	}
	seen := make(map[string]struct{}, len(questions))
	for ix, question := range questions {
		if question.ID == "" {
			return errors.Wrapf(ErrInvalidAssessment, "question #%v has no id", ix)
		}
		if _, found := seen[question.ID]; found {
			return errors.Wrapf(ErrInvalidAssessment, "duplicate question %v", question.ID)
		}
		seen[question.ID] = struct{}{}
		question.AssessmentID = assessment.ID
		if question.Points == 0 {
			question.Points = 1
		}
		switch question.Type {
		case TrueFalseQuestionType:
			question.Options = slices.Clone(TrueFalseOptions)
			if !slices.Contains(question.Options, question.CorrectAnswer) {
				return errors.Wrapf(ErrInvalidAssessment, "question %v: correctAnswer must be one of %v", question.ID, TrueFalseOptions)
			}
		case MultipleChoiceQuestionType:
			if !slices.Contains(question.Options, question.CorrectAnswer) {
				return errors.Wrapf(ErrInvalidAssessment, "question %v: correctAnswer is not one of the options", question.ID)
			}
		case ShortAnswerQuestionType:
			question.Options = nil
		default:
			return errors.Wrapf(ErrInvalidAssessment, "question %v: unsupported type %v", question.ID, question.Type)
		}
	}

	return nil
}
