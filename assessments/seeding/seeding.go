// SPDX-License-Identifier: ice License 1.0

//go:build !test

package seeding

import (
	"context"
	"fmt"
	"math/rand"
	stdlibtime "time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"

	"github.com/ice-blockchain/igloo/assessments"
	"github.com/ice-blockchain/wintr/log"
)

const (
	assessmentsCount       = 10
	questionsPerAssessment = 20
	usersPerAssessment     = 50
	seedingDeadline        = 5 * stdlibtime.Minute
	maxAttemptsPerSeeded   = 3
)

func StartSeeding() {
	before := stdlibtime.Now()
	ctx, cancel := context.WithTimeout(context.Background(), seedingDeadline)
	defer cancel()
	repo := assessments.New(ctx, cancel)
	defer func() {
		log.Panic(repo.Close()) //nolint:revive // It doesnt really matter.
		log.Info(fmt.Sprintf("seeding finalized in %v", stdlibtime.Since(before).String()))
	}()

	for i := 0; i < assessmentsCount; i++ {
		assessmentID := createAssessment(ctx, repo, i)
		for j := 0; j < usersPerAssessment; j++ {
			simulateAttempt(ctx, repo, uuid.NewString(), assessmentID)
		}
	}
}

//nolint:gosec // Not an issue.
func createAssessment(ctx context.Context, repo assessments.Repository, ix int) string {
	maxAttempts, timeLimit, passingScore := uint32(maxAttemptsPerSeeded), uint32(rand.Intn(60)+1), uint8(rand.Intn(50)+50) //nolint:gomnd // .
	asmt := &assessments.Assessment{
		PassingScore:     &passingScore,
		TimeLimitMinutes: &timeLimit,
		MaxAttempts:      &maxAttempts,
		ID:               fmt.Sprintf("seeded-%v-%v", ix, xxh3.HashString(uuid.NewString())),
		Title:            fmt.Sprintf("Seeded assessment #%v", ix),
	}
	questions := make([]*assessments.Question, 0, questionsPerAssessment)
	for q := 0; q < questionsPerAssessment; q++ {
		question := &assessments.Question{
			ID:       fmt.Sprintf("q%v", q+1),
			Text:     fmt.Sprintf("Seeded question #%v", q+1),
			Points:   uint32(rand.Intn(3) + 1), //nolint:gomnd // .
			Position: uint32(q + 1),
		}
		switch q % 3 { //nolint:gomnd // One of each type.
		case 0:
			question.Type = assessments.MultipleChoiceQuestionType
			question.Options = []string{"a", "b", "c", "d"}
			question.CorrectAnswer = question.Options[rand.Intn(len(question.Options))]
		case 1:
			question.Type = assessments.TrueFalseQuestionType
			question.CorrectAnswer = assessments.TrueFalseOptions[rand.Intn(len(assessments.TrueFalseOptions))]
		default:
			question.Type = assessments.ShortAnswerQuestionType
			question.CorrectAnswer = fmt.Sprintf("answer%v", q)
		}
		questions = append(questions, question)
	}
	log.Panic(repo.PutAssessment(ctx, asmt, questions))

	return asmt.ID
}

//nolint:gosec // Not an issue.
func simulateAttempt(ctx context.Context, repo assessments.Repository, userID, assessmentID string) {
	started, err := repo.Start(ctx, userID, assessmentID)
	log.Panic(errors.Wrapf(err, "failed to start attempt for %v", userID))
	for _, question := range started.Questions {
		value := "wrong"
		if len(question.Options) != 0 {
			value = question.Options[rand.Intn(len(question.Options))]
		}
		log.Panic(errors.Wrapf(repo.Answer(ctx, started.AttemptID, question.ID, value), "failed to answer %v", question.ID))
	}
	if rand.Intn(10) == 0 { //nolint:gomnd // Some attempts are left for the expiry timer.
		return
	}
	_, err = repo.Submit(ctx, started.AttemptID)
	log.Panic(errors.Wrapf(err, "failed to submit attempt %v", started.AttemptID))
}
