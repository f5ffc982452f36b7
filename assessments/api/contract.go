// SPDX-License-Identifier: ice License 1.0

package api

import (
	"context"
	"io"

	"github.com/ice-blockchain/wintr/connectors/storage/v2"
)

type (
	Client interface {
		io.Closer
		GetAttemptStatus(ctx context.Context, userID, assessmentID string) (*AttemptStatus, error)
		CheckHealth(ctx context.Context) error
	}

	AttemptStatus struct {
		BestScore         *uint8  `json:"bestScore,omitempty" db:"best_score" example:"75"`
		RemainingAttempts *uint32 `json:"remainingAttempts,omitempty" db:"remaining_attempts" example:"2"`
		ActiveAttemptID   *string `json:"activeAttemptId,omitempty" db:"active_attempt_id" example:"8c8a4f4e-6c54-4b3e-a0a4-9b1f3c1a2f11"`
		AssessmentID      string  `json:"assessmentId" db:"assessment_id" example:"go-basics"`
		AttemptsCount     uint32  `json:"attemptsCount" db:"attempts_count" example:"1"`
		Passed            bool    `json:"passed" db:"passed" example:"true"`
	}
)

const (
	applicationYamlKey = "assessments"
)

type (
	client struct {
		db *storage.DB
	}
)
