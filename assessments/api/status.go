// SPDX-License-Identifier: ice License 1.0

package api

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/igloo/assessments"
	"github.com/ice-blockchain/wintr/connectors/storage/v2"
)

func NewClient(ctx context.Context, _ context.CancelFunc) Client {
	return &client{db: storage.MustConnect(ctx, "", applicationYamlKey)}
}

// GetAttemptStatus summarizes a user's history for an assessment; remainingAttempts is absent when attempts are unlimited.
func (c *client) GetAttemptStatus(ctx context.Context, userID, assessmentID string) (*AttemptStatus, error) {
	// $1: assessment_id.
	// $2: user_id.
	const sql = `SELECT a.id 																	AS assessment_id,
					   coalesce(c.attempts_count, 0) 											AS attempts_count,
					   c.active_attempt_id 														AS active_attempt_id,
					   (CASE WHEN a.max_attempts IS NULL
							 THEN NULL
							 ELSE GREATEST(a.max_attempts - coalesce(c.attempts_count, 0), 0)
						END)																	AS remaining_attempts,
					   max(t.score) 															AS best_score,
					   coalesce(bool_or(t.passed), false) 										AS passed
				FROM assessments a
					LEFT JOIN attempt_counters c
						   ON c.assessment_id = a.id
						  AND c.user_id = $2
					LEFT JOIN assessment_attempts t
						   ON t.assessment_id = a.id
						  AND t.user_id = $2
						  AND t.status = 'submitted'
				WHERE a.id = $1
				GROUP BY a.id,
						 a.max_attempts,
						 c.attempts_count,
						 c.active_attempt_id`
	status, err := storage.Get[AttemptStatus](ctx, c.db, sql, assessmentID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = assessments.ErrAssessmentNotFound
		}

		return nil, errors.Wrapf(err, "failed to get attempt status for user %v, assessment %v", userID, assessmentID)
	}

	return status, nil
}

func (c *client) Close() error {
	return errors.Wrap(c.db.Close(), "failed to close assessments api client")
}

func (c *client) CheckHealth(ctx context.Context) error {
	return errors.Wrap(c.db.Ping(ctx), "[health-check] assessments api: failed to ping DB")
}
