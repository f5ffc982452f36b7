// SPDX-License-Identifier: ice License 1.0

package assessments

import (
	"context"
	"fmt"
	stdlibtime "time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/ice-blockchain/wintr/connectors/storage/v2"
	"github.com/ice-blockchain/wintr/log"
	"github.com/ice-blockchain/wintr/terror"
)

type (
	postgresQuestionBank struct {
		db *storage.DB
	}
	postgresAttemptStore struct {
		db *storage.DB
	}
)

const (
	attemptColumns = `id, assessment_id, user_id, status, attempt_number, started_at, submitted_at, deadline, answers, snapshot, snapshot_checksum,
		revision, score, passed, points_earned, points_possible, time_expired`
)

func NewPostgresQuestionBank(db *storage.DB) QuestionBank {
	return &postgresQuestionBank{db: db}
}

func NewPostgresAttemptStore(db *storage.DB) AttemptStore {
	return &postgresAttemptStore{db: db}
}

func (b *postgresQuestionBank) GetAssessment(ctx context.Context, assessmentID string) (asmt *Assessment, err error) {
	const sql = `SELECT id, title, passing_score, time_limit_minutes, max_attempts FROM assessments WHERE id = $1`
	err = retryOnce(ctx, func() (opErr error) {
		asmt, opErr = storage.Get[Assessment](ctx, b.db, sql, assessmentID)

		return opErr
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = ErrAssessmentNotFound
		}

		return nil, errors.Wrapf(err, "failed to get assessment %v", assessmentID)
	}

	return asmt, nil
}

func (b *postgresQuestionBank) GetQuestions(ctx context.Context, assessmentID string) (questions []*Question, err error) {
	if _, err = b.GetAssessment(ctx, assessmentID); err != nil {
		return nil, err
	}
	const sql = `SELECT id, assessment_id, type, text, options, correct_answer, points, position
				 FROM questions
				 WHERE assessment_id = $1
				 ORDER BY position, id`
	err = retryOnce(ctx, func() (opErr error) {
		questions, opErr = storage.Select[Question](ctx, b.db, sql, assessmentID)

		return opErr
	})

	return questions, errors.Wrapf(err, "failed to select questions for assessment %v", assessmentID)
}

func (b *postgresQuestionBank) PutAssessment(ctx context.Context, assessment *Assessment, questions []*Question) error {
	if err := normalize(assessment, questions); err != nil {
		return err
	}

	return errors.Wrapf(storage.DoInTransaction(ctx, b.db, func(conn storage.QueryExecer) error {
		const upsertAssessment = `
INSERT INTO assessments (id, title, passing_score, time_limit_minutes, max_attempts) VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE
	SET title = excluded.title,
		passing_score = excluded.passing_score,
		time_limit_minutes = excluded.time_limit_minutes,
		max_attempts = excluded.max_attempts`
		if _, err := storage.Exec(ctx, conn, upsertAssessment,
			assessment.ID, assessment.Title, assessment.PassingScore, assessment.TimeLimitMinutes, assessment.MaxAttempts); err != nil {
			return errors.Wrapf(err, "failed to upsert assessment %#v", assessment)
		}
		if _, err := storage.Exec(ctx, conn, `DELETE FROM questions WHERE assessment_id = $1`, assessment.ID); err != nil &&
			!errors.Is(err, storage.ErrNotFound) {
			return errors.Wrapf(err, "failed to delete previous questions of assessment %v", assessment.ID)
		}
		const insertQuestion = `
INSERT INTO questions (assessment_id, id, type, text, options, correct_answer, points, position)
	VALUES ($1, $2, $3, $4, coalesce($5, '{}'::TEXT[]), $6, $7, $8)`
		for ix, question := range questions {
			if question.Position == 0 {
				question.Position = uint32(ix + 1)
			}
			if _, err := storage.Exec(ctx, conn, insertQuestion, assessment.ID, question.ID, question.Type, question.Text,
				question.Options, question.CorrectAnswer, question.Points, question.Position); err != nil {
				return errors.Wrapf(err, "failed to insert question %#v", question)
			}
		}

		return nil
	}), "failed to put assessment %v", assessment.ID)
}

//nolint:funlen // Mostly SQL.
func (s *postgresAttemptStore) CreateAttempt(ctx context.Context, userID UserID, snapshot *Snapshot, now stdlibtime.Time) (*Attempt, error) {
	var attempt *Attempt
	err := retryOnce(ctx, func() error {
		return storage.DoInTransaction(ctx, s.db, func(conn storage.QueryExecer) error {
			// The upsert takes the row lock, so concurrent starts for the same pair queue up behind each other.
			const lockCounter = `
INSERT INTO attempt_counters (user_id, assessment_id, attempts_count) VALUES ($1, $2, 0)
	ON CONFLICT (user_id, assessment_id) DO UPDATE
	SET attempts_count = attempt_counters.attempts_count
RETURNING attempts_count, active_attempt_id`
			counter, err := storage.ExecOne[attemptCounter](ctx, conn, lockCounter, userID, snapshot.Assessment.ID)
			if err != nil {
				if errors.Is(err, storage.ErrRelationNotFound) {
					err = ErrAssessmentNotFound
				}

				return errors.Wrapf(err, "failed to lock attempt counter for user %v, assessment %v", userID, snapshot.Assessment.ID)
			}
			if err = checkAttemptCounter(counter, snapshot); err != nil {
				return wrapErrorInTx(err)
			}
			candidate := newAttempt(userID, snapshot, counter.AttemptsCount+1, now)
			const insertAttempt = `
INSERT INTO assessment_attempts (id, assessment_id, user_id, status, attempt_number, started_at, deadline, answers, snapshot, snapshot_checksum)
	VALUES ($1, $2, $3, $4, $5, $6, $7, '{}'::JSONB, $8, $9)
RETURNING ` + attemptColumns
			if attempt, err = storage.ExecOne[Attempt](ctx, conn, insertAttempt,
				candidate.ID, candidate.AssessmentID, candidate.UserID, candidate.Status, candidate.AttemptNumber,
				candidate.StartedAt.Time, deadlineArg(candidate), candidate.Snapshot, candidate.SnapshotChecksum); err != nil {
				if storage.IsErr(err, storage.ErrDuplicate) {
					err = wrapErrorInTx(terror.New(ErrAttemptAlreadyActive, map[string]any{}))
				}

				return errors.Wrapf(err, "failed to insert attempt %v", candidate.ID)
			}
			const updateCounter = `
UPDATE attempt_counters SET attempts_count = $3, active_attempt_id = $4
WHERE user_id = $1 AND assessment_id = $2`
			_, err = storage.Exec(ctx, conn, updateCounter, userID, snapshot.Assessment.ID, attempt.AttemptNumber, attempt.ID)

			return errors.Wrapf(err, "failed to update attempt counter for user %v, assessment %v", userID, snapshot.Assessment.ID)
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create attempt for user %v, assessment %v", userID, snapshot.Assessment.ID)
	}

	return attempt, nil
}

func (s *postgresAttemptStore) RecordAnswer(ctx context.Context, attemptID, questionID, value string, now stdlibtime.Time) error {
	// Rows are locked for the update, so the last committed answer wins.
	const sql = `
UPDATE assessment_attempts
SET answers = answers || jsonb_build_object($2::TEXT, $3::TEXT),
	revision = revision + 1
WHERE id = $1
  AND status = 'in_progress'
  AND (deadline IS NULL OR deadline > $4)
  AND snapshot->'questions' @> jsonb_build_array(jsonb_build_object('id', $2::TEXT))`
	var updated uint64
	err := retryOnce(ctx, func() (opErr error) {
		updated, opErr = storage.Exec(ctx, s.db, sql, attemptID, questionID, value, now)

		return opErr
	})
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return errors.Wrapf(err, "failed to record answer for attempt %v, question %v", attemptID, questionID)
	}
	if updated == 1 {
		return nil
	}
	attempt, err := s.GetAttempt(ctx, attemptID)
	if err != nil {
		if errors.Is(err, ErrAttemptNotFound) {
			return errors.Wrapf(ErrAttemptNotActive, "attempt %v not found", attemptID)
		}

		return err
	}
	if err = attempt.checkAcceptsAnswer(questionID, now); err != nil {
		return err
	}

	return errors.Wrapf(ErrRaceCondition, "answer for attempt %v, question %v was not recorded", attemptID, questionID)
}

// The attempt row stays locked while it is graded, so answers recorded concurrently either make it into the grade
// or get rejected once the transaction commits.
//
//nolint:funlen // Mostly SQL.
func (s *postgresAttemptStore) Finalize(ctx context.Context, attemptID string, grade Grader, now stdlibtime.Time) (*Attempt, bool, error) {
	var (
		attempt      *Attempt
		transitioned bool
	)
	err := retryOnce(ctx, func() error {
		transitioned = false

		return storage.DoInTransaction(ctx, s.db, func(conn storage.QueryExecer) error {
			sql := fmt.Sprintf(`SELECT %v FROM assessment_attempts WHERE id = $1 FOR UPDATE`, attemptColumns)
			locked, err := storage.Get[Attempt](ctx, conn, sql, attemptID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					err = wrapErrorInTx(errors.Wrapf(ErrAttemptNotActive, "attempt %v not found", attemptID))
				}

				return errors.Wrapf(err, "failed to lock attempt %v", attemptID)
			}
			if locked.Status != InProgressAttemptStatus {
				attempt = locked

				return nil
			}
			res := grade(locked)
			const finalizeAttempt = `
UPDATE assessment_attempts
SET status = 'submitted',
	submitted_at = $2,
	score = $3,
	passed = $4,
	points_earned = $5,
	points_possible = $6,
	time_expired = $7,
	revision = revision + 1
WHERE id = $1
RETURNING ` + attemptColumns
			if attempt, err = storage.ExecOne[Attempt](ctx, conn, finalizeAttempt,
				attemptID, now, res.Score, res.Passed, res.PointsEarned, res.PointsPossible, res.TimeExpired); err != nil {
				return errors.Wrapf(err, "failed to finalize attempt %v", attemptID)
			}
			const releaseCounter = `
UPDATE attempt_counters
SET active_attempt_id = NULL
WHERE user_id = $1
  AND assessment_id = $2
  AND active_attempt_id = $3`
			if _, err = storage.Exec(ctx, conn, releaseCounter, attempt.UserID, attempt.AssessmentID, attemptID); err != nil &&
				!errors.Is(err, storage.ErrNotFound) {
				return errors.Wrapf(err, "failed to release attempt counter for attempt %v", attemptID)
			}
			transitioned = true

			return nil
		})
	})
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to finalize attempt %v", attemptID)
	}

	return attempt, transitioned, nil
}

func (s *postgresAttemptStore) GetAttempt(ctx context.Context, attemptID string) (attempt *Attempt, err error) {
	sql := fmt.Sprintf(`SELECT %v FROM assessment_attempts WHERE id = $1`, attemptColumns)
	err = retryOnce(ctx, func() (opErr error) {
		attempt, opErr = storage.Get[Attempt](ctx, s.db, sql, attemptID)

		return opErr
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = ErrAttemptNotFound
		}

		return nil, errors.Wrapf(err, "failed to get attempt %v", attemptID)
	}

	return attempt, nil
}

func (s *postgresAttemptStore) GetActiveAttempt(ctx context.Context, userID UserID, assessmentID string) (attempt *Attempt, err error) {
	sql := fmt.Sprintf(`SELECT %v FROM assessment_attempts WHERE user_id = $1 AND assessment_id = $2 AND status = 'in_progress'`, attemptColumns)
	err = retryOnce(ctx, func() (opErr error) {
		attempt, opErr = storage.Get[Attempt](ctx, s.db, sql, userID, assessmentID)

		return opErr
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = ErrAttemptNotFound
		}

		return nil, errors.Wrapf(err, "failed to get active attempt for user %v, assessment %v", userID, assessmentID)
	}

	return attempt, nil
}

func (s *postgresAttemptStore) ListTimedAttempts(ctx context.Context, deadlineBefore stdlibtime.Time, limit uint64) (attempts []*Attempt, err error) {
	sql := fmt.Sprintf(`SELECT %v
						FROM assessment_attempts
						WHERE status = 'in_progress'
						  AND deadline IS NOT NULL
						  AND deadline <= $1
						ORDER BY deadline
						LIMIT $2`, attemptColumns)
	err = retryOnce(ctx, func() (opErr error) {
		attempts, opErr = storage.Select[Attempt](ctx, s.db, sql, deadlineBefore, limit)

		return opErr
	})

	return attempts, errors.Wrapf(err, "failed to list attempts with deadline before %v", deadlineBefore)
}

func deadlineArg(attempt *Attempt) any {
	if attempt.Deadline == nil {
		return nil
	}

	return *attempt.Deadline.Time
}

func wrapErrorInTx(err error) error {
	if err == nil {
		return nil
	}

	// We want to stop/abort the transaction in case of logic/flow error.
	return multierror.Append(storage.ErrCheckFailed, err)
}

// Any storage failure outside the domain taxonomy is retried once; if it still fails, ErrStorageUnavailable is reported.
func retryOnce(ctx context.Context, op func() error) error {
	var attempts int
	err := backoff.RetryNotify(
		func() error {
			attempts++
			err := op()
			if err == nil {
				return nil
			}
			if !isTransient(err) {
				return backoff.Permanent(err)
			}

			return err
		},
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(storageRetryDelay), 1), ctx),
		func(err error, next stdlibtime.Duration) {
			log.Error(errors.Wrapf(err, "storage call failed, retrying in %v", next))
		})
	if err != nil && attempts > 1 && isTransient(err) {
		return multierror.Append(ErrStorageUnavailable, err)
	}

	return err //nolint:wrapcheck // Wrapped by callers.
}

func isTransient(err error) bool {
	for _, domainErr := range []error{
		ErrAttemptLimitExceeded, ErrAttemptAlreadyActive, ErrAttemptNotActive, ErrAttemptNotFound, ErrUnknownQuestion,
		ErrAssessmentNotFound, ErrRaceCondition, ErrInvalidAssessment,
		storage.ErrNotFound, storage.ErrDuplicate, storage.ErrRelationNotFound, storage.ErrCheckFailed,
		context.Canceled, context.DeadlineExceeded,
	} {
		if errors.Is(err, domainErr) {
			return false
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Serialization failures, deadlocks, insufficient resources, operator intervention and connection exceptions.
		switch pgErr.Code[:2] {
		case "40", "53", "57", "08":
			return true
		default:
			return false
		}
	}

	return true
}
