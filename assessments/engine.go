// SPDX-License-Identifier: ice License 1.0

package assessments

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/wintr/log"
	"github.com/ice-blockchain/wintr/terror"
)

func (r *repository) PutAssessment(ctx context.Context, assessment *Assessment, questions []*Question) error {
	return errors.Wrapf(r.bank.PutAssessment(ctx, assessment, questions), "failed to put assessment %#v", assessment)
}

func (r *repository) Start(ctx context.Context, userID UserID, assessmentID string) (*StartedAttempt, error) {
	snapshot, err := r.loadSnapshot(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	attempt, err := r.store.CreateAttempt(ctx, userID, snapshot, r.now())
	if err != nil && errors.Is(err, ErrAttemptAlreadyActive) {
		attempt, err = r.startAfterOverdueAttempt(ctx, userID, snapshot, err)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to start attempt for user %v, assessment %v", userID, assessmentID)
	}
	if attempt.Deadline != nil {
		r.timer.Arm(attempt.ID, *attempt.Deadline.Time)
	}

	return attempt.started(), nil
}

func (r *repository) loadSnapshot(ctx context.Context, assessmentID string) (*Snapshot, error) {
	assessment, err := r.bank.GetAssessment(ctx, assessmentID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get assessment %v", assessmentID)
	}
	questions, err := r.bank.GetQuestions(ctx, assessmentID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get questions of assessment %v", assessmentID)
	}

	return newSnapshot(assessment, questions), nil
}

// An active attempt whose deadline already passed must not block a new one: it gets force-submitted first.
func (r *repository) startAfterOverdueAttempt(ctx context.Context, userID UserID, snapshot *Snapshot, alreadyActiveErr error) (*Attempt, error) {
	active, err := r.store.GetActiveAttempt(ctx, userID, snapshot.Assessment.ID)
	if err != nil {
		if errors.Is(err, ErrAttemptNotFound) {
			// It got finalized in the meantime.
			return r.store.CreateAttempt(ctx, userID, snapshot, r.now()) //nolint:wrapcheck // Wrapped by the caller.
		}

		return nil, errors.Wrapf(err, "failed to get active attempt for user %v, assessment %v", userID, snapshot.Assessment.ID)
	}
	if !active.expired(r.now()) {
		return nil, terror.New(alreadyActiveErr, map[string]any{"attemptId": active.ID})
	}
	if _, err = r.submit(ctx, active.ID, true); err != nil {
		return nil, errors.Wrapf(err, "failed to force submit overdue attempt %v", active.ID)
	}

	return r.store.CreateAttempt(ctx, userID, snapshot, r.now()) //nolint:wrapcheck // Wrapped by the caller.
}

func (r *repository) Answer(ctx context.Context, attemptID, questionID, value string) error {
	err := r.store.RecordAnswer(ctx, attemptID, questionID, value, r.now())
	if err != nil && errors.Is(err, ErrAttemptNotActive) {
		r.finalizeIfOverdue(ctx, attemptID)
	}

	return errors.Wrapf(err, "failed to record answer for attempt %v, question %v", attemptID, questionID)
}

func (r *repository) finalizeIfOverdue(ctx context.Context, attemptID string) {
	attempt, err := r.store.GetAttempt(ctx, attemptID)
	if err != nil || attempt.Status != InProgressAttemptStatus || !attempt.expired(r.now()) {
		return
	}
	if _, err = r.submit(ctx, attemptID, true); err != nil {
		log.Error(errors.Wrapf(err, "failed to force submit overdue attempt %v", attemptID))
	}
}

func (r *repository) Submit(ctx context.Context, attemptID string) (*Result, error) {
	return r.submit(ctx, attemptID, false)
}

func (r *repository) submit(ctx context.Context, attemptID string, forced bool) (*Result, error) {
	now := r.now()
	finalized, transitioned, err := r.store.Finalize(ctx, attemptID, func(attempt *Attempt) *Result {
		if vErr := attempt.Snapshot.verify(attempt.SnapshotChecksum); vErr != nil {
			log.Error(errors.Wrapf(vErr, "attempt %v snapshot is inconsistent", attemptID))
		}
		res := attempt.Snapshot.Score(attempt.Answers, &r.cfg.AnswerMatching)
		res.TimeExpired = forced || attempt.expired(now)

		return res
	}, now)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to finalize attempt %v", attemptID)
	}
	r.timer.Cancel(attemptID)
	if transitioned {
		r.notifyFinalized(ctx, finalized, forced)
	}

	return finalized.result(), nil
}

// forceSubmit is what the expiry timer runs, so it never surfaces errors to anyone but the logs.
func (r *repository) forceSubmit(attemptID string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.ForcedSubmitTimeout)
	defer cancel()
	res, err := r.submit(ctx, attemptID, true)
	if err != nil {
		if errors.Is(err, ErrAttemptNotActive) {
			log.Info("dropping expiry of unknown attempt", "attemptId", attemptID)

			return
		}
		log.Error(errors.Wrapf(err, "forced submission of attempt %v failed", attemptID))

		return
	}
	log.Debug("attempt expired", "attemptId", attemptID, "score", res.Score, "timeExpired", res.TimeExpired)
}

func (r *repository) GetAttempt(ctx context.Context, attemptID string) (*AttemptView, error) {
	attempt, err := r.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get attempt %v", attemptID)
	}

	return attempt.view(), nil
}

func (r *repository) GetActiveAttempt(ctx context.Context, userID UserID, assessmentID string) (*StartedAttempt, error) {
	attempt, err := r.store.GetActiveAttempt(ctx, userID, assessmentID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get active attempt for user %v, assessment %v", userID, assessmentID)
	}
	if attempt.expired(r.now()) {
		if _, err = r.submit(ctx, attempt.ID, true); err != nil {
			return nil, errors.Wrapf(err, "failed to force submit overdue attempt %v", attempt.ID)
		}

		return nil, errors.Wrapf(ErrAttemptNotFound, "attempt %v expired", attempt.ID)
	}

	return attempt.started(), nil
}

func (a *Attempt) started() *StartedAttempt {
	return &StartedAttempt{
		StartedAt:     a.StartedAt,
		Deadline:      a.Deadline,
		Answers:       a.Answers,
		AttemptID:     a.ID,
		AssessmentID:  a.AssessmentID,
		Title:         a.Snapshot.Assessment.Title,
		Questions:     a.Snapshot.questionViews(),
		AttemptNumber: a.AttemptNumber,
	}
}

func (a *Attempt) result() *Result {
	if a.Status != SubmittedAttemptStatus || a.Score == nil {
		return nil
	}
	res := &Result{Score: *a.Score, TimeExpired: a.TimeExpired}
	if a.Passed != nil {
		res.Passed = *a.Passed
	}
	if a.PointsEarned != nil {
		res.PointsEarned = *a.PointsEarned
	}
	if a.PointsPossible != nil {
		res.PointsPossible = *a.PointsPossible
	}

	return res
}

func (a *Attempt) view() *AttemptView {
	return &AttemptView{
		StartedAt:     a.StartedAt,
		SubmittedAt:   a.SubmittedAt,
		Deadline:      a.Deadline,
		Result:        a.result(),
		Answers:       a.Answers,
		ID:            a.ID,
		AssessmentID:  a.AssessmentID,
		UserID:        a.UserID,
		Status:        a.Status,
		AttemptNumber: a.AttemptNumber,
	}
}
