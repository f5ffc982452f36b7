// SPDX-License-Identifier: ice License 1.0

package assessments

import (
	"context"
	"maps"
	"slices"
	"sync"
	stdlibtime "time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ice-blockchain/wintr/terror"
	"github.com/ice-blockchain/wintr/time"
)

type (
	inMemoryQuestionBank struct {
		assessments map[string]*Assessment
		questions   map[string][]*Question
		mx          sync.RWMutex
	}
	attemptCounterKey struct {
		userID       UserID
		assessmentID string
	}
	attemptCounter struct {
		ActiveAttemptID *string `db:"active_attempt_id"`
		AttemptsCount   uint32  `db:"attempts_count"`
	}
	inMemoryAttemptStore struct {
		attempts map[string]*Attempt
		counters map[attemptCounterKey]*attemptCounter
		mx       sync.Mutex
	}
)

func NewInMemoryQuestionBank() QuestionBank {
	return &inMemoryQuestionBank{
		assessments: make(map[string]*Assessment),
		questions:   make(map[string][]*Question),
	}
}

func (b *inMemoryQuestionBank) GetAssessment(_ context.Context, assessmentID string) (*Assessment, error) {
	b.mx.RLock()
	defer b.mx.RUnlock()
	asmt, found := b.assessments[assessmentID]
	if !found {
		return nil, errors.Wrapf(ErrAssessmentNotFound, "assessment %v", assessmentID)
	}
	cpy := *asmt

	return &cpy, nil
}

func (b *inMemoryQuestionBank) GetQuestions(_ context.Context, assessmentID string) ([]*Question, error) {
	b.mx.RLock()
	defer b.mx.RUnlock()
	if _, found := b.assessments[assessmentID]; !found {
		return nil, errors.Wrapf(ErrAssessmentNotFound, "assessment %v", assessmentID)
	}

	return newSnapshot(new(Assessment), b.questions[assessmentID]).Questions, nil
}

func (b *inMemoryQuestionBank) PutAssessment(_ context.Context, assessment *Assessment, questions []*Question) error {
	if err := normalize(assessment, questions); err != nil {
		return err
	}
	snapshot := newSnapshot(assessment, questions)
	b.mx.Lock()
	defer b.mx.Unlock()
	b.assessments[assessment.ID] = snapshot.Assessment
	b.questions[assessment.ID] = snapshot.Questions

	return nil
}

func NewInMemoryAttemptStore() AttemptStore {
	return &inMemoryAttemptStore{
		attempts: make(map[string]*Attempt),
		counters: make(map[attemptCounterKey]*attemptCounter),
	}
}

func (s *inMemoryAttemptStore) CreateAttempt(_ context.Context, userID UserID, snapshot *Snapshot, now stdlibtime.Time) (*Attempt, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	key := attemptCounterKey{userID: userID, assessmentID: snapshot.Assessment.ID}
	counter, found := s.counters[key]
	if !found {
		counter = new(attemptCounter)
		s.counters[key] = counter
	}
	if err := checkAttemptCounter(counter, snapshot); err != nil {
		return nil, err
	}
	attempt := newAttempt(userID, snapshot, counter.AttemptsCount+1, now)
	counter.AttemptsCount = attempt.AttemptNumber
	counter.ActiveAttemptID = &attempt.ID
	s.attempts[attempt.ID] = attempt

	return attempt.clone(), nil
}

func (s *inMemoryAttemptStore) RecordAnswer(_ context.Context, attemptID, questionID, value string, now stdlibtime.Time) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	attempt, found := s.attempts[attemptID]
	if !found {
		return errors.Wrapf(ErrAttemptNotActive, "attempt %v not found", attemptID)
	}
	if err := attempt.checkAcceptsAnswer(questionID, now); err != nil {
		return err
	}
	attempt.Answers[questionID] = value
	attempt.Revision++

	return nil
}

func (s *inMemoryAttemptStore) Finalize(_ context.Context, attemptID string, grade Grader, now stdlibtime.Time) (*Attempt, bool, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	attempt, found := s.attempts[attemptID]
	if !found {
		return nil, false, errors.Wrapf(ErrAttemptNotActive, "attempt %v not found", attemptID)
	}
	if attempt.Status != InProgressAttemptStatus {
		return attempt.clone(), false, nil
	}
	attempt.finalize(grade(attempt.clone()), now)
	if counter := s.counters[attemptCounterKey{userID: attempt.UserID, assessmentID: attempt.AssessmentID}]; counter != nil &&
		counter.ActiveAttemptID != nil && *counter.ActiveAttemptID == attemptID {
		counter.ActiveAttemptID = nil
	}

	return attempt.clone(), true, nil
}

func (s *inMemoryAttemptStore) GetAttempt(_ context.Context, attemptID string) (*Attempt, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	attempt, found := s.attempts[attemptID]
	if !found {
		return nil, errors.Wrapf(ErrAttemptNotFound, "attempt %v", attemptID)
	}

	return attempt.clone(), nil
}

func (s *inMemoryAttemptStore) GetActiveAttempt(_ context.Context, userID UserID, assessmentID string) (*Attempt, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	counter, found := s.counters[attemptCounterKey{userID: userID, assessmentID: assessmentID}]
	if !found || counter.ActiveAttemptID == nil {
		return nil, errors.Wrapf(ErrAttemptNotFound, "no active attempt for user %v in assessment %v", userID, assessmentID)
	}

	return s.attempts[*counter.ActiveAttemptID].clone(), nil
}

func (s *inMemoryAttemptStore) ListTimedAttempts(_ context.Context, deadlineBefore stdlibtime.Time, limit uint64) ([]*Attempt, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	res := make([]*Attempt, 0)
	for _, attempt := range s.attempts {
		if attempt.Status == InProgressAttemptStatus && attempt.Deadline != nil && !attempt.Deadline.After(deadlineBefore) {
			res = append(res, attempt.clone())
		}
	}
	slices.SortFunc(res, func(a, b *Attempt) int {
		return a.Deadline.Compare(*b.Deadline.Time)
	})
	if limit > 0 && uint64(len(res)) > limit {
		res = res[:limit]
	}

	return res, nil
}

func checkAttemptCounter(counter *attemptCounter, snapshot *Snapshot) error {
	if counter.ActiveAttemptID != nil {
		return terror.New(errors.Wrapf(ErrAttemptAlreadyActive, "attempt %v is still in progress", *counter.ActiveAttemptID),
			map[string]any{"attemptId": *counter.ActiveAttemptID})
	}
	if maxAttempts := snapshot.Assessment.MaxAttempts; maxAttempts != nil && counter.AttemptsCount >= *maxAttempts {
		return errors.Wrapf(ErrAttemptLimitExceeded, "%v out of %v attempts used", counter.AttemptsCount, *maxAttempts)
	}

	return nil
}

func newAttempt(userID UserID, snapshot *Snapshot, attemptNumber uint32, now stdlibtime.Time) *Attempt {
	return &Attempt{
		StartedAt:        time.New(now),
		Deadline:         snapshot.deadline(now),
		Snapshot:         snapshot,
		Answers:          make(Answers),
		ID:               uuid.NewString(),
		AssessmentID:     snapshot.Assessment.ID,
		UserID:           userID,
		Status:           InProgressAttemptStatus,
		SnapshotChecksum: snapshot.Checksum(),
		AttemptNumber:    attemptNumber,
	}
}

func (a *Attempt) checkAcceptsAnswer(questionID string, now stdlibtime.Time) error {
	if a.Status != InProgressAttemptStatus {
		return errors.Wrapf(ErrAttemptNotActive, "attempt %v is %v", a.ID, a.Status)
	}
	if a.expired(now) {
		return errors.Wrapf(ErrAttemptNotActive, "attempt %v deadline %v passed", a.ID, a.Deadline)
	}
	if !a.Snapshot.hasQuestion(questionID) {
		return errors.Wrapf(ErrUnknownQuestion, "question %v is not part of attempt %v", questionID, a.ID)
	}

	return nil
}

func (a *Attempt) expired(now stdlibtime.Time) bool {
	return a.Deadline != nil && !now.Before(*a.Deadline.Time)
}

func (a *Attempt) finalize(res *Result, now stdlibtime.Time) {
	a.Status = SubmittedAttemptStatus
	a.SubmittedAt = time.New(now)
	a.Score, a.Passed = clonePtr(&res.Score), clonePtr(&res.Passed)
	a.PointsEarned, a.PointsPossible = clonePtr(&res.PointsEarned), clonePtr(&res.PointsPossible)
	a.TimeExpired = res.TimeExpired
	a.Revision++
}

func (a *Attempt) clone() *Attempt {
	if a == nil {
		return nil
	}
	cpy := *a
	cpy.Answers = maps.Clone(a.Answers)
	if cpy.Answers == nil {
		cpy.Answers = make(Answers)
	}
	cpy.Score, cpy.Passed = clonePtr(a.Score), clonePtr(a.Passed)
	cpy.PointsEarned, cpy.PointsPossible = clonePtr(a.PointsEarned), clonePtr(a.PointsPossible)

	return &cpy
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cpy := *v

	return &cpy
}
