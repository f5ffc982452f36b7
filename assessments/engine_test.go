// SPDX-License-Identifier: ice License 1.0

package assessments

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	stdlibtime "time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ice-blockchain/wintr/terror"
)

const (
	testAssessmentID = "go-basics"
	testDeadline     = 5 * stdlibtime.Second
)

func newTestProcessor(t *testing.T, timeLimitMinutes, maxAttempts *uint32) *processor {
	t.Helper()
	bank, store := NewInMemoryQuestionBank(), NewInMemoryAttemptStore()
	require.NoError(t, bank.PutAssessment(context.Background(), &Assessment{
		TimeLimitMinutes: timeLimitMinutes,
		MaxAttempts:      maxAttempts,
		ID:               testAssessmentID,
		Title:            "Go basics",
	}, testQuestions()))
	cfg := new(config)
	cfg.applyDefaults()
	prc := &processor{repository: newRepository(cfg, bank, store)}
	t.Cleanup(func() {
		require.NoError(t, prc.Close())
	})

	return prc
}

func (p *processor) shiftClock(offset stdlibtime.Duration) {
	p.now = func() stdlibtime.Time { return stdlibtime.Now().UTC().Add(offset) }
}

func TestStartReturnsAnswerFreeView(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	timeLimit := uint32(30)
	prc := newTestProcessor(t, &timeLimit, nil)

	started, err := prc.Start(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)
	assert.NotEmpty(t, started.AttemptID)
	assert.EqualValues(t, 1, started.AttemptNumber)
	assert.Equal(t, "Go basics", started.Title)
	require.NotNil(t, started.Deadline)
	assert.Equal(t, 30*stdlibtime.Minute, started.Deadline.Sub(*started.StartedAt.Time))
	require.Len(t, started.Questions, 4)
	assert.Equal(t, []string{"go", "defer", "func"}, started.Questions[0].Options)
	assert.Equal(t, TrueFalseOptions, started.Questions[1].Options)
	assert.True(t, prc.timer.Armed(started.AttemptID))

	bytes, err := json.Marshal(started)
	require.NoError(t, err)
	assert.NotContains(t, string(bytes), "correctAnswer")
	assert.NotContains(t, string(bytes), `"select"`)

	_, err = prc.Start(ctx, "bogus", "unknown")
	require.ErrorIs(t, err, ErrAssessmentNotFound)
}

func TestUntimedAttemptHasNoDeadline(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	prc := newTestProcessor(t, nil, nil)

	started, err := prc.Start(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)
	assert.Nil(t, started.Deadline)
	assert.False(t, prc.timer.Armed(started.AttemptID))
}

func TestPassingAndFailingAttempts(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	prc := newTestProcessor(t, nil, nil)

	started, err := prc.Start(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)
	for questionID, value := range map[string]string{"q1": "go", "q2": "True", "q3": "channel", "q4": "range"} {
		require.NoError(t, prc.Answer(ctx, started.AttemptID, questionID, value))
	}
	res, err := prc.Submit(ctx, started.AttemptID)
	require.NoError(t, err)
	assert.EqualValues(t, &Result{Score: 75, Passed: true, PointsEarned: 3, PointsPossible: 4}, res)

	started, err = prc.Start(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, started.AttemptNumber)
	require.NoError(t, prc.Answer(ctx, started.AttemptID, "q1", "go"))
	res, err = prc.Submit(ctx, started.AttemptID)
	require.NoError(t, err)
	assert.EqualValues(t, &Result{Score: 25, Passed: false, PointsEarned: 1, PointsPossible: 4}, res)

	view, err := prc.GetAttempt(ctx, started.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, SubmittedAttemptStatus, view.Status)
	assert.Equal(t, "bogus", view.UserID)
	assert.Equal(t, res, view.Result)
	assert.NotNil(t, view.SubmittedAt)
}

func TestAnswerOverwritesAndValidates(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	prc := newTestProcessor(t, nil, nil)

	started, err := prc.Start(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)
	require.NoError(t, prc.Answer(ctx, started.AttemptID, "q1", "defer"))
	require.NoError(t, prc.Answer(ctx, started.AttemptID, "q1", "go"))
	require.ErrorIs(t, prc.Answer(ctx, started.AttemptID, "q5", "go"), ErrUnknownQuestion)
	require.ErrorIs(t, prc.Answer(ctx, "unknown", "q1", "go"), ErrAttemptNotActive)

	active, err := prc.GetActiveAttempt(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)
	assert.Equal(t, started.AttemptID, active.AttemptID)
	assert.Equal(t, Answers{"q1": "go"}, active.Answers)

	_, err = prc.Submit(ctx, started.AttemptID)
	require.NoError(t, err)
	require.ErrorIs(t, prc.Answer(ctx, started.AttemptID, "q2", "True"), ErrAttemptNotActive)
	_, err = prc.GetActiveAttempt(ctx, "bogus", testAssessmentID)
	require.ErrorIs(t, err, ErrAttemptNotFound)
	_, err = prc.Submit(ctx, "unknown")
	require.ErrorIs(t, err, ErrAttemptNotActive)
	_, err = prc.GetAttempt(ctx, "unknown")
	require.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestConcurrentStartsYieldSingleActiveAttempt(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	prc := newTestProcessor(t, nil, nil)

	const concurrency = 20
	var (
		wg                   sync.WaitGroup
		succeeded, conflicts atomic.Uint32
		attemptIDs           sync.Map
	)
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			started, err := prc.Start(ctx, "bogus", testAssessmentID)
			if err == nil {
				succeeded.Add(1)
				attemptIDs.Store(started.AttemptID, struct{}{})

				return
			}
			if assert.ErrorIs(t, err, ErrAttemptAlreadyActive) {
				conflicts.Add(1)
				if assert.NotNil(t, terror.As(err)) {
					attemptIDs.Store(terror.As(err).Data["attemptId"], struct{}{})
				}
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, succeeded.Load())
	assert.EqualValues(t, concurrency-1, conflicts.Load())
	var distinct int
	attemptIDs.Range(func(_, _ any) bool {
		distinct++

		return true
	})
	assert.Equal(t, 1, distinct)
}

func TestAttemptLimit(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	maxAttempts := uint32(2)
	prc := newTestProcessor(t, nil, &maxAttempts)

	for i := uint32(0); i < maxAttempts; i++ {
		started, err := prc.Start(ctx, "bogus", testAssessmentID)
		require.NoError(t, err)
		_, err = prc.Submit(ctx, started.AttemptID)
		require.NoError(t, err)
	}
	_, err := prc.Start(ctx, "bogus", testAssessmentID)
	require.ErrorIs(t, err, ErrAttemptLimitExceeded)

	_, err = prc.Start(ctx, "other", testAssessmentID)
	require.NoError(t, err)
}

func TestConcurrentSubmissionsAreIdempotent(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	timeLimit := uint32(30)
	prc := newTestProcessor(t, &timeLimit, nil)

	started, err := prc.Start(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)
	require.NoError(t, prc.Answer(ctx, started.AttemptID, "q1", "go"))

	const concurrency = 10
	results := make([]*Result, concurrency)
	var wg sync.WaitGroup
	wg.Add(concurrency + 1)
	for i := 0; i < concurrency; i++ {
		go func(i int) {
			defer wg.Done()
			res, sErr := prc.Submit(ctx, started.AttemptID)
			assert.NoError(t, sErr)
			results[i] = res
		}(i)
	}
	go func() {
		defer wg.Done()
		prc.forceSubmit(started.AttemptID)
	}()
	wg.Wait()

	view, err := prc.GetAttempt(ctx, started.AttemptID)
	require.NoError(t, err)
	require.NotNil(t, view.Result)
	for _, res := range results {
		assert.Equal(t, view.Result, res)
	}
	assert.EqualValues(t, 25, view.Result.Score)
	assert.False(t, prc.timer.Armed(started.AttemptID))

	res, err := prc.Submit(ctx, started.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, view.Result, res)
}

func TestSubmitDuringAutosave(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	prc := newTestProcessor(t, nil, nil)
	started, err := prc.Start(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)

	var answered atomic.Uint64
	autosaveStopped := make(chan error, 1)
	go func() {
		for {
			value := "defer"
			if answered.Add(1)%2 == 0 {
				value = "go"
			}
			if aErr := prc.Answer(ctx, started.AttemptID, "q1", value); aErr != nil {
				autosaveStopped <- aErr

				return
			}
		}
	}()
	require.Eventually(t, func() bool { return answered.Load() > 100 }, testDeadline, stdlibtime.Millisecond)
	res, err := prc.Submit(ctx, started.AttemptID)
	require.NoError(t, err)
	require.ErrorIs(t, <-autosaveStopped, ErrAttemptNotActive)

	stored, err := prc.store.GetAttempt(ctx, started.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, stored.Snapshot.Score(stored.Answers, nil), res)
}

func TestTimerForcesSubmission(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	timeLimit := uint32(1)
	prc := newTestProcessor(t, &timeLimit, nil)
	prc.shiftClock(-stdlibtime.Minute + 100*stdlibtime.Millisecond)

	started, err := prc.Start(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)
	require.NoError(t, prc.Answer(ctx, started.AttemptID, "q3", "channel"))

	require.Eventually(t, func() bool {
		view, gErr := prc.GetAttempt(ctx, started.AttemptID)

		return gErr == nil && view.Status == SubmittedAttemptStatus
	}, testDeadline, 10*stdlibtime.Millisecond)
	view, err := prc.GetAttempt(ctx, started.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, &Result{Score: 25, Passed: false, PointsEarned: 1, PointsPossible: 4, TimeExpired: true}, view.Result)
	require.ErrorIs(t, prc.Answer(ctx, started.AttemptID, "q1", "go"), ErrAttemptNotActive)
}

func TestAnswerAfterDeadlineFinalizesAttempt(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	timeLimit := uint32(1)
	prc := newTestProcessor(t, &timeLimit, nil)

	started, err := prc.Start(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)
	require.NoError(t, prc.Answer(ctx, started.AttemptID, "q1", "go"))
	prc.shiftClock(2 * stdlibtime.Minute)

	require.ErrorIs(t, prc.Answer(ctx, started.AttemptID, "q2", "True"), ErrAttemptNotActive)
	view, err := prc.GetAttempt(ctx, started.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, SubmittedAttemptStatus, view.Status)
	assert.Equal(t, &Result{Score: 25, Passed: false, PointsEarned: 1, PointsPossible: 4, TimeExpired: true}, view.Result)
	assert.False(t, prc.timer.Armed(started.AttemptID))
}

func TestStartReplacesOverdueAttempt(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	timeLimit := uint32(1)
	prc := newTestProcessor(t, &timeLimit, nil)

	first, err := prc.Start(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)
	_, err = prc.Start(ctx, "bogus", testAssessmentID)
	require.ErrorIs(t, err, ErrAttemptAlreadyActive)
	assert.Equal(t, first.AttemptID, terror.As(err).Data["attemptId"])

	prc.shiftClock(2 * stdlibtime.Minute)
	second, err := prc.Start(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.AttemptNumber)
	view, err := prc.GetAttempt(ctx, first.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, SubmittedAttemptStatus, view.Status)
	assert.True(t, view.Result.TimeExpired)
}

func TestGetActiveAttemptFinalizesOverdueAttempt(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	timeLimit := uint32(1)
	prc := newTestProcessor(t, &timeLimit, nil)

	started, err := prc.Start(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)
	prc.shiftClock(2 * stdlibtime.Minute)
	_, err = prc.GetActiveAttempt(ctx, "bogus", testAssessmentID)
	require.ErrorIs(t, err, ErrAttemptNotFound)
	view, err := prc.GetAttempt(ctx, started.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, SubmittedAttemptStatus, view.Status)
}

func TestSweeperArmsAttemptsStartedElsewhere(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	timeLimit := uint32(1)
	prc := newTestProcessor(t, &timeLimit, nil)
	prc.cfg.ExpiryGracePeriod = 10 * stdlibtime.Millisecond

	snapshot, err := prc.loadSnapshot(ctx, testAssessmentID)
	require.NoError(t, err)
	attempt, err := prc.store.CreateAttempt(ctx, "bogus", snapshot, stdlibtime.Now().Add(-2*stdlibtime.Minute))
	require.NoError(t, err)
	assert.False(t, prc.timer.Armed(attempt.ID))

	prc.armUpcomingDeadlines(ctx)
	require.Eventually(t, func() bool {
		view, gErr := prc.GetAttempt(ctx, attempt.ID)

		return gErr == nil && view.Status == SubmittedAttemptStatus && view.Result.TimeExpired
	}, testDeadline, 10*stdlibtime.Millisecond)
}

func TestSweeperDropsTimersOfAttemptsFinalizedElsewhere(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	timeLimit := uint32(1)
	prc := newTestProcessor(t, &timeLimit, nil)
	prc.cfg.ExpirySweepInterval = 2 * stdlibtime.Minute

	finalizedElsewhere, err := prc.Start(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)
	inProgress, err := prc.Start(ctx, "other", testAssessmentID)
	require.NoError(t, err)
	_, transitioned, err := prc.store.Finalize(ctx, finalizedElsewhere.AttemptID, func(attempt *Attempt) *Result {
		return attempt.Snapshot.Score(attempt.Answers, nil)
	}, stdlibtime.Now())
	require.NoError(t, err)
	require.True(t, transitioned)
	assert.True(t, prc.timer.Armed(finalizedElsewhere.AttemptID))

	stdlibtime.Sleep(10 * stdlibtime.Millisecond)
	prc.armUpcomingDeadlines(ctx)
	assert.False(t, prc.timer.Armed(finalizedElsewhere.AttemptID))
	assert.True(t, prc.timer.Armed(inProgress.AttemptID))
}

func TestSnapshotIsolatesAttemptFromBankChanges(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	prc := newTestProcessor(t, nil, nil)

	started, err := prc.Start(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)
	changed := testQuestions()
	changed[0].CorrectAnswer = "defer"
	require.NoError(t, prc.PutAssessment(ctx, &Assessment{ID: testAssessmentID, Title: "Go basics v2"}, changed))

	require.NoError(t, prc.Answer(ctx, started.AttemptID, "q1", "go"))
	res, err := prc.Submit(ctx, started.AttemptID)
	require.NoError(t, err)
	assert.EqualValues(t, 25, res.Score)
}

func TestForceSubmitUnknownAttemptIsDropped(t *testing.T) {
	t.Parallel()
	prc := newTestProcessor(t, nil, nil)
	assert.NotPanics(t, func() { prc.forceSubmit("unknown") })
}

func TestNewProcessorWithCustomMatching(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), testDeadline)
	defer cancel()
	bank, store := NewInMemoryQuestionBank(), NewInMemoryAttemptStore()
	require.NoError(t, bank.PutAssessment(ctx, &Assessment{ID: testAssessmentID}, testQuestions()))
	prc := NewProcessor(ctx, bank, store, &AnswerMatching{TrimSpace: true, IgnoreCase: true})
	defer func() {
		require.NoError(t, prc.Close())
	}()
	require.NoError(t, prc.CheckHealth(ctx))

	started, err := prc.Start(ctx, "bogus", testAssessmentID)
	require.NoError(t, err)
	require.NoError(t, prc.Answer(ctx, started.AttemptID, "q3", " Channel "))
	require.NoError(t, prc.Answer(ctx, started.AttemptID, "q1", "GO"))
	res, err := prc.Submit(ctx, started.AttemptID)
	require.NoError(t, err)
	assert.EqualValues(t, 25, res.Score)
}
