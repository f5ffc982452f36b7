// SPDX-License-Identifier: ice License 1.0

package api

import (
	"context"
	"testing"
	stdlibtime "time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ice-blockchain/igloo/assessments"
	"github.com/ice-blockchain/igloo/assessments/fixture"
)

func TestMain(m *testing.M) {
	fixture.RunDBTests(m)
}

func TestGetAttemptStatus(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*stdlibtime.Second)
	defer cancel()

	// Create the repository because we need its schema.
	repo := assessments.New(ctx, nil)
	defer func() {
		require.NoError(t, repo.Close())
	}()
	cl := NewClient(ctx, nil)
	defer func() {
		require.NoError(t, cl.Close())
	}()
	require.NoError(t, cl.CheckHealth(ctx))

	maxAttempts := uint32(3)
	assessmentID, userID := uuid.NewString(), uuid.NewString()
	require.NoError(t, repo.PutAssessment(ctx, &assessments.Assessment{MaxAttempts: &maxAttempts, ID: assessmentID}, []*assessments.Question{
		{ID: "q1", Type: assessments.TrueFalseQuestionType, Text: "Go has generics.", CorrectAnswer: "True"},
		{ID: "q2", Type: assessments.ShortAnswerQuestionType, Text: "Zero value of a pointer?", CorrectAnswer: "nil"},
	}))

	status, err := cl.GetAttemptStatus(ctx, userID, assessmentID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, status.AttemptsCount)
	assert.Nil(t, status.BestScore)
	assert.Nil(t, status.ActiveAttemptID)
	require.NotNil(t, status.RemainingAttempts)
	assert.EqualValues(t, 3, *status.RemainingAttempts)
	assert.False(t, status.Passed)

	started, err := repo.Start(ctx, userID, assessmentID)
	require.NoError(t, err)
	require.NoError(t, repo.Answer(ctx, started.AttemptID, "q1", "True"))
	status, err = cl.GetAttemptStatus(ctx, userID, assessmentID)
	require.NoError(t, err)
	require.NotNil(t, status.ActiveAttemptID)
	assert.Equal(t, started.AttemptID, *status.ActiveAttemptID)

	_, err = repo.Submit(ctx, started.AttemptID)
	require.NoError(t, err)
	status, err = cl.GetAttemptStatus(ctx, userID, assessmentID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, status.AttemptsCount)
	assert.EqualValues(t, 2, *status.RemainingAttempts)
	require.NotNil(t, status.BestScore)
	assert.EqualValues(t, 50, *status.BestScore)
	assert.False(t, status.Passed)
	assert.Nil(t, status.ActiveAttemptID)

	_, err = cl.GetAttemptStatus(ctx, userID, uuid.NewString())
	require.ErrorIs(t, err, assessments.ErrAssessmentNotFound)
}
