// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	assessmentsfixture "github.com/ice-blockchain/igloo/assessments/fixture"
	"github.com/ice-blockchain/igloo/cmd/fixture"
	connectorsfixture "github.com/ice-blockchain/wintr/connectors/fixture"
	serverfixture "github.com/ice-blockchain/wintr/server/fixture"
	. "github.com/ice-blockchain/wintr/testing"
)

var (
	//nolint:gochecknoglobals // Because those are global, set only once for the whole package test runtime and execution.
	bridge *fixture.TestConnectorsBridge
)

func TestMain(m *testing.M) {
	const order = assessmentsfixture.TestConnectorsOrder + 1
	write := serverfixture.NewTestConnector("cmd/igloo-hut", "igloo", swaggerRoot, "", order)
	read := serverfixture.NewTestConnector("cmd/igloo", "igloo", "", "", order+1)
	bridge = fixture.NewBridge(read, write)

	connectorsfixture.
		NewTestRunner(applicationYamlKey, &connectorsfixture.ConnectorLifecycleHooks{AfterConnectorsStarted: bridge.SeedAssessments},
			append(append(assessmentsfixture.RTestConnectors(), assessmentsfixture.WTestConnectors()...), write, read)...).
		RunTests(m)
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), bridge.TestDeadline)
	defer cancel()
	bridge.W.TestHealthCheck(ctx, t)
}

//nolint:paralleltest,funlen // We can't parallelize it because we have a limit number of real auth tokens.
func TestService_AttemptLifecycle(t *testing.T) {
	if testing.Short() {
		return
	}
	_, token := bridge.GetTestingAuthorizationAt(0)
	ctx, cancel := context.WithTimeout(context.Background(), bridge.TestDeadline)
	defer cancel()
	var body string
	var status int
	WHEN("starting an attempt", func() {
		body, status = bridge.StartAttempt(ctx, t, bridge.AssessmentID, token)
	})
	THEN(func() {
		IT("is created with a deadline and answer-free questions", func() {
			assert.Equal(t, 201, status)
			bridge.AssertResponseBody(t, `"deadline":"`+bridge.TimeRegex+`"`, body)
			bridge.AssertResponseBody(t, `"attemptId":"`+bridge.UUIDRegex+`"`, body)
			bridge.AssertResponseBody(t, `"attemptNumber":1`, body)
			assert.NotContains(t, body, "correctAnswer")
		})
	})
	attemptID := bridge.MustStartAttemptOrResume(ctx, t, bridge.AssessmentID, token)
	WHEN("starting another attempt while the first is in progress", func() {
		body, status = bridge.StartAttempt(ctx, t, bridge.AssessmentID, token)
	})
	THEN(func() {
		IT("conflicts and points to the active attempt", func() {
			assert.Equal(t, 409, status)
			bridge.AssertResponseBody(t, `{"error":".+","code":"ATTEMPT_ALREADY_ACTIVE","data":\{"attemptId":"`+attemptID+`"\}}`, body)
		})
	})
	WHEN("answering questions, some of them twice", func() {
		for _, answer := range [][2]string{{"q1", "go"}, {"q2", "True"}, {"q2", "False"}, {"q3", "channel"}} {
			body, status = bridge.AnswerQuestion(ctx, t, attemptID, answer[0], answer[1], token)
			assert.Equal(t, 200, status, body)
		}
	})
	WHEN("answering a question that is not part of the assessment", func() {
		body, status = bridge.AnswerQuestion(ctx, t, attemptID, "q99", "go", token)
	})
	THEN(func() {
		IT("is rejected", func() {
			assert.Equal(t, 422, status)
			bridge.AssertResponseBody(t, `{"error":".+","code":"UNKNOWN_QUESTION"}`, body)
		})
	})
	WHEN("submitting the attempt with a client computed result", func() {
		body, status = bridge.SubmitAttemptWithBody(ctx, t, attemptID, `{"score":100,"passed":true,"pointsEarned":4}`, token)
	})
	THEN(func() {
		IT("is scored by the server with the last answers", func() {
			assert.Equal(t, 200, status)
			assert.JSONEq(t, `{"score":75,"passed":true,"pointsEarned":3,"pointsPossible":4,"timeExpired":false}`, body)
		})
	})
	WHEN("submitting it again", func() {
		var again string
		again, status = bridge.SubmitAttempt(ctx, t, attemptID, token)
		assert.Equal(t, body, again)
	})
	THEN(func() {
		IT("returns the same result", func() {
			assert.Equal(t, 200, status)
		})
	})
	WHEN("answering after the submission", func() {
		body, status = bridge.AnswerQuestion(ctx, t, attemptID, "q4", "select", token)
	})
	THEN(func() {
		IT("is rejected because the attempt is not active anymore", func() {
			assert.Equal(t, 409, status)
			bridge.AssertResponseBody(t, `{"error":".+","code":"ATTEMPT_NOT_ACTIVE"}`, body)
		})
	})
}

//nolint:paralleltest // We can't parallelize it because we have a limit number of real auth tokens.
func TestService_StartAttempt_Failure(t *testing.T) {
	if testing.Short() {
		return
	}
	_, token := bridge.GetTestingAuthorizationAt(1)
	ctx, cancel := context.WithTimeout(context.Background(), bridge.TestDeadline)
	defer cancel()
	var body string
	var status int
	WHEN("starting an attempt for an assessment that does not exist", func() {
		body, status = bridge.StartAttempt(ctx, t, "bogus", token)
	})
	THEN(func() {
		IT("is not found", func() {
			assert.Equal(t, 404, status)
			bridge.AssertResponseBody(t, `{"error":".+","code":"ASSESSMENT_NOT_FOUND"}`, body)
		})
	})
	GIVEN("the only allowed attempt was used", func() {
		attemptID := bridge.MustStartAttemptOrResume(ctx, t, bridge.LimitedAssessmentID, token)
		_, status = bridge.SubmitAttempt(ctx, t, attemptID, token)
		assert.Equal(t, 200, status)
	})
	WHEN("starting another attempt", func() {
		body, status = bridge.StartAttempt(ctx, t, bridge.LimitedAssessmentID, token)
	})
	THEN(func() {
		IT("is rejected because of the attempt limit", func() {
			assert.Equal(t, 409, status)
			bridge.AssertResponseBody(t, `{"error":".+","code":"ATTEMPT_LIMIT_EXCEEDED"}`, body)
		})
	})
}

//nolint:paralleltest // We can't parallelize it because we have a limit number of real auth tokens.
func TestService_AttemptOfAnotherUser(t *testing.T) {
	if testing.Short() {
		return
	}
	_, token := bridge.GetTestingAuthorizationAt(0)
	_, otherToken := bridge.GetTestingAuthorizationAt(1)
	ctx, cancel := context.WithTimeout(context.Background(), bridge.TestDeadline)
	defer cancel()
	var attemptID string
	GIVEN("another user has an attempt in progress", func() {
		attemptID = bridge.MustStartAttemptOrResume(ctx, t, bridge.AssessmentID, otherToken)
	})
	var body string
	var status int
	WHEN("answering on it", func() {
		body, status = bridge.AnswerQuestion(ctx, t, attemptID, "q1", "go", token)
	})
	THEN(func() {
		IT("is forbidden", func() {
			assert.Equal(t, 403, status)
			bridge.AssertResponseBody(t, `{"error":".+","code":"ATTEMPT_NOT_OWNED"}`, body)
		})
	})
	WHEN("submitting it", func() {
		body, status = bridge.SubmitAttempt(ctx, t, attemptID, token)
	})
	THEN(func() {
		IT("is forbidden", func() {
			assert.Equal(t, 403, status)
			bridge.AssertResponseBody(t, `{"error":".+","code":"ATTEMPT_NOT_OWNED"}`, body)
		})
	})
	WHEN("submitting an attempt that does not exist", func() {
		body, status = bridge.SubmitAttempt(ctx, t, "bogus", token)
	})
	THEN(func() {
		IT("is not active", func() {
			assert.Equal(t, 409, status)
			bridge.AssertResponseBody(t, `{"error":".+","code":"ATTEMPT_NOT_ACTIVE"}`, body)
		})
	})
}
