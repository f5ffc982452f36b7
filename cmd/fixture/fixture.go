// SPDX-License-Identifier: ice License 1.0

package fixture

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ice-blockchain/igloo/assessments"
	connectorsfixture "github.com/ice-blockchain/wintr/connectors/fixture"
	"github.com/ice-blockchain/wintr/log"
	serverfixture "github.com/ice-blockchain/wintr/server/fixture"
)

func NewBridge(read, write serverfixture.TestConnector) *TestConnectorsBridge {
	return &TestConnectorsBridge{
		R:                   read,
		W:                   write,
		AssessmentID:        fmt.Sprintf("cmd-tests-%v", uuid.NewString()),
		LimitedAssessmentID: fmt.Sprintf("cmd-tests-limited-%v", uuid.NewString()),
		TestDeadline:        testDeadline,
		TimeRegex:           timeRegex,
		UUIDRegex:           uuidRegex,
		DefaultClientIP:     defaultClientIP,
	}
}

// SeedAssessments is meant to be used as connectorsfixture.ConnectorLifecycleHooks#AfterConnectorsStarted.
func (b *TestConnectorsBridge) SeedAssessments(ctx context.Context) connectorsfixture.ContextErrClose {
	repo := assessments.New(ctx, func() {})
	timeLimit, maxAttempts := uint32(testTimeLimitMinutes), uint32(1)
	log.Panic(repo.PutAssessment(ctx, &assessments.Assessment{TimeLimitMinutes: &timeLimit, ID: b.AssessmentID, Title: "Go basics"}, testQuestions()))
	log.Panic(repo.PutAssessment(ctx, &assessments.Assessment{MaxAttempts: &maxAttempts, ID: b.LimitedAssessmentID, Title: "Go basics, once"}, testQuestions()))

	return func(context.Context) error {
		return errors.Wrap(repo.Close(), "can't close seeding repository")
	}
}

func testQuestions() []*assessments.Question {
	return []*assessments.Question{
		{ID: "q1", Type: assessments.MultipleChoiceQuestionType, Text: "Which keyword starts a goroutine?", CorrectAnswer: "go", Options: []string{"go", "defer", "func"}, Position: 1},
		{ID: "q2", Type: assessments.TrueFalseQuestionType, Text: "Maps are safe for concurrent writes.", CorrectAnswer: "False", Position: 2},
		{ID: "q3", Type: assessments.ShortAnswerQuestionType, Text: "What do goroutines use to communicate?", CorrectAnswer: "channel", Position: 3},
		{ID: "q4", Type: assessments.ShortAnswerQuestionType, Text: "Which statement waits on multiple channel operations?", CorrectAnswer: "select", Position: 4},
	}
}

func (b *TestConnectorsBridge) StartAttempt(ctx context.Context, tb testing.TB, assessmentID, token string) (body string, status int) {
	tb.Helper()

	jsonBody, contentType := b.W.WrapJSONBody(`{}`)
	body, status, headers := b.W.Post(ctx, tb, fmt.Sprintf(`/v1w/assessments/%v/attempts`, assessmentID), jsonBody, b.RequestHeaders(token, contentType))
	assertJSONHeaders(tb, headers)

	return body, status
}

//nolint:revive // It's more descriptive this way.
func (b *TestConnectorsBridge) AnswerQuestion(ctx context.Context, tb testing.TB, attemptID, questionID, value, token string) (body string, status int) {
	tb.Helper()

	jsonBody, contentType := b.W.WrapJSONBody(fmt.Sprintf(`{"questionId":%q,"value":%q}`, questionID, value))
	body, status, _ = b.W.Post(ctx, tb, fmt.Sprintf(`/v1w/attempts/%v/answers`, attemptID), jsonBody, b.RequestHeaders(token, contentType))

	return body, status
}

func (b *TestConnectorsBridge) SubmitAttempt(ctx context.Context, tb testing.TB, attemptID, token string) (body string, status int) {
	tb.Helper()

	return b.SubmitAttemptWithBody(ctx, tb, attemptID, `{}`, token)
}

// SubmitAttemptWithBody is for checking that whatever the client sends along with the submission is ignored.
func (b *TestConnectorsBridge) SubmitAttemptWithBody(ctx context.Context, tb testing.TB, attemptID, requestBody, token string) (body string, status int) {
	tb.Helper()

	jsonBody, contentType := b.W.WrapJSONBody(requestBody)
	body, status, headers := b.W.Post(ctx, tb, fmt.Sprintf(`/v1w/attempts/%v/submit`, attemptID), jsonBody, b.RequestHeaders(token, contentType))
	assertJSONHeaders(tb, headers)

	return body, status
}

func (b *TestConnectorsBridge) GetAttempt(ctx context.Context, tb testing.TB, attemptID, token string) (body string, status int) {
	tb.Helper()

	body, status, headers := b.R.Get(ctx, tb, fmt.Sprintf(`/v1r/attempts/%v`, attemptID), b.RequestHeaders(token))
	assertJSONHeaders(tb, headers)

	return body, status
}

func (b *TestConnectorsBridge) GetActiveAttempt(ctx context.Context, tb testing.TB, assessmentID, token string) (body string, status int) {
	tb.Helper()

	body, status, headers := b.R.Get(ctx, tb, fmt.Sprintf(`/v1r/assessments/%v/attempts/active`, assessmentID), b.RequestHeaders(token))
	assertJSONHeaders(tb, headers)

	return body, status
}

func (b *TestConnectorsBridge) GetAttemptStatus(ctx context.Context, tb testing.TB, assessmentID, token string) (body string, status int) {
	tb.Helper()

	body, status, headers := b.R.Get(ctx, tb, fmt.Sprintf(`/v1r/assessments/%v/status`, assessmentID), b.RequestHeaders(token))
	assertJSONHeaders(tb, headers)

	return body, status
}

// MustStartAttempt starts an attempt that is expected to succeed and returns it decoded.
func (b *TestConnectorsBridge) MustStartAttempt(ctx context.Context, tb testing.TB, assessmentID, token string) *assessments.StartedAttempt {
	tb.Helper()
	body, status := b.StartAttempt(ctx, tb, assessmentID, token)
	require.Equal(tb, http.StatusCreated, status, body)
	started := new(assessments.StartedAttempt)
	require.NoError(tb, json.Unmarshal([]byte(body), started))
	require.NotEmpty(tb, started.AttemptID)
	assert.NotContains(tb, body, "correctAnswer")

	return started
}

// MustStartAttemptOrResume returns the id of the attempt in progress, starting one if there's none.
func (b *TestConnectorsBridge) MustStartAttemptOrResume(ctx context.Context, tb testing.TB, assessmentID, token string) (attemptID string) {
	tb.Helper()
	body, status := b.StartAttempt(ctx, tb, assessmentID, token)
	if status == http.StatusConflict {
		body, status = b.GetActiveAttempt(ctx, tb, assessmentID, token)
		require.Equal(tb, http.StatusOK, status, body)
	} else {
		require.Equal(tb, http.StatusCreated, status, body)
	}
	started := new(assessments.StartedAttempt)
	require.NoError(tb, json.Unmarshal([]byte(body), started))
	require.NotEmpty(tb, started.AttemptID)

	return started.AttemptID
}

func assertJSONHeaders(tb testing.TB, headers http.Header) {
	tb.Helper()
	headers.Del("Date")
	headers.Del("Content-Length")
	assert.Equal(tb, http.Header{"Content-Type": []string{"application/json; charset=utf-8"}}, headers)
}

func (*TestConnectorsBridge) RequestHeaders(token string, contentTypeOrClientIP ...string) http.Header {
	reqHeaders := http.Header{}
	reqHeaders.Set("Authorization", fmt.Sprintf("Bearer %v", token))
	reqHeaders.Set("cf-connecting-ip", defaultClientIP)
	for _, s := range contentTypeOrClientIP {
		if net.ParseIP(s) != nil {
			reqHeaders.Set("cf-connecting-ip", s)
		} else {
			reqHeaders.Set("Content-Type", s)
		}
	}

	return reqHeaders
}

func (b *TestConnectorsBridge) GetTestingAuthorizationAt(index int) (userID, token string) {
	allUserIDs, allTokens := b.GetAllTestingAuthorizations()

	return allUserIDs[index], allTokens[index]
}

func (*TestConnectorsBridge) GetAllTestingAuthorizations() (userIDs, tokens []string) {
	allUserIDs := strings.Split(os.Getenv("TESTING_USER_IDS"), ",")
	allTokens := strings.Split(os.Getenv("TESTING_TOKENS"), ",")

	return allUserIDs, allTokens
}

func (*TestConnectorsBridge) AssertResponseBody(tb testing.TB, expectedRespBody, actualRespBody string) {
	tb.Helper()
	assert.Regexp(tb, regexp.MustCompile(strings.ReplaceAll(strings.ReplaceAll(expectedRespBody, "\t", ""), "\n", "")), actualRespBody)
}
