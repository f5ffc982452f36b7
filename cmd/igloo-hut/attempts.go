// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/igloo/assessments"
	"github.com/ice-blockchain/wintr/server"
	"github.com/ice-blockchain/wintr/terror"
)

func (s *service) setupAttemptRoutes(router *server.Router) {
	router.
		Group("v1w").
		POST("assessments/:assessmentId/attempts", server.RootHandler(s.StartAttempt)).
		POST("attempts/:attemptId/answers", server.RootHandler(s.AnswerQuestion)).
		POST("attempts/:attemptId/submit", server.RootHandler(s.SubmitAttempt))
}

// StartAttempt godoc
//
//	@Schemes
//	@Description	Starts a new attempt for the assessment. The questions are returned without their correct answers.
//	@Tags			Attempts
//	@Accept			json
//	@Produce		json
//	@Param			Authorization		header		string	true	"Insert your access token"		default(Bearer <Add access token here>)
//	@Param			X-Account-Metadata	header		string	false	"Insert your metadata token"	default(<Add metadata token here>)
//	@Param			assessmentId		path		string	true	"ID of the assessment"
//	@Success		201					{object}	assessments.StartedAttempt
//	@Failure		400					{object}	server.ErrorResponse	"if validations fail"
//	@Failure		401					{object}	server.ErrorResponse	"if not authorized"
//	@Failure		404					{object}	server.ErrorResponse	"assessment is not found"
//	@Failure		409					{object}	server.ErrorResponse	"attempt limit reached or another attempt is already in progress (its id is in `data.attemptId`)"
//	@Failure		422					{object}	server.ErrorResponse	"if syntax fails"
//	@Failure		500					{object}	server.ErrorResponse
//	@Failure		504					{object}	server.ErrorResponse	"if request times out"
//	@Router			/assessments/{assessmentId}/attempts [POST].
func (s *service) StartAttempt( //nolint:gocritic // False negative.
	ctx context.Context,
	req *server.Request[StartAttemptArg, assessments.StartedAttempt],
) (*server.Response[assessments.StartedAttempt], *server.Response[server.ErrorResponse]) {
	if strings.TrimSpace(req.Data.AssessmentID) == "" {
		return nil, server.UnprocessableEntity(errors.New("assessmentId is required"), invalidPropertiesErrorCode)
	}
	started, err := s.assessmentsProcessor.Start(ctx, req.AuthenticatedUser.UserID, req.Data.AssessmentID)
	if err != nil {
		err = errors.Wrapf(err, "failed to start attempt for %#v, userID:%v", req.Data, req.AuthenticatedUser.UserID)
		switch {
		case errors.Is(err, assessments.ErrAssessmentNotFound):
			return nil, server.NotFound(err, assessmentNotFoundErrorCode)
		case errors.Is(err, assessments.ErrAttemptLimitExceeded):
			return nil, server.Conflict(err, attemptLimitExceededErrorCode)
		case errors.Is(err, assessments.ErrAttemptAlreadyActive):
			if tErr := terror.As(err); tErr != nil {
				return nil, server.Conflict(err, attemptAlreadyActiveErrorCode, tErr.Data)
			}

			return nil, server.Conflict(err, attemptAlreadyActiveErrorCode)
		default:
			return nil, server.Unexpected(err)
		}
	}

	return server.Created(started), nil
}

// AnswerQuestion godoc
//
//	@Schemes
//	@Description	Records the answer for a question of an in progress attempt. The last answer for a question wins.
//	@Tags			Attempts
//	@Accept			json
//	@Produce		json
//	@Param			Authorization		header	string						true	"Insert your access token"		default(Bearer <Add access token here>)
//	@Param			X-Account-Metadata	header	string						false	"Insert your metadata token"	default(<Add metadata token here>)
//	@Param			attemptId			path	string						true	"ID of the attempt"
//	@Param			request				body	AnswerQuestionRequestBody	true	"Request params"
//	@Success		200					"OK"
//	@Failure		400					{object}	server.ErrorResponse	"if validations fail"
//	@Failure		401					{object}	server.ErrorResponse	"if not authorized"
//	@Failure		403					{object}	server.ErrorResponse	"the attempt belongs to another user"
//	@Failure		409					{object}	server.ErrorResponse	"the attempt is not in progress anymore, or its time ran out"
//	@Failure		422					{object}	server.ErrorResponse	"if syntax fails or the question is not part of the attempt"
//	@Failure		500					{object}	server.ErrorResponse
//	@Failure		504					{object}	server.ErrorResponse	"if request times out"
//	@Router			/attempts/{attemptId}/answers [POST].
func (s *service) AnswerQuestion( //nolint:gocritic // False negative.
	ctx context.Context,
	req *server.Request[AnswerQuestionRequestBody, any],
) (*server.Response[any], *server.Response[server.ErrorResponse]) {
	if strings.TrimSpace(req.Data.QuestionID) == "" {
		return nil, server.UnprocessableEntity(errors.New("questionId is required"), invalidPropertiesErrorCode)
	}
	if errResp := s.verifyAttemptOwnership(ctx, req.Data.AttemptID, req.AuthenticatedUser.UserID); errResp != nil {
		return nil, errResp
	}
	if err := s.assessmentsProcessor.Answer(ctx, req.Data.AttemptID, req.Data.QuestionID, req.Data.Value); err != nil {
		err = errors.Wrapf(err, "failed to record answer %#v", req.Data)
		switch {
		case errors.Is(err, assessments.ErrAttemptNotActive):
			return nil, server.Conflict(err, attemptNotActiveErrorCode)
		case errors.Is(err, assessments.ErrUnknownQuestion):
			return nil, server.UnprocessableEntity(err, unknownQuestionErrorCode)
		default:
			return nil, server.Unexpected(err)
		}
	}

	return server.OK[any](), nil
}

// SubmitAttempt godoc
//
//	@Schemes
//	@Description	Submits the attempt and returns its result. Submitting an already submitted attempt returns the same result.
//	@Tags			Attempts
//	@Accept			json
//	@Produce		json
//	@Param			Authorization		header		string	true	"Insert your access token"		default(Bearer <Add access token here>)
//	@Param			X-Account-Metadata	header		string	false	"Insert your metadata token"	default(<Add metadata token here>)
//	@Param			attemptId			path		string	true	"ID of the attempt"
//	@Success		200					{object}	assessments.Result
//	@Failure		400					{object}	server.ErrorResponse	"if validations fail"
//	@Failure		401					{object}	server.ErrorResponse	"if not authorized"
//	@Failure		403					{object}	server.ErrorResponse	"the attempt belongs to another user"
//	@Failure		409					{object}	server.ErrorResponse	"the attempt does not exist"
//	@Failure		422					{object}	server.ErrorResponse	"if syntax fails"
//	@Failure		500					{object}	server.ErrorResponse
//	@Failure		504					{object}	server.ErrorResponse	"if request times out"
//	@Router			/attempts/{attemptId}/submit [POST].
func (s *service) SubmitAttempt( //nolint:gocritic // False negative.
	ctx context.Context,
	req *server.Request[SubmitAttemptArg, assessments.Result],
) (*server.Response[assessments.Result], *server.Response[server.ErrorResponse]) {
	if errResp := s.verifyAttemptOwnership(ctx, req.Data.AttemptID, req.AuthenticatedUser.UserID); errResp != nil {
		return nil, errResp
	}
	res, err := s.assessmentsProcessor.Submit(ctx, req.Data.AttemptID)
	if err != nil {
		err = errors.Wrapf(err, "failed to submit attempt %v", req.Data.AttemptID)
		if errors.Is(err, assessments.ErrAttemptNotActive) {
			return nil, server.Conflict(err, attemptNotActiveErrorCode)
		}

		return nil, server.Unexpected(err)
	}

	return server.OK(res), nil
}

// Attempts that never existed are reported as not active, same as the engine does.
func (s *service) verifyAttemptOwnership(ctx context.Context, attemptID, userID string) *server.Response[server.ErrorResponse] {
	attempt, err := s.assessmentsProcessor.GetAttempt(ctx, attemptID)
	if err != nil {
		err = errors.Wrapf(err, "failed to get attempt %v", attemptID)
		if errors.Is(err, assessments.ErrAttemptNotFound) {
			return server.Conflict(err, attemptNotActiveErrorCode)
		}

		return server.Unexpected(err)
	}
	if attempt.UserID != userID {
		return server.ForbiddenWithCode(errors.Errorf("attempt %v belongs to another user", attemptID), attemptNotOwnedErrorCode)
	}

	return nil
}
