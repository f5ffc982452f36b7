// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/igloo/assessments"
	assessmentsapi "github.com/ice-blockchain/igloo/assessments/api"
	"github.com/ice-blockchain/wintr/server"
)

func (s *service) setupAttemptRoutes(router *server.Router) {
	router.
		Group("v1r").
		GET("assessments/:assessmentId/attempts/active", server.RootHandler(s.GetActiveAttempt)).
		GET("assessments/:assessmentId/status", server.RootHandler(s.GetAttemptStatus)).
		GET("attempts/:attemptId", server.RootHandler(s.GetAttempt))
}

// GetActiveAttempt godoc
//
//	@Schemes
//	@Description	Returns the attempt that is currently in progress for the assessment, so it can be resumed.
//	@Tags			Attempts
//	@Accept			json
//	@Produce		json
//	@Param			Authorization		header		string	true	"Insert your access token"		default(Bearer <Add access token here>)
//	@Param			X-Account-Metadata	header		string	false	"Insert your metadata token"	default(<Add metadata token here>)
//	@Param			assessmentId		path		string	true	"ID of the assessment"
//	@Success		200					{object}	assessments.StartedAttempt
//	@Failure		400					{object}	server.ErrorResponse	"if validations fail"
//	@Failure		401					{object}	server.ErrorResponse	"if not authorized"
//	@Failure		404					{object}	server.ErrorResponse	"there is no attempt in progress"
//	@Failure		422					{object}	server.ErrorResponse	"if syntax fails"
//	@Failure		500					{object}	server.ErrorResponse
//	@Failure		504					{object}	server.ErrorResponse	"if request times out"
//	@Router			/assessments/{assessmentId}/attempts/active [GET].
func (s *service) GetActiveAttempt( //nolint:gocritic // False negative.
	ctx context.Context,
	req *server.Request[GetActiveAttemptArg, assessments.StartedAttempt],
) (*server.Response[assessments.StartedAttempt], *server.Response[server.ErrorResponse]) {
	attempt, err := s.assessmentsRepository.GetActiveAttempt(ctx, req.AuthenticatedUser.UserID, req.Data.AssessmentID)
	if err != nil {
		err = errors.Wrapf(err, "failed to get active attempt for %#v, userID:%v", req.Data, req.AuthenticatedUser.UserID)
		if errors.Is(err, assessments.ErrAttemptNotFound) {
			return nil, server.NotFound(err, attemptNotFoundErrorCode)
		}

		return nil, server.Unexpected(err)
	}

	return server.OK(attempt), nil
}

// GetAttempt godoc
//
//	@Schemes
//	@Description	Returns an attempt of the authenticated user, with its result if it was submitted.
//	@Tags			Attempts
//	@Accept			json
//	@Produce		json
//	@Param			Authorization		header		string	true	"Insert your access token"		default(Bearer <Add access token here>)
//	@Param			X-Account-Metadata	header		string	false	"Insert your metadata token"	default(<Add metadata token here>)
//	@Param			attemptId			path		string	true	"ID of the attempt"
//	@Success		200					{object}	assessments.AttemptView
//	@Failure		400					{object}	server.ErrorResponse	"if validations fail"
//	@Failure		401					{object}	server.ErrorResponse	"if not authorized"
//	@Failure		403					{object}	server.ErrorResponse	"the attempt belongs to another user"
//	@Failure		404					{object}	server.ErrorResponse	"if not found"
//	@Failure		422					{object}	server.ErrorResponse	"if syntax fails"
//	@Failure		500					{object}	server.ErrorResponse
//	@Failure		504					{object}	server.ErrorResponse	"if request times out"
//	@Router			/attempts/{attemptId} [GET].
func (s *service) GetAttempt( //nolint:gocritic // False negative.
	ctx context.Context,
	req *server.Request[GetAttemptArg, assessments.AttemptView],
) (*server.Response[assessments.AttemptView], *server.Response[server.ErrorResponse]) {
	attempt, err := s.assessmentsRepository.GetAttempt(ctx, req.Data.AttemptID)
	if err != nil {
		err = errors.Wrapf(err, "failed to get attempt %v", req.Data.AttemptID)
		if errors.Is(err, assessments.ErrAttemptNotFound) {
			return nil, server.NotFound(err, attemptNotFoundErrorCode)
		}

		return nil, server.Unexpected(err)
	}
	if attempt.UserID != req.AuthenticatedUser.UserID {
		return nil, server.ForbiddenWithCode(errors.Errorf("attempt %v belongs to another user", req.Data.AttemptID), attemptNotOwnedErrorCode)
	}

	return server.OK(attempt), nil
}

// GetAttemptStatus godoc
//
//	@Schemes
//	@Description	Returns how many attempts the authenticated user has used and has left for the assessment, and the best score so far.
//	@Tags			Attempts
//	@Accept			json
//	@Produce		json
//	@Param			Authorization		header		string	true	"Insert your access token"		default(Bearer <Add access token here>)
//	@Param			X-Account-Metadata	header		string	false	"Insert your metadata token"	default(<Add metadata token here>)
//	@Param			assessmentId		path		string	true	"ID of the assessment"
//	@Success		200					{object}	assessmentsapi.AttemptStatus
//	@Failure		400					{object}	server.ErrorResponse	"if validations fail"
//	@Failure		401					{object}	server.ErrorResponse	"if not authorized"
//	@Failure		404					{object}	server.ErrorResponse	"assessment is not found"
//	@Failure		422					{object}	server.ErrorResponse	"if syntax fails"
//	@Failure		500					{object}	server.ErrorResponse
//	@Failure		504					{object}	server.ErrorResponse	"if request times out"
//	@Router			/assessments/{assessmentId}/status [GET].
func (s *service) GetAttemptStatus( //nolint:gocritic // False negative.
	ctx context.Context,
	req *server.Request[GetAttemptStatusArg, assessmentsapi.AttemptStatus],
) (*server.Response[assessmentsapi.AttemptStatus], *server.Response[server.ErrorResponse]) {
	status, err := s.assessmentsClient.GetAttemptStatus(ctx, req.AuthenticatedUser.UserID, req.Data.AssessmentID)
	if err != nil {
		err = errors.Wrapf(err, "failed to get attempt status for %#v, userID:%v", req.Data, req.AuthenticatedUser.UserID)
		if errors.Is(err, assessments.ErrAssessmentNotFound) {
			return nil, server.NotFound(err, assessmentNotFoundErrorCode)
		}

		return nil, server.Unexpected(err)
	}

	return server.OK(status), nil
}
