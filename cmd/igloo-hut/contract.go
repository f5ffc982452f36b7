// SPDX-License-Identifier: ice License 1.0

package main

import (
	"github.com/ice-blockchain/igloo/assessments"
)

// Public API.

type (
	StartAttemptArg struct {
		AssessmentID string `uri:"assessmentId" required:"true" example:"go-basics"`
	}
	AnswerQuestionRequestBody struct {
		AttemptID  string `uri:"attemptId" required:"true" swaggerignore:"true" example:"8c8a4f4e-6c54-4b3e-a0a4-9b1f3c1a2f11"`
		QuestionID string `json:"questionId" required:"true" example:"q1"`
		// Optional. Sending it again for the same question replaces the previous answer.
		Value string `json:"value" example:"go"`
	}
	SubmitAttemptArg struct {
		AttemptID string `uri:"attemptId" required:"true" example:"8c8a4f4e-6c54-4b3e-a0a4-9b1f3c1a2f11"`
	}
)

// Private API.

const (
	applicationYamlKey = "cmd/igloo-hut"
	swaggerRoot        = "/assessments/w"
)

// Values for server.ErrorResponse#Code.
const (
	invalidPropertiesErrorCode    = "INVALID_PROPERTIES"
	assessmentNotFoundErrorCode   = "ASSESSMENT_NOT_FOUND"
	attemptNotFoundErrorCode      = "ATTEMPT_NOT_FOUND"
	attemptNotOwnedErrorCode      = "ATTEMPT_NOT_OWNED"
	attemptLimitExceededErrorCode = "ATTEMPT_LIMIT_EXCEEDED"
	attemptAlreadyActiveErrorCode = "ATTEMPT_ALREADY_ACTIVE"
	attemptNotActiveErrorCode     = "ATTEMPT_NOT_ACTIVE"
	unknownQuestionErrorCode      = "UNKNOWN_QUESTION"
)

// .
var (
	//nolint:gochecknoglobals // Because its loaded once, at runtime.
	cfg config
)

type (
	// | service implements server.State and is responsible for managing the state and lifecycle of the package.
	service struct {
		assessmentsProcessor assessments.Processor
	}
	config struct {
		Host    string `yaml:"host"`
		Version string `yaml:"version"`
	}
)
