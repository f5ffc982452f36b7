// SPDX-License-Identifier: ice License 1.0

package main

import (
	"github.com/ice-blockchain/igloo/assessments"
	assessmentsapi "github.com/ice-blockchain/igloo/assessments/api"
)

// Public API.

type (
	GetActiveAttemptArg struct {
		AssessmentID string `uri:"assessmentId" required:"true" example:"go-basics"`
	}
	GetAttemptArg struct {
		AttemptID string `uri:"attemptId" required:"true" example:"8c8a4f4e-6c54-4b3e-a0a4-9b1f3c1a2f11"`
	}
	GetAttemptStatusArg struct {
		AssessmentID string `uri:"assessmentId" required:"true" example:"go-basics"`
	}
)

// Private API.

const (
	applicationYamlKey = "cmd/igloo"
	swaggerRoot        = "/assessments/r"
)

// Values for server.ErrorResponse#Code.
const (
	assessmentNotFoundErrorCode = "ASSESSMENT_NOT_FOUND"
	attemptNotFoundErrorCode    = "ATTEMPT_NOT_FOUND"
	attemptNotOwnedErrorCode    = "ATTEMPT_NOT_OWNED"
)

// .
var (
	//nolint:gochecknoglobals // Because its loaded once, at runtime.
	cfg config
)

type (
	// | service implements server.State and is responsible for managing the state and lifecycle of the package.
	service struct {
		assessmentsRepository assessments.ReadRepository
		assessmentsClient     assessmentsapi.Client
	}
	config struct {
		Host    string `yaml:"host"`
		Version string `yaml:"version"`
	}
)
