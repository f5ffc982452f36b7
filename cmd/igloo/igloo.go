// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ice-blockchain/igloo/assessments"
	assessmentsapi "github.com/ice-blockchain/igloo/assessments/api"
	"github.com/ice-blockchain/igloo/cmd/igloo/api"
	appCfg "github.com/ice-blockchain/wintr/config"
	"github.com/ice-blockchain/wintr/log"
	"github.com/ice-blockchain/wintr/server"
)

// @title						Assessment Attempts API
// @version					latest
// @description				API that handles everything related to read only operations for timed assessment attempts.
// @query.collection.format	multi
// @schemes					https
// @contact.name				ice.io
// @contact.url				https://ice.io
// @BasePath					/v1r
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appCfg.MustLoadFromKey(applicationYamlKey, &cfg)
	api.SwaggerInfo.Host = cfg.Host
	api.SwaggerInfo.Version = cfg.Version
	server.New(new(service), applicationYamlKey, swaggerRoot).ListenAndServe(ctx, cancel)
}

func (s *service) RegisterRoutes(router *server.Router) {
	s.setupAttemptRoutes(router)
}

func (s *service) Init(ctx context.Context, cancel context.CancelFunc) {
	s.assessmentsRepository = assessments.New(ctx, cancel)
	s.assessmentsClient = assessmentsapi.NewClient(ctx, cancel)
}

func (s *service) Close(ctx context.Context) error {
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), "could not close repository because context ended")
	}

	return errors.Wrap(multierror.Append(nil,
		errors.Wrap(s.assessmentsRepository.Close(), "could not close repository"),
		errors.Wrap(s.assessmentsClient.Close(), "could not close assessments client"),
	).ErrorOrNil(), "failed to close resources")
}

func (s *service) CheckHealth(ctx context.Context) error {
	log.Debug("checking health...", "package", "assessments")

	return errors.Wrap(multierror.Append(nil,
		errors.Wrap(s.assessmentsRepository.CheckHealth(ctx), "repository health check failed"),
		errors.Wrap(s.assessmentsClient.CheckHealth(ctx), "status client health check failed"),
	).ErrorOrNil(), "health check failed")
}
