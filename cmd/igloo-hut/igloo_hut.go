// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/igloo/assessments"
	"github.com/ice-blockchain/igloo/cmd/igloo-hut/api"
	appCfg "github.com/ice-blockchain/wintr/config"
	"github.com/ice-blockchain/wintr/log"
	"github.com/ice-blockchain/wintr/server"
)

// @title						Assessment Attempts API
// @version					latest
// @description				API that handles everything related to write only operations for timed assessment attempts.
// @query.collection.format	multi
// @schemes					https
// @contact.name				ice.io
// @contact.url				https://ice.io
// @BasePath					/v1w
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
	s.assessmentsProcessor = assessments.StartProcessor(ctx, cancel)
}

func (s *service) Close(ctx context.Context) error {
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), "could not close assessmentsProcessor because context ended")
	}

	return errors.Wrap(s.assessmentsProcessor.Close(), "could not close assessmentsProcessor")
}

func (s *service) CheckHealth(ctx context.Context) error {
	log.Debug("checking health...", "package", "assessments")

	return errors.Wrapf(s.assessmentsProcessor.CheckHealth(ctx), "processor health check failed")
}
