// SPDX-License-Identifier: ice License 1.0

package assessments

import (
	"context"
	"sync"
	stdlibtime "time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	appcfg "github.com/ice-blockchain/wintr/config"
	messagebroker "github.com/ice-blockchain/wintr/connectors/message_broker"
	"github.com/ice-blockchain/wintr/connectors/storage/v2"
	"github.com/ice-blockchain/wintr/log"
	"github.com/ice-blockchain/wintr/time"
)

func New(ctx context.Context, _ context.CancelFunc) Repository {
	cfg := mustLoadConfig()
	db := storage.MustConnect(ctx, ddl, applicationYamlKey)
	repo := newRepository(&cfg, NewPostgresQuestionBank(db), NewPostgresAttemptStore(db))
	repo.db = db
	repo.shutdown = db.Close

	return repo
}

func StartProcessor(ctx context.Context, cancel context.CancelFunc) Processor {
	cfg := mustLoadConfig()
	db := storage.MustConnect(ctx, ddl, applicationYamlKey)
	prc := &processor{repository: newRepository(&cfg, NewPostgresQuestionBank(db), NewPostgresAttemptStore(db))}
	prc.db = db
	prc.mb = messagebroker.MustConnect(ctx, applicationYamlKey)
	mbConsumer := messagebroker.MustConnectAndStartConsuming(context.Background(), cancel, applicationYamlKey, //nolint:contextcheck // It's intended.
		&attemptSnapshotSource{processor: prc},
	)
	prc.shutdown = closeAll(mbConsumer, prc.mb, prc.db)
	prc.startBackgroundJobs(ctx)

	return prc
}

// NewProcessor runs the engine on top of any question bank / attempt store pair, without a message broker.
func NewProcessor(ctx context.Context, bank QuestionBank, store AttemptStore, matching *AnswerMatching) Processor {
	cfg := new(config)
	if matching != nil {
		cfg.AnswerMatching = *matching
	}
	cfg.applyDefaults()
	prc := &processor{repository: newRepository(cfg, bank, store)}
	prc.startBackgroundJobs(ctx)

	return prc
}

func mustLoadConfig() config {
	var cfg config
	appcfg.MustLoadFromKey(applicationYamlKey, &cfg)
	cfg.applyDefaults()
	if cfg.Alerts.Enabled && cfg.Alerts.SlackWebhook == "" {
		panic("alerts.slackWebhook is not set")
	}

	return cfg
}

func (c *config) applyDefaults() {
	if c.ExpirySweepInterval <= 0 {
		c.ExpirySweepInterval = defaultExpirySweepInterval
	}
	if c.ExpiryGracePeriod < 0 {
		c.ExpiryGracePeriod = 0
	} else if c.ExpiryGracePeriod == 0 {
		c.ExpiryGracePeriod = defaultExpiryGracePeriod
	}
	if c.ExpirySweepBatchSize == 0 {
		c.ExpirySweepBatchSize = defaultExpirySweepBatchSize
	}
	if c.ForcedSubmitTimeout <= 0 {
		c.ForcedSubmitTimeout = defaultForcedSubmitTimeout
	}
	if c.Alerts.Frequency <= 0 {
		c.Alerts.Frequency = defaultAlertFrequency
	}
}

func newRepository(cfg *config, bank QuestionBank, store AttemptStore) *repository {
	repo := &repository{
		cfg:   cfg,
		bank:  bank,
		store: store,
		now:   func() stdlibtime.Time { return *time.Now().Time },
		wg:    new(sync.WaitGroup),
	}
	repo.timer = newExpiryTimer(repo.forceSubmit)

	return repo
}

func (p *processor) startBackgroundJobs(ctx context.Context) {
	jobsCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.startExpirySweeper(jobsCtx)
	}()
	if p.db != nil && p.cfg.Alerts.Enabled {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.startForcedSubmissionsAlerter(jobsCtx)
		}()
	}
}

func (r *repository) Close() error {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	r.timer.Stop()
	if r.shutdown == nil {
		return nil
	}

	return errors.Wrap(r.shutdown(), "closing assessments repository failed")
}

func closeAll(mbConsumer, mbProducer messagebroker.Client, db *storage.DB, otherClosers ...func() error) func() error {
	return func() error {
		err1 := errors.Wrap(mbConsumer.Close(), "closing message broker consumer connection failed")
		err2 := errors.Wrap(db.Close(), "closing db connection failed")
		err3 := errors.Wrap(mbProducer.Close(), "closing message broker producer connection failed")
		errs := make([]error, 0, 1+1+1+len(otherClosers))
		errs = append(errs, err1, err2, err3)
		for _, closeOther := range otherClosers {
			if err := closeOther(); err != nil {
				errs = append(errs, err)
			}
		}

		return errors.Wrap(multierror.Append(nil, errs...).ErrorOrNil(), "failed to close resources")
	}
}

func (r *repository) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if err := r.db.Ping(ctx); err != nil {
		return errors.Wrap(err, "[health-check] failed to ping DB")
	}
	if r.mb == nil {
		return nil
	}
	type ts struct {
		TS *time.Time `json:"ts"`
	}
	now := ts{TS: time.Now()}
	bytes, err := json.MarshalContext(ctx, now)
	if err != nil {
		return errors.Wrapf(err, "[health-check] failed to marshal %#v", now)
	}
	responder := make(chan error, 1)
	r.mb.SendMessage(ctx, &messagebroker.Message{
		Headers: map[string]string{"producer": "igloo"},
		Key:     r.cfg.MessageBroker.Topics[healthCheckTopicIndex].Name,
		Topic:   r.cfg.MessageBroker.Topics[healthCheckTopicIndex].Name,
		Value:   bytes,
	}, responder)

	return errors.Wrapf(<-responder, "[health-check] failed to send health check message to broker")
}

func (p *processor) startExpirySweeper(ctx context.Context) {
	ticker := stdlibtime.NewTicker(p.cfg.ExpirySweepInterval)
	defer ticker.Stop()

	p.armUpcomingDeadlines(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.armUpcomingDeadlines(ctx)
		}
	}
}

// Every in-progress timed attempt with a deadline before the next sweep gets armed on this instance,
// including the ones started elsewhere or before a restart. Those fire after the grace period, so the instance
// that started the attempt normally gets to finalize it first.
// Timers of attempts that are due by then but are not in progress anymore were finalized elsewhere, so they are dropped.
func (p *processor) armUpcomingDeadlines(ctx context.Context) {
	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.ExpirySweepInterval)
	defer cancel()
	listedAt, horizon := stdlibtime.Now(), p.now().Add(p.cfg.ExpirySweepInterval)
	attempts, err := p.store.ListTimedAttempts(reqCtx, horizon, p.cfg.ExpirySweepBatchSize)
	if err != nil {
		log.Error(errors.Wrap(err, "failed to list attempts with upcoming deadlines"))

		return
	}
	inProgress := make(map[string]struct{}, len(attempts))
	for _, attempt := range attempts {
		inProgress[attempt.ID] = struct{}{}
		p.timer.Arm(attempt.ID, attempt.Deadline.Add(p.cfg.ExpiryGracePeriod))
	}
	if uint64(len(attempts)) < p.cfg.ExpirySweepBatchSize {
		if pruned := p.timer.Prune(inProgress, listedAt, horizon); pruned > 0 {
			log.Debug("dropped expiry timers of attempts finalized elsewhere", "count", pruned)
		}
	}
}
