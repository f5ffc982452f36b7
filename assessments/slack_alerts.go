// SPDX-License-Identifier: ice License 1.0

package assessments

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	stdlibtime "time"

	"github.com/cenkalti/backoff/v4"
	"github.com/imroc/req/v3"
	"github.com/pkg/errors"

	"github.com/ice-blockchain/wintr/connectors/storage/v2"
	"github.com/ice-blockchain/wintr/log"
	"github.com/ice-blockchain/wintr/time"
)

type (
	finalizedAttemptStats struct {
		AssessmentID string `db:"assessment_id" json:"assessmentId"`
		Forced       uint64 `db:"forced" json:"forced"`
		Submitted    uint64 `db:"submitted" json:"submitted"`
	}
)

var (
	errAlertTooEarly = errors.New("alert too early")
)

func (p *processor) startForcedSubmissionsAlerter(ctx context.Context) {
	ticker := stdlibtime.NewTicker(p.cfg.Alerts.Frequency)
	defer ticker.Stop()
	log.Info("forced submissions alerts enabled", "frequency", p.cfg.Alerts.Frequency.String())

	for {
		select {
		case <-ticker.C:
			reqCtx, cancel := context.WithTimeout(ctx, stdlibtime.Minute)
			if err := p.sendAlertToSlack(reqCtx); err != nil && !errors.Is(err, errAlertTooEarly) {
				log.Error(errors.Wrap(err, "failed to sendAlertToSlack"))
			}
			cancel()
		case <-ctx.Done():
			return
		}
	}
}

// Only one instance gets to report each window: the alert row is locked and its timestamp moved forward.
func (p *processor) sendAlertToSlack(ctx context.Context) error {
	var stats []*finalizedAttemptStats
	if err := storage.DoInTransaction(ctx, p.db, func(conn storage.QueryExecer) error {
		alert, err := storage.Get[struct {
			LastAlertAt *time.Time `db:"last_alert_at"`
		}](ctx, conn, `SELECT last_alert_at FROM assessment_alerts WHERE pk = 1 FOR UPDATE`)
		if err != nil {
			return errors.Wrap(err, "failed to lock assessment_alerts")
		}
		if time.Now().Sub(*alert.LastAlertAt.Time) < stdlibtime.Duration(float64(p.cfg.Alerts.Frequency.Nanoseconds())*0.8) { //nolint:gomnd // .
			return wrapErrorInTx(errAlertTooEarly)
		}
		const sql = `SELECT assessment_id,
						   count(1) FILTER (WHERE time_expired) AS forced,
						   count(1)                             AS submitted
					FROM assessment_attempts
					WHERE status = 'submitted'
					  AND submitted_at >= $1
					GROUP BY assessment_id
					ORDER BY forced DESC`
		if stats, err = storage.Select[finalizedAttemptStats](ctx, conn, sql, alert.LastAlertAt.Time); err != nil {
			return errors.Wrap(err, "failed to select finalized attempt stats")
		}
		forced := uint64(0)
		for _, stat := range stats {
			forced += stat.Forced
		}
		updatedRows, err := storage.Exec(ctx, conn, `UPDATE assessment_alerts SET last_alert_at = $1, last_forced_submissions_count = $2 WHERE pk = 1`,
			time.Now().Time, forced)
		if err != nil {
			return errors.Wrap(err, "update last_alert_at to now failed")
		}
		if updatedRows == 0 {
			return errors.New("unexpected 0 updatedRows")
		}

		return nil
	}); err != nil {
		return errors.Wrap(err, "doInTransaction failed")
	}

	sendMsgCtx, cancel := context.WithTimeout(context.Background(), stdlibtime.Minute)
	defer cancel()

	return errors.Wrap(p.sendSlackMessage(sendMsgCtx, stats), "failed to sendSlackMessage") //nolint:contextcheck // .
}

func (p *processor) sendSlackMessage(ctx context.Context, stats []*finalizedAttemptStats) error {
	rows := make([]string, 0, len(stats))
	for _, stat := range stats {
		if stat.Forced == 0 {
			continue
		}
		rows = append(rows, fmt.Sprintf("`%v`: `%v` out of `%v` attempts expired", stat.AssessmentID, stat.Forced, stat.Submitted))
	}
	if len(rows) == 0 {
		return nil
	}
	message := struct {
		Text string `json:"text,omitempty"`
	}{
		Text: fmt.Sprintf("[%v]forced submissions:\n%v", p.cfg.Alerts.Environment, strings.Join(rows, "\n")),
	}

	return errors.Wrap(backoff.RetryNotify(
		func() error {
			resp, err := req.C().R().SetContext(ctx).SetBodyJsonMarshal(message).Post(p.cfg.Alerts.SlackWebhook)
			if err != nil {
				return errors.Wrap(err, "slack webhook request failed")
			}
			if resp.StatusCode != http.StatusOK {
				return errors.Errorf("unexpected statusCode:%v", resp.StatusCode)
			}

			return nil
		},
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx), //nolint:gomnd // .
		func(e error, next stdlibtime.Duration) {
			log.Error(errors.Wrapf(e, "slack alert failed, retrying in %v... ", next))
		}), "failed to post slack message")
}
