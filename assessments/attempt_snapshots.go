// SPDX-License-Identifier: ice License 1.0

package assessments

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	messagebroker "github.com/ice-blockchain/wintr/connectors/message_broker"
	"github.com/ice-blockchain/wintr/log"
)

func (r *repository) notifyFinalized(ctx context.Context, attempt *Attempt, forced bool) {
	if r.mb == nil {
		return
	}
	if err := r.sendAttemptSnapshotMessage(ctx, &AttemptSnapshot{Attempt: attempt, Forced: forced}); err != nil {
		log.Error(errors.Wrapf(err, "failed to notify about finalized attempt %v", attempt.ID))
	}
}

func (r *repository) sendAttemptSnapshotMessage(ctx context.Context, snapshot *AttemptSnapshot) error {
	valueBytes, err := json.MarshalContext(ctx, snapshot)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %#v", snapshot)
	}
	msg := &messagebroker.Message{
		Headers: map[string]string{"producer": "igloo"},
		Key:     snapshot.ID,
		Topic:   r.cfg.MessageBroker.Topics[attemptSnapshotsTopicIndex].Name,
		Value:   valueBytes,
	}
	responder := make(chan error, 1)
	defer close(responder)
	r.mb.SendMessage(ctx, msg, responder)

	return errors.Wrapf(<-responder, "failed to send attempt snapshot message to broker")
}

// Attempts finalized on another instance still have timers armed here, so they get disarmed.
func (s *attemptSnapshotSource) Process(ctx context.Context, msg *messagebroker.Message) error {
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), "unexpected deadline while processing message")
	}
	if len(msg.Value) == 0 {
		return nil
	}
	snapshot := new(AttemptSnapshot)
	if err := json.UnmarshalContext(ctx, msg.Value, snapshot); err != nil {
		return errors.Wrapf(err, "process: cannot unmarshall %v into %#v", string(msg.Value), snapshot)
	}
	if snapshot.Attempt == nil || snapshot.Status != SubmittedAttemptStatus {
		return nil
	}
	s.timer.Cancel(snapshot.ID)

	return nil
}
