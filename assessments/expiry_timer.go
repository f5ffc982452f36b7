// SPDX-License-Identifier: ice License 1.0

package assessments

import (
	"fmt"
	"sync"
	stdlibtime "time"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/wintr/log"
)

type (
	expiryTimer struct {
		armed   map[string]*armedDeadline
		expire  func(attemptID string)
		mx      sync.Mutex
		stopped bool
	}
	armedDeadline struct {
		timer   *stdlibtime.Timer
		at      stdlibtime.Time
		armedAt stdlibtime.Time
	}
)

func newExpiryTimer(expire func(attemptID string)) *expiryTimer {
	return &expiryTimer{
		armed:  make(map[string]*armedDeadline),
		expire: expire,
	}
}

// Arm schedules the expiry of the attempt at the given time.
// If the attempt is already armed for an earlier (or the same) time, nothing changes.
func (t *expiryTimer) Arm(attemptID string, at stdlibtime.Time) {
	t.mx.Lock()
	defer t.mx.Unlock()
	if t.stopped {
		return
	}
	if existing, found := t.armed[attemptID]; found {
		if !existing.at.After(at) {
			return
		}
		existing.timer.Stop()
	}
	deadline := &armedDeadline{at: at, armedAt: stdlibtime.Now()}
	deadline.timer = stdlibtime.AfterFunc(stdlibtime.Until(at), func() { t.fire(attemptID, deadline) })
	t.armed[attemptID] = deadline
}

func (t *expiryTimer) Cancel(attemptID string) {
	t.mx.Lock()
	defer t.mx.Unlock()
	if existing, found := t.armed[attemptID]; found {
		existing.timer.Stop()
		delete(t.armed, attemptID)
	}
}

// Prune disarms every attempt armed before armedBefore, due at or before dueBefore, that is not in keep.
func (t *expiryTimer) Prune(keep map[string]struct{}, armedBefore, dueBefore stdlibtime.Time) (pruned int) {
	t.mx.Lock()
	defer t.mx.Unlock()
	for attemptID, existing := range t.armed {
		if _, found := keep[attemptID]; found || !existing.armedAt.Before(armedBefore) || existing.at.After(dueBefore) {
			continue
		}
		existing.timer.Stop()
		delete(t.armed, attemptID)
		pruned++
	}

	return pruned
}

func (t *expiryTimer) Armed(attemptID string) bool {
	t.mx.Lock()
	defer t.mx.Unlock()
	_, found := t.armed[attemptID]

	return found
}

func (t *expiryTimer) Stop() {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.stopped = true
	for attemptID, existing := range t.armed {
		existing.timer.Stop()
		delete(t.armed, attemptID)
	}
}

func (t *expiryTimer) fire(attemptID string, deadline *armedDeadline) {
	t.mx.Lock()
	if current, found := t.armed[attemptID]; !found || current != deadline || t.stopped {
		t.mx.Unlock()

		return
	}
	delete(t.armed, attemptID)
	t.mx.Unlock()
	defer func() {
		if r := recover(); r != nil {
			log.Error(errors.Errorf("expiry of attempt %v panicked: %v", attemptID, fmt.Sprint(r)))
		}
	}()
	t.expire(attemptID)
}
