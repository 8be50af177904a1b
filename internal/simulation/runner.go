package simulation

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"plaza-chat/internal/chat"
	"plaza-chat/internal/domain"
	plaza_errors "plaza-chat/pkg/errors"
	"plaza-chat/pkg/logger"
)

// Runner delivers simulated inbound message bursts. Each message of a burst
// is an independent delayed callback; a delivery that fires after its
// conversation was deleted is dropped by the session's existence check, so a
// burst can never resurrect removed state.
type Runner struct {
	session  *chat.Session
	minDelay time.Duration
	maxDelay time.Duration
	log      *logger.Logger

	mu      sync.Mutex
	timers  []*time.Timer
	stopped bool
}

func NewRunner(session *chat.Session, minDelay, maxDelay time.Duration, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.NewNop()
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Runner{
		session:  session,
		minDelay: minDelay,
		maxDelay: maxDelay,
		log:      log,
	}
}

// ScheduleBurst schedules one delayed delivery per content entry, staggered
// so the messages arrive in order.
func (r *Runner) ScheduleBurst(conversationID, senderID string, contents []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	var offset time.Duration
	for _, content := range contents {
		offset += r.randomDelay()
		delay := offset
		c := content
		timer := time.AfterFunc(delay, func() {
			r.deliver(conversationID, senderID, c)
		})
		r.timers = append(r.timers, timer)
	}
}

func (r *Runner) deliver(conversationID, senderID, content string) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	_, err := r.session.ReceiveMessage(conversationID, senderID, content, domain.MessageTypeText, nil)
	if errors.Is(err, plaza_errors.ErrNotFound) {
		r.log.Debugf("dropping simulated message for removed conversation %s", conversationID)
		return
	}
	if err != nil {
		r.log.Errorf("simulated delivery failed for conversation %s: %v", conversationID, err)
	}
}

func (r *Runner) randomDelay() time.Duration {
	span := r.maxDelay - r.minDelay
	if span <= 0 {
		return r.minDelay
	}
	return r.minDelay + time.Duration(rand.Int63n(int64(span)))
}

// Stop cancels all pending deliveries. Timers that already fired are handled
// by the stopped flag and the session's existence check.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	for _, t := range r.timers {
		t.Stop()
	}
	r.timers = nil
}
