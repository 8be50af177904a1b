package chat

import (
	"plaza-chat/internal/domain"
)

// DeltaTracker tracks messages that arrived for the active conversation while
// the viewer was scrolled away from the bottom. Two states: idle (no deltas)
// and accumulating. Scrolling to bottom or switching conversations returns it
// to idle. Not safe for concurrent use; the session serializes access.
type DeltaTracker struct {
	activeID string
	atBottom bool
	baseline int
	deltas   []domain.Message
}

func NewDeltaTracker() *DeltaTracker {
	return &DeltaTracker{atBottom: true}
}

// Activate switches the tracker to a conversation. The baseline is seeded
// from the conversation's current message count so pre-existing messages are
// never reported as new, and any deltas from the previous conversation are
// dropped. Opening a conversation lands the viewer at the bottom.
func (t *DeltaTracker) Activate(conversationID string, messageCount int) {
	t.activeID = conversationID
	t.baseline = messageCount
	t.atBottom = true
	t.deltas = nil
}

// Deactivate clears all tracker state, for when the active conversation goes
// away entirely.
func (t *DeltaTracker) Deactivate() {
	t.activeID = ""
	t.baseline = 0
	t.atBottom = true
	t.deltas = nil
}

// Rebase re-seeds the baseline after the active conversation's history
// changed out from under the tracker (e.g. a bulk clear). Accumulated deltas
// are dropped because they point at removed messages; the viewer's scroll
// position is kept.
func (t *DeltaTracker) Rebase(messageCount int) {
	t.baseline = messageCount
	t.deltas = nil
}

// SetAtBottom records the viewer's scroll position. Reaching the bottom
// clears accumulated deltas.
func (t *DeltaTracker) SetAtBottom(atBottom bool) {
	t.atBottom = atBottom
	if atBottom {
		t.baseline += len(t.deltas)
		t.deltas = nil
	}
}

// Observe considers an appended message. It accumulates only when the message
// belongs to the active conversation, was not sent by the viewer, the viewer
// is not at the bottom, and the message is past the activation baseline.
func (t *DeltaTracker) Observe(msg domain.Message, viewerID string, totalCount int) {
	if msg.ConversationID != t.activeID {
		return
	}
	if msg.SenderID == viewerID {
		return
	}
	if t.atBottom {
		return
	}
	if totalCount <= t.baseline {
		return
	}
	t.deltas = append(t.deltas, msg.Clone())
}

func (t *DeltaTracker) HasNew() bool {
	return len(t.deltas) > 0
}

// New returns the accumulated messages in arrival order.
func (t *DeltaTracker) New() []domain.Message {
	out := make([]domain.Message, len(t.deltas))
	for i, m := range t.deltas {
		out[i] = m.Clone()
	}
	return out
}
