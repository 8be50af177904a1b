package chat

import (
	"time"

	"plaza-chat/internal/domain"
)

// The read cursor model is a watermark: a participant's LastReadAt marks the
// boundary between read and unread, instead of per-message receipts. A missing
// cursor means never read, so every message from another sender is unread.

// UnreadCount counts messages newer than the viewer's read cursor, excluding
// the viewer's own messages.
func UnreadCount(conv domain.Conversation, msgs []domain.Message, viewerID string) int {
	var cursor time.Time
	if p, ok := conv.Participant(viewerID); ok && p.LastReadAt != nil {
		cursor = *p.LastReadAt
	}
	n := 0
	for _, m := range msgs {
		if m.SenderID == viewerID {
			continue
		}
		if m.Timestamp.After(cursor) {
			n++
		}
	}
	return n
}

// LastReadMessageID returns the most recent message at or before the viewer's
// read cursor, used to place the "new messages" divider. With no cursor it
// returns false and no divider is rendered: every message is unread then, and
// a divider above the first message would add nothing.
func LastReadMessageID(conv domain.Conversation, msgs []domain.Message, viewerID string) (string, bool) {
	p, ok := conv.Participant(viewerID)
	if !ok || p.LastReadAt == nil {
		return "", false
	}
	cursor := *p.LastReadAt
	var (
		bestID string
		bestTS time.Time
		found  bool
	)
	for _, m := range msgs {
		if m.Timestamp.After(cursor) {
			continue
		}
		if !found || m.Timestamp.After(bestTS) {
			bestID, bestTS, found = m.ID, m.Timestamp, true
		}
	}
	return bestID, found
}
