package chat

import (
	"sort"
	"time"

	"plaza-chat/internal/domain"
)

// SortConversations returns a new slice in display order:
//  1. pinned before unpinned
//  2. among pinned: descending PinnedAt
//  3. descending LastActivity
//  4. ascending id, so the order is total and stable across re-sorts
//
// Sending to a pinned conversation refreshes its PinnedAt (see lifecycle), so
// most-recent-activity-wins inside the pinned group.
func SortConversations(list []domain.Conversation) []domain.Conversation {
	out := make([]domain.Conversation, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return conversationLess(out[i], out[j])
	})
	return out
}

func conversationLess(a, b domain.Conversation) bool {
	if a.IsPinned != b.IsPinned {
		return a.IsPinned
	}
	if a.IsPinned {
		at, bt := pinnedAt(a), pinnedAt(b)
		if !at.Equal(bt) {
			return at.After(bt)
		}
	}
	if !a.LastActivity.Equal(b.LastActivity) {
		return a.LastActivity.After(b.LastActivity)
	}
	return a.ID < b.ID
}

func pinnedAt(c domain.Conversation) time.Time {
	if c.PinnedAt != nil {
		return *c.PinnedAt
	}
	return time.Time{}
}
