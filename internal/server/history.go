package server

import (
	"sort"
)

// mergeRoomHistory reconciles a store page with the room's buffered
// entries into a single history: de-duplicated by message id, ordered
// oldest to newest by timestamp string (entries with an empty
// timestamp sort first), and capped at limit keeping the most recent
// entries. If merging panics the store page is returned unmerged.
func mergeRoomHistory(storePage, buffered []HistoryMessage, limit int) (merged []HistoryMessage) {
	defer func() {
		if r := recover(); r != nil {
			merged = storePage
		}
	}()

	seen := make(map[int]struct{}, len(storePage)+len(buffered))
	combined := make([]HistoryMessage, 0, len(storePage)+len(buffered))

	for _, msg := range storePage {
		if _, ok := seen[msg.Id]; ok {
			continue
		}
		seen[msg.Id] = struct{}{}
		combined = append(combined, msg)
	}

	for _, msg := range buffered {
		if _, ok := seen[msg.Id]; ok {
			continue
		}
		seen[msg.Id] = struct{}{}
		combined = append(combined, msg)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Timestamp < combined[j].Timestamp
	})

	if limit > 0 && len(combined) > limit {
		combined = combined[len(combined)-limit:]
	}

	return combined
}
