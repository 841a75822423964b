package chat

import (
	"sort"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
)

// Merge folds incoming into base keyed by client message id and returns a new
// slice ordered by timestamp. For a repeated id a delivered copy beats a
// pending one; otherwise the later timestamp wins. Neither input is modified.
func Merge(base []entity.Message, incoming ...entity.Message) []entity.Message {
	byID := make(map[string]entity.Message, len(base)+len(incoming))
	for _, m := range base {
		keep(byID, m)
	}
	for _, m := range incoming {
		keep(byID, m)
	}

	out := make([]entity.Message, 0, len(byID))
	for _, m := range byID {
		out = append(out, m)
	}
	sortMessages(out)
	return out
}

func keep(byID map[string]entity.Message, m entity.Message) {
	cur, ok := byID[m.ClientMessageID]
	if !ok || supersedes(m, cur) {
		byID[m.ClientMessageID] = m
	}
}

func supersedes(next, cur entity.Message) bool {
	if next.Delivered != cur.Delivered {
		return next.Delivered
	}
	return !next.Timestamp.Before(cur.Timestamp)
}

func sortMessages(msgs []entity.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].Timestamp.Equal(msgs[j].Timestamp) {
			return msgs[i].ClientMessageID < msgs[j].ClientMessageID
		}
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
}

func delivered(msgs []entity.Message) []entity.Message {
	out := make([]entity.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Delivered {
			out = append(out, m)
		}
	}
	return out
}
