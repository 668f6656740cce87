package memo

import "memosbridge/internal/domain"

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// Filter mirrors the query parameters MemosBBS sends to /api/v1/memo.
// A nil CreatorID or empty RowStatus matches everything.
type Filter struct {
	CreatorID *int64
	RowStatus string
	Limit     int
}

// EffectiveLimit clamps the requested page size to (0, MaxLimit].
func (f Filter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultLimit
	}

	return min(f.Limit, MaxLimit)
}

func (f Filter) Apply(memos []domain.Memo) []domain.Memo {
	limit := f.EffectiveLimit()
	out := make([]domain.Memo, 0, min(len(memos), limit))

	for _, m := range memos {
		if len(out) == limit {
			break
		}
		if f.CreatorID != nil && *f.CreatorID != m.CreatorID {
			continue
		}
		if f.RowStatus != "" && f.RowStatus != m.RowStatus {
			continue
		}

		out = append(out, m)
	}

	return out
}
