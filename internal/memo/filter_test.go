package memo

import (
	"memosbridge/internal/domain"
	"testing"
)

func memosWithIDs(n int) []domain.Memo {
	memos := make([]domain.Memo, 0, n)
	for i := 0; i < n; i++ {
		memos = append(memos, domain.Memo{
			ID:        int64(i + 1),
			CreatorID: domain.CreatorID,
			RowStatus: domain.RowStatusNormal,
		})
	}

	return memos
}

func TestFilterEffectiveLimit(t *testing.T) {
	cases := map[int]int{
		0:   DefaultLimit,
		-5:  DefaultLimit,
		10:  10,
		100: 100,
		500: MaxLimit,
	}

	for in, want := range cases {
		if got := (Filter{Limit: in}).EffectiveLimit(); got != want {
			t.Errorf("EffectiveLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestFilterApplyTruncatesInOrder(t *testing.T) {
	got := Filter{Limit: 3}.Apply(memosWithIDs(10))

	if len(got) != 3 {
		t.Fatalf("expected 3 memos, got %d", len(got))
	}
	for i, m := range got {
		if m.ID != int64(i+1) {
			t.Fatalf("unexpected ID at %d: %d", i, m.ID)
		}
	}
}

func TestFilterApplyCreatorAndRowStatus(t *testing.T) {
	one := int64(1)
	two := int64(2)

	if got := (Filter{CreatorID: &one, RowStatus: domain.RowStatusNormal}).Apply(memosWithIDs(4)); len(got) != 4 {
		t.Fatalf("expected all memos for creator 1, got %d", len(got))
	}
	if got := (Filter{CreatorID: &two}).Apply(memosWithIDs(4)); len(got) != 0 {
		t.Fatalf("expected no memos for creator 2, got %d", len(got))
	}
	if got := (Filter{RowStatus: "ARCHIVED"}).Apply(memosWithIDs(4)); len(got) != 0 {
		t.Fatalf("expected no archived memos, got %d", len(got))
	}
}

func TestFilterApplyEmptyIsNotNil(t *testing.T) {
	if got := (Filter{}).Apply(nil); got == nil {
		t.Fatalf("expected empty non-nil slice")
	}
}
