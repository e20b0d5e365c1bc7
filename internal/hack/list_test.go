package hack

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

var listBase = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

// seedHacks inserts n hacks whose updatedAt grows by one minute each.
func seedHacks(t *testing.T, f *fixture, n int, mutate func(i int, h *Hack)) []Hack {
	t.Helper()
	var out []Hack
	for i := 0; i < n; i++ {
		at := listBase.Add(time.Duration(i) * time.Minute)
		h := Hack{
			ID:          uuid.NewString(),
			Title:       fmt.Sprintf("hack %02d", i),
			Description: "plain description",
			Category:    CategoryGeneral,
			Body:        "body",
			Verified:    true,
			CreatorID:   f.creator.ID,
			CreatedAt:   at,
			UpdatedAt:   at,
		}
		if mutate != nil {
			mutate(i, &h)
		}
		if err := f.db.Omit("Creator").Create(&h).Error; err != nil {
			t.Fatalf("seed hack %d: %v", i, err)
		}
		out = append(out, h)
	}
	return out
}

func TestList_CapsLimitAndPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeded := seedHacks(t, f, 20, nil)

	page, err := f.svc.List(ctx, ListQuery{Verified: ptr(true), Limit: 100})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Hacks) != MaxPageSize || !page.HasMore {
		t.Fatalf("expected %d hacks with more, got %d (hasMore=%v)", MaxPageSize, len(page.Hacks), page.HasMore)
	}
	if page.Hacks[0].ID != seeded[19].ID {
		t.Errorf("expected newest first, got %s", page.Hacks[0].Title)
	}

	next, err := f.svc.List(ctx, ListQuery{Verified: ptr(true), Limit: 15, Cursor: page.NextCursor})
	if err != nil {
		t.Fatalf("list next: %v", err)
	}
	if len(next.Hacks) != 5 || next.HasMore {
		t.Fatalf("expected last 5 hacks without more, got %d (hasMore=%v)", len(next.Hacks), next.HasMore)
	}
	if next.Hacks[4].ID != seeded[0].ID {
		t.Errorf("expected oldest last, got %s", next.Hacks[4].Title)
	}
}

func TestList_CursorIsStrict(t *testing.T) {
	f := newFixture(t)
	seeded := seedHacks(t, f, 3, nil)

	cursor := FormatCursor(seeded[1].UpdatedAt)
	page, err := f.svc.List(context.Background(), ListQuery{Verified: ptr(true), Cursor: cursor})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Hacks) != 1 || page.Hacks[0].ID != seeded[0].ID {
		t.Errorf("expected only the hack strictly older than the cursor, got %+v", page.Hacks)
	}
}

func TestList_ExactLimitHasNoMore(t *testing.T) {
	f := newFixture(t)
	seedHacks(t, f, 4, nil)

	page, err := f.svc.List(context.Background(), ListQuery{Verified: ptr(true), Limit: 4})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Hacks) != 4 || page.HasMore {
		t.Errorf("expected 4 hacks without more, got %d (hasMore=%v)", len(page.Hacks), page.HasMore)
	}
}

func TestList_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedHacks(t, f, 6, func(i int, h *Hack) {
		switch i {
		case 0:
			h.Verified = false
		case 1:
			h.Category = CategoryFinance
		case 2:
			h.Title = "Meal Prep Sundays"
		case 3:
			h.Description = "prep your week"
		case 4:
			h.CreatorID = f.other.ID
		}
	})

	cases := []struct {
		name  string
		query ListQuery
		want  int
	}{
		{"verified", ListQuery{Verified: ptr(true)}, 5},
		{"unverified", ListQuery{Verified: ptr(false)}, 1},
		{"category", ListQuery{Verified: ptr(true), Category: CategoryFinance}, 1},
		{"search is case insensitive", ListQuery{Verified: ptr(true), Search: "PREP"}, 2},
		{"creator", ListQuery{CreatorID: f.other.ID}, 1},
		{"all", ListQuery{}, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := f.svc.List(ctx, tc.query)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(page.Hacks) != tc.want {
				t.Errorf("expected %d hacks, got %d", tc.want, len(page.Hacks))
			}
		})
	}
}

func TestList_SearchMatchesWildcardsLiterally(t *testing.T) {
	f := newFixture(t)
	seedHacks(t, f, 4, func(i int, h *Hack) {
		switch i {
		case 0:
			h.Title = "1000 things to pack"
		case 1:
			h.Title = "Give 100% on mondays"
		case 2:
			h.Description = "snake_case notes"
		case 3:
			h.Description = "snakeXcase notes"
		}
	})

	cases := []struct {
		search string
		want   string
	}{
		{"100%", "Give 100% on mondays"},
		{"snake_case", "hack 02"},
	}
	for _, tc := range cases {
		page, err := f.svc.List(context.Background(), ListQuery{Search: tc.search})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(page.Hacks) != 1 || page.Hacks[0].Title != tc.want {
			t.Errorf("search %q: expected only %q, got %+v", tc.search, tc.want, page.Hacks)
		}
	}
}

func TestList_VerifiedFirst(t *testing.T) {
	f := newFixture(t)
	seedHacks(t, f, 4, func(i int, h *Hack) {
		h.Verified = i < 2
	})

	page, err := f.svc.List(context.Background(), ListQuery{VerifiedFirst: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !page.Hacks[0].Verified || !page.Hacks[1].Verified || page.Hacks[2].Verified {
		t.Errorf("verified hacks should come first: %+v", page.Hacks)
	}
	if page.Hacks[0].Title != "hack 01" {
		t.Errorf("ties should be ordered by updatedAt desc, got %s", page.Hacks[0].Title)
	}
}

func TestList_InvalidCursor(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.List(context.Background(), ListQuery{Cursor: "yesterday"})
	if !errors.Is(err, ErrInvalidCursor) {
		t.Errorf("expected ErrInvalidCursor, got %v", err)
	}
}
