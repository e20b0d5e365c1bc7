package api

import (
	"context"
	"time"

	"hackshare/internal/hack"
	"hackshare/internal/loader"
	"hackshare/internal/logger"
	"hackshare/internal/user"
)

type creatorView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// hackView is a hack as returned to clients, with the computed fields filled in.
type hackView struct {
	ID                 string        `json:"id"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	DescriptionSnippet string        `json:"descriptionSnippet"`
	Category           hack.Category `json:"category"`
	Body               string        `json:"body"`
	Points             int           `json:"points"`
	Verified           bool          `json:"verified"`
	PendingEdit        *hack.Patch   `json:"pendingEdit"`
	CreatorID          string        `json:"creatorId"`
	Creator            *creatorView  `json:"creator"`
	VoteStatus         *int          `json:"voteStatus"`
	Duration           int           `json:"duration"`
	HackURL            *string       `json:"hackUrl"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

type pageView struct {
	Hacks      []hackView `json:"hacks"`
	HasMore    bool       `json:"hasMore"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

// viewer is who a view is rendered for. Pending edits are shown only to the
// creator and to admins.
type viewer struct {
	id    string
	admin bool
}

func (v viewer) seesPendingEdit(h *hack.Hack) bool {
	return v.admin || (v.id != "" && v.id == h.CreatorID)
}

// buildViews renders hacks with one batched creator lookup and one batched
// vote lookup.
func buildViews(ctx context.Context, l *loader.Loaders, v viewer, hacks []hack.Hack) ([]hackView, error) {
	creatorIDs := make([]string, 0, len(hacks))
	hackIDs := make([]string, 0, len(hacks))
	for i := range hacks {
		creatorIDs = append(creatorIDs, hacks[i].CreatorID)
		hackIDs = append(hackIDs, hacks[i].ID)
	}
	creators, err := l.Users.LoadMany(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}
	var votes map[string]int
	if l.Votes != nil {
		if votes, err = l.Votes.LoadMany(ctx, hackIDs); err != nil {
			return nil, err
		}
	}

	out := make([]hackView, 0, len(hacks))
	for i := range hacks {
		h := &hacks[i]
		hv := hackView{
			ID:                 h.ID,
			Title:              h.Title,
			Description:        h.Description,
			DescriptionSnippet: hack.Snippet(h.Description),
			Category:           h.Category,
			Body:               h.Body,
			Points:             h.Points,
			Verified:           h.Verified,
			CreatorID:          h.CreatorID,
			Duration:           hack.ReadingMinutes(h.Body),
			CreatedAt:          h.CreatedAt,
			UpdatedAt:          h.UpdatedAt,
		}
		if u, ok := creators[h.CreatorID]; ok {
			hv.Creator = newCreatorView(u)
		}
		if value, ok := votes[h.ID]; ok {
			hv.VoteStatus = &value
		}
		if h.Verified {
			id := h.ID
			hv.HackURL = &id
		}
		if h.HasPendingEdit() && v.seesPendingEdit(h) {
			if p, err := hack.DecodePatch(*h.PendingEdit); err == nil {
				hv.PendingEdit = &p
			} else {
				logger.Warningf("hack %s: %v", h.ID, err)
			}
		}
		out = append(out, hv)
	}
	return out, nil
}

func buildView(ctx context.Context, l *loader.Loaders, v viewer, h *hack.Hack) (*hackView, error) {
	if h == nil {
		return nil, nil
	}
	views, err := buildViews(ctx, l, v, []hack.Hack{*h})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func newCreatorView(u *user.User) *creatorView {
	return &creatorView{ID: u.ID, Username: u.Username, Role: string(u.Role)}
}
