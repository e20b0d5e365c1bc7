package loader

import (
	"context"

	"hackshare/internal/user"
	"hackshare/internal/vote"
)

type UserSource interface {
	FindByIDs(ctx context.Context, ids []string) ([]user.User, error)
}

type VoteSource interface {
	FindForUser(ctx context.Context, userID string, hackIDs []string) ([]vote.Vote, error)
}

// Loaders are the per-request lookups behind the computed hack fields.
// Votes is nil for anonymous viewers.
type Loaders struct {
	Users *Loader[string, *user.User]
	Votes *Loader[string, int]
}

func NewLoaders(users UserSource, votes VoteSource, viewerID string) *Loaders {
	l := &Loaders{
		Users: New(func(ctx context.Context, ids []string) (map[string]*user.User, error) {
			found, err := users.FindByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			out := make(map[string]*user.User, len(found))
			for i := range found {
				out[found[i].ID] = &found[i]
			}
			return out, nil
		}),
	}
	if viewerID != "" {
		l.Votes = New(func(ctx context.Context, hackIDs []string) (map[string]int, error) {
			found, err := votes.FindForUser(ctx, viewerID, hackIDs)
			if err != nil {
				return nil, err
			}
			out := make(map[string]int, len(found))
			for _, v := range found {
				out[v.HackID] = v.Value
			}
			return out, nil
		})
	}
	return l
}
