package hack

import (
	"context"
	"fmt"

	"hackshare/internal/user"
)

// Proposals manages the single outstanding edit a hack may carry.
type Proposals struct {
	repo Repository
}

func NewProposals(repo Repository) *Proposals {
	return &Proposals{repo: repo}
}

// Propose parks patch on the hack and sends it back to moderation. It returns
// nil, nil when the hack does not exist or already has an edit waiting.
func (p *Proposals) Propose(ctx context.Context, caller *user.User, id string, patch Patch) (*Hack, error) {
	var result *Hack
	err := p.repo.Transaction(ctx, func(repo Repository) error {
		h, err := repo.FindByID(ctx, id)
		if err != nil || h == nil {
			return err
		}
		if h.CreatorID != caller.ID && !caller.IsAdmin() {
			return ErrPermissionDenied
		}
		if h.HasPendingEdit() {
			return nil
		}
		raw, err := patch.Encode()
		if err != nil {
			return err
		}
		ok, err := repo.SetPendingEdit(ctx, id, raw)
		if err != nil || !ok {
			return err
		}
		result, err = repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Apply merges the pending edit into the hack, clears it, verifies the hack
// and stamps UpdatedAt. It returns nil, nil when there is nothing to apply.
func (p *Proposals) Apply(ctx context.Context, id string) (*Hack, error) {
	var result *Hack
	err := p.repo.Transaction(ctx, func(repo Repository) error {
		h, err := repo.FindByID(ctx, id)
		if err != nil || h == nil || !h.HasPendingEdit() {
			return err
		}
		patch, err := DecodePatch(*h.PendingEdit)
		if err != nil {
			return fmt.Errorf("hack %s: %w", id, err)
		}
		ok, err := repo.ApplyPendingEdit(ctx, id, patch.Columns(), now())
		if err != nil || !ok {
			return err
		}
		result, err = repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
