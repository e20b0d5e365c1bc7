package hack

import (
	"context"
	"strconv"
	"time"

	"hackshare/internal/logger"
	"hackshare/internal/user"

	"github.com/google/uuid"
)

const (
	EventCreated        = "hack.created"
	EventEditProposed   = "hack.edit_proposed"
	EventVerified       = "hack.verified"
	EventUpdateVerified = "hack.update_verified"
	EventDeleted        = "hack.deleted"

	MaxPageSize = 15
)

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// Notifier receives moderation events after they commit.
type Notifier interface {
	Notify(event string, payload any)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, any) {}

// Service is the moderation state machine: it creates hacks, routes edits
// through Proposals and gates verification on the caller's role.
type Service struct {
	repo      Repository
	users     UserFinder
	proposals *Proposals
	notifier  Notifier
}

func NewService(repo Repository, users UserFinder) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		proposals: NewProposals(repo),
		notifier:  nopNotifier{},
	}
}

func (s *Service) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	s.notifier = n
}

func (s *Service) caller(ctx context.Context, id string) (*user.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (*Hack, error) {
	in = in.Sanitize()
	if err := ValidateCreate(in).OrNil(); err != nil {
		return nil, err
	}
	creator, err := s.caller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	at := now()
	h := &Hack{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Body:        in.Body,
		CreatorID:   creator.ID,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}
	logger.Infof("hack %s created by %s", h.ID, creator.ID)
	s.notifier.Notify(EventCreated, h)
	return h, nil
}

// ProposeUpdate validates patch and hands it to the proposal engine.
func (s *Service) ProposeUpdate(ctx context.Context, callerID, id string, patch Patch) (*Hack, error) {
	patch = patch.Sanitize()
	if err := ValidatePatch(patch).OrNil(); err != nil {
		return nil, err
	}
	caller, err := s.caller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	h, err := s.proposals.Propose(ctx, caller, id, patch)
	if err != nil || h == nil {
		return nil, err
	}
	logger.Infof("edit proposed on hack %s by %s", id, caller.ID)
	s.notifier.Notify(EventEditProposed, h)
	return h, nil
}

// Verify marks a hack verified. A pending edit, if any, stays in place.
func (s *Service) Verify(ctx context.Context, callerID, id string) (*Hack, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	ok, err := s.repo.MarkVerified(ctx, id)
	if err != nil || !ok {
		return nil, err
	}
	h, err := s.repo.FindByID(ctx, id)
	if err != nil || h == nil {
		return nil, err
	}
	s.notifier.Notify(EventVerified, h)
	return h, nil
}

// VerifyUpdate accepts the pending edit. It returns nil, nil when the hack is
// missing or has no edit waiting.
func (s *Service) VerifyUpdate(ctx context.Context, callerID, id string) (*Hack, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	h, err := s.proposals.Apply(ctx, id)
	if err != nil || h == nil {
		return nil, err
	}
	logger.Infof("pending edit on hack %s accepted by %s", id, callerID)
	s.notifier.Notify(EventUpdateVerified, h)
	return h, nil
}

// Delete removes a hack and its votes. Only the creator or an admin may do
// so; every other case, including missing records, reports false.
func (s *Service) Delete(ctx context.Context, callerID, id string) (bool, error) {
	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil || caller == nil {
		return false, err
	}
	h, err := s.repo.FindByID(ctx, id)
	if err != nil || h == nil {
		return false, err
	}
	owner := caller.ID
	if caller.IsAdmin() {
		owner = h.CreatorID
	}
	deleted, err := s.repo.Delete(ctx, id, owner)
	if err != nil || !deleted {
		return false, err
	}
	logger.Infof("hack %s deleted by %s", id, caller.ID)
	s.notifier.Notify(EventDeleted, map[string]string{"id": id})
	return true, nil
}

func (s *Service) requireAdmin(ctx context.Context, callerID string) error {
	caller, err := s.caller(ctx, callerID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return ErrPermissionDenied
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Hack, error) {
	return s.repo.FindByID(ctx, id)
}

// ListQuery is a page request. Cursor is an UpdatedAt in unix milliseconds;
// only strictly older hacks are returned.
type ListQuery struct {
	Verified      *bool
	Category      Category
	Search        string
	CreatorID     string
	VerifiedFirst bool
	Limit         int
	Cursor        string
}

type Page struct {
	Hacks      []Hack `json:"hacks"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
}

func ParseCursor(cursor string) (*time.Time, error) {
	if cursor == "" {
		return nil, nil
	}
	ms, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	t := time.UnixMilli(ms).UTC()
	return &t, nil
}

func FormatCursor(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	before, err := ParseCursor(q.Cursor)
	if err != nil {
		return Page{}, err
	}
	limit := q.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	hacks, err := s.repo.List(ctx, Filter{
		Verified:      q.Verified,
		Category:      q.Category,
		Search:        q.Search,
		CreatorID:     q.CreatorID,
		Before:        before,
		VerifiedFirst: q.VerifiedFirst,
		Limit:         limit + 1,
	})
	if err != nil {
		return Page{}, err
	}
	page := Page{Hacks: hacks}
	if len(hacks) > limit {
		page.Hacks = hacks[:limit]
		page.HasMore = true
	}
	if n := len(page.Hacks); n > 0 {
		page.NextCursor = FormatCursor(page.Hacks[n-1].UpdatedAt)
	}
	return page, nil
}
