package groups

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/scentdesk/scentdesk/internal/shared"
)

// ErrMergeIntoSource is returned when the merge target is also a source.
var ErrMergeIntoSource = errors.New("merge target cannot be a source group")

// Store is the persistence contract the service depends on.
type Store interface {
	Get(ctx context.Context, id int64) (*Group, error)
	List(ctx context.Context) ([]Group, error)
	MemberCounts(ctx context.Context) (map[int64]int, error)
	Create(ctx context.Context, g Group) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	AddMembers(ctx context.Context, groupID int64, customerIDs []int64) error
	RemoveMembers(ctx context.Context, groupID int64, customerIDs []int64) error
	ListByCustomer(ctx context.Context, customerID int64) ([]Group, error)
	Merge(ctx context.Context, sourceIDs []int64, targetID int64) error
}

// Service wraps group business rules.
type Service struct {
	store    Store
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

// List fetches groups and their member counts concurrently and joins them.
func (s *Service) List(ctx context.Context) ([]Group, error) {
	var (
		list   []Group
		counts map[int64]int
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.store.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.store.MemberCounts(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	for i := range list {
		list[i].MemberCount = counts[list[i].ID]
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Group, error) {
	group, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.MemberCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("member counts: %w", err)
	}
	group.MemberCount = counts[id]
	return group, nil
}

func (s *Service) Create(ctx context.Context, createdBy int64, req CreateGroupRequest) (*Group, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate group: %w", err)
	}
	id, err := s.store.Create(ctx, Group{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   createdBy,
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateGroupRequest) (*Group, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate group: %w", err)
	}
	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) > 0 {
		if err := s.store.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) AddMembers(ctx context.Context, groupID int64, req MembersRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("validate members: %w", err)
	}
	if _, err := s.store.Get(ctx, groupID); err != nil {
		return err
	}
	return s.store.AddMembers(ctx, groupID, shared.NewSelection(req.CustomerIDs).IDs())
}

func (s *Service) RemoveMembers(ctx context.Context, groupID int64, req MembersRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("validate members: %w", err)
	}
	if _, err := s.store.Get(ctx, groupID); err != nil {
		return err
	}
	return s.store.RemoveMembers(ctx, groupID, shared.NewSelection(req.CustomerIDs).IDs())
}

func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]Group, error) {
	return s.store.ListByCustomer(ctx, customerID)
}

// Merge folds the sources into the target. The target must not appear in the
// source list.
func (s *Service) Merge(ctx context.Context, req MergeRequest) (*Group, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate merge: %w", err)
	}
	sources := shared.NewSelection(req.SourceIDs)
	if sources.Contains(req.TargetID) {
		return nil, ErrMergeIntoSource
	}
	if err := s.store.Merge(ctx, sources.IDs(), req.TargetID); err != nil {
		return nil, err
	}
	return s.Get(ctx, req.TargetID)
}
