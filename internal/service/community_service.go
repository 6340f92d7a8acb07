package service

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"campfire/internal/model"
	"campfire/internal/pkg"
)

type CommunityService struct {
	communities CommunityStore
	members     MemberStore
	notifier    Notifier
}

func NewCommunityService(communities CommunityStore, members MemberStore, notifier Notifier) *CommunityService {
	return &CommunityService{communities: communities, members: members, notifier: notifier}
}

var slugScrub = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	s := slugScrub.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

func (s *CommunityService) Create(ctx context.Context, userID uint64, name, slug, desc string, isFree bool) (*model.Community, error) {
	if name == "" {
		return nil, pkg.E(pkg.KindValidation, "community name required")
	}
	if slug == "" {
		slug = slugify(name)
	}
	if slug == "" {
		return nil, pkg.E(pkg.KindValidation, "community slug required")
	}

	community := &model.Community{
		Slug:        slug,
		Name:        name,
		Description: desc,
		CreatorID:   userID,
		IsFree:      isFree,
	}
	err := s.communities.Create(ctx, community)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, pkg.E(pkg.KindConflict, "community name or slug already taken")
	}
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "community create failed", err)
	}
	return community, nil
}

// Resolve looks a community up by id or slug.
func (s *CommunityService) Resolve(ctx context.Context, ref string) (*model.Community, error) {
	community, err := s.communities.FindByRef(ctx, ref)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.E(pkg.KindNotFound, "community not found")
	}
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "community lookup failed", err)
	}
	return community, nil
}

// Join adds the user as a MEMBER and awards points atomically with the
// membership row. ref may be an id or a slug. The membership check is
// advisory; the unique key inside JoinWithAward settles races.
func (s *CommunityService) Join(ctx context.Context, userID uint64, ref string) (*model.Community, error) {
	community, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	if !community.IsFree {
		return nil, pkg.E(pkg.KindUnsupported, "joining paid communities is not supported yet")
	}

	if _, err := s.members.Find(ctx, community.ID, userID); err == nil {
		return nil, pkg.E(pkg.KindConflict, "already a member")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.Wrap(pkg.KindInternal, "membership lookup failed", err)
	}

	member := &model.CommunityMember{
		CommunityID: community.ID,
		UserID:      userID,
		Role:        model.RoleMember,
	}
	err = s.members.JoinWithAward(ctx, member, PointsJoinCommunity)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, pkg.E(pkg.KindConflict, "already a member")
	}
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "join failed", err)
	}

	if community.CreatorID != userID {
		// Suppressed results are fine; the join already committed, so a
		// dispatch failure is logged, never surfaced to the joining user.
		_, err := s.notifier.Dispatch(ctx, Event{
			RecipientID: community.CreatorID,
			ActorID:     &userID,
			Type:        model.NotifCommunityJoined,
			CommunityID: &community.ID,
			EntityType:  "community",
			EntityID:    &community.ID,
			Title:       "New member",
			Message:     "Someone joined " + community.Name,
		})
		if err != nil {
			log.Printf("join notification dispatch failed: %v", err)
		}
	}
	return community, nil
}

func (s *CommunityService) Leave(ctx context.Context, userID uint64, ref string) error {
	community, err := s.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.members.Leave(ctx, community.ID, userID); err != nil {
		return pkg.Wrap(pkg.KindInternal, "leave failed", err)
	}
	return nil
}

func (s *CommunityService) List(ctx context.Context, page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	list, err := s.communities.List(ctx, (page-1)*size, size)
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "community list failed", err)
	}
	return list, nil
}
