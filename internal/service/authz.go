package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"campfire/internal/pkg"
)

// Authorizer decides whether a user may mutate a community-owned resource.
// Permission holds when the user is the resource's recorded creator or holds
// an OWNER/ADMIN membership in the owning community. The three denial
// outcomes stay distinct: a missing resource is NotFound, a lacking role is
// Forbidden; a missing session never reaches this layer (the middleware
// answers Unauthenticated). Pure read, no side effects.
type Authorizer struct {
	communities CommunityStore
	courses     CourseStore
	members     MemberStore
}

func NewAuthorizer(communities CommunityStore, courses CourseStore, members MemberStore) *Authorizer {
	return &Authorizer{communities: communities, courses: courses, members: members}
}

func (a *Authorizer) CanManageCommunity(ctx context.Context, userID, communityID uint64) error {
	community, err := a.communities.FindByID(ctx, communityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.E(pkg.KindNotFound, "community not found")
	}
	if err != nil {
		return pkg.Wrap(pkg.KindInternal, "community lookup failed", err)
	}
	return a.decide(ctx, userID, community.ID, community.CreatorID)
}

func (a *Authorizer) CanManageCourse(ctx context.Context, userID, courseID uint64) error {
	course, err := a.courses.FindCourseByID(ctx, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.E(pkg.KindNotFound, "course not found")
	}
	if err != nil {
		return pkg.Wrap(pkg.KindInternal, "course lookup failed", err)
	}
	return a.decide(ctx, userID, course.CommunityID, course.CreatorID)
}

func (a *Authorizer) CanManageModule(ctx context.Context, userID, moduleID uint64) error {
	course, err := a.courses.ResolveModuleCourse(ctx, moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.E(pkg.KindNotFound, "module not found")
	}
	if err != nil {
		return pkg.Wrap(pkg.KindInternal, "module lookup failed", err)
	}
	return a.decide(ctx, userID, course.CommunityID, course.CreatorID)
}

func (a *Authorizer) CanManageLesson(ctx context.Context, userID, lessonID uint64) error {
	course, err := a.courses.ResolveLessonCourse(ctx, lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.E(pkg.KindNotFound, "lesson not found")
	}
	if err != nil {
		return pkg.Wrap(pkg.KindInternal, "lesson lookup failed", err)
	}
	return a.decide(ctx, userID, course.CommunityID, course.CreatorID)
}

func (a *Authorizer) decide(ctx context.Context, userID, communityID, creatorID uint64) error {
	if userID == creatorID {
		return nil
	}
	member, err := a.members.Find(ctx, communityID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.E(pkg.KindForbidden, "insufficient permissions")
	}
	if err != nil {
		return pkg.Wrap(pkg.KindInternal, "membership lookup failed", err)
	}
	if member.Role.CanManage() {
		return nil
	}
	return pkg.E(pkg.KindForbidden, "insufficient permissions")
}
