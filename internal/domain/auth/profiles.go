package auth

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
)

// ProfileCache is a process-local cache of fetched profiles keyed by user
// id. It is injected explicitly rather than living as a package-level
// singleton, so callers control its lifetime and invalidation.
type ProfileCache struct {
	mu sync.RWMutex
	m  map[string]*Profile
}

// NewProfileCache returns an empty cache.
func NewProfileCache() *ProfileCache {
	return &ProfileCache{m: make(map[string]*Profile)}
}

func (c *ProfileCache) get(id string) (*Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.m[id]
	return p, ok
}

func (c *ProfileCache) put(p *Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[p.ID] = p
}

// Invalidate drops a single cached profile, e.g. on sign-out.
func (c *ProfileCache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, id)
}

// Reset drops every cached profile.
func (c *ProfileCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]*Profile)
}

// Profiles resolves user profiles with a read-through cache in front of the
// repository.
type Profiles struct {
	repo  ProfileRepository
	cache *ProfileCache
}

// NewProfiles creates a Profiles service.
func NewProfiles(repo ProfileRepository, cache *ProfileCache) *Profiles {
	return &Profiles{repo: repo, cache: cache}
}

// Get returns the profile for a user id, from cache when available.
func (p *Profiles) Get(ctx context.Context, userID string) (*Profile, error) {
	if cached, ok := p.cache.get(userID); ok {
		return cached, nil
	}

	profile, err := p.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "fetch profile")
	}

	p.cache.put(profile)
	return profile, nil
}

// Invalidate drops the cached profile for a user, e.g. on sign-out.
func (p *Profiles) Invalidate(userID string) {
	p.cache.Invalidate(userID)
}

// Refresh re-fetches a profile, replacing any cached copy.
func (p *Profiles) Refresh(ctx context.Context, userID string) (*Profile, error) {
	p.cache.Invalidate(userID)
	return p.Get(ctx, userID)
}

// IsAdmin reports whether the user's profile carries the admin role. Users
// without a profile row are treated as regular users.
func (p *Profiles) IsAdmin(ctx context.Context, userID string) (bool, error) {
	profile, err := p.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.Role == RoleAdmin, nil
}
