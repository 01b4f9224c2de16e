// Package space maps Q&A categories to the collaboration spaces whose
// activity streams receive questions filed under them.
package space

import (
	"context"
	"errors"
	"strings"

	"github.com/alfredjeanlab/qastream/internal/model"
	"github.com/alfredjeanlab/qastream/internal/store"
)

// Marker is the reserved fragment of a category id that binds the category to
// a space. The space's pretty name follows it.
const Marker = "CategorySpace"

const groupPrefix = "/spaces/"

// PrettyName extracts the space pretty name from a category id. ok is false
// when the id carries no marker or nothing follows it.
func PrettyName(categoryID string) (name string, ok bool) {
	_, name, found := strings.Cut(categoryID, Marker)
	if !found || name == "" {
		return "", false
	}
	return name, true
}

// IsSpaceCategory reports whether the category id designates a space.
func IsSpaceCategory(categoryID string) bool {
	_, ok := PrettyName(categoryID)
	return ok
}

// GroupID returns the canonical group path of the space bound to the
// category, or "" when the category is not a space category.
func GroupID(categoryID string) string {
	name, ok := PrettyName(categoryID)
	if !ok {
		return ""
	}
	return groupPrefix + name
}

// Resolver turns space categories into stream-owner identities.
type Resolver struct {
	spaces     store.SpaceStore
	identities store.IdentityStore
}

// NewResolver creates a Resolver.
func NewResolver(spaces store.SpaceStore, identities store.IdentityStore) *Resolver {
	return &Resolver{spaces: spaces, identities: identities}
}

// ResolveSpaceIdentity returns the identity of the space bound to the
// category. It returns nil with no error when the category is not a space
// category, the space does not exist, or the space has no identity.
func (r *Resolver) ResolveSpaceIdentity(ctx context.Context, categoryID string) (*model.Identity, error) {
	groupID := GroupID(categoryID)
	if groupID == "" {
		return nil, nil
	}

	sp, err := r.spaces.GetSpaceByGroupID(ctx, groupID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ident, err := r.identities.GetOrCreateIdentity(ctx, model.ProviderSpace, sp.PrettyName, false)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ident, nil
}
