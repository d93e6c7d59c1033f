package policy

import "github.com/inkpress/blog-api/internal/core/domain"

// View decides whether r is visible to p. Public resources are visible to
// everyone; private ones only to their owner. The elevated role grants no
// visibility, and a denial always carries the hidden reason so it can be
// rendered exactly like a missing resource.
func View(p domain.Principal, r domain.Resource) domain.AccessDecision {
	if r.Visibility == domain.VisibilityPublic {
		return allow(domain.ReasonPublic)
	}
	owner := r.OwnerID
	if r.ParentOwnerID != "" {
		owner = r.ParentOwnerID
	}
	if p.Owns(owner) {
		return allow(domain.ReasonOwner)
	}
	return deny(domain.ReasonHidden)
}

// VisiblePosts filters posts down to those p may read.
func VisiblePosts(p domain.Principal, posts []*domain.Post) []*domain.Post {
	out := make([]*domain.Post, 0, len(posts))
	for _, post := range posts {
		if View(p, post.Resource()).Allow {
			out = append(out, post)
		}
	}
	return out
}
