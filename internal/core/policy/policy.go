// Package policy holds the pure access-control decisions for posts and
// comments. Nothing in here touches a store: callers load the resource,
// resolve the principal, and ask for a decision.
package policy

import "github.com/inkpress/blog-api/internal/core/domain"

// Decide evaluates op for principal p against resource r. For operations
// that do not target an existing resource (create post, listings) r is
// ignored.
func Decide(op domain.Operation, p domain.Principal, r domain.Resource) domain.AccessDecision {
	switch op {
	case domain.OpCreatePost:
		if !p.IsAuthenticated() {
			return deny(domain.ReasonUnauthenticated)
		}
		if !p.Role.Valid() {
			return deny(domain.ReasonForbidden)
		}
		return allow(domain.ReasonAuthenticated)

	case domain.OpReadPost, domain.OpReadComment:
		return View(p, r)

	case domain.OpListAllPosts:
		if !p.IsAuthenticated() {
			return deny(domain.ReasonUnauthenticated)
		}
		if !p.IsElevated() {
			return deny(domain.ReasonForbidden)
		}
		return allow(domain.ReasonElevated)

	case domain.OpListOwnPosts:
		if !p.IsAuthenticated() {
			return deny(domain.ReasonUnauthenticated)
		}
		return allow(domain.ReasonAuthenticated)

	case domain.OpUpdatePost, domain.OpDeletePost, domain.OpTogglePublish,
		domain.OpUpdateComment, domain.OpDeleteComment:
		return mutate(p, r)

	case domain.OpCreateComment:
		if p.IsAuthenticated() {
			return allow(domain.ReasonAuthenticated)
		}
		return allow(domain.ReasonAnonymous)
	}

	return deny(domain.ReasonForbidden)
}

// mutate applies the ownership rule. The elevated role is an alternative
// to ownership, not a prerequisite. A caller that cannot see the resource
// gets the hidden reason rather than forbidden.
func mutate(p domain.Principal, r domain.Resource) domain.AccessDecision {
	if !p.IsAuthenticated() {
		return deny(domain.ReasonUnauthenticated)
	}
	if p.IsElevated() {
		return allow(domain.ReasonElevated)
	}
	if p.Owns(r.OwnerID) {
		return allow(domain.ReasonOwner)
	}
	if !View(p, r).Allow {
		return deny(domain.ReasonHidden)
	}
	return deny(domain.ReasonForbidden)
}

func allow(reason domain.Reason) domain.AccessDecision {
	return domain.AccessDecision{Allow: true, Reason: reason}
}

func deny(reason domain.Reason) domain.AccessDecision {
	return domain.AccessDecision{Allow: false, Reason: reason}
}
