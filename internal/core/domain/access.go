package domain

// Visibility of a resource to callers other than its owner.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Resource is the ownership and visibility data the access policy needs.
// ParentOwnerID is set for comments and names the owner of the post they
// belong to; a private post stays visible to its author through its
// comments.
type Resource struct {
	OwnerID       string
	ParentOwnerID string
	Visibility    Visibility
}

// Operation is an action a principal attempts.
type Operation string

const (
	OpCreatePost    Operation = "create_post"
	OpReadPost      Operation = "read_post"
	OpListAllPosts  Operation = "list_all_posts"
	OpListOwnPosts  Operation = "list_own_posts"
	OpUpdatePost    Operation = "update_post"
	OpDeletePost    Operation = "delete_post"
	OpTogglePublish Operation = "toggle_publish"
	OpCreateComment Operation = "create_comment"
	OpReadComment   Operation = "read_comment"
	OpUpdateComment Operation = "update_comment"
	OpDeleteComment Operation = "delete_comment"
)

// Reason explains an AccessDecision.
type Reason string

const (
	ReasonPublic          Reason = "public"
	ReasonOwner           Reason = "owner"
	ReasonElevated        Reason = "elevated"
	ReasonAuthenticated   Reason = "authenticated"
	ReasonAnonymous       Reason = "anonymous"
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbidden       Reason = "forbidden"
	ReasonHidden          Reason = "hidden"
)

// AccessDecision is computed per request and never persisted.
type AccessDecision struct {
	Allow  bool
	Reason Reason
}

// Err converts a denial into the matching domain error. notFound is
// returned for hidden resources so they are indistinguishable from
// missing ones.
func (d AccessDecision) Err(notFound error) error {
	if d.Allow {
		return nil
	}
	switch d.Reason {
	case ReasonUnauthenticated:
		return ErrUnauthenticated
	case ReasonHidden:
		return notFound
	default:
		return ErrForbidden
	}
}
