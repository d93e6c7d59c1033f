package domain

import "time"

// Post is an article authored by a user. Posts start unpublished and are
// only visible to their author until published.
type Post struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Published      bool      `json:"published"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Resource returns the access-control view of the post.
func (p *Post) Resource() Resource {
	v := VisibilityPrivate
	if p.Published {
		v = VisibilityPublic
	}
	return Resource{OwnerID: p.AuthorID, Visibility: v}
}

// Comment is attached to a post. Anonymous comments carry a free-text
// username and email instead of a UserID.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Content   string    `json:"content"`
	UserID    string    `json:"user_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Resource returns the access-control view of the comment. A comment
// inherits the visibility of its post.
func (c *Comment) Resource(post *Post) Resource {
	r := post.Resource()
	r.OwnerID = c.UserID
	r.ParentOwnerID = post.AuthorID
	return r
}
