package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
)

func TestObjectID(t *testing.T) {
	oid := primitive.NewObjectID()
	got, err := objectID(oid.Hex(), domain.ErrPostNotFound)
	if err != nil || got != oid {
		t.Fatalf("valid id: got %v, %v", got, err)
	}

	for _, bad := range []string{"", "not-an-id", "123"} {
		if _, err := objectID(bad, domain.ErrPostNotFound); err != domain.ErrPostNotFound {
			t.Fatalf("%q: expected ErrPostNotFound, got %v", bad, err)
		}
	}
}

func TestPostFilter(t *testing.T) {
	if f := postFilter(ports.ListPostsFilter{}); len(f) != 0 {
		t.Fatalf("empty filter expected, got %v", f)
	}

	f := postFilter(ports.ListPostsFilter{PublishedOnly: true, AuthorID: "u1", Search: "c++ (tips)"})
	if f["published"] != true || f["author_id"] != "u1" {
		t.Fatalf("unexpected filter %v", f)
	}
	re, ok := f["title"].(primitive.Regex)
	if !ok {
		t.Fatalf("title must be a regex, got %T", f["title"])
	}
	if re.Pattern != `c\+\+ \(tips\)` || re.Options != "i" {
		t.Fatalf("unexpected regex %+v", re)
	}
}

func TestUserDoc_RejectsUnknownRole(t *testing.T) {
	doc := userDoc{ID: primitive.NewObjectID(), Username: "mallory", Role: "superuser"}
	if _, err := doc.toDomain(); err == nil {
		t.Fatalf("expected error for unknown stored role")
	}

	doc.Role = "admin"
	u, err := doc.toDomain()
	if err != nil || u.Role != domain.RoleElevated || u.ID != doc.ID.Hex() {
		t.Fatalf("unexpected user %+v, %v", u, err)
	}
}

func TestPostDoc_BSONFieldNames(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	raw, err := bson.Marshal(toPostDoc(&domain.Post{ID: "ignored", Title: "t", AuthorID: "u1", CreatedAt: now}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["_id"]; ok {
		t.Fatalf("new documents must let mongo assign _id")
	}
	for _, key := range []string{"title", "author_id", "published", "created_at"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("missing field %s in %v", key, m)
		}
	}
}

func TestTogglePublishedPipeline(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := togglePublishedPipeline(at)
	if len(p) != 1 || len(p[0]) != 1 || p[0][0].Key != "$set" {
		t.Fatalf("expected a single $set stage, got %v", p)
	}

	set, ok := p[0][0].Value.(bson.D)
	if !ok || len(set) != 2 {
		t.Fatalf("unexpected $set body %v", p[0][0].Value)
	}
	not, ok := set[0].Value.(bson.D)
	if set[0].Key != "published" || !ok || len(not) != 1 || not[0].Key != "$not" || not[0].Value != "$published" {
		t.Fatalf("published must be negated server side, got %v", set[0])
	}
	if set[1].Key != "updated_at" || set[1].Value != at {
		t.Fatalf("unexpected updated_at %v", set[1])
	}
}

func TestRoleUpdate(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	set, ok := roleUpdate(domain.RoleElevated, at)["$set"].(bson.M)
	if !ok {
		t.Fatalf("expected a $set update")
	}
	if set["role"] != "admin" || set["updated_at"] != at || len(set) != 2 {
		t.Fatalf("unexpected role update %v", set)
	}
}
