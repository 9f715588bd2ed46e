package storage

import (
	"context"

	"github.com/YuBaBing/FCS/domain/post"
	"github.com/YuBaBing/FCS/domain/user"
)

// Pagination defaults matching the public feed.
const (
	DefaultPage = 1
	DefaultSize = 4
)

// PostFilter narrows a feed listing. Zero value matches everything.
type PostFilter struct {
	AuthorID string
}

type PostStorage interface {
	// AddPost assigns the post an id and creation time and persists it.
	AddPost(ctx context.Context, p *post.Post) error
	GetPostByID(ctx context.Context, postID string) (*post.Post, error)
	// ListPage returns matching posts ordered by creation time descending,
	// skipping (page-1)*size items. The bool reports whether more pages follow.
	ListPage(ctx context.Context, filter PostFilter, page, size int) ([]*post.Post, bool, error)
	// ToggleLike flips username's membership in the post's likedBy set and
	// adjusts the like counter in the same document write.
	ToggleLike(ctx context.Context, postID, username string) (*post.Post, error)
	SavePost(ctx context.Context, p *post.Post) error
	DeletePost(ctx context.Context, postID string) error
}

type UserStorage interface {
	AddUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, username string) (*user.User, error)
}
