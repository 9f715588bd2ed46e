package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/YuBaBing/FCS/domain/post"
	"github.com/YuBaBing/FCS/domain/user"
)

// InMemoryStorage holds everything behind one mutex. Returned posts are
// copies, so callers never share memory with the store.
type InMemoryStorage struct {
	mu    sync.RWMutex
	users map[string]*user.User
	posts map[string]*post.Post
	order []string
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		users: make(map[string]*user.User),
		posts: make(map[string]*post.Post),
	}
}

func (im *InMemoryStorage) AddUser(_ context.Context, u *user.User) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if _, ok := im.users[u.Username]; ok {
		return ErrUserExists
	}
	u.CreatedAt = time.Now().UTC()
	cp := *u
	im.users[u.Username] = &cp
	return nil
}

func (im *InMemoryStorage) GetUser(_ context.Context, username string) (*user.User, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	u, ok := im.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (im *InMemoryStorage) AddPost(_ context.Context, p *post.Post) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	if p.LikedBy == nil {
		p.LikedBy = make([]string, 0)
	}
	im.posts[p.ID.Hex()] = p.Clone()
	im.order = append(im.order, p.ID.Hex())
	return nil
}

func (im *InMemoryStorage) GetPostByID(_ context.Context, postID string) (*post.Post, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	p, ok := im.posts[postID]
	if !ok {
		return nil, ErrPostNotFound
	}
	return p.Clone(), nil
}

func (im *InMemoryStorage) ListPage(_ context.Context, filter PostFilter, page, size int) ([]*post.Post, bool, error) {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultSize
	}
	im.mu.RLock()
	matching := make([]*post.Post, 0, len(im.order))
	for _, id := range im.order {
		p := im.posts[id]
		if p == nil {
			continue
		}
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		matching = append(matching, p.Clone())
	}
	im.mu.RUnlock()

	// Newest first; on equal timestamps the most recently inserted wins,
	// matching the mongo secondary sort on _id.
	for i, j := 0, len(matching)-1; i < j; i, j = i+1, j-1 {
		matching[i], matching[j] = matching[j], matching[i]
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].CreatedAt.After(matching[j].CreatedAt)
	})

	skip := (page - 1) * size
	if skip >= len(matching) {
		return make([]*post.Post, 0), false, nil
	}
	end := skip + size
	if end > len(matching) {
		end = len(matching)
	}
	return matching[skip:end], end < len(matching), nil
}

func (im *InMemoryStorage) ToggleLike(_ context.Context, postID, username string) (*post.Post, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	p, ok := im.posts[postID]
	if !ok {
		return nil, ErrPostNotFound
	}
	if p.LikedByUser(username) {
		kept := p.LikedBy[:0]
		for _, u := range p.LikedBy {
			if u != username {
				kept = append(kept, u)
			}
		}
		p.LikedBy = kept
		p.Likes--
	} else {
		p.LikedBy = append(p.LikedBy, username)
		p.Likes++
	}
	return p.Clone(), nil
}

func (im *InMemoryStorage) SavePost(_ context.Context, p *post.Post) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if _, ok := im.posts[p.ID.Hex()]; !ok {
		return ErrPostNotFound
	}
	im.posts[p.ID.Hex()] = p.Clone()
	return nil
}

func (im *InMemoryStorage) DeletePost(_ context.Context, postID string) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if _, ok := im.posts[postID]; !ok {
		return ErrPostNotFound
	}
	delete(im.posts, postID)
	for i, id := range im.order {
		if id == postID {
			im.order = append(im.order[:i], im.order[i+1:]...)
			break
		}
	}
	return nil
}
