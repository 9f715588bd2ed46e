package storage

import (
	"context"
	_ "embed"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/YuBaBing/FCS/domain/post"
)

//go:embed script.lua
var wipeScript string

const cacheTTL = time.Hour

// CachedStorage puts a redis read-through cache in front of another
// PostStorage. Post-by-id entries and feed pages are cached for an hour and
// wiped wholesale on any mutation, since every feed page can contain every
// post.
type CachedStorage struct {
	Client          *redis.Client
	InternalStorage PostStorage
}

type cachedPage struct {
	Posts   []*post.Post `json:"posts"`
	HasMore bool         `json:"hasMore"`
}

func (cs *CachedStorage) postKey(postID string) string {
	return "pid:" + postID
}

func (cs *CachedStorage) pageKey(filter PostFilter, page, size int) string {
	return "feed:" + filter.AuthorID + ":" + strconv.Itoa(page) + ":" + strconv.Itoa(size)
}

func (cs *CachedStorage) invalidate(ctx context.Context, postID string) {
	if postID != "" {
		cs.Client.Del(ctx, cs.postKey(postID))
	}
	cs.Client.Eval(ctx, wipeScript, []string{"feed:*"})
}

func (cs *CachedStorage) AddPost(ctx context.Context, p *post.Post) error {
	if err := cs.InternalStorage.AddPost(ctx, p); err != nil {
		return err
	}
	cs.invalidate(ctx, "")
	cs.storePost(ctx, p)
	return nil
}

func (cs *CachedStorage) GetPostByID(ctx context.Context, postID string) (*post.Post, error) {
	if p := cs.loadPost(ctx, postID); p != nil {
		return p, nil
	}
	p, err := cs.InternalStorage.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	cs.storePost(ctx, p)
	return p, nil
}

func (cs *CachedStorage) ListPage(ctx context.Context, filter PostFilter, page, size int) ([]*post.Post, bool, error) {
	key := cs.pageKey(filter, page, size)
	if res, err := cs.Client.Get(ctx, key).Result(); err == nil {
		var pg cachedPage
		if json.Unmarshal([]byte(res), &pg) == nil {
			if pg.Posts == nil {
				pg.Posts = make([]*post.Post, 0)
			}
			return pg.Posts, pg.HasMore, nil
		}
	}
	posts, hasMore, err := cs.InternalStorage.ListPage(ctx, filter, page, size)
	if err != nil {
		return nil, false, err
	}
	if raw, err := json.Marshal(cachedPage{Posts: posts, HasMore: hasMore}); err == nil {
		cs.Client.Set(ctx, key, string(raw), cacheTTL)
	}
	return posts, hasMore, nil
}

func (cs *CachedStorage) ToggleLike(ctx context.Context, postID, username string) (*post.Post, error) {
	p, err := cs.InternalStorage.ToggleLike(ctx, postID, username)
	if err != nil {
		return nil, err
	}
	cs.invalidate(ctx, postID)
	cs.storePost(ctx, p)
	return p, nil
}

func (cs *CachedStorage) SavePost(ctx context.Context, p *post.Post) error {
	if err := cs.InternalStorage.SavePost(ctx, p); err != nil {
		return err
	}
	cs.invalidate(ctx, p.ID.Hex())
	cs.storePost(ctx, p)
	return nil
}

func (cs *CachedStorage) DeletePost(ctx context.Context, postID string) error {
	if err := cs.InternalStorage.DeletePost(ctx, postID); err != nil {
		return err
	}
	cs.invalidate(ctx, postID)
	return nil
}

func (cs *CachedStorage) storePost(ctx context.Context, p *post.Post) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	cs.Client.Set(ctx, cs.postKey(p.ID.Hex()), string(raw), cacheTTL)
}

func (cs *CachedStorage) loadPost(ctx context.Context, postID string) *post.Post {
	res, err := cs.Client.Get(ctx, cs.postKey(postID)).Result()
	if err != nil {
		return nil
	}
	var p post.Post
	if err := json.Unmarshal([]byte(res), &p); err != nil {
		return nil
	}
	return &p
}
