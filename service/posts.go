package service

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/YuBaBing/FCS/blob"
	"github.com/YuBaBing/FCS/domain/post"
	"github.com/YuBaBing/FCS/storage"
)

// Upload is an image attached to a new post.
type Upload struct {
	Name string
	Data io.Reader
}

type PostService struct {
	posts storage.PostStorage
	blobs blob.Store
	log   *zap.Logger
}

func NewPostService(posts storage.PostStorage, blobs blob.Store, log *zap.Logger) *PostService {
	return &PostService{posts: posts, blobs: blobs, log: log}
}

// Create validates the fields, stores the optional image and persists the
// post. The author always comes from the authenticated identity, never from
// the request body.
func (s *PostService) Create(ctx context.Context, author, title, content string, image *Upload) (*post.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, ErrValidation
	}

	imageRef := ""
	if image != nil {
		ref, err := s.blobs.Put(image.Name, image.Data)
		if err != nil {
			return nil, err
		}
		imageRef = ref
	}

	p := &post.Post{
		AuthorID: author,
		Title:    title,
		Content:  content,
		Image:    imageRef,
		LikedBy:  make([]string, 0),
	}
	if err := s.posts.AddPost(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("post created", zap.String("userId", author), zap.String("postId", p.ID.Hex()))
	return p, nil
}

// List returns one feed page, newest first, optionally filtered by author.
func (s *PostService) List(ctx context.Context, author string, page, size int) ([]*post.Post, bool, error) {
	return s.posts.ListPage(ctx, storage.PostFilter{AuthorID: author}, page, size)
}

// ToggleLike adds username to the post's likedBy set, or removes it on a
// repeat call, and returns the updated post.
func (s *PostService) ToggleLike(ctx context.Context, postID, username string) (*post.Post, error) {
	p, err := s.posts.ToggleLike(ctx, postID, username)
	if err != nil {
		return nil, err
	}
	s.log.Info("like toggled",
		zap.String("postId", postID),
		zap.String("username", username),
		zap.Int("likes", p.Likes),
	)
	return p, nil
}

// Delete removes a post owned by username. The image blob is removed
// best-effort: a failure there is logged and the post is deleted anyway.
func (s *PostService) Delete(ctx context.Context, postID, username string) error {
	p, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.AuthorID != username {
		return ErrForbidden
	}
	if p.Image != "" {
		if err := s.blobs.Remove(p.Image); err != nil {
			s.log.Warn("image delete failed", zap.String("image", p.Image), zap.Error(err))
		}
	}
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return err
	}
	s.log.Info("post deleted", zap.String("postId", postID), zap.String("username", username))
	return nil
}
