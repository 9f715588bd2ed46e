package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/YuBaBing/FCS/blob"
	"github.com/YuBaBing/FCS/storage"
)

type fakeBlobs struct {
	puts      map[string]string
	removed   []string
	removeErr error
}

var _ blob.Store = (*fakeBlobs)(nil)

func (f *fakeBlobs) Put(originalName string, data io.Reader) (string, error) {
	body, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	ref := "/uploads/" + originalName
	if f.puts == nil {
		f.puts = map[string]string{}
	}
	f.puts[ref] = string(body)
	return ref, nil
}

func (f *fakeBlobs) Remove(ref string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, ref)
	return nil
}

func newPostService() (*PostService, *storage.InMemoryStorage, *fakeBlobs) {
	im := storage.NewInMemoryStorage()
	blobs := &fakeBlobs{}
	return NewPostService(im, blobs, zap.NewNop()), im, blobs
}

func TestCreatePost(t *testing.T) {
	svc, im, _ := newPostService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "alice", "  T  ", " C ", nil)
	require.NoError(t, err)
	require.Equal(t, "alice", p.AuthorID)
	require.Equal(t, "T", p.Title)
	require.Equal(t, "C", p.Content)
	require.Empty(t, p.Image)
	require.Equal(t, 0, p.Likes)
	require.NotNil(t, p.LikedBy)
	require.Empty(t, p.LikedBy)

	got, err := im.GetPostByID(ctx, p.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, p.Title, got.Title)
}

func TestCreatePostValidation(t *testing.T) {
	svc, _, blobs := newPostService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "   ", "C", nil)
	require.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, "alice", "T", "", nil)
	require.ErrorIs(t, err, ErrValidation)
	require.Empty(t, blobs.puts)
}

func TestCreatePostWithImage(t *testing.T) {
	svc, _, blobs := newPostService()
	ctx := context.Background()

	upload := &Upload{Name: "pic.png", Data: strings.NewReader("png-bytes")}
	p, err := svc.Create(ctx, "alice", "T", "C", upload)
	require.NoError(t, err)
	require.Equal(t, "/uploads/pic.png", p.Image)
	require.Equal(t, "png-bytes", blobs.puts["/uploads/pic.png"])
}

func TestDeletePostOwnership(t *testing.T) {
	svc, im, _ := newPostService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "alice", "T", "C", nil)
	require.NoError(t, err)

	err = svc.Delete(ctx, p.ID.Hex(), "carol")
	require.ErrorIs(t, err, ErrForbidden)
	_, err = im.GetPostByID(ctx, p.ID.Hex())
	require.NoError(t, err, "post must survive a forbidden delete")

	require.NoError(t, svc.Delete(ctx, p.ID.Hex(), "alice"))
	_, err = im.GetPostByID(ctx, p.ID.Hex())
	require.ErrorIs(t, err, storage.ErrPostNotFound)
}

func TestDeletePostMissing(t *testing.T) {
	svc, _, _ := newPostService()
	err := svc.Delete(context.Background(), "missing", "alice")
	require.ErrorIs(t, err, storage.ErrPostNotFound)
}

func TestDeletePostRemovesImage(t *testing.T) {
	svc, _, blobs := newPostService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "alice", "T", "C", &Upload{Name: "pic.png", Data: strings.NewReader("x")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID.Hex(), "alice"))
	require.Equal(t, []string{"/uploads/pic.png"}, blobs.removed)
}

func TestDeletePostSwallowsBlobFailure(t *testing.T) {
	svc, im, blobs := newPostService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "alice", "T", "C", &Upload{Name: "pic.png", Data: strings.NewReader("x")})
	require.NoError(t, err)

	blobs.removeErr = errors.New("disk on fire")
	require.NoError(t, svc.Delete(ctx, p.ID.Hex(), "alice"))
	_, err = im.GetPostByID(ctx, p.ID.Hex())
	require.ErrorIs(t, err, storage.ErrPostNotFound)
}

func TestToggleLikeRoundTrip(t *testing.T) {
	svc, _, _ := newPostService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "alice", "T", "C", nil)
	require.NoError(t, err)

	liked, err := svc.ToggleLike(ctx, p.ID.Hex(), "bob")
	require.NoError(t, err)
	require.Equal(t, 1, liked.Likes)
	require.Equal(t, []string{"bob"}, liked.LikedBy)

	unliked, err := svc.ToggleLike(ctx, p.ID.Hex(), "bob")
	require.NoError(t, err)
	require.Equal(t, 0, unliked.Likes)
	require.Empty(t, unliked.LikedBy)

	_, err = svc.ToggleLike(ctx, "missing", "bob")
	require.ErrorIs(t, err, storage.ErrPostNotFound)
}

func TestListDelegatesFilter(t *testing.T) {
	svc, _, _ := newPostService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, "alice", "T", "C", nil)
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "bob", "T", "C", nil)
	require.NoError(t, err)

	posts, hasMore, err := svc.List(ctx, "alice", 1, 2)
	require.NoError(t, err)
	require.True(t, hasMore)
	require.Len(t, posts, 2)
	for _, p := range posts {
		require.Equal(t, "alice", p.AuthorID)
	}
}
