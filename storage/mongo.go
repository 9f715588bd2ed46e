package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/YuBaBing/FCS/domain/post"
	"github.com/YuBaBing/FCS/domain/user"
)

type MongoStorage struct {
	Users *mongo.Collection
	Posts *mongo.Collection
}

// EnsureIndexes creates the unique username index backing registration.
func (m *MongoStorage) EnsureIndexes(ctx context.Context) error {
	unique := true
	_, err := m.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: &options.IndexOptions{Unique: &unique},
	})
	return err
}

func (m *MongoStorage) AddUser(ctx context.Context, u *user.User) error {
	err := m.Users.FindOne(ctx, bson.M{"username": u.Username}).Err()
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	u.CreatedAt = time.Now().UTC()
	_, err = m.Users.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrUserExists
	}
	return err
}

func (m *MongoStorage) GetUser(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	err := m.Users.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (m *MongoStorage) AddPost(ctx context.Context, p *post.Post) error {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	if p.LikedBy == nil {
		p.LikedBy = make([]string, 0)
	}
	_, err := m.Posts.InsertOne(ctx, p)
	return err
}

func (m *MongoStorage) GetPostByID(ctx context.Context, postID string) (*post.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrPostNotFound
	}
	var p post.Post
	err = m.Posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *MongoStorage) ListPage(ctx context.Context, filter PostFilter, page, size int) ([]*post.Post, bool, error) {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultSize
	}
	query := bson.M{}
	if filter.AuthorID != "" {
		query["userId"] = filter.AuthorID
	}
	skip := int64((page - 1) * size)

	opt := options.Find()
	opt.SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	opt.SetSkip(skip)
	opt.SetLimit(int64(size))

	cur, err := m.Posts.Find(ctx, query, opt)
	if err != nil {
		return nil, false, err
	}
	posts := make([]*post.Post, 0, size)
	for cur.Next(ctx) {
		var p post.Post
		if err := cur.Decode(&p); err != nil {
			_ = cur.Close(ctx)
			return nil, false, err
		}
		posts = append(posts, &p)
	}
	if err := cur.Err(); err != nil {
		return nil, false, err
	}

	total, err := m.Posts.CountDocuments(ctx, query)
	if err != nil {
		return nil, false, err
	}
	hasMore := skip+int64(len(posts)) < total
	return posts, hasMore, nil
}

// ToggleLike flips the like as a single conditional document update, so on a
// concurrent double-submission the counter and the likedBy set still move
// together. One of the two filtered updates matches depending on current
// membership; if neither matches the post is gone or the membership flipped
// mid-flight, in which case the loop re-resolves.
func (m *MongoStorage) ToggleLike(ctx context.Context, postID, username string) (*post.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrPostNotFound
	}
	opt := options.FindOneAndUpdate()
	after := options.After
	opt.ReturnDocument = &after

	for {
		var p post.Post
		err = m.Posts.FindOneAndUpdate(ctx,
			bson.M{"_id": oid, "likedBy": username},
			bson.D{
				{Key: "$pull", Value: bson.M{"likedBy": username}},
				{Key: "$inc", Value: bson.M{"likes": -1}},
			},
			opt).Decode(&p)
		if err == nil {
			return &p, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}

		err = m.Posts.FindOneAndUpdate(ctx,
			bson.M{"_id": oid, "likedBy": bson.M{"$ne": username}},
			bson.D{
				{Key: "$addToSet", Value: bson.M{"likedBy": username}},
				{Key: "$inc", Value: bson.M{"likes": 1}},
			},
			opt).Decode(&p)
		if err == nil {
			return &p, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}

		if err = m.Posts.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
			return nil, ErrPostNotFound
		}
	}
}

func (m *MongoStorage) SavePost(ctx context.Context, p *post.Post) error {
	res, err := m.Posts.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (m *MongoStorage) DeletePost(ctx context.Context, postID string) error {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return ErrPostNotFound
	}
	res, err := m.Posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}
