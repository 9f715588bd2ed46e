package post

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a single feed entry. Likes must always equal len(LikedBy).
type Post struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorID  string             `json:"userId" bson:"userId"`
	Title     string             `json:"title" bson:"title"`
	Content   string             `json:"content" bson:"content"`
	Image     string             `json:"image" bson:"image"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	Likes     int                `json:"likes" bson:"likes"`
	LikedBy   []string           `json:"likedBy" bson:"likedBy"`
}

func (p *Post) LikedByUser(username string) bool {
	for _, u := range p.LikedBy {
		if u == username {
			return true
		}
	}
	return false
}

func (p *Post) Clone() *Post {
	cp := *p
	cp.LikedBy = append([]string(nil), p.LikedBy...)
	return &cp
}
