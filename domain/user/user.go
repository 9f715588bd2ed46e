package user

import "time"

// User is a registered account. The password field holds a bcrypt hash,
// never the raw secret, and is excluded from JSON output.
type User struct {
	Username  string    `json:"username" bson:"username"`
	Password  string    `json:"-" bson:"password"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
