package storage

import "errors"

var ErrPostNotFound = errors.New("post not found")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("username already exists")
var ErrCacheMiss = errors.New("cache miss")
