package service

import "errors"

var ErrValidation = errors.New("missing required fields")
var ErrWrongPassword = errors.New("wrong password")
var ErrForbidden = errors.New("forbidden access")
