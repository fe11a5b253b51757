package services

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrSlugTaken      = errors.New("slug already in use")
	ErrProductMissing = errors.New("product does not exist")
	ErrBadStatus      = errors.New("invalid order status")
	ErrBadCreds       = errors.New("invalid email or password")
)
