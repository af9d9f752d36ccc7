package common

import "errors"

var (
	ErrorNotFound     = errors.New("not found")
	ErrorUnauthorized = errors.New("unauthorized")

	// Token errors raised by the mock backend.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Tag lifecycle errors.
	ErrTagAlreadyActive = errors.New("tag already activated")
	ErrTagNotOwned      = errors.New("tag belongs to another user")
)
