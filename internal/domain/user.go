// Package domain holds the canvas entities shared by every layer: room and user
// identifiers, shape kinds and draw events, with their JSON forms and client-input validation.
package domain

import "errors"

const MaxUserIDLen = 64

var (
	ErrUserIDEmpty   = errors.New("user id empty")
	ErrUserIDTooLong = errors.New("user id too long")
)

type UserID string

func (u UserID) Validate() error {
	if u == "" {
		return ErrUserIDEmpty
	}
	if len(u) > MaxUserIDLen {
		return ErrUserIDTooLong
	}
	return nil
}
