package update

import "errors"

var (
	ErrEmptyUpdate   = errors.New("update has no operators")
	ErrInvalidUpdate = errors.New("invalid update")
)
