package hack

import "errors"

var (
	ErrPermissionDenied = errors.New("not enough permissions")
	ErrUserNotFound     = errors.New("user no longer exists")
	ErrInvalidCursor    = errors.New("invalid cursor")
	ErrCorruptPatch     = errors.New("pending edit cannot be decoded")
)
