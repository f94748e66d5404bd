package models

import "errors"

// ErrSessionNotFound is returned by stores when a session does not exist, or has ended.
var ErrSessionNotFound = errors.New("session not found")
