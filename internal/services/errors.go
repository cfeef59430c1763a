package services

import "errors"

// Terminal not-found failures; handlers map these to 404 with errors.Is.
// Storage errors pass through unwrapped so callers own retry policy.
var (
  ErrPageNotFound     = errors.New("page not found")
  ErrRevisionNotFound = errors.New("revision not found")
)
