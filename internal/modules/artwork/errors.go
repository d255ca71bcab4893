package artwork

import "errors"

var (
	ErrNotFound       = errors.New("entity not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDownloadFailed = errors.New("image download failed")
	ErrInvalidImage   = errors.New("invalid or undecodable image")
	ErrConflict       = errors.New("asset conflict")
)
