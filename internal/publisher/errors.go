package publisher

import "errors"

var (
	// ErrAuth means the remote session could not be established. It is fatal.
	ErrAuth = errors.New("authentication failed")
	// ErrUpload means an attachment upload failed; the status was not created.
	ErrUpload = errors.New("media upload failed")
	// ErrPublish means the status could not be created or verified.
	ErrPublish = errors.New("publish failed")
)
