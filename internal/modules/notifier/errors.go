package notifier

import "errors"

var (
	ErrTemplateNotFound    = errors.New("email template not found")
	ErrTemplateDisabled    = errors.New("email template disabled")
	ErrAllTransportsFailed = errors.New("all mail transports failed")
	ErrNoRecipient         = errors.New("booking has no guest email")
)
