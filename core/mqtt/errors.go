package mqtt

import "errors"

// ErrPublishFailed is returned when an event could not be delivered after all retries.
var ErrPublishFailed = errors.New("mqtt publish failed")

// ErrMissingRunID is returned for events that cannot be routed to a topic.
var ErrMissingRunID = errors.New("run event without run id")
