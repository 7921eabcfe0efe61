package ports

import "context"

// PushMessage is a single push notification handed to the delivery backend.
type PushMessage struct {
	// Token is the recipient's registered device token.
	Token string

	// Title and Body are the visible notification content.
	Title string
	Body  string

	// Data is the opaque payload delivered alongside the notification
	// (notification type, dispatch id, recipient id).
	Data map[string]string

	// HighPriority requests elevated delivery priority from the backend.
	HighPriority bool
}

// PushSender sends a single push message to one recipient token.
// Implementations must bound the call with the context deadline; a timed-out
// delivery is a failure, never an indefinite pending state.
type PushSender interface {
	// Send delivers the message and returns the provider response on
	// success. Errors are recorded on the notification by the caller; the
	// sender itself never retries.
	Send(ctx context.Context, msg PushMessage) (string, error)
}
