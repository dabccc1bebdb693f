package provider

import "context"

// Type identifies a push provider implementation.
type Type string

const (
	TypeFCM Type = "fcm"
)

// InvalidTokenError marks a delivery failure caused by a dead registration
// token. The caller removes the token from the store.
type InvalidTokenError struct {
	Token string
}

func (e *InvalidTokenError) Error() string {
	return "push token is no longer valid"
}

// Provider delivers a single push notification.
type Provider interface {
	GetType() Type
	Send(ctx context.Context, token string, title string, body string) error
}
