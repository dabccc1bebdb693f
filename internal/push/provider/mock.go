package provider

import (
	"context"
	"sync"
)

// SentNotification captures one Send call for test assertions.
type SentNotification struct {
	Token string
	Title string
	Body  string
}

// Mock records notifications instead of delivering them. Tokens listed as
// invalid fail with InvalidTokenError.
type Mock struct {
	providerType Type

	mu            sync.Mutex
	sent          []SentNotification
	invalidTokens map[string]struct{}
}

func NewMock(providerType Type) *Mock {
	return &Mock{
		providerType:  providerType,
		invalidTokens: make(map[string]struct{}),
	}
}

func (p *Mock) GetType() Type {
	return p.providerType
}

func (p *Mock) Send(ctx context.Context, token string, title string, body string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.invalidTokens[token]; ok {
		return &InvalidTokenError{Token: token}
	}

	p.sent = append(p.sent, SentNotification{Token: token, Title: title, Body: body})

	return nil
}

// MarkTokenInvalid makes future sends to token fail as not registered.
func (p *Mock) MarkTokenInvalid(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.invalidTokens[token] = struct{}{}
}

// GetSentNotifications returns a copy of everything sent so far.
func (p *Mock) GetSentNotifications() []SentNotification {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]SentNotification, len(p.sent))
	copy(out, p.sent)

	return out
}
