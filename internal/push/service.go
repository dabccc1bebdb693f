package push

import (
	"context"
	"fmt"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/decoder"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/metrics"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/push/provider"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/relay/store"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/util"
	"github.com/pkg/errors"
)

// Service fans a pending action out to the push tokens registered for its
// identity. Delivery is best effort and never blocks or fails the request
// that stored the action.
type Service struct {
	store     *store.Store
	decoder   decoder.TransactionDecoder
	metrics   *metrics.Service
	providers []provider.Provider
}

func New(s *store.Store, dec decoder.TransactionDecoder, m *metrics.Service) *Service {
	return &Service{
		store:   s,
		decoder: dec,
		metrics: m,
	}
}

// RegisterProvider adds a delivery provider.
func (s *Service) RegisterProvider(p provider.Provider) {
	s.providers = append(s.providers, p)
}

// GetProviderCount returns the number of registered providers.
func (s *Service) GetProviderCount() int {
	return len(s.providers)
}

// NotifyAction notifies every key-side install of the identity about a newly
// stored action. Dead tokens reported by a provider are removed.
func (s *Service) NotifyAction(ctx context.Context, rec *store.ActionRecord) {
	log := util.LogFromContext(ctx)

	if len(s.providers) == 0 {
		return
	}

	tokens, err := s.store.GetTokensByWkIdentity(ctx, rec.WkIdentity)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load push tokens, skipping notification")
		return
	}

	title, body := s.notificationText(rec)

	for _, token := range tokens {
		if token.KeyToken == "" {
			continue
		}

		for _, p := range s.providers {
			err := p.Send(ctx, token.KeyToken, title, body)
			if err == nil {
				s.metrics.PushSendsTotal.WithLabelValues(string(p.GetType()), "ok").Inc()
				continue
			}

			var invalidToken *provider.InvalidTokenError
			if errors.As(err, &invalidToken) {
				s.metrics.PushSendsTotal.WithLabelValues(string(p.GetType()), "invalid_token").Inc()
				if delErr := s.store.DeleteKeyToken(ctx, token.WkIdentity, token.KeyToken); delErr != nil {
					log.Warn().Err(delErr).Msg("Failed to delete invalid push token")
				}
				continue
			}

			s.metrics.PushSendsTotal.WithLabelValues(string(p.GetType()), "error").Inc()
			log.Warn().Err(err).Str("provider", string(p.GetType())).Msg("Push delivery failed")
		}
	}
}

// notificationText builds the displayable notification. Transaction payloads
// go through the decoder collaborator; anything it cannot interpret falls
// back to a generic text.
func (s *Service) notificationText(rec *store.ActionRecord) (title string, body string) {
	switch rec.Action {
	case "tx":
		decoded, err := s.decoder.Decode(rec.Payload, rec.Chain)
		if err != nil {
			return "Transaction request", "A transaction is awaiting your confirmation."
		}

		amount := decoded.Amount
		if decoded.TokenSymbol != "" {
			amount = fmt.Sprintf("%s %s", decoded.Amount, decoded.TokenSymbol)
		}

		return "Transaction request", fmt.Sprintf("Send %s to %s?", amount, decoded.Receiver)
	case "publicnoncesrequest":
		return "Nonce exchange", "Your wallet requests fresh public nonces."
	case "evmsigningrequest":
		return "Signing request", "A message is awaiting your signature."
	case "wksigningrequest":
		return "Login request", "A site requests a signature from your key."
	}

	return "SSP request", "An action is awaiting your confirmation."
}
