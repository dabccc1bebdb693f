package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/pkg/errors"
)

// FCM delivers notifications through the Firebase Cloud Messaging HTTP API.
type FCM struct {
	endpoint  string
	serverKey string
	client    *http.Client
}

func NewFCM(cfg config.Push) (*FCM, error) {
	if cfg.FCMServerKey == "" {
		return nil, errors.New("FCM server key is not configured")
	}

	return &FCM{
		endpoint:  cfg.FCMEndpoint,
		serverKey: cfg.FCMServerKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (p *FCM) GetType() Type {
	return TypeFCM
}

type fcmRequest struct {
	To           string          `json:"to"`
	Notification fcmNotification `json:"notification"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		Error string `json:"error"`
	} `json:"results"`
}

func (p *FCM) Send(ctx context.Context, token string, title string, body string) error {
	payload, err := json.Marshal(fcmRequest{
		To: token,
		Notification: fcmNotification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal FCM request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to build FCM request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+p.serverKey)

	res, err := p.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to call FCM")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return errors.Errorf("FCM responded with status %d", res.StatusCode)
	}

	var parsed fcmResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return errors.Wrap(err, "failed to decode FCM response")
	}

	for _, result := range parsed.Results {
		switch result.Error {
		case "NotRegistered", "InvalidRegistration":
			return &InvalidTokenError{Token: token}
		}
	}

	if parsed.Failure > 0 {
		return errors.New("FCM reported delivery failure")
	}

	return nil
}
