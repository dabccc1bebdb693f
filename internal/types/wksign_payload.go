package types

import (
	"context"
	"strings"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// WkSignRequesterInfo describes the origin requesting a signature. All
// fields are optional but length-bounded; the icon must be served over HTTPS.
type WkSignRequesterInfo struct {
	Origin      string `json:"origin,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
	Description string `json:"description,omitempty"`
	IconURL     string `json:"iconUrl,omitempty"`
}

// Validate validates WkSignRequesterInfo
func (m *WkSignRequesterInfo) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.MaxLength("origin", "body", m.Origin, 100); err != nil {
		res = append(res, err)
	}

	if err := validate.MaxLength("siteName", "body", m.SiteName, 100); err != nil {
		res = append(res, err)
	}

	if err := validate.MaxLength("description", "body", m.Description, 500); err != nil {
		res = append(res, err)
	}

	if err := validate.MaxLength("iconUrl", "body", m.IconURL, 500); err != nil {
		res = append(res, err)
	}

	if m.IconURL != "" && !strings.HasPrefix(m.IconURL, "https://") {
		res = append(res, errors.InvalidType("iconUrl", "body", "https URL", m.IconURL))
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *WkSignRequesterInfo) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// PostSignPayload is a one-shot origin-bound signing request ("wk-sign").
// The message is not a JSON envelope but a hex-encoded plaintext challenge
// whose leading 13 characters are a millisecond timestamp.
type PostSignPayload struct {
	Message         string               `json:"message"`
	WalletSignature string               `json:"walletSignature"`
	WalletPubKey    string               `json:"walletPubKey"`
	WitnessScript   string               `json:"witnessScript"`
	WkIdentity      string               `json:"wkIdentity"`
	RequestID       string               `json:"requestId"`
	RequesterInfo   *WkSignRequesterInfo `json:"requesterInfo,omitempty"`
}

// Validate validates PostSignPayload
func (m *PostSignPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.RequiredString("message", "body", m.Message); err != nil {
		res = append(res, err)
	}

	if err := validate.RequiredString("walletSignature", "body", m.WalletSignature); err != nil {
		res = append(res, err)
	}

	if err := validate.RequiredString("walletPubKey", "body", m.WalletPubKey); err != nil {
		res = append(res, err)
	} else if err := validate.Pattern("walletPubKey", "body", m.WalletPubKey, publicKeyPattern); err != nil {
		res = append(res, err)
	}

	if err := validate.RequiredString("witnessScript", "body", m.WitnessScript); err != nil {
		res = append(res, err)
	} else if err := validate.Pattern("witnessScript", "body", m.WitnessScript, `^[0-9a-fA-F]+$`); err != nil {
		res = append(res, err)
	}

	res = append(res, validateIdentityField("wkIdentity", m.WkIdentity, true)...)

	if err := validate.RequiredString("requestId", "body", m.RequestID); err != nil {
		res = append(res, err)
	}

	if m.RequesterInfo != nil {
		if err := m.RequesterInfo.Validate(formats); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *PostSignPayload) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// MarshalBinary interface implementation
func (m *PostSignPayload) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *PostSignPayload) UnmarshalBinary(b []byte) error {
	var res PostSignPayload
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}
