package types

import (
	"context"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

const (
	identityPattern  = `^[a-zA-Z0-9_:-]+$`
	maxIdentityLen   = 200
	maxTokenLen      = 500
	publicKeyPattern = `^[0-9a-fA-F]{66}$`
)

// PostSyncPayload is the key-side pairing handshake body.
type PostSyncPayload struct {
	AuthFields

	Chain            string `json:"chain"`
	WalletIdentity   string `json:"walletIdentity"`
	KeyXpub          string `json:"keyXpub"`
	WkIdentity       string `json:"wkIdentity"`
	GeneratedAddress string `json:"generatedAddress,omitempty"`
	PublicNonces     string `json:"publicNonces,omitempty"`
}

// Validate validates PostSyncPayload
func (m *PostSyncPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.RequiredString("chain", "body", m.Chain); err != nil {
		res = append(res, err)
	}

	res = append(res, validateIdentityField("walletIdentity", m.WalletIdentity, true)...)
	res = append(res, validateIdentityField("wkIdentity", m.WkIdentity, true)...)

	if err := validate.RequiredString("keyXpub", "body", m.KeyXpub); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *PostSyncPayload) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// MarshalBinary interface implementation
func (m *PostSyncPayload) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *PostSyncPayload) UnmarshalBinary(b []byte) error {
	var res PostSyncPayload
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}

// PostActionPayload carries the single outstanding cross-device request for
// a wkIdentity.
type PostActionPayload struct {
	AuthFields

	Chain      string                   `json:"chain"`
	Path       string                   `json:"path,omitempty"`
	WkIdentity string                   `json:"wkIdentity"`
	Action     string                   `json:"action"`
	Payload    string                   `json:"payload"`
	Utxos      []map[string]interface{} `json:"utxos,omitempty"`
}

// Validate validates PostActionPayload
func (m *PostActionPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.RequiredString("chain", "body", m.Chain); err != nil {
		res = append(res, err)
	}

	res = append(res, validateIdentityField("wkIdentity", m.WkIdentity, true)...)

	if err := validate.RequiredString("action", "body", m.Action); err != nil {
		res = append(res, err)
	}

	if err := validate.RequiredString("payload", "body", m.Payload); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *PostActionPayload) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// MarshalBinary interface implementation
func (m *PostActionPayload) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *PostActionPayload) UnmarshalBinary(b []byte) error {
	var res PostActionPayload
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}

// PostTokenPayload registers a push delivery token for an identity.
type PostTokenPayload struct {
	AuthFields

	WkIdentity  string `json:"wkIdentity"`
	KeyToken    string `json:"keyToken,omitempty"`
	WalletToken string `json:"walletToken,omitempty"`
}

// Validate validates PostTokenPayload
func (m *PostTokenPayload) Validate(formats strfmt.Registry) error {
	var res []error

	res = append(res, validateIdentityField("wkIdentity", m.WkIdentity, true)...)

	if m.KeyToken == "" && m.WalletToken == "" {
		res = append(res, errors.Required("keyToken", "body", nil))
	}

	if err := validate.MaxLength("keyToken", "body", m.KeyToken, maxTokenLen); err != nil {
		res = append(res, err)
	}

	if err := validate.MaxLength("walletToken", "body", m.WalletToken, maxTokenLen); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// ContextValidate validates this payload based on context it is used
func (m *PostTokenPayload) ContextValidate(ctx context.Context, formats strfmt.Registry) error {
	return nil
}

// MarshalBinary interface implementation
func (m *PostTokenPayload) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *PostTokenPayload) UnmarshalBinary(b []byte) error {
	var res PostTokenPayload
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}

func validateIdentityField(name, value string, required bool) []error {
	var res []error

	if required {
		if err := validate.RequiredString(name, "body", value); err != nil {
			return append(res, err)
		}
	} else if value == "" {
		return nil
	}

	if err := validate.MaxLength(name, "body", value, maxIdentityLen); err != nil {
		res = append(res, err)
	}

	if err := validate.Pattern(name, "body", value, identityPattern); err != nil {
		res = append(res, err)
	}

	return res
}
