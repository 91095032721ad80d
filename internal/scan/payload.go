package scan

import (
	"encoding/json"
	"errors"
)

// CredentialRef is the structured reference carried inside a badge's
// machine-readable code.
type CredentialRef struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

// PayloadCodec converts between a CredentialRef and the opaque payload a
// gate scanner hands over. The wire format is an external contract owned by
// the issuing subsystem; the interface stays narrow so it can be swapped
// without touching verification.
type PayloadCodec interface {
	Encode(ref CredentialRef) (string, error)
	Decode(payload string) (CredentialRef, error)
}

type jsonCodec struct{}

// NewJSONCodec returns the codec for the current badge generation: a plain
// JSON object with id and kind.
func NewJSONCodec() PayloadCodec {
	return jsonCodec{}
}

func (jsonCodec) Encode(ref CredentialRef) (string, error) {
	if ref.ID == "" {
		return "", errors.New("credential ref missing id")
	}
	b, err := json.Marshal(ref)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (jsonCodec) Decode(payload string) (CredentialRef, error) {
	var ref CredentialRef
	if err := json.Unmarshal([]byte(payload), &ref); err != nil {
		return CredentialRef{}, err
	}
	if ref.ID == "" {
		return CredentialRef{}, errors.New("payload missing credential id")
	}
	return ref, nil
}
