package scan

import "go-gatepass/internal/credential"

type VerifyRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// Rejection reasons. Expired and deactivated rejections reuse the lifecycle
// status strings so the gate UI renders one vocabulary.
const (
	ReasonMalformedPayload  = "malformed_payload"
	ReasonUnknownCredential = "unknown_credential"
)

// VerificationResult is the verdict for one presented credential. On an
// expired or deactivated rejection the resolved record is still attached:
// a denial at the gate must be explainable, not silent.
type VerificationResult struct {
	OK         bool                           `json:"ok"`
	Status     string                         `json:"status,omitempty"`
	Reason     string                         `json:"reason,omitempty"`
	Credential *credential.CredentialResponse `json:"credential,omitempty"`
}
