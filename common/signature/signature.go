// Package signature implements the webhook payload signing scheme shared
// by the relay and every sender: a hex-encoded HMAC-SHA256 of the raw
// request body, carried in the X-Lotwire-Signature header. The relay
// verifies; the CLI and the seeder sign.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Header carries the signature on webhook requests.
const Header = "X-Lotwire-Signature"

// Verification failures. Callers that answer HTTP map these to distinct
// error messages; the comparison itself never reveals which byte differed.
var (
	ErrNotHex   = errors.New("signature is not valid hex")
	ErrMismatch = errors.New("signature mismatch")
)

// Signer signs and verifies webhook bodies under one shared secret.
type Signer struct {
	secret []byte
}

// New creates a Signer for the given shared secret.
func New(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns the lowercase hex HMAC-SHA256 of body.
func (s *Signer) Sign(body []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks provided, a hex signature in either case, against body.
// The comparison runs over the decoded bytes in constant time.
func (s *Signer) Verify(body []byte, provided string) error {
	providedMAC, err := hex.DecodeString(provided)
	if err != nil {
		return ErrNotHex
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(body)
	if !hmac.Equal(providedMAC, mac.Sum(nil)) {
		return ErrMismatch
	}
	return nil
}
