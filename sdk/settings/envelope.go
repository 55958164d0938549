package settings

import (
	"fmt"
	"strings"
)

// DefaultSecureMarker is the reserved key prefix that flags a settings entry
// as secure. The marker is stripped from the key at parse time.
const DefaultSecureMarker = "_secure_"

// Envelope schemes for the at-rest textual form of an encrypted value. The
// scheme names are part of the on-disk format and must not change.
const (
	SchemeRSA       = "rsa-oaep"
	SchemeRSAHybrid = "rsa-oaep+aes-gcm"
)

const (
	envelopePrefix = "ENC["
	envelopeSuffix = "]"
)

// Envelope is the parsed form of an encrypted value as it appears in a
// settings file: ENC[<scheme>,<part>(,<part>)*]. The parts are opaque base64
// strings owned by the cipher; this package only carries the textual
// convention so that parsing and rewriting can recognize encrypted values
// without depending on key material.
type Envelope struct {
	Scheme string
	Parts  []string
}

func (e Envelope) String() string {
	return envelopePrefix + e.Scheme + "," + strings.Join(e.Parts, ",") + envelopeSuffix
}

// IsEnvelope reports whether s has the textual shape of an encryption
// envelope. It is a syntactic check only; it does not validate the payload.
func IsEnvelope(s string) bool {
	_, err := ParseEnvelope(s)
	return err == nil
}

// ParseEnvelope splits an envelope string into its scheme and parts.
func ParseEnvelope(s string) (Envelope, error) {
	if !strings.HasPrefix(s, envelopePrefix) || !strings.HasSuffix(s, envelopeSuffix) {
		return Envelope{}, fmt.Errorf("not an encryption envelope")
	}
	body := strings.TrimSuffix(strings.TrimPrefix(s, envelopePrefix), envelopeSuffix)
	fields := strings.Split(body, ",")
	if len(fields) < 2 {
		return Envelope{}, fmt.Errorf("malformed encryption envelope: missing payload")
	}
	switch fields[0] {
	case SchemeRSA, SchemeRSAHybrid:
	default:
		return Envelope{}, fmt.Errorf("unknown envelope scheme %q", fields[0])
	}
	return Envelope{Scheme: fields[0], Parts: fields[1:]}, nil
}
