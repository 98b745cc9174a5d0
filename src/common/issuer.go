package common

import (
	"apts/src/config"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

var signingKey []byte

// InitIssuer resolves the signing secret once at boot. A missing or
// malformed secret must stop the process here, never on a request path.
func InitIssuer() {
	keyEnv := os.Getenv("TICKET_SIGNING_SECRET")
	if keyEnv == "" {
		log.Fatalln("TICKET_SIGNING_SECRET is not set")
	}
	key, err := hex.DecodeString(keyEnv)
	if err != nil {
		log.Fatalf("TICKET_SIGNING_SECRET is not valid hex: %s\n", err.Error())
	}
	signingKey = key
}

// NewSigningKey replaces the key, for tests.
func NewSigningKey(key []byte) {
	signingKey = key
}

// TicketClaims is the record embedded in the QR payload.
type TicketClaims struct {
	TicketCode string     `json:"ticket_code"`
	BookingRef string     `json:"booking_ref"`
	UnitDate   *time.Time `json:"unit_date,omitempty"`
	Park       string     `json:"park"`
	IssuedAt   int64      `json:"issued_at"`
}

func NewTicketCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "PKT-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

func NewBookingReference() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "BKG-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

// IssueTicket mints a ticket code plus its signed QR payload. Encoding is
// base64url(json) + "." + hex(hmac-sha256).
func IssueTicket(bookingRef string, unitDate *time.Time) (string, string, error) {
	code, err := NewTicketCode()
	if err != nil {
		return "", "", err
	}
	claims := TicketClaims{
		TicketCode: code,
		BookingRef: bookingRef,
		UnitDate:   unitDate,
		Park:       config.ParkName(),
		IssuedAt:   time.Now().Unix(),
	}
	raw, err := json.Marshal(&claims)
	if err != nil {
		return "", "", err
	}
	mac := hmac.New(sha256.New, signingKey)
	mac.Write(raw)
	payload := fmt.Sprintf("%s.%s",
		base64.RawURLEncoding.EncodeToString(raw),
		hex.EncodeToString(mac.Sum(nil)))
	return code, payload, nil
}

// VerifyPayload checks the signature and returns the embedded claims.
func VerifyPayload(payload string) (*TicketClaims, error) {
	parts := strings.Split(payload, ".")
	if len(parts) != 2 {
		return nil, ErrBadSignature
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrBadSignature
	}
	sig, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, ErrBadSignature
	}
	mac := hmac.New(sha256.New, signingKey)
	mac.Write(raw)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, ErrBadSignature
	}
	var claims TicketClaims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, ErrBadSignature
	}
	return &claims, nil
}
