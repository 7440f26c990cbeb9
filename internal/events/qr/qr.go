package qr

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// ClaimURL builds the claim link encoded into an event's QR code.
func ClaimURL(clientBaseURL, eventID string) string {
	return fmt.Sprintf("%s/claim/%s", clientBaseURL, eventID)
}

// GenerateClaimQR renders the claim link as a 256px PNG and returns it as a
// data URI suitable for storing verbatim on the event record. The payload
// is a public URL, so no encryption is applied.
func GenerateClaimQR(clientBaseURL, eventID string) (string, error) {
	png, err := qrcode.Encode(ClaimURL(clientBaseURL, eventID), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
