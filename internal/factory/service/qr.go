package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrPayload is what scanners read back from a label's QR code
type qrPayload struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
}

const qrSize = 256

// EncodeLabelQR renders the QR code for a label as a base64 PNG data URI,
// ready for inline display.
func EncodeLabelQR(id int64, createdAt string) (string, error) {
	payload, err := json.Marshal(qrPayload{ID: id, CreatedAt: createdAt})
	if err != nil {
		return "", err
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
