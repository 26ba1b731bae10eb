package codes

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// RenderQR encodes data as a size x size PNG.
func RenderQR(data string, size int) ([]byte, error) {
	png, err := qrcode.Encode(data, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}

// RenderQRTerminal renders data with half-block characters for a terminal.
func RenderQRTerminal(data string) (string, error) {
	q, err := qrcode.New(data, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to render qr code: %w", err)
	}
	return q.ToSmallString(false), nil
}
