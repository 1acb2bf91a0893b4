// Package qrcode renders location deep links as PNG QR codes.
package qrcode

import (
	"encoding/base64"
	"os"

	"github.com/skip2/go-qrcode"

	"github.com/kochabx/clea/errors"
)

// Level is the error correction level.
type Level = qrcode.RecoveryLevel

const (
	Low     Level = qrcode.Low
	Medium  Level = qrcode.Medium
	High    Level = qrcode.High
	Highest Level = qrcode.Highest
)

// DefaultSize is the PNG width in pixels.
const DefaultSize = 512

const dataURIPrefix = "data:image/png;base64,"

// GenerateBytes returns a PNG of content. A non-positive size uses
// DefaultSize.
func GenerateBytes(content string, size int) ([]byte, error) {
	return GenerateBytesWithLevel(content, size, Medium)
}

func GenerateBytesWithLevel(content string, size int, level Level) ([]byte, error) {
	if content == "" {
		return nil, errors.InvalidInput("qrcode: empty content")
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(content, level, size)
	if err != nil {
		return nil, errors.InvalidInput("qrcode: encode").WithCause(err)
	}
	return png, nil
}

// Generate returns the PNG as a data URI, ready for an <img> tag.
func Generate(content string, size int) (string, error) {
	return GenerateWithLevel(content, size, Medium)
}

func GenerateWithLevel(content string, size int, level Level) (string, error) {
	png, err := GenerateBytesWithLevel(content, size, level)
	if err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// GenerateToFile writes the PNG to filename.
func GenerateToFile(content string, size int, filename string) error {
	png, err := GenerateBytes(content, size)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, png, 0o644); err != nil {
		return errors.Internal("qrcode: write %s", filename).WithCause(err)
	}
	return nil
}
