// Package dataurl converts between data URLs and raw bytes plus MIME type.
package dataurl

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrMalformed is returned when a string is not a base64 data URL.
var ErrMalformed = errors.New("dataurl: malformed data url")

// Encode wraps an already base64-encoded payload into a data URL.
func Encode(mimeType, base64Payload string) string {
	return "data:" + mimeType + ";base64," + base64Payload
}

// EncodeBytes encodes raw bytes into a data URL.
func EncodeBytes(mimeType string, data []byte) string {
	return Encode(mimeType, base64.StdEncoding.EncodeToString(data))
}

// Decode extracts the raw bytes and declared MIME type from a data URL.
// Strings without a comma separator or a parseable "data:<mime>;base64"
// prefix fail with ErrMalformed; Decode never panics.
func Decode(s string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(s, ",")
	if !ok {
		return nil, "", ErrMalformed
	}
	mimeType, found := strings.CutPrefix(header, "data:")
	if !found {
		return nil, "", ErrMalformed
	}
	mimeType, found = strings.CutSuffix(mimeType, ";base64")
	if !found || mimeType == "" {
		return nil, "", ErrMalformed
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", ErrMalformed
	}
	return data, mimeType, nil
}
