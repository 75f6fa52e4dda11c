package domain

import "errors"

var (
	// ErrInvalidResponse means the generative API answered without any
	// content parts to interpret.
	ErrInvalidResponse = errors.New("invalid response from generative api")
	// ErrNoImageReturned means the response carried parts but none with
	// image data, which usually signals a safety-policy refusal.
	ErrNoImageReturned = errors.New("no image returned")
	// ErrNoProductImage rejects a generation attempt before any upload.
	ErrNoProductImage = errors.New("no product image uploaded")
	// ErrGenerationInFlight rejects a second trigger while one is running.
	ErrGenerationInFlight = errors.New("generation already in flight")
	// ErrUnsupportedImageType rejects uploads that are not images.
	ErrUnsupportedImageType = errors.New("unsupported image type")
)
