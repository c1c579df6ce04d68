package analyzer

import "errors"

var (
	ErrNoFrontImage     = errors.New("front image is required")
	ErrUnsupportedImage = errors.New("only jpg, jpeg and png images are supported")
	ErrImageTooLarge    = errors.New("image exceeds upload limit")
	ErrMissingAPIKey    = errors.New("missing GEMINI_API_KEY")
	ErrEmptyReply       = errors.New("model returned an empty reply")
	ErrInvalidReply     = errors.New("model reply is not a JSON object")
)
