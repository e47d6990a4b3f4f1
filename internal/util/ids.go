package util

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idLength   = 10
)

// NewID returns a short random identifier made of letters and digits only,
// so it survives being quoted back by a model inside prompt markup.
func NewID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}
