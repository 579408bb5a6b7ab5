package shortlink

import "github.com/jaevor/go-nanoid"

// Alphabet is the 62-character set codes are drawn from.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	// DefaultCodeLength is the code length used for every regular attempt.
	DefaultCodeLength = 6
	// FallbackCodeLength is used for the single extended attempt after the
	// retry budget at the default length is exhausted.
	FallbackCodeLength = 8
)

// Generator produces a random short code.
type Generator func() string

// NewGenerator creates a code generator of the given length over Alphabet.
func NewGenerator(length int) (Generator, error) {
	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, err
	}

	return Generator(gen), nil
}
