package lobby

import (
	lobby_constants "Playroom/constants/lobby"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// GenerateCode returns a random room/group code
func GenerateCode() (string, error) {
	b := make([]byte, lobby_constants.CODE_LENGTH)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	charset := lobby_constants.CODE_CHARSET
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b), nil
}

// NormalizeCode upper-cases and trims a user supplied code and checks its format
func NormalizeCode(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if !codePattern.MatchString(c) {
		return "", validationError("code %q must be %d letters or digits", code, lobby_constants.CODE_LENGTH)
	}
	return c, nil
}

// InsertWithUniqueCode generates codes until insert accepts one. insert must return
// ErrStaleWrite when the code is already taken; any other error aborts.
func InsertWithUniqueCode(ctx context.Context, insert func(code string) error) (string, error) {
	for attempt := 1; attempt <= lobby_constants.MAX_CODE_ATTEMPTS; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := GenerateCode()
		if err != nil {
			return "", err
		}
		err = insert(code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, ErrStaleWrite) {
			return "", err
		}
		logrus.WithField("code", code).Warnf("[CODE] code already taken, retrying (attempt %d)", attempt)
	}
	return "", fmt.Errorf("%w: no unique code after %d attempts", ErrConflict, lobby_constants.MAX_CODE_ATTEMPTS)
}
