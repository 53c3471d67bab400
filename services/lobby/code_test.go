package lobby

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeFormat(t *testing.T) {
	format := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, format, code)
	}
}

func TestNormalizeCode(t *testing.T) {
	code, err := NormalizeCode("  ab12cd ")
	require.NoError(t, err)
	assert.Equal(t, "AB12CD", code)

	for _, bad := range []string{"", "ABC", "ABCDEFG", "AB-12C", "ÄBC123"} {
		_, err := NormalizeCode(bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestInsertWithUniqueCodeRetriesStaleWrites(t *testing.T) {
	attempts := 0
	code, err := InsertWithUniqueCode(context.Background(), func(code string) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("%w: code %s taken", ErrStaleWrite, code)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Equal(t, 3, attempts)
}

func TestInsertWithUniqueCodeGivesUp(t *testing.T) {
	attempts := 0
	_, err := InsertWithUniqueCode(context.Background(), func(string) error {
		attempts++
		return ErrStaleWrite
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 10, attempts)
}

func TestInsertWithUniqueCodeStopsOnOtherErrors(t *testing.T) {
	boom := errors.New("disk full")
	attempts := 0
	_, err := InsertWithUniqueCode(context.Background(), func(string) error {
		attempts++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = InsertWithUniqueCode(ctx, func(string) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrorCodesRoundTrip(t *testing.T) {
	for _, err := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrAlreadyMember, ErrFull,
		ErrAuthorization, ErrNotReady, ErrInvalidTransition, ErrNotJoinable, ErrUnavailable} {
		back := ErrorFromCode(ErrorCode(err), "server said so")
		assert.ErrorIs(t, back, err)
	}
	assert.Equal(t, "ALREADY_MEMBER", ErrorCode(fmt.Errorf("join: %w", ErrAlreadyMember)))
	assert.Equal(t, "INTERNAL", ErrorCode(errors.New("boom")))
	assert.Same(t, ErrFull, ErrorFromCode("CAPACITY", ""))
}
