package settlersdb

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxPasswordLength is the width of the users.password column.
const MaxPasswordLength = 20

var validate = validator.New()

// LowerNickname returns the case-insensitive key for a nickname, as stored in
// users.nickname_lc. It uses US-English case mapping rather than SQL lower(),
// which is ASCII-only on some databases.
//
// A Caser is stateful, so a new one is built on every call.
func LowerNickname(name string) string {
	return cases.Lower(language.AmericanEnglish).String(name)
}

// ValidateNickname checks that a nickname is usable as a lookup key.
func ValidateNickname(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("nickname: %w: empty", ErrValidation)
	}
	return nil
}

// ValidatePassword checks a new password against the users.password column
// bounds: 1 to MaxPasswordLength characters.
func ValidatePassword(password string) error {
	if err := validate.Var(password, fmt.Sprintf("min=1,max=%d", MaxPasswordLength)); err != nil {
		return fmt.Errorf("password: %w: length must be 1 to %d", ErrValidation, MaxPasswordLength)
	}
	return nil
}

// ValidateAccount checks an account against the users column widths.
func ValidateAccount(a Account) error {
	if err := ValidateNickname(a.Nickname); err != nil {
		return err
	}
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("account: %w: %w", ErrValidation, err)
	}
	return nil
}
