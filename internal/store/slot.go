package store

import (
	"strings"
	"unicode"

	"github.com/tomz197/meteors/internal/config"
)

// UserPrefix starts every per-user slot name.
const UserPrefix = "best:"

// UserSlot returns the slot name for an SSH user. Names are trimmed to
// printable runes and cut to config.MaxUsernameLength.
func UserSlot(user string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return r
		}
		return -1
	}, user)
	if runes := []rune(name); len(runes) > config.MaxUsernameLength {
		name = string(runes[:config.MaxUsernameLength])
	}
	if name == "" {
		name = "anonymous"
	}
	return UserPrefix + name
}
