package helpers

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL builds the Gravatar image URL for an email address, used as
// the default avatar for freshly registered users.
func GravatarURL(email string, size int) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon&s=%d", sum, size)
}
