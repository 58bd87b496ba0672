package cli

import (
	"fmt"
	"io"

	"github.com/yildizm/ChefSnap/internal/emoji"
)

// GetEmoji is a wrapper for the shared emoji package
func GetEmoji(key string) string {
	return emoji.GetEmoji(key)
}

// status prints a single line prefixed with the emoji for key
func status(w io.Writer, key, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", GetEmoji(key), fmt.Sprintf(format, args...))
}
