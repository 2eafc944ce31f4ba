package classifier

import (
	"strconv"
	"strings"

	"github.com/Guliveer/twitch-chat-go/internal/irc"
)

// intTag parses a numeric tag, returning def when the tag is missing or
// not an integer.
func intTag(rec irc.Record, key string, def int) int {
	value, ok := rec.Tag(key)
	if !ok {
		return def
	}
	return int(parseInt64(value, int64(def)))
}

func parseInt64(value string, def int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return def
	}
	return n
}
