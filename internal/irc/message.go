// Package irc parses raw Twitch IRC lines and turns them into protocol
// records with resolved channel and user identities.
package irc

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyLine is returned for blank input.
	ErrEmptyLine = errors.New("irc: empty line")
	// ErrMissingCommand is returned when a line has tags or a prefix but no command.
	ErrMissingCommand = errors.New("irc: missing command")
)

// Prefix is the message source, nick!user@host.
type Prefix struct {
	Nick string
	User string
	Host string
}

// Message is a tokenized IRC line. Tag values are kept in their wire form.
type Message struct {
	Raw     string
	Tags    map[string]string
	Prefix  Prefix
	Command string
	Params  []string
	// HasTrailing is set when the last element of Params was sent as a
	// trailing (colon-prefixed) parameter.
	HasTrailing bool
}

// Trailing returns the trailing parameter, if one was sent.
func (m *Message) Trailing() (string, bool) {
	if !m.HasTrailing || len(m.Params) == 0 {
		return "", false
	}
	return m.Params[len(m.Params)-1], true
}

// Middle returns the parameters before the trailing one.
func (m *Message) Middle() []string {
	if m.HasTrailing && len(m.Params) > 0 {
		return m.Params[:len(m.Params)-1]
	}
	return m.Params
}

// ParseLine tokenizes a single IRC line.
func ParseLine(line string) (*Message, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil, ErrEmptyLine
	}

	msg := &Message{
		Raw:  line,
		Tags: make(map[string]string),
	}
	rest := line

	if strings.HasPrefix(rest, "@") {
		rawTags, after, found := strings.Cut(rest[1:], " ")
		if !found {
			return nil, ErrMissingCommand
		}
		msg.Tags = parseTags(rawTags)
		rest = strings.TrimLeft(after, " ")
	}

	if strings.HasPrefix(rest, ":") {
		rawPrefix, after, found := strings.Cut(rest[1:], " ")
		if !found {
			return nil, ErrMissingCommand
		}
		msg.Prefix = parsePrefix(rawPrefix)
		rest = strings.TrimLeft(after, " ")
	}

	command, rest, _ := strings.Cut(rest, " ")
	if command == "" {
		return nil, ErrMissingCommand
	}
	msg.Command = command

	for rest != "" {
		rest = strings.TrimLeft(rest, " ")
		if rest == "" {
			break
		}
		if rest[0] == ':' {
			msg.Params = append(msg.Params, rest[1:])
			msg.HasTrailing = true
			break
		}
		var param string
		param, rest, _ = strings.Cut(rest, " ")
		msg.Params = append(msg.Params, param)
	}

	return msg, nil
}

func parseTags(raw string) map[string]string {
	tags := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		tags[key] = value
	}
	return tags
}

func parsePrefix(raw string) Prefix {
	var p Prefix
	switch {
	case strings.Contains(raw, "!"):
		var userHost string
		p.Nick, userHost, _ = strings.Cut(raw, "!")
		p.User, p.Host, _ = strings.Cut(userHost, "@")
	case strings.Contains(raw, "@"):
		p.Nick, p.Host, _ = strings.Cut(raw, "@")
	case strings.Contains(raw, "."):
		p.Host = raw
	default:
		p.Nick = raw
	}
	return p
}
