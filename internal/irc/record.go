package irc

import (
	"strings"

	"github.com/Guliveer/twitch-chat-go/internal/model"
)

// Commands understood by the classifier.
const (
	CommandPrivmsg    = "PRIVMSG"
	CommandWhisper    = "WHISPER"
	CommandUserNotice = "USERNOTICE"
	CommandClearChat  = "CLEARCHAT"
	CommandJoin       = "JOIN"
	CommandPart       = "PART"
	CommandMode       = "MODE"
	CommandNotice     = "NOTICE"
	CommandRoomState  = "ROOMSTATE"
)

// Record is one IRC line with its identities resolved. A nil Channel, User
// or TargetUser means the line did not carry enough data to build one.
type Record struct {
	Command string
	// Tags are case-sensitive. A missing key is not the same as an empty value.
	Tags map[string]string

	Message    string
	HasMessage bool
	Payload    string
	HasPayload bool

	Channel     *model.Channel
	User        *model.User
	TargetUser  *model.User
	Permissions model.Permissions
}

// Tag returns a tag value and whether the tag was present.
func (r Record) Tag(key string) (string, bool) {
	v, ok := r.Tags[key]
	return v, ok
}

// HasTag reports whether the tag was present.
func (r Record) HasTag(key string) bool {
	_, ok := r.Tags[key]
	return ok
}

// ParseRecord tokenizes a raw line and builds its Record.
func ParseRecord(line string) (Record, error) {
	msg, err := ParseLine(line)
	if err != nil {
		return Record{}, err
	}
	return NewRecord(msg), nil
}

// NewRecord resolves identities and permissions for a parsed message.
//
// The first middle parameter is the target (a #channel or a whisper
// recipient). Remaining middle parameters form the payload, and the trailing
// parameter is the message body.
func NewRecord(msg *Message) Record {
	rec := Record{
		Command: strings.ToUpper(msg.Command),
		Tags:    msg.Tags,
	}
	if rec.Tags == nil {
		rec.Tags = map[string]string{}
	}

	rec.Message, rec.HasMessage = msg.Trailing()

	middle := msg.Middle()
	if len(middle) > 0 {
		if name, ok := strings.CutPrefix(middle[0], "#"); ok && name != "" {
			rec.Channel = model.NewChannel(rec.Tags["room-id"], name)
		}
		if len(middle) > 1 {
			rec.Payload = strings.Join(middle[1:], " ")
			rec.HasPayload = true
		}
	}

	login := rec.Tags["login"]
	if login == "" {
		login = msg.Prefix.Nick
	}
	if login != "" {
		rec.User = model.NewUser(rec.Tags["user-id"], login)
	}

	if rec.Command == CommandClearChat {
		if targetID, ok := rec.Tags["target-user-id"]; ok {
			targetLogin := rec.Tags["target-user-login"]
			if targetLogin == "" {
				targetLogin = rec.Message
			}
			if targetLogin != "" {
				rec.TargetUser = model.NewUser(targetID, targetLogin)
			}
		}
	}

	rec.Permissions = ParsePermissions(rec.Tags)

	return rec
}
