package model

import (
	"encoding/json"

	"golang.org/x/text/language"
)

// StateKey names a room state setting.
type StateKey string

// Room state settings carried by ROOMSTATE.
const (
	// StateBroadcastLang holds a language.Tag.
	StateBroadcastLang StateKey = "BROADCAST_LANG"
	// StateEmote holds a bool: emote-only mode.
	StateEmote StateKey = "EMOTE"
	// StateFollowers holds an int64: minutes a user must follow before chatting, -1 when off.
	StateFollowers StateKey = "FOLLOWERS"
	// StateR9K holds a bool: unique-chat mode.
	StateR9K StateKey = "R9K"
	// StateSlow holds an int64: seconds between messages.
	StateSlow StateKey = "SLOW"
	// StateSubscribers holds a bool: subscriber-only mode.
	StateSubscribers StateKey = "SUBSCRIBERS"
)

// RoomState maps changed settings to their new values.
type RoomState map[StateKey]any

// Bool returns a boolean setting and whether it was present.
func (rs RoomState) Bool(key StateKey) (bool, bool) {
	v, ok := rs[key].(bool)
	return v, ok
}

// Int returns a numeric setting and whether it was present.
func (rs RoomState) Int(key StateKey) (int64, bool) {
	v, ok := rs[key].(int64)
	return v, ok
}

// Language returns the broadcaster language and whether it was present.
func (rs RoomState) Language() (language.Tag, bool) {
	v, ok := rs[StateBroadcastLang].(language.Tag)
	return v, ok
}

// MarshalJSON encodes language tags by their BCP 47 string.
func (rs RoomState) MarshalJSON() ([]byte, error) {
	out := make(map[StateKey]any, len(rs))
	for k, v := range rs {
		if tag, ok := v.(language.Tag); ok {
			out[k] = tag.String()
			continue
		}
		out[k] = v
	}
	return json.Marshal(out)
}
