package model

import "fmt"

// Channel identifies a Twitch chat room.
type Channel struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// NewChannel creates a new Channel.
func NewChannel(id, name string) *Channel {
	return &Channel{ID: id, Name: name}
}

// String returns a string representation of the channel.
func (c *Channel) String() string {
	if c == nil {
		return "Channel(nil)"
	}
	return fmt.Sprintf("Channel(id=%s, name=%s)", c.ID, c.Name)
}

// User identifies a Twitch chat user.
type User struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// NewUser creates a new User.
func NewUser(id, name string) *User {
	return &User{ID: id, Name: name}
}

// String returns a string representation of the user.
func (u *User) String() string {
	if u == nil {
		return "User(nil)"
	}
	return fmt.Sprintf("User(id=%s, name=%s)", u.ID, u.Name)
}
