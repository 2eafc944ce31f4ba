package model

import (
	"encoding/json"
	"strings"
)

// Permission is a single chat privilege derived from a user's badges.
type Permission uint16

const (
	// PermissionEveryone is granted to every chatter.
	PermissionEveryone Permission = 1 << iota
	// PermissionSubscriber is granted to channel subscribers (including founders).
	PermissionSubscriber
	// PermissionFounder is granted to early subscribers carrying the founder badge.
	PermissionFounder
	// PermissionVIP is granted to channel VIPs.
	PermissionVIP
	// PermissionModerator is granted to channel moderators.
	PermissionModerator
	// PermissionBroadcaster is granted to the channel owner.
	PermissionBroadcaster
	// PermissionPrimeTurbo is granted to Prime Gaming and Turbo users.
	PermissionPrimeTurbo
	// PermissionPartner is granted to verified partners.
	PermissionPartner
	// PermissionStaff is granted to Twitch staff and admins.
	PermissionStaff
)

var permissionNames = []struct {
	perm Permission
	name string
}{
	{PermissionEveryone, "EVERYONE"},
	{PermissionSubscriber, "SUBSCRIBER"},
	{PermissionFounder, "FOUNDER"},
	{PermissionVIP, "VIP"},
	{PermissionModerator, "MODERATOR"},
	{PermissionBroadcaster, "BROADCASTER"},
	{PermissionPrimeTurbo, "PRIME_TURBO"},
	{PermissionPartner, "PARTNER"},
	{PermissionStaff, "STAFF"},
}

// String returns the name of a single permission.
func (p Permission) String() string {
	for _, pn := range permissionNames {
		if pn.perm == p {
			return pn.name
		}
	}
	return "UNKNOWN"
}

// Permissions is a set of Permission values.
type Permissions Permission

// NewPermissions builds a set from the given permissions.
func NewPermissions(perms ...Permission) Permissions {
	var set Permissions
	for _, p := range perms {
		set |= Permissions(p)
	}
	return set
}

// Has reports whether the set contains p.
func (ps Permissions) Has(p Permission) bool {
	return ps&Permissions(p) != 0
}

// With returns a copy of the set with p added.
func (ps Permissions) With(p Permission) Permissions {
	return ps | Permissions(p)
}

// List returns the names of all permissions in the set, lowest bit first.
func (ps Permissions) List() []string {
	names := make([]string, 0, len(permissionNames))
	for _, pn := range permissionNames {
		if ps.Has(pn.perm) {
			names = append(names, pn.name)
		}
	}
	return names
}

// String returns the permission names joined by "|".
func (ps Permissions) String() string {
	return strings.Join(ps.List(), "|")
}

// MarshalJSON encodes the set as a list of permission names.
func (ps Permissions) MarshalJSON() ([]byte, error) {
	return json.Marshal(ps.List())
}
