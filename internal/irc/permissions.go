package irc

import (
	"strings"

	"github.com/Guliveer/twitch-chat-go/internal/model"
)

var badgePermissions = map[string]model.Permission{
	"broadcaster": model.PermissionBroadcaster,
	"moderator":   model.PermissionModerator,
	"vip":         model.PermissionVIP,
	"subscriber":  model.PermissionSubscriber,
	"founder":     model.PermissionFounder,
	"premium":     model.PermissionPrimeTurbo,
	"turbo":       model.PermissionPrimeTurbo,
	"partner":     model.PermissionPartner,
	"staff":       model.PermissionStaff,
	"admin":       model.PermissionStaff,
	"global_mod":  model.PermissionStaff,
}

// ParsePermissions derives the chat permissions of a message's author from
// the badges, mod, subscriber and user-type tags. Everyone is always set.
func ParsePermissions(tags map[string]string) model.Permissions {
	perms := model.NewPermissions(model.PermissionEveryone)

	for _, badge := range strings.Split(tags["badges"], ",") {
		name, _, _ := strings.Cut(badge, "/")
		if p, ok := badgePermissions[name]; ok {
			perms = perms.With(p)
		}
	}

	// Founders keep subscriber privileges.
	if perms.Has(model.PermissionFounder) || tags["subscriber"] == "1" {
		perms = perms.With(model.PermissionSubscriber)
	}
	if tags["mod"] == "1" {
		perms = perms.With(model.PermissionModerator)
	}
	switch tags["user-type"] {
	case "staff", "admin", "global_mod":
		perms = perms.With(model.PermissionStaff)
	case "mod":
		perms = perms.With(model.PermissionModerator)
	}

	return perms
}
