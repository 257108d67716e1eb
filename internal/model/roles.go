package model

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Role names.
const (
	Manager = "manager"
	Viewer  = "viewer"
	Member  = "member"
)

// Role is the set of users and groups granted one capability on an entity, plus the counts that
// were targeted when it was filled. Users and Groups may be shorter than the targets if the
// candidate pools ran out.
type Role struct {
	TotalUsers  int      `json:"totalUsers"`
	TotalGroups int      `json:"totalGroups"`
	Users       []string `json:"users"`
	Groups      []string `json:"groups"`
}

type RoleTable map[string]*Role

// Names returns the role names in a stable order.
func (rt RoleTable) Names() []string {
	names := maps.Keys(rt)
	slices.Sort(names)
	return names
}

// Members returns every user and group id in the table.
func (rt RoleTable) Members() []string {
	var members []string
	for _, name := range rt.Names() {
		members = append(members, rt[name].Users...)
		members = append(members, rt[name].Groups...)
	}
	return members
}

// RoleOf returns the first role (in Names order) that lists id, or "" if none does.
func (rt RoleTable) RoleOf(id string) string {
	for _, name := range rt.Names() {
		r := rt[name]
		if slices.Contains(r.Users, id) || slices.Contains(r.Groups, id) {
			return name
		}
	}
	return ""
}

// RoleHolder is implemented by entities that carry a role table.
type RoleHolder interface {
	Entity
	GetRoles() RoleTable
}
