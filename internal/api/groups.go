package api

import (
	"context"
	"net/url"

	"github.com/oaeproject/model-loader/internal/model"
)

// CreateGroup creates g with its user roles. Group members are added separately by
// SetGroupMembers once every group of the batch exists.
func (c *Client) CreateGroup(ctx context.Context, creator *model.User, g *model.Group) (string, error) {
	params := url.Values{
		"displayName": {g.Name},
		"visibility":  {g.Visibility},
		"joinable":    {g.JoinPolicy},
	}
	if g.HasDescription {
		params.Set("description", g.Description)
	}
	addRoleUsers(params, g.Roles, map[string]string{model.Manager: "managers", model.Member: "members"})
	return c.postForID(ctx, request{
		operation: "Create group",
		path:      "/api/group/create",
		params:    params,
		as:        As(creator),
	})
}

// SetGroupMembers grants each principal in members the mapped role on the group with server id
// groupID. It does nothing for an empty map.
func (c *Client) SetGroupMembers(ctx context.Context, creator *model.User, groupID string, members map[string]string) error {
	if len(members) == 0 {
		return nil
	}
	params := url.Values{}
	for principal, role := range members {
		params.Set(principal, role)
	}
	_, err := c.post(ctx, request{
		operation: "Add group members",
		path:      "/api/group/" + url.PathEscape(groupID) + "/members",
		params:    params,
		as:        As(creator),
	})
	return err
}

// addRoleUsers adds the user and group ids of each role under its form field name.
func addRoleUsers(params url.Values, roles model.RoleTable, fields map[string]string) {
	for _, name := range roles.Names() {
		field, ok := fields[name]
		if !ok {
			continue
		}
		for _, id := range roles[name].Users {
			params.Add(field, id)
		}
	}
}

func addRoleGroups(params url.Values, roles model.RoleTable, fields map[string]string) {
	for _, name := range roles.Names() {
		field, ok := fields[name]
		if !ok {
			continue
		}
		for _, id := range roles[name].Groups {
			params.Add(field, id)
		}
	}
}
