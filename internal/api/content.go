package api

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/oaeproject/model-loader/internal/model"
)

var contentRoleFields = map[string]string{model.Manager: "managers", model.Viewer: "viewers"}

// CreateContent creates a link, uploads a file or creates a collaborative document, depending on
// the subtype of item. Role ids must already be server ids.
func (c *Client) CreateContent(ctx context.Context, creator *model.User, item *model.Content) (string, error) {
	params := url.Values{
		"resourceSubType": {string(item.ResourceSubType)},
		"displayName":     {item.Name},
		"visibility":      {item.Visibility},
	}
	if item.HasDescription {
		params.Set("description", item.Description)
	}
	addRoleUsers(params, item.Roles, contentRoleFields)
	addRoleGroups(params, item.Roles, contentRoleFields)

	req := request{
		operation: "Create " + string(item.ResourceSubType),
		path:      "/api/content/create",
		params:    params,
		as:        As(creator),
	}
	switch item.ResourceSubType {
	case model.Link:
		params.Set("link", item.Link)
	case model.File:
		req.file = item.Path
		req.fileName = item.Filename
	case model.Collabdoc:
	default:
		return "", errors.Errorf("unknown content subtype %q", item.ResourceSubType)
	}
	return c.postForID(ctx, req)
}

// PostMessage posts body on the content item or discussion with server id resourceID. replyTo is
// the server id of the message being answered, or "" for a top-level message. It returns the
// server id of the new message.
func (c *Client) PostMessage(ctx context.Context, author *model.User, t model.EntityType, resourceID, body, replyTo string) (string, error) {
	var path string
	switch t {
	case model.ContentItems:
		path = "/api/content/" + url.PathEscape(resourceID) + "/messages"
	case model.Discussions:
		path = "/api/discussion/" + url.PathEscape(resourceID) + "/messages"
	default:
		return "", errors.Errorf("%s do not take messages", t)
	}
	params := url.Values{"body": {body}}
	if replyTo != "" {
		params.Set("replyTo", replyTo)
	}
	return c.postForID(ctx, request{
		operation: "Post message",
		path:      path,
		params:    params,
		as:        As(author),
	})
}

var discussionRoleFields = map[string]string{model.Manager: "managers", model.Member: "members"}

func (c *Client) CreateDiscussion(ctx context.Context, creator *model.User, d *model.Discussion) (string, error) {
	params := url.Values{
		"displayName": {d.Name},
		"description": {d.Description},
		"visibility":  {d.Visibility},
	}
	addRoleUsers(params, d.Roles, discussionRoleFields)
	addRoleGroups(params, d.Roles, discussionRoleFields)
	return c.postForID(ctx, request{
		operation: "Create discussion",
		path:      "/api/discussion/create",
		params:    params,
		as:        As(creator),
	})
}
