package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/oaeproject/model-loader/internal/model"
)

// As returns the credentials of a generated user.
func As(u *model.User) *Credentials {
	return &Credentials{UserID: u.UserID, Password: u.Password}
}

// CreateUser registers u and returns the id the server assigned.
func (c *Client) CreateUser(ctx context.Context, u *model.User) (string, error) {
	return c.postForID(ctx, request{
		operation: "Create user",
		path:      "/api/user/create",
		params: url.Values{
			"username":    {u.UserID},
			"password":    {u.Password},
			"visibility":  {u.UserAccountPrivacy},
			"firstName":   {u.FirstName},
			"lastName":    {u.LastName},
			"displayName": {u.DisplayName},
		},
	})
}

// UpdateBasicInfo sets the optional profile fields of u. It does nothing if u has no basic info.
func (c *Client) UpdateBasicInfo(ctx context.Context, u *model.User, serverID string) error {
	if !u.HasBasicInfoSection {
		return nil
	}
	params := url.Values{}
	if u.HasEmail {
		params.Set("email", u.Email)
	}
	if u.HasDepartment {
		params.Set("department", u.Department)
	}
	if u.HasCollege {
		params.Set("college", u.College)
	}
	if len(params) == 0 {
		return nil
	}
	_, err := c.post(ctx, request{
		operation: "Add basic info",
		path:      "/api/user/" + url.PathEscape(serverID),
		params:    params,
		as:        As(u),
	})
	return err
}

// UploadProfilePicture uploads the picture of u. It does nothing if u has no picture.
func (c *Client) UploadProfilePicture(ctx context.Context, u *model.User, serverID string) error {
	if !u.Picture.HasPicture {
		return nil
	}
	_, err := c.post(ctx, request{
		operation: "Upload profile picture",
		path:      "/api/user/" + url.PathEscape(serverID) + "/picture",
		params:    url.Values{},
		as:        As(u),
		file:      u.Picture.Picture,
	})
	return err
}

// Follow makes follower follow the user with server id followee.
func (c *Client) Follow(ctx context.Context, follower *model.User, followee string) error {
	_, err := c.post(ctx, request{
		operation: "Follow user",
		path:      "/api/following/" + url.PathEscape(followee) + "/follow",
		params:    url.Values{},
		as:        As(follower),
	})
	return err
}

// CreatePublication registers p on behalf of its creator.
func (c *Client) CreatePublication(ctx context.Context, creator *model.User, p *model.Publication) (string, error) {
	params := url.Values{
		"displayName":     {p.Title},
		"publicationType": {p.PublicationType},
		"year":            {strconv.Itoa(p.Year)},
		"authors":         p.Authors,
	}
	if p.Abstract != "" {
		params.Set("description", p.Abstract)
	}
	if p.Journal != "" {
		params.Set("journal", p.Journal)
	}
	if p.Link != "" {
		params.Set("link", p.Link)
	}
	return c.postForID(ctx, request{
		operation: "Create publication",
		path:      "/api/publication/create",
		params:    params,
		as:        As(creator),
	})
}
