package loader

import (
	"context"

	"github.com/oaeproject/model-loader/internal/api"
	"github.com/oaeproject/model-loader/internal/model"
)

// EntityClient is the server surface the pipeline loads entities through. Every create call
// returns the id the server assigned. Role and member ids passed in must already be server ids.
type EntityClient interface {
	CreateUser(ctx context.Context, u *model.User) (string, error)
	UpdateBasicInfo(ctx context.Context, u *model.User, serverID string) error
	UploadProfilePicture(ctx context.Context, u *model.User, serverID string) error
	Follow(ctx context.Context, follower *model.User, followee string) error
	CreatePublication(ctx context.Context, creator *model.User, p *model.Publication) (string, error)
	CreateGroup(ctx context.Context, creator *model.User, g *model.Group) (string, error)
	SetGroupMembers(ctx context.Context, creator *model.User, groupID string, members map[string]string) error
	CreateContent(ctx context.Context, creator *model.User, item *model.Content) (string, error)
	CreateDiscussion(ctx context.Context, creator *model.User, d *model.Discussion) (string, error)
	PostMessage(ctx context.Context, author *model.User, t model.EntityType, resourceID, body, replyTo string) (string, error)
}

var _ EntityClient = (*api.Client)(nil)
