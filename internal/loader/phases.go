package loader

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/oaeproject/model-loader/internal/model"
)

func (p *Pipeline) loadUsers(ctx context.Context, b *model.Batch) error {
	for _, u := range b.Users {
		if err := ctx.Err(); err != nil {
			return err
		}
		serverID, err := p.client.CreateUser(ctx, u)
		if err != nil {
			p.failed(b, model.Users, u.ID, true, err)
			continue
		}
		p.created(model.Users, b.Index, u, serverID)
		if err := p.client.UpdateBasicInfo(ctx, u, serverID); err != nil {
			p.failed(b, model.Users, u.ID, false, err)
		}
		if err := p.client.UploadProfilePicture(ctx, u, serverID); err != nil {
			p.failed(b, model.Users, u.ID, false, err)
		}
	}
	return nil
}

// loadFollowing is skipped for users the server never created, since they cannot sign in.
func (p *Pipeline) loadFollowing(ctx context.Context, b *model.Batch) error {
	for _, u := range b.Users {
		if !u.Created() {
			if len(u.Following) > 0 {
				log.WithFields(log.Fields{"batch": b.Index, "id": u.ID}).Debug("Skipping following of a user that was not created")
			}
			continue
		}
		for _, followee := range u.Following {
			if err := ctx.Err(); err != nil {
				return err
			}
			serverID := p.resolve(model.Users, b.Index, model.Users, u.ID, followee)
			if err := p.client.Follow(ctx, u, serverID); err != nil {
				p.failed(b, model.Users, u.ID, false, err)
			}
		}
	}
	return nil
}

func (p *Pipeline) loadPublications(ctx context.Context, b *model.Batch) error {
	for _, pub := range b.Publications {
		if err := ctx.Err(); err != nil {
			return err
		}
		creator, err := creatorOf(b, model.Publications, pub.ID, pub.Creator)
		if err != nil {
			p.failed(b, model.Publications, pub.ID, true, err)
			continue
		}
		serverID, err := p.client.CreatePublication(ctx, creator, pub)
		if err != nil {
			p.failed(b, model.Publications, pub.ID, true, err)
			continue
		}
		p.created(model.Publications, b.Index, pub, serverID)
	}
	return nil
}

// loadGroups creates every group with its user roles. Groups inside groups are only added by
// loadGroupMemberships, once every group of the batch has a server id.
func (p *Pipeline) loadGroups(ctx context.Context, b *model.Batch) error {
	for _, g := range b.Groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		creator, err := creatorOf(b, model.Groups, g.ID, g.Creator)
		if err != nil {
			p.failed(b, model.Groups, g.ID, true, err)
			continue
		}
		submitted := *g
		submitted.Roles = p.resolveRoles(b.Index, model.Groups, g.ID, g.Roles, false)
		serverID, err := p.client.CreateGroup(ctx, creator, &submitted)
		if err != nil {
			p.failed(b, model.Groups, g.ID, true, err)
			continue
		}
		p.created(model.Groups, b.Index, g, serverID)
	}
	return nil
}

func (p *Pipeline) loadGroupMemberships(ctx context.Context, b *model.Batch) error {
	for _, g := range b.Groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		var nested int
		for _, role := range g.Roles {
			nested += len(role.Groups)
		}
		if nested == 0 {
			continue
		}
		if !g.Created() {
			log.WithFields(log.Fields{"batch": b.Index, "id": g.ID}).Debug("Skipping members of a group that was not created")
			continue
		}
		members := make(map[string]string, nested)
		for _, name := range g.Roles.Names() {
			for _, id := range g.Roles[name].Groups {
				members[p.resolve(model.Groups, b.Index, model.Groups, g.ID, id)] = name
			}
		}
		creator, err := creatorOf(b, model.Groups, g.ID, g.Creator)
		if err != nil {
			p.failed(b, model.Groups, g.ID, false, err)
			continue
		}
		if err := p.client.SetGroupMembers(ctx, creator, g.GeneratedID, members); err != nil {
			p.failed(b, model.Groups, g.ID, false, err)
		}
	}
	return nil
}

func (p *Pipeline) loadContent(ctx context.Context, b *model.Batch) error {
	for _, c := range b.Content {
		if err := ctx.Err(); err != nil {
			return err
		}
		creator, err := creatorOf(b, model.ContentItems, c.ID, c.Creator)
		if err != nil {
			p.failed(b, model.ContentItems, c.ID, true, err)
			continue
		}
		submitted := *c
		submitted.Roles = p.resolveRoles(b.Index, model.ContentItems, c.ID, c.Roles, true)
		serverID, err := p.client.CreateContent(ctx, creator, &submitted)
		if err != nil {
			p.failed(b, model.ContentItems, c.ID, true, err)
			continue
		}
		p.created(model.ContentItems, b.Index, c, serverID)
		if c.HasComments {
			if err := p.postThread(ctx, b, model.ContentItems, creator, c.ID, serverID, c.Comments); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Pipeline) loadDiscussions(ctx context.Context, b *model.Batch) error {
	for _, d := range b.Discussions {
		if err := ctx.Err(); err != nil {
			return err
		}
		creator, err := creatorOf(b, model.Discussions, d.ID, d.Creator)
		if err != nil {
			p.failed(b, model.Discussions, d.ID, true, err)
			continue
		}
		submitted := *d
		submitted.Roles = p.resolveRoles(b.Index, model.Discussions, d.ID, d.Roles, true)
		serverID, err := p.client.CreateDiscussion(ctx, creator, &submitted)
		if err != nil {
			p.failed(b, model.Discussions, d.ID, true, err)
			continue
		}
		p.created(model.Discussions, b.Index, d, serverID)
		if d.HasMessages {
			if err := p.postThread(ctx, b, model.Discussions, creator, d.ID, serverID, d.Messages); err != nil {
				return err
			}
		}
	}
	return nil
}

// postThread posts thread in order on the resource with server id resourceID. A reply whose
// parent could not be posted is posted at the top level instead.
func (p *Pipeline) postThread(ctx context.Context, b *model.Batch, t model.EntityType, author *model.User, entityID, resourceID string, thread []model.Comment) error {
	posted := make([]string, len(thread))
	for i, c := range thread {
		if err := ctx.Err(); err != nil {
			return err
		}
		replyTo := ""
		if !c.ReplyTo.IsRoot() {
			parent := c.ReplyTo.Index()
			if parent < 0 || parent >= i {
				p.failed(b, t, entityID, false, errors.Errorf("message %d replies to message %d, which does not precede it", i, parent))
				continue
			}
			replyTo = posted[parent]
		}
		messageID, err := p.client.PostMessage(ctx, author, t, resourceID, c.Message, replyTo)
		if err != nil {
			p.failed(b, t, entityID, false, err)
			continue
		}
		posted[i] = messageID
	}
	return nil
}
