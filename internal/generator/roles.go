package generator

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/oaeproject/model-loader/internal/model"
	"github.com/oaeproject/model-loader/internal/sampler"
)

// weighting picks the attribute of a user that makes them more or less likely to be chosen.
type weighting func(u *model.User) float64

func byContent(u *model.User) float64    { return u.ContentWeighting }
func byGroup(u *model.User) float64      { return u.GroupWeighting }
func byDiscussion(u *model.User) float64 { return u.DiscussionWeighting }
func byFollowing(u *model.User) float64  { return u.FollowingWeighting }

// pickCreator draws a user of a type sampled from creatorTypes, weighted by weight. If no user has
// that type the last user of the batch is used. Returns "" only when the batch has no users.
func pickCreator(s *sampler.Sampler, users []*model.User, creatorTypes sampler.Categorical[string], weight weighting) string {
	if len(users) == 0 {
		return ""
	}
	userType := sampler.SampleCategorical(s, creatorTypes)
	var candidates sampler.Categorical[string]
	for _, u := range users {
		if u.UserType == userType {
			candidates = append(candidates, sampler.W(weight(u), u.ID))
		}
	}
	if len(candidates) == 0 {
		fallback := users[len(users)-1].ID
		log.WithField("userType", userType).Debugf("no %s to act as creator, falling back to %s", userType, fallback)
		return fallback
	}
	return sampler.SampleCategorical(s, candidates)
}

// memberPool holds the users and groups still available to the roles of one entity. Anything
// selected for one role is gone for every later role, and the creator is never in the pool.
type memberPool struct {
	users  map[string]sampler.Categorical[string]
	groups []string
}

func newMemberPool(users []*model.User, creator string, weight weighting, groups []string) *memberPool {
	p := &memberPool{
		users:  map[string]sampler.Categorical[string]{},
		groups: slices.Clone(groups),
	}
	for _, u := range users {
		if u.ID == creator {
			continue
		}
		p.users[u.UserType] = append(p.users[u.UserType], sampler.W(weight(u), u.ID))
	}
	return p
}

// takeUser removes and returns a weighted user of the given type. ok is false if none are left.
func (p *memberPool) takeUser(s *sampler.Sampler, userType string) (id string, ok bool) {
	candidates := p.users[userType]
	if len(candidates) == 0 {
		return "", false
	}
	i := sampler.SampleIndex(s, candidates)
	id = candidates[i].Value
	p.users[userType] = slices.Delete(candidates, i, i+1)
	return id, true
}

func (p *memberPool) takeGroup(s *sampler.Sampler) (id string, ok bool) {
	if len(p.groups) == 0 {
		return "", false
	}
	i := s.Intn(len(p.groups))
	id = p.groups[i]
	p.groups = slices.Delete(p.groups, i, i+1)
	return id, true
}

// fillRoles samples the target size of every role in profiles and fills the users from the pool.
// Roles are filled in name order. Filling a role stops early when the sampled user type has no
// candidates left. Groups are only filled when fillGroups is set; otherwise TotalGroups is recorded
// for a later pass.
func fillRoles(s *sampler.Sampler, profiles map[string]RoleProfile, pool *memberPool, fillGroups bool) model.RoleTable {
	roles := model.RoleTable{}
	for _, name := range sortedKeys(profiles) {
		profile := profiles[name]
		role := &model.Role{
			TotalUsers:  s.SampleMagnitude(profile.TotalUsers),
			TotalGroups: s.SampleMagnitude(profile.TotalGroups),
			Users:       []string{},
			Groups:      []string{},
		}
		for len(role.Users) < role.TotalUsers {
			id, ok := pool.takeUser(s, sampler.SampleCategorical(s, profile.Distribution))
			if !ok {
				break
			}
			role.Users = append(role.Users, id)
		}
		if fillGroups {
			fillGroupsOfRole(s, role, pool)
		}
		roles[name] = role
	}
	return roles
}

func fillGroupsOfRole(s *sampler.Sampler, role *model.Role, pool *memberPool) {
	for len(role.Groups) < role.TotalGroups {
		id, ok := pool.takeGroup(s)
		if !ok {
			return
		}
		role.Groups = append(role.Groups, id)
	}
}

// eligibleGroups returns the ids of the non-private groups, in batch order.
func eligibleGroups(groups []*model.Group) []string {
	var ids []string
	for _, g := range groups {
		if g.Visibility != model.Private {
			ids = append(ids, g.ID)
		}
	}
	return ids
}
