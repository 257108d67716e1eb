// Package generator produces batches of synthetic users, groups, content, discussions and
// publications whose attributes and relationships follow the configured distributions.
package generator

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/oaeproject/model-loader/internal/lexicon"
	"github.com/oaeproject/model-loader/internal/model"
	"github.com/oaeproject/model-loader/internal/sampler"
)

// Catalog lists the files on disk that file content and profile pictures point at.
type Catalog struct {
	ContentFiles []string
	Pictures     []string
}

// LoadCatalog lists both directories. A directory that does not exist contributes no files.
func LoadCatalog(contentDir, picturesDir string) (Catalog, error) {
	var c Catalog
	var err error
	if c.ContentFiles, err = listIfExists(contentDir); err != nil {
		return Catalog{}, err
	}
	if c.Pictures, err = listIfExists(picturesDir); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func listIfExists(dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	files, err := lexicon.ListFiles(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return files, err
}

// Generator builds single entities. Each method takes the batch being assembled, whose entities
// are the peers the new entity may reference.
type Generator struct {
	s        *sampler.Sampler
	lex      *lexicon.Lexicon
	profiles Profiles
	catalog  Catalog
	tenant   string
}

func New(s *sampler.Sampler, lex *lexicon.Lexicon, profiles Profiles, catalog Catalog) *Generator {
	return &Generator{s: s, lex: lex, profiles: profiles, catalog: catalog}
}

// ForTenant stamps every user and group generated from now on with the tenant alias.
func (g *Generator) ForTenant(alias string) *Generator {
	g.tenant = alias
	return g
}

func (g *Generator) title(words int) string {
	return lexicon.UpperFirst(strings.Join(g.lex.Keywords(g.s, words), " "))
}

// thread generates the comments of an entity. Each comment replies either to the root or to a
// uniformly chosen earlier comment.
func (g *Generator) thread(p ThreadProfile) (bool, []model.Comment) {
	has := sampler.SampleCategorical(g.s, p.Has)
	if !has {
		return false, []model.Comment{}
	}
	n := g.s.SampleMagnitude(p.Count)
	comments := make([]model.Comment, 0, n)
	for i := 0; i < n; i++ {
		c := model.Comment{Message: g.lex.Sentences(g.s, g.s.SampleMagnitude(p.Length))}
		if target := g.s.Intn(len(comments) + 1); target == len(comments) {
			c.ReplyTo = model.Root()
		} else {
			c.ReplyTo = model.ReplyToIndex(target)
		}
		comments = append(comments, c)
	}
	return true, comments
}

func (g *Generator) User(b *model.Batch) (*model.User, error) {
	p := g.profiles.Users
	sex := sampler.SampleCategorical(g.s, p.Sex)
	first := g.lex.FirstName(g.s, sex)
	last := g.lex.LastName(g.s)
	id := newID(g.s, b, first, last)

	u := &model.User{
		Base:               model.Base{ID: id},
		Tenant:             g.tenant,
		UserID:             id,
		Password:           g.lex.Password(g.s),
		Sex:                sex,
		FirstName:          first,
		LastName:           last,
		DisplayName:        first + " " + last,
		UserAccountPrivacy: sampler.SampleCategorical(g.s, p.AccountPrivacy),
		UserType:           sampler.SampleCategorical(g.s, p.UserType),

		HasBasicInfoSection: sampler.SampleCategorical(g.s, p.HasBasicInfo),
		HasEmail:            sampler.SampleCategorical(g.s, p.HasEmail),
		Email:               g.lex.Email(g.s, first, last),
		HasDepartment:       sampler.SampleCategorical(g.s, p.HasDepartment),
		Department:          g.lex.Department(g.s),
		HasCollege:          sampler.SampleCategorical(g.s, p.HasCollege),
		College:             g.lex.College(g.s),

		ContentWeighting:    float64(g.s.SampleMagnitude(p.ContentWeighting)),
		GroupWeighting:      float64(g.s.SampleMagnitude(p.GroupWeighting)),
		DiscussionWeighting: float64(g.s.SampleMagnitude(p.DiscussionWeighting)),
		FollowingWeighting:  float64(g.s.SampleMagnitude(p.FollowingWeighting)),
		Following:           []string{},
	}
	if sampler.SampleCategorical(g.s, p.HasPicture) && len(g.catalog.Pictures) > 0 {
		u.Picture = model.Picture{HasPicture: true, Picture: sampler.Pick(g.s, g.catalog.Pictures)}
	}
	return u, errors.WithMessagef(u.Validate(), "generated user %s", id)
}

// Group generates a group with its user roles filled. Group members of a group are assigned later
// by SetGroupMemberships, once every group of the batch exists.
func (g *Generator) Group(b *model.Batch) (*model.Group, error) {
	p := g.profiles.Groups
	name := g.title(g.s.SampleMagnitude(p.Name))
	creator := pickCreator(g.s, b.Users, p.Creator, byGroup)

	grp := &model.Group{
		Base:           model.Base{ID: newID(g.s, b, strings.Fields(name)...)},
		Tenant:         g.tenant,
		Name:           name,
		HasDescription: sampler.SampleCategorical(g.s, p.HasDescription),
		Description:    g.lex.Sentences(g.s, g.s.SampleMagnitude(p.Description)),
		Visibility:     sampler.SampleCategorical(g.s, p.Visibility),
		JoinPolicy:     sampler.SampleCategorical(g.s, p.JoinPolicy),
		Creator:        creator,
	}
	grp.Roles = fillRoles(g.s, p.Roles, newMemberPool(b.Users, creator, byGroup, nil), false)
	return grp, errors.WithMessagef(grp.Validate(), "generated group %s", grp.ID)
}

// SetGroupMemberships fills the group slots of every group's roles. A group only ever contains
// groups generated before it, so nesting can never form a cycle.
func (g *Generator) SetGroupMemberships(b *model.Batch) {
	for i, grp := range b.Groups {
		pool := &memberPool{groups: eligibleGroups(b.Groups[:i])}
		for _, name := range grp.Roles.Names() {
			fillGroupsOfRole(g.s, grp.Roles[name], pool)
		}
	}
}

// SetFollowing makes every user follow a sampled number of other users of the batch, weighted by
// their following weighting.
func (g *Generator) SetFollowing(b *model.Batch) {
	for _, u := range b.Users {
		pool := newMemberPool(b.Users, u.ID, byFollowing, nil)
		var candidates sampler.Categorical[string]
		for _, userType := range sortedKeys(pool.users) {
			candidates = append(candidates, pool.users[userType]...)
		}
		target := g.s.SampleMagnitude(g.profiles.Users.Following)
		following := make([]string, 0, target)
		for len(following) < target && len(candidates) > 0 {
			i := sampler.SampleIndex(g.s, candidates)
			following = append(following, candidates[i].Value)
			candidates = append(candidates[:i], candidates[i+1:]...)
		}
		u.Following = following
	}
}

func (g *Generator) Content(b *model.Batch) (*model.Content, error) {
	subType := sampler.SampleCategorical(g.s, g.profiles.ContentSubTypes)
	p := g.profiles.Content[subType]
	name := g.title(g.s.SampleMagnitude(p.Name))
	creator := pickCreator(g.s, b.Users, p.Creator, byContent)

	c := &model.Content{
		Base:            model.Base{ID: newID(g.s, b, strings.Fields(name)...)},
		ResourceSubType: subType,
		Name:            name,
		HasDescription:  sampler.SampleCategorical(g.s, p.HasDescription),
		Description:     g.lex.Sentences(g.s, g.s.SampleMagnitude(p.Description)),
		Visibility:      sampler.SampleCategorical(g.s, p.Visibility),
		Creator:         creator,
	}
	switch subType {
	case model.Link:
		c.Link = g.lex.URL(g.s, sampler.SampleCategorical(g.s, p.LinkType) == "youtube")
	case model.File:
		if len(g.catalog.ContentFiles) == 0 {
			return nil, errors.New("cannot generate file content: no content files available")
		}
		c.Type = sampler.SampleCategorical(g.s, p.FileTypes)
		c.Size = sampler.SampleCategorical(g.s, p.Sizes[c.Type])
		c.Path = sampler.Pick(g.s, g.catalog.ContentFiles)
		c.Filename = strings.Join(g.lex.Keywords(g.s, g.s.SampleMagnitude(p.FileTitle)), " ")
	}
	pool := newMemberPool(b.Users, creator, byContent, eligibleGroups(b.Groups))
	c.Roles = fillRoles(g.s, p.Roles, pool, true)
	c.HasComments, c.Comments = g.thread(p.Comments)
	return c, errors.WithMessagef(c.Validate(), "generated content %s", c.ID)
}

func (g *Generator) Discussion(b *model.Batch) (*model.Discussion, error) {
	p := g.profiles.Discussions
	name := g.title(g.s.SampleMagnitude(p.Name))
	creator := pickCreator(g.s, b.Users, p.Creator, byDiscussion)

	d := &model.Discussion{
		Base:        model.Base{ID: newID(g.s, b, strings.Fields(name)...)},
		Name:        name,
		Description: g.lex.Sentences(g.s, g.s.SampleMagnitude(p.Description)),
		Visibility:  sampler.SampleCategorical(g.s, p.Visibility),
		Creator:     creator,
	}
	pool := newMemberPool(b.Users, creator, byDiscussion, eligibleGroups(b.Groups))
	d.Roles = fillRoles(g.s, p.Roles, pool, true)
	d.HasMessages, d.Messages = g.thread(p.Messages)
	return d, errors.WithMessagef(d.Validate(), "generated discussion %s", d.ID)
}

func (g *Generator) Publication(b *model.Batch) (*model.Publication, error) {
	p := g.profiles.Publications
	title := g.title(g.s.SampleMagnitude(p.Title))
	creator := pickCreator(g.s, b.Users, p.Creator, byContent)

	pub := &model.Publication{
		Base:            model.Base{ID: newID(g.s, b, strings.Fields(title)...)},
		Title:           title,
		PublicationType: sampler.SampleCategorical(g.s, p.Type),
		Year:            g.s.SampleMagnitude(p.Year),
		Creator:         creator,
	}
	if sampler.SampleCategorical(g.s, p.HasAbstract) {
		pub.Abstract = g.lex.Sentences(g.s, g.s.SampleMagnitude(p.Abstract))
	}
	if u, ok := b.User(creator); ok {
		pub.Authors = append(pub.Authors, u.DisplayName)
	}
	for authors := g.s.SampleMagnitude(p.Authors); len(pub.Authors) < authors; {
		sex := sampler.SampleCategorical(g.s, g.profiles.Users.Sex)
		pub.Authors = append(pub.Authors, g.lex.FirstName(g.s, sex)+" "+g.lex.LastName(g.s))
	}
	if pub.PublicationType == model.JournalArticle {
		pub.Journal = "Journal of " + lexicon.UpperFirst(sampler.Pick(g.s, g.lex.KeywordPool))
	}
	if sampler.SampleCategorical(g.s, p.HasLink) {
		pub.Link = g.lex.URL(g.s, false)
	}
	return pub, errors.WithMessagef(pub.Validate(), "generated publication %s", pub.ID)
}
