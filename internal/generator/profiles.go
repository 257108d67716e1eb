package generator

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/oaeproject/model-loader/internal/common/modelerrors"
	"github.com/oaeproject/model-loader/internal/model"
	"github.com/oaeproject/model-loader/internal/sampler"
)

// RoleProfile shapes one role of an entity: how many users and groups to assign, and which user
// types the users are drawn from.
type RoleProfile struct {
	TotalUsers   sampler.Magnitude           `json:"totalUsers"`
	TotalGroups  sampler.Magnitude           `json:"totalGroups"`
	Distribution sampler.Categorical[string] `json:"distribution"`
}

// ThreadProfile shapes the comments on content or the messages of a discussion.
type ThreadProfile struct {
	Has    sampler.Categorical[bool] `json:"has"`
	Count  sampler.Magnitude         `json:"count"`
	Length sampler.Magnitude         `json:"length"`
}

type UserProfile struct {
	Sex                 sampler.Categorical[string] `json:"sex"`
	UserType            sampler.Categorical[string] `json:"userType"`
	AccountPrivacy      sampler.Categorical[string] `json:"accountPrivacy"`
	HasBasicInfo        sampler.Categorical[bool]   `json:"hasBasicInfo"`
	HasEmail            sampler.Categorical[bool]   `json:"hasEmail"`
	HasDepartment       sampler.Categorical[bool]   `json:"hasDepartment"`
	HasCollege          sampler.Categorical[bool]   `json:"hasCollege"`
	HasPicture          sampler.Categorical[bool]   `json:"hasPicture"`
	ContentWeighting    sampler.Magnitude           `json:"contentWeighting"`
	GroupWeighting      sampler.Magnitude           `json:"groupWeighting"`
	DiscussionWeighting sampler.Magnitude           `json:"discussionWeighting"`
	FollowingWeighting  sampler.Magnitude           `json:"followingWeighting"`
	Following           sampler.Magnitude           `json:"following"`
}

type GroupProfile struct {
	Name           sampler.Magnitude           `json:"name"`
	HasDescription sampler.Categorical[bool]   `json:"hasDescription"`
	Description    sampler.Magnitude           `json:"description"`
	Visibility     sampler.Categorical[string] `json:"visibility"`
	JoinPolicy     sampler.Categorical[string] `json:"joinable"`
	Creator        sampler.Categorical[string] `json:"creator"`
	Roles          map[string]RoleProfile      `json:"roles"`
}

// ContentProfile shapes one content subtype. LinkType is only used by links; FileTypes, Sizes and
// FileTitle only by files.
type ContentProfile struct {
	Name           sampler.Magnitude                      `json:"name"`
	HasDescription sampler.Categorical[bool]              `json:"hasDescription"`
	Description    sampler.Magnitude                      `json:"description"`
	Visibility     sampler.Categorical[string]            `json:"visibility"`
	Creator        sampler.Categorical[string]            `json:"creator"`
	Roles          map[string]RoleProfile                 `json:"roles"`
	Comments       ThreadProfile                          `json:"comments"`
	LinkType       sampler.Categorical[string]            `json:"linkType,omitempty"`
	FileTypes      sampler.Categorical[string]            `json:"fileTypes,omitempty"`
	Sizes          map[string]sampler.Categorical[string] `json:"sizes,omitempty"`
	FileTitle      sampler.Magnitude                      `json:"fileTitle"`
}

type DiscussionProfile struct {
	Name        sampler.Magnitude           `json:"name"`
	Description sampler.Magnitude           `json:"description"`
	Visibility  sampler.Categorical[string] `json:"visibility"`
	Creator     sampler.Categorical[string] `json:"creator"`
	Roles       map[string]RoleProfile      `json:"roles"`
	Messages    ThreadProfile               `json:"messages"`
}

type PublicationProfile struct {
	Title       sampler.Magnitude           `json:"title"`
	HasAbstract sampler.Categorical[bool]   `json:"hasAbstract"`
	Abstract    sampler.Magnitude           `json:"abstract"`
	Authors     sampler.Magnitude           `json:"authors"`
	Type        sampler.Categorical[string] `json:"type"`
	Year        sampler.Magnitude           `json:"year"`
	HasLink     sampler.Categorical[bool]   `json:"hasLink"`
	Creator     sampler.Categorical[string] `json:"creator"`
}

// Profiles holds every distribution the generators sample from.
type Profiles struct {
	Users           UserProfile                               `json:"users"`
	Groups          GroupProfile                              `json:"groups"`
	ContentSubTypes sampler.Categorical[model.ContentSubType] `json:"contentSubTypes"`
	Content         map[model.ContentSubType]ContentProfile   `json:"content"`
	Discussions     DiscussionProfile                         `json:"discussions"`
	Publications    PublicationProfile                        `json:"publications"`
}

type validator struct {
	result *multierror.Error
}

func (v *validator) add(err error) {
	if err != nil {
		v.result = multierror.Append(v.result, err)
	}
}

func (v *validator) userTypes(name string, c sampler.Categorical[string]) {
	v.add(c.Validate(name))
	for i, w := range c {
		if !slices.Contains(model.UserTypes, w.Value) {
			v.add(&modelerrors.ErrInvalidArgument{
				Name:    fmt.Sprintf("%s[%d]", name, i),
				Value:   w.Value,
				Message: fmt.Sprintf("user type must be one of %v", model.UserTypes),
			})
		}
	}
}

func (v *validator) visibility(name string, c sampler.Categorical[string]) {
	v.add(c.Validate(name))
	for i, w := range c {
		if w.Value != model.Public && w.Value != model.LoggedIn && w.Value != model.Private {
			v.add(&modelerrors.ErrInvalidArgument{Name: fmt.Sprintf("%s[%d]", name, i), Value: w.Value})
		}
	}
}

func (v *validator) roles(name string, roles map[string]RoleProfile) {
	for _, role := range sortedKeys(roles) {
		r := roles[role]
		prefix := name + ".roles." + role
		v.add(r.TotalUsers.Validate(prefix + ".totalUsers"))
		v.add(r.TotalGroups.Validate(prefix + ".totalGroups"))
		v.userTypes(prefix+".distribution", r.Distribution)
	}
}

func (v *validator) thread(name string, t ThreadProfile) {
	v.add(t.Has.Validate(name + ".has"))
	v.add(t.Count.Validate(name + ".count"))
	v.add(t.Length.Validate(name + ".length"))
}

// Validate checks every distribution, so that sampling never sees an empty or malformed one.
func (p *Profiles) Validate() error {
	v := &validator{}

	u := p.Users
	v.add(u.Sex.Validate("users.sex"))
	v.userTypes("users.userType", u.UserType)
	v.visibility("users.accountPrivacy", u.AccountPrivacy)
	for name, c := range map[string]sampler.Categorical[bool]{
		"users.hasBasicInfo":  u.HasBasicInfo,
		"users.hasEmail":      u.HasEmail,
		"users.hasDepartment": u.HasDepartment,
		"users.hasCollege":    u.HasCollege,
		"users.hasPicture":    u.HasPicture,
	} {
		v.add(c.Validate(name))
	}
	for name, m := range map[string]sampler.Magnitude{
		"users.contentWeighting":    u.ContentWeighting,
		"users.groupWeighting":      u.GroupWeighting,
		"users.discussionWeighting": u.DiscussionWeighting,
		"users.followingWeighting":  u.FollowingWeighting,
		"users.following":           u.Following,
	} {
		v.add(m.Validate(name))
	}

	g := p.Groups
	v.add(g.Name.Validate("groups.name"))
	v.add(g.HasDescription.Validate("groups.hasDescription"))
	v.add(g.Description.Validate("groups.description"))
	v.visibility("groups.visibility", g.Visibility)
	v.add(g.JoinPolicy.Validate("groups.joinable"))
	v.userTypes("groups.creator", g.Creator)
	v.roles("groups", g.Roles)

	v.add(p.ContentSubTypes.Validate("contentSubTypes"))
	for _, w := range p.ContentSubTypes {
		c, ok := p.Content[w.Value]
		name := "content." + string(w.Value)
		if !ok {
			v.add(&modelerrors.ErrInvalidArgument{Name: name, Value: nil, Message: "no profile for content subtype"})
			continue
		}
		v.add(c.Name.Validate(name + ".name"))
		v.add(c.HasDescription.Validate(name + ".hasDescription"))
		v.add(c.Description.Validate(name + ".description"))
		v.visibility(name+".visibility", c.Visibility)
		v.userTypes(name+".creator", c.Creator)
		v.roles(name, c.Roles)
		v.thread(name+".comments", c.Comments)
		switch w.Value {
		case model.Link:
			v.add(c.LinkType.Validate(name + ".linkType"))
		case model.File:
			v.add(c.FileTypes.Validate(name + ".fileTypes"))
			v.add(c.FileTitle.Validate(name + ".fileTitle"))
			for _, ft := range c.FileTypes {
				v.add(c.Sizes[ft.Value].Validate(name + ".sizes." + ft.Value))
			}
		}
	}

	d := p.Discussions
	v.add(d.Name.Validate("discussions.name"))
	v.add(d.Description.Validate("discussions.description"))
	v.visibility("discussions.visibility", d.Visibility)
	v.userTypes("discussions.creator", d.Creator)
	v.roles("discussions", d.Roles)
	v.thread("discussions.messages", d.Messages)

	pub := p.Publications
	v.add(pub.Title.Validate("publications.title"))
	v.add(pub.HasAbstract.Validate("publications.hasAbstract"))
	v.add(pub.Abstract.Validate("publications.abstract"))
	v.add(pub.Authors.Validate("publications.authors"))
	v.add(pub.Type.Validate("publications.type"))
	v.add(pub.Year.Validate("publications.year"))
	v.add(pub.HasLink.Validate("publications.hasLink"))
	v.userTypes("publications.creator", pub.Creator)

	return v.result.ErrorOrNil()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
