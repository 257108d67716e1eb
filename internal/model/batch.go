package model

import (
	"github.com/pkg/errors"
)

// Batch holds every entity generated under one batch index. Slices keep insertion order; the
// indexes give lookup by id. References between entities never leave a batch.
type Batch struct {
	Index        int
	Users        []*User
	Groups       []*Group
	Content      []*Content
	Discussions  []*Discussion
	Publications []*Publication

	ids          map[string]struct{}
	users        map[string]*User
	groups       map[string]*Group
	content      map[string]*Content
	discussions  map[string]*Discussion
	publications map[string]*Publication
}

func NewBatch(index int) *Batch {
	return &Batch{
		Index:        index,
		ids:          map[string]struct{}{},
		users:        map[string]*User{},
		groups:       map[string]*Group{},
		content:      map[string]*Content{},
		discussions:  map[string]*Discussion{},
		publications: map[string]*Publication{},
	}
}

// HasID reports whether any entity in the batch already uses id.
func (b *Batch) HasID(id string) bool {
	_, ok := b.ids[id]
	return ok
}

func (b *Batch) claim(id string) error {
	if id == "" {
		return errors.New("entity has no id")
	}
	if b.HasID(id) {
		return errors.Errorf("id %s is already used in batch %d", id, b.Index)
	}
	b.ids[id] = struct{}{}
	return nil
}

func (b *Batch) AddUser(u *User) error {
	if err := b.claim(u.ID); err != nil {
		return err
	}
	b.Users = append(b.Users, u)
	b.users[u.ID] = u
	return nil
}

func (b *Batch) AddGroup(g *Group) error {
	if err := b.claim(g.ID); err != nil {
		return err
	}
	b.Groups = append(b.Groups, g)
	b.groups[g.ID] = g
	return nil
}

func (b *Batch) AddContent(c *Content) error {
	if err := b.claim(c.ID); err != nil {
		return err
	}
	b.Content = append(b.Content, c)
	b.content[c.ID] = c
	return nil
}

func (b *Batch) AddDiscussion(d *Discussion) error {
	if err := b.claim(d.ID); err != nil {
		return err
	}
	b.Discussions = append(b.Discussions, d)
	b.discussions[d.ID] = d
	return nil
}

func (b *Batch) AddPublication(p *Publication) error {
	if err := b.claim(p.ID); err != nil {
		return err
	}
	b.Publications = append(b.Publications, p)
	b.publications[p.ID] = p
	return nil
}

func (b *Batch) User(id string) (*User, bool) {
	u, ok := b.users[id]
	return u, ok
}

func (b *Batch) Group(id string) (*Group, bool) {
	g, ok := b.groups[id]
	return g, ok
}

func (b *Batch) ContentItem(id string) (*Content, bool) {
	c, ok := b.content[id]
	return c, ok
}

func (b *Batch) Discussion(id string) (*Discussion, bool) {
	d, ok := b.discussions[id]
	return d, ok
}

func (b *Batch) Publication(id string) (*Publication, bool) {
	p, ok := b.publications[id]
	return p, ok
}

// Count returns the number of entities of type t.
func (b *Batch) Count(t EntityType) int {
	switch t {
	case Users:
		return len(b.Users)
	case Groups:
		return len(b.Groups)
	case ContentItems:
		return len(b.Content)
	case Discussions:
		return len(b.Discussions)
	case Publications:
		return len(b.Publications)
	default:
		return 0
	}
}
