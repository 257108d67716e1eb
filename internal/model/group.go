package model

// Join policies for groups.
const (
	JoinYes     = "yes"
	JoinRequest = "request"
	JoinNo      = "no"
)

type Group struct {
	Base
	Tenant         string    `json:"tenant,omitempty"`
	Name           string    `json:"name"`
	HasDescription bool      `json:"hasDescription"`
	Description    string    `json:"description"`
	Visibility     string    `json:"visibility"`
	JoinPolicy     string    `json:"joinable"`
	Creator        string    `json:"creator"`
	Roles          RoleTable `json:"roles"`
}

func (g *Group) GetRoles() RoleTable {
	return g.Roles
}

func (g *Group) Validate() error {
	r := &requirements{}
	r.nonEmpty("id", g.ID)
	r.nonEmpty("name", g.Name)
	r.nonEmpty("creator", g.Creator)
	r.oneOf("visibility", g.Visibility, Public, LoggedIn, Private)
	r.oneOf("joinable", g.JoinPolicy, JoinYes, JoinRequest, JoinNo)
	return r.err()
}
