package model

type Discussion struct {
	Base
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Visibility  string    `json:"visibility"`
	Creator     string    `json:"creator"`
	Roles       RoleTable `json:"roles"`
	HasMessages bool      `json:"hasMessages"`
	Messages    []Comment `json:"messages"`
}

func (d *Discussion) GetRoles() RoleTable {
	return d.Roles
}

func (d *Discussion) Validate() error {
	r := &requirements{}
	r.nonEmpty("id", d.ID)
	r.nonEmpty("name", d.Name)
	r.nonEmpty("creator", d.Creator)
	r.oneOf("visibility", d.Visibility, Public, LoggedIn, Private)
	r.add(ValidateThread(d.Messages))
	return r.err()
}
