package model

// ContentSubType discriminates the content variants.
type ContentSubType string

const (
	Link      ContentSubType = "link"
	File      ContentSubType = "file"
	Collabdoc ContentSubType = "collabdoc"
)

// Content is a link, an uploaded file or a collaborative document. Link is set only for links;
// Type, Size, Path and Filename only for files.
type Content struct {
	Base
	ResourceSubType ContentSubType `json:"resourceSubType"`
	Name            string         `json:"name"`
	HasDescription  bool           `json:"hasDescription"`
	Description     string         `json:"description"`
	Visibility      string         `json:"visibility"`
	Creator         string         `json:"creator"`
	Roles           RoleTable      `json:"roles"`
	HasComments     bool           `json:"hasComments"`
	Comments        []Comment      `json:"comments"`

	Link string `json:"link,omitempty"`

	Type     string `json:"type,omitempty"`
	Size     string `json:"size,omitempty"`
	Path     string `json:"path,omitempty"`
	Filename string `json:"filename,omitempty"`
}

func (c *Content) GetRoles() RoleTable {
	return c.Roles
}

func (c *Content) Validate() error {
	r := &requirements{}
	r.nonEmpty("id", c.ID)
	r.nonEmpty("name", c.Name)
	r.nonEmpty("creator", c.Creator)
	r.oneOf("visibility", c.Visibility, Public, LoggedIn, Private)
	switch c.ResourceSubType {
	case Link:
		r.nonEmpty("link", c.Link)
	case File:
		r.nonEmpty("type", c.Type)
		r.nonEmpty("size", c.Size)
		r.nonEmpty("path", c.Path)
		r.nonEmpty("filename", c.Filename)
	case Collabdoc:
	default:
		r.oneOf("resourceSubType", string(c.ResourceSubType), string(Link), string(File), string(Collabdoc))
	}
	r.add(ValidateThread(c.Comments))
	return r.err()
}
