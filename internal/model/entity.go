// Package model defines the entities that are generated, written to record files and replayed
// against the server.
package model

import (
	"github.com/hashicorp/go-multierror"

	"github.com/oaeproject/model-loader/internal/common/modelerrors"
)

// EntityType names a kind of entity. Its value doubles as the record directory name and the
// generated-id file prefix.
type EntityType string

const (
	Users        EntityType = "users"
	Groups       EntityType = "groups"
	ContentItems EntityType = "content"
	Discussions  EntityType = "discussions"
	Publications EntityType = "publications"
)

// AllTypes lists the entity types in generation order.
var AllTypes = []EntityType{Users, Groups, ContentItems, Discussions, Publications}

// Visibility values shared by users, groups, content and discussions.
const (
	Public   = "public"
	LoggedIn = "loggedin"
	Private  = "private"
)

// Entity is implemented by every generated entity.
type Entity interface {
	EntityID() string
	MarkCreated(generatedID string)
	Created() bool
	Validate() error
}

// Base holds the identifiers every entity carries. ID is assigned at generation time.
// OriginalID and GeneratedID are only set once the server has created the entity.
type Base struct {
	ID          string `json:"id"`
	OriginalID  string `json:"originalid,omitempty"`
	GeneratedID string `json:"generatedid,omitempty"`
}

func (b *Base) EntityID() string {
	return b.ID
}

// MarkCreated records the id the server assigned to this entity.
func (b *Base) MarkCreated(generatedID string) {
	b.OriginalID = b.ID
	b.GeneratedID = generatedID
}

func (b *Base) Created() bool {
	return b.OriginalID != "" && b.GeneratedID != ""
}

// ServerID returns the id to use when talking to the server about this entity.
func (b *Base) ServerID() string {
	if b.GeneratedID != "" {
		return b.GeneratedID
	}
	return b.ID
}

// Mapping is one line of a generated-id file.
type Mapping struct {
	ID          string `json:"id"`
	GeneratedID string `json:"generatedId"`
}

type requirements struct {
	result *multierror.Error
}

func (r *requirements) nonEmpty(name, value string) {
	if value == "" {
		r.result = multierror.Append(r.result, &modelerrors.ErrInvalidArgument{
			Name:    name,
			Value:   value,
			Message: "field is required",
		})
	}
}

func (r *requirements) oneOf(name, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	r.result = multierror.Append(r.result, &modelerrors.ErrInvalidArgument{
		Name:    name,
		Value:   value,
		Message: "unexpected value",
	})
}

func (r *requirements) add(err error) {
	if err != nil {
		r.result = multierror.Append(r.result, err)
	}
}

func (r *requirements) err() error {
	return r.result.ErrorOrNil()
}
