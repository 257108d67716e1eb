package model

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

const rootReply = "root"

// Comment is a message posted on a content item or discussion.
type Comment struct {
	Message string  `json:"message"`
	ReplyTo ReplyTo `json:"replyTo"`
}

// ReplyTo points either at the root of the thread or at an earlier comment by index.
// It serialises as the string "root" or as the integer index.
type ReplyTo struct {
	root  bool
	index int
}

func Root() ReplyTo {
	return ReplyTo{root: true}
}

func ReplyToIndex(i int) ReplyTo {
	return ReplyTo{index: i}
}

func (r ReplyTo) IsRoot() bool {
	return r.root
}

// Index returns the index of the comment replied to. Only meaningful when IsRoot is false.
func (r ReplyTo) Index() int {
	return r.index
}

func (r ReplyTo) String() string {
	if r.root {
		return rootReply
	}
	return strconv.Itoa(r.index)
}

func (r ReplyTo) MarshalJSON() ([]byte, error) {
	if r.root {
		return json.Marshal(rootReply)
	}
	return json.Marshal(r.index)
}

func (r *ReplyTo) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != rootReply {
			return errors.Errorf("invalid replyTo %q", s)
		}
		*r = Root()
		return nil
	}
	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return errors.Wrapf(err, "invalid replyTo %s", data)
	}
	*r = ReplyToIndex(i)
	return nil
}

// ValidateThread checks that every reply points at an earlier comment.
func ValidateThread(comments []Comment) error {
	for i, c := range comments {
		if c.ReplyTo.IsRoot() {
			continue
		}
		if c.ReplyTo.Index() < 0 || c.ReplyTo.Index() >= i {
			return errors.Errorf("comment %d replies to %d, which is not an earlier comment", i, c.ReplyTo.Index())
		}
	}
	return nil
}
