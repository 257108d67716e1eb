package model

// User types. Generators filter creators and role members by these.
const (
	Student    = "student"
	Lecturer   = "lecturer"
	Researcher = "researcher"
)

var UserTypes = []string{Student, Lecturer, Researcher}

type Picture struct {
	HasPicture bool   `json:"hasPicture"`
	Picture    string `json:"picture,omitempty"`
}

type User struct {
	Base
	Tenant             string `json:"tenant,omitempty"`
	UserID             string `json:"userid"`
	Password           string `json:"password"`
	Sex                string `json:"sex"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	DisplayName        string `json:"displayName"`
	UserAccountPrivacy string `json:"userAccountPrivacy"`
	UserType           string `json:"userType"`

	HasBasicInfoSection bool   `json:"hasBasicInfoSection"`
	HasEmail            bool   `json:"hasEmail"`
	Email               string `json:"email,omitempty"`
	HasDepartment       bool   `json:"hasDepartment"`
	Department          string `json:"department,omitempty"`
	HasCollege          bool   `json:"hasCollege"`
	College             string `json:"college,omitempty"`

	Picture Picture `json:"picture"`

	// Relative likelihood of being picked as a creator or member of each kind of entity.
	ContentWeighting    float64 `json:"contentWeighting"`
	GroupWeighting      float64 `json:"groupWeighting"`
	DiscussionWeighting float64 `json:"discussionWeighting"`
	FollowingWeighting  float64 `json:"followingWeighting"`

	// Ids of users in the same batch that this user follows.
	Following []string `json:"following"`
}

func (u *User) Validate() error {
	r := &requirements{}
	r.nonEmpty("id", u.ID)
	r.nonEmpty("userid", u.UserID)
	r.nonEmpty("password", u.Password)
	r.oneOf("userType", u.UserType, UserTypes...)
	r.oneOf("userAccountPrivacy", u.UserAccountPrivacy, Public, LoggedIn, Private)
	if u.Picture.HasPicture {
		r.nonEmpty("picture.picture", u.Picture.Picture)
	}
	return r.err()
}
