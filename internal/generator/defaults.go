package generator

import (
	"github.com/oaeproject/model-loader/internal/model"
	"github.com/oaeproject/model-loader/internal/sampler"
)

var (
	pair = sampler.W[string]
	mag  = sampler.M
)

func chance(p float64) sampler.Categorical[bool] {
	return sampler.Categorical[bool]{sampler.W(p, true), sampler.W(1-p, false)}
}

func userTypes(student, lecturer, researcher float64) sampler.Categorical[string] {
	return sampler.Categorical[string]{
		pair(student, model.Student), pair(lecturer, model.Lecturer), pair(researcher, model.Researcher),
	}
}

func visibility(public, loggedin, private float64) sampler.Categorical[string] {
	return sampler.Categorical[string]{pair(public, model.Public), pair(loggedin, model.LoggedIn), pair(private, model.Private)}
}

func contentRoles(viewerUsers sampler.Magnitude) map[string]RoleProfile {
	return map[string]RoleProfile{
		model.Manager: {
			TotalUsers:   mag(3, 2, 0, 25),
			TotalGroups:  mag(1, 3, 0, 5),
			Distribution: userTypes(0.2, 0.35, 0.45),
		},
		model.Viewer: {
			TotalUsers:   viewerUsers,
			TotalGroups:  mag(0, 5, 0, 15),
			Distribution: userTypes(0.4, 0.2, 0.4),
		},
	}
}

// DefaultProfiles returns the distributions used when no profile file is given.
func DefaultProfiles() Profiles {
	return Profiles{
		Users: UserProfile{
			Sex:                 sampler.Categorical[string]{pair(0.5, "M"), pair(0.5, "F")},
			UserType:            userTypes(0.5, 0.25, 0.25),
			AccountPrivacy:      visibility(0.4, 0.4, 0.2),
			HasBasicInfo:        chance(0.6),
			HasEmail:            chance(0.8),
			HasDepartment:       chance(0.5),
			HasCollege:          chance(0.5),
			HasPicture:          chance(0.5),
			ContentWeighting:    mag(5, 4, 1, 50),
			GroupWeighting:      mag(5, 4, 1, 50),
			DiscussionWeighting: mag(5, 4, 1, 50),
			FollowingWeighting:  mag(5, 4, 1, 50),
			Following:           mag(10, 8, 0, 200),
		},
		Groups: GroupProfile{
			Name:           mag(2, 1, 1, 10),
			HasDescription: chance(0.7),
			Description:    mag(2, 2, 1, 15),
			Visibility:     visibility(0.5, 0.3, 0.2),
			JoinPolicy:     sampler.Categorical[string]{pair(0.4, model.JoinYes), pair(0.3, model.JoinRequest), pair(0.3, model.JoinNo)},
			Creator:        userTypes(0.2, 0.4, 0.4),
			Roles: map[string]RoleProfile{
				model.Manager: {
					TotalUsers:   mag(2, 1, 0, 10),
					TotalGroups:  mag(0, 1, 0, 3),
					Distribution: userTypes(0.2, 0.4, 0.4),
				},
				model.Member: {
					TotalUsers:   mag(10, 15, 0, 300),
					TotalGroups:  mag(1, 2, 0, 10),
					Distribution: userTypes(0.6, 0.2, 0.2),
				},
			},
		},
		ContentSubTypes: sampler.Categorical[model.ContentSubType]{
			sampler.W(0.45, model.Link), sampler.W(0.4, model.File), sampler.W(0.15, model.Collabdoc),
		},
		Content: map[model.ContentSubType]ContentProfile{
			model.Link: {
				Name:           mag(2, 1, 1, 15),
				HasDescription: chance(0.6),
				Description:    mag(2, 2, 1, 25),
				Visibility:     visibility(0.7, 0.2, 0.1),
				Creator:        userTypes(0.3, 0.35, 0.35),
				Roles:          contentRoles(mag(5, 10, 0, 500)),
				Comments:       ThreadProfile{Has: chance(0.6), Count: mag(2, 1, 1, 20), Length: mag(8, 1, 1, 200)},
				LinkType:       sampler.Categorical[string]{pair(0.3, "youtube"), pair(0.7, "other")},
			},
			model.File: {
				Name:           mag(2, 1, 1, 15),
				HasDescription: chance(0.6),
				Description:    mag(2, 2, 1, 25),
				Visibility:     visibility(0.3, 0.3, 0.4),
				Creator:        userTypes(0.3, 0.35, 0.35),
				Roles:          contentRoles(mag(5, 3, 0, 500)),
				Comments:       ThreadProfile{Has: chance(0.7), Count: mag(3, 1, 1, 25), Length: mag(8, 1, 1, 200)},
				FileTypes: sampler.Categorical[string]{
					pair(0.25, "image"), pair(0.05, "video"), pair(0.20, "pdf"),
					pair(0.15, "doc"), pair(0.15, "other-office"), pair(0.20, "other"),
				},
				Sizes: map[string]sampler.Categorical[string]{
					"image":        sizes(0.25, 0.50, 0.25),
					"video":        sizes(0.05, 0.20, 0.75),
					"pdf":          sizes(0.20, 0.60, 0.20),
					"doc":          sizes(0.20, 0.60, 0.20),
					"other-office": sizes(0.20, 0.60, 0.20),
					"other":        sizes(0.40, 0.20, 0.40),
				},
				FileTitle: mag(3, 1, 1, 5),
			},
			model.Collabdoc: {
				Name:           mag(2, 1, 1, 15),
				HasDescription: chance(0.6),
				Description:    mag(2, 2, 1, 25),
				Visibility:     visibility(0.3, 0.3, 0.4),
				Creator:        userTypes(0.3, 0.35, 0.35),
				Roles:          contentRoles(mag(5, 3, 0, 500)),
				Comments:       ThreadProfile{Has: chance(0.5), Count: mag(4, 2, 1, 50), Length: mag(8, 1, 1, 200)},
			},
		},
		Discussions: DiscussionProfile{
			Name:        mag(3, 1, 1, 12),
			Description: mag(1, 1, 1, 5),
			Visibility:  visibility(0.6, 0.3, 0.1),
			Creator:     userTypes(0.4, 0.3, 0.3),
			Roles: map[string]RoleProfile{
				model.Manager: {
					TotalUsers:   mag(1, 1, 0, 5),
					TotalGroups:  mag(0, 1, 0, 3),
					Distribution: userTypes(0.3, 0.4, 0.3),
				},
				model.Member: {
					TotalUsers:   mag(5, 5, 0, 100),
					TotalGroups:  mag(1, 2, 0, 10),
					Distribution: userTypes(0.6, 0.2, 0.2),
				},
			},
			Messages: ThreadProfile{Has: chance(0.8), Count: mag(5, 4, 1, 50), Length: mag(3, 2, 1, 20)},
		},
		Publications: PublicationProfile{
			Title:       mag(4, 2, 2, 15),
			HasAbstract: chance(0.7),
			Abstract:    mag(4, 2, 1, 20),
			Authors:     mag(3, 2, 1, 12),
			Type: sampler.Categorical[string]{
				pair(0.5, model.JournalArticle), pair(0.15, model.Book), pair(0.15, model.Chapter),
				pair(0.1, model.Proceedings), pair(0.05, model.Thesis), pair(0.05, model.Other),
			},
			Year:    mag(2008, 4, 1990, 2013),
			HasLink: chance(0.4),
			Creator: userTypes(0.1, 0.4, 0.5),
		},
	}
}

func sizes(small, medium, large float64) sampler.Categorical[string] {
	return sampler.Categorical[string]{pair(small, "small"), pair(medium, "medium"), pair(large, "large")}
}
