package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oaeproject/model-loader/internal/common/modelerrors"
	"github.com/oaeproject/model-loader/internal/model"
	"github.com/oaeproject/model-loader/internal/sampler"
)

func TestDefaultProfiles_AreValid(t *testing.T) {
	p := DefaultProfiles()
	assert.NoError(t, p.Validate())
}

func TestParseProfiles_MergesOverDefaults(t *testing.T) {
	doc := `
contentSubTypes: [[1, link]]
content:
  link:
    name: [5, 0, 5, 5]
    visibility: [[1, private]]
users:
  following: {max: 3}
`
	p, err := ParseProfiles([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.Equal(t, sampler.Categorical[model.ContentSubType]{sampler.W(1.0, model.Link)}, p.ContentSubTypes)
	assert.Equal(t, sampler.M(5, 0, 5, 5), p.Content[model.Link].Name)
	assert.Equal(t, sampler.Categorical[string]{sampler.W(1.0, model.Private)}, p.Content[model.Link].Visibility)

	defaults := DefaultProfiles()
	assert.Equal(t, defaults.Content[model.Link].Roles, p.Content[model.Link].Roles)
	assert.Equal(t, defaults.Content[model.File], p.Content[model.File])
	assert.Equal(t, sampler.M(10, 8, 0, 3), p.Users.Following)
	assert.Equal(t, defaults.Groups, p.Groups)
}

func TestParseProfiles_EmptyDocumentIsDefaults(t *testing.T) {
	p, err := ParseProfiles([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultProfiles(), p)
}

func TestParseProfiles_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseProfiles([]byte("users:\n  favouriteColour: [[1, blue]]\n"))
	assert.Error(t, err)
}

func TestLoadProfiles_NoPathIsDefaults(t *testing.T) {
	p, err := LoadProfiles("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfiles(), p)
}

func TestProfiles_Validate(t *testing.T) {
	tests := map[string]func(p *Profiles){
		"empty sex distribution": func(p *Profiles) { p.Users.Sex = nil },
		"unknown user type": func(p *Profiles) {
			p.Groups.Creator = sampler.Categorical[string]{sampler.W(1, "professor")}
		},
		"unknown visibility": func(p *Profiles) {
			p.Discussions.Visibility = sampler.Categorical[string]{sampler.W(1, "secret")}
		},
		"missing content profile": func(p *Profiles) { delete(p.Content, model.Collabdoc) },
		"missing file size": func(p *Profiles) {
			file := p.Content[model.File]
			delete(file.Sizes, "video")
			p.Content[model.File] = file
		},
		"inverted magnitude": func(p *Profiles) { p.Publications.Year = sampler.M(2000, 1, 2010, 1990) },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			p := DefaultProfiles()
			mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, modelerrors.IsInvalidArgument(err))
		})
	}
}
