package records

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oaeproject/model-loader/internal/common/modelerrors"
	"github.com/oaeproject/model-loader/internal/model"
)

func TestWriteThenLoad_PreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mappings.txt")
	mappings := []model.Mapping{
		{ID: "b", GeneratedID: "u:cam:2"},
		{ID: "a", GeneratedID: "u:cam:1"},
		{ID: "c", GeneratedID: "u:cam:3"},
	}
	require.NoError(t, Write(path, mappings))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"{\"id\":\"b\",\"generatedId\":\"u:cam:2\"}\n{\"id\":\"a\",\"generatedId\":\"u:cam:1\"}\n{\"id\":\"c\",\"generatedId\":\"u:cam:3\"}\n",
		string(data))

	loaded, err := Load[model.Mapping](path)
	require.NoError(t, err)
	assert.Equal(t, mappings, loaded)
}

func TestLoad_SkipsBlankLinesAndReportsBadLines(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	require.NoError(t, os.WriteFile(good, []byte("{\"id\":\"a\"}\n\n{\"id\":\"b\"}"), 0o644))
	loaded, err := Load[model.Mapping](good)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("{\"id\":\"a\"}\nnot json\n"), 0o644))
	_, err = Load[model.Mapping](bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.txt:2")
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")
	_, err := Load[model.Mapping](path)
	assert.True(t, modelerrors.IsNotFound(err))

	items, err := LoadOptional[model.Mapping](path)
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestBatchRoundTrip_OptionalFiles(t *testing.T) {
	dir := t.TempDir()
	b := model.NewBatch(3)
	require.NoError(t, b.AddUser(&model.User{Base: model.Base{ID: "u1"}, UserType: model.Student}))
	require.NoError(t, b.AddGroup(&model.Group{Base: model.Base{ID: "g1"}, Creator: "u1"}))
	require.NoError(t, b.AddContent(&model.Content{
		Base:            model.Base{ID: "c1"},
		ResourceSubType: model.Collabdoc,
		Creator:         "u1",
		Comments:        []model.Comment{{Message: "hi", ReplyTo: model.Root()}},
	}))
	require.NoError(t, WriteBatch(dir, b))

	require.NoError(t, os.Remove(Path(dir, model.Discussions, 3)))
	require.NoError(t, os.Remove(Path(dir, model.Publications, 3)))

	loaded, err := LoadBatch(dir, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Index)
	assert.Len(t, loaded.Users, 1)
	assert.Len(t, loaded.Groups, 1)
	require.Len(t, loaded.Content, 1)
	assert.True(t, loaded.Content[0].Comments[0].ReplyTo.IsRoot())
	assert.Empty(t, loaded.Discussions)
	assert.Empty(t, loaded.Publications)

	_, ok := loaded.Group("g1")
	assert.True(t, ok)
}

func TestBatchRoundTrip_ThreadsAndRoles(t *testing.T) {
	dir := t.TempDir()
	b := model.NewBatch(0)
	require.NoError(t, b.AddUser(&model.User{Base: model.Base{ID: "u1"}, UserType: model.Student}))
	expected := &model.Discussion{
		Base:       model.Base{ID: "d1"},
		Name:       "Exam timetable",
		Visibility: model.Public,
		Creator:    "u1",
		Roles: model.RoleTable{
			"manager": {Users: []string{"u1"}},
			"member":  {Groups: []string{"g1"}},
		},
		HasMessages: true,
		Messages: []model.Comment{
			{Message: "first", ReplyTo: model.Root()},
			{Message: "second", ReplyTo: model.ReplyToIndex(0)},
			{Message: "third", ReplyTo: model.ReplyToIndex(1)},
		},
	}
	require.NoError(t, b.AddDiscussion(expected))
	require.NoError(t, WriteBatch(dir, b))

	loaded, err := LoadBatch(dir, 0)
	require.NoError(t, err)
	require.Len(t, loaded.Discussions, 1)
	if diff := cmp.Diff(expected, loaded.Discussions[0], cmp.AllowUnexported(model.ReplyTo{})); diff != "" {
		t.Fatalf("discussion changed on round trip (-want +got):\n%s", diff)
	}
}

func TestLoadBatch_RequiresUsers(t *testing.T) {
	_, err := LoadBatch(t.TempDir(), 0)
	assert.True(t, modelerrors.IsNotFound(err))
}

func TestPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("scripts", "users", "4.txt"), Path("scripts", model.Users, 4))
	assert.Equal(t, filepath.Join("scripts", "generatedIds", "groups-4.txt"), MappingPath("scripts", model.Groups, 4))
}
