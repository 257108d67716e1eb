package records

import (
	"github.com/pkg/errors"

	"github.com/oaeproject/model-loader/internal/model"
)

// WriteBatch writes every per-type slice of b under scriptsDir.
func WriteBatch(scriptsDir string, b *model.Batch) error {
	writes := []struct {
		t     model.EntityType
		write func(path string) error
	}{
		{model.Users, func(p string) error { return Write(p, b.Users) }},
		{model.Groups, func(p string) error { return Write(p, b.Groups) }},
		{model.ContentItems, func(p string) error { return Write(p, b.Content) }},
		{model.Discussions, func(p string) error { return Write(p, b.Discussions) }},
		{model.Publications, func(p string) error { return Write(p, b.Publications) }},
	}
	for _, w := range writes {
		if err := w.write(Path(scriptsDir, w.t, b.Index)); err != nil {
			return errors.WithMessagef(err, "writing %s of batch %d", w.t, b.Index)
		}
	}
	return nil
}

// LoadBatch reads one batch back from scriptsDir. Users, groups and content must exist;
// discussions and publications are optional and count as empty when absent.
func LoadBatch(scriptsDir string, index int) (*model.Batch, error) {
	b := model.NewBatch(index)

	users, err := Load[*model.User](Path(scriptsDir, model.Users, index))
	if err != nil {
		return nil, err
	}
	groups, err := Load[*model.Group](Path(scriptsDir, model.Groups, index))
	if err != nil {
		return nil, err
	}
	content, err := Load[*model.Content](Path(scriptsDir, model.ContentItems, index))
	if err != nil {
		return nil, err
	}
	discussions, err := LoadOptional[*model.Discussion](Path(scriptsDir, model.Discussions, index))
	if err != nil {
		return nil, err
	}
	publications, err := LoadOptional[*model.Publication](Path(scriptsDir, model.Publications, index))
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if err := b.AddUser(u); err != nil {
			return nil, err
		}
	}
	for _, g := range groups {
		if err := b.AddGroup(g); err != nil {
			return nil, err
		}
	}
	for _, c := range content {
		if err := b.AddContent(c); err != nil {
			return nil, err
		}
	}
	for _, d := range discussions {
		if err := b.AddDiscussion(d); err != nil {
			return nil, err
		}
	}
	for _, p := range publications {
		if err := b.AddPublication(p); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// WriteMappings persists the id mappings of one type and batch.
func WriteMappings(scriptsDir string, t model.EntityType, batch int, mappings []model.Mapping) error {
	return Write(MappingPath(scriptsDir, t, batch), mappings)
}
