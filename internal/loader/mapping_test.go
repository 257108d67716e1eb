package loader

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oaeproject/model-loader/internal/model"
)

func TestMappingTable_ResolveIsPartitionedByTypeAndBatch(t *testing.T) {
	m := NewMappingTable()
	m.Record(model.Users, 0, "a", "srv-a0")
	m.Record(model.Users, 1, "a", "srv-a1")
	m.Record(model.Groups, 0, "a", "srv-group-a")

	id, ok := m.Resolve(model.Users, 0, "a")
	assert.True(t, ok)
	assert.Equal(t, "srv-a0", id)

	id, ok = m.Resolve(model.Users, 1, "a")
	assert.True(t, ok)
	assert.Equal(t, "srv-a1", id)

	id, ok = m.Resolve(model.Groups, 0, "a")
	assert.True(t, ok)
	assert.Equal(t, "srv-group-a", id)

	_, ok = m.Resolve(model.Users, 2, "a")
	assert.False(t, ok)
	_, ok = m.Resolve(model.ContentItems, 0, "a")
	assert.False(t, ok)
}

func TestMappingTable_MappingsKeepRecordOrder(t *testing.T) {
	m := NewMappingTable()
	m.Record(model.ContentItems, 3, "z", "1")
	m.Record(model.ContentItems, 3, "a", "2")
	m.Record(model.ContentItems, 3, "z", "3")

	assert.Equal(t, []model.Mapping{{ID: "z", GeneratedID: "3"}, {ID: "a", GeneratedID: "2"}}, m.Mappings(model.ContentItems, 3))
	assert.Equal(t, 2, m.Len(model.ContentItems, 3))
	assert.Equal(t, []model.Mapping{}, m.Mappings(model.ContentItems, 4))
	assert.Zero(t, m.Len(model.Discussions, 3))
}

func TestMappingTable_ConcurrentBatches(t *testing.T) {
	m := NewMappingTable()
	var wg sync.WaitGroup
	for batch := 0; batch < 8; batch++ {
		wg.Add(1)
		go func(batch int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				m.Record(model.Users, batch, string(rune('a'+i%26))+"-"+string(rune('a'+i/26)), "srv")
				m.Resolve(model.Users, batch, "a-a")
			}
		}(batch)
	}
	wg.Wait()
	for batch := 0; batch < 8; batch++ {
		assert.Equal(t, 100, m.Len(model.Users, batch))
	}
}
