package loader

import (
	"sync"

	"github.com/oaeproject/model-loader/internal/model"
)

// MappingTable maps the ids an entity was generated with to the ids the server assigned. It is
// partitioned by entity type and then by batch; references never leave their batch, so lookups
// always name the batch they resolve in.
type MappingTable struct {
	mu         sync.RWMutex
	partitions map[model.EntityType]map[int]*partition
}

// partition keeps insertion order so that persisted mapping files follow load order.
type partition struct {
	order []string
	ids   map[string]model.Mapping
}

func NewMappingTable() *MappingTable {
	return &MappingTable{partitions: map[model.EntityType]map[int]*partition{}}
}

// Record stores the server id of the entity of type t generated as originalID in batch. Recording
// the same id twice keeps the latest server id.
func (m *MappingTable) Record(t model.EntityType, batch int, originalID, generatedID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byBatch, ok := m.partitions[t]
	if !ok {
		byBatch = map[int]*partition{}
		m.partitions[t] = byBatch
	}
	p, ok := byBatch[batch]
	if !ok {
		p = &partition{ids: map[string]model.Mapping{}}
		byBatch[batch] = p
	}
	if _, exists := p.ids[originalID]; !exists {
		p.order = append(p.order, originalID)
	}
	p.ids[originalID] = model.Mapping{ID: originalID, GeneratedID: generatedID}
}

// Resolve returns the server id of the entity of type t generated as originalID in batch.
func (m *MappingTable) Resolve(t model.EntityType, batch int, originalID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.partitions[t][batch]
	if !ok {
		return "", false
	}
	mapping, ok := p.ids[originalID]
	return mapping.GeneratedID, ok
}

// Mappings returns the mappings of one type and batch in the order they were recorded.
func (m *MappingTable) Mappings(t model.EntityType, batch int) []model.Mapping {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.partitions[t][batch]
	if !ok {
		return []model.Mapping{}
	}
	mappings := make([]model.Mapping, 0, len(p.order))
	for _, id := range p.order {
		mappings = append(mappings, p.ids[id])
	}
	return mappings
}

// Len returns the number of mappings recorded for one type and batch.
func (m *MappingTable) Len(t model.EntityType, batch int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.partitions[t][batch]; ok {
		return len(p.ids)
	}
	return 0
}
