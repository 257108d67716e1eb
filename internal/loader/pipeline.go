// Package loader replays generated batches against a live server. Entities are created in phase
// order, and every reference to another entity is rewritten to the id the server assigned it.
package loader

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/oaeproject/model-loader/internal/common/modelerrors"
	"github.com/oaeproject/model-loader/internal/loader/metrics"
	"github.com/oaeproject/model-loader/internal/model"
	"github.com/oaeproject/model-loader/internal/records"
)

// Phase is one step of loading a batch. When Type is set, the mappings of that type are
// persisted once the phase ends.
type Phase struct {
	Name string
	Type model.EntityType
	Run  func(ctx context.Context, b *model.Batch) error
}

type Pipeline struct {
	client     EntityClient
	mappings   *MappingTable
	metrics    *metrics.RunMetrics
	scriptsDir string
	phases     []Phase
}

func NewPipeline(client EntityClient, runMetrics *metrics.RunMetrics, scriptsDir string) *Pipeline {
	p := &Pipeline{
		client:     client,
		mappings:   NewMappingTable(),
		metrics:    runMetrics,
		scriptsDir: scriptsDir,
	}
	p.phases = []Phase{
		{Name: "users", Type: model.Users, Run: p.loadUsers},
		{Name: "following", Run: p.loadFollowing},
		{Name: "publications", Type: model.Publications, Run: p.loadPublications},
		{Name: "groups", Type: model.Groups, Run: p.loadGroups},
		{Name: "group memberships", Run: p.loadGroupMemberships},
		{Name: "content", Type: model.ContentItems, Run: p.loadContent},
		{Name: "discussions", Type: model.Discussions, Run: p.loadDiscussions},
	}
	return p
}

func (p *Pipeline) Phases() []Phase {
	return p.phases
}

func (p *Pipeline) Mappings() *MappingTable {
	return p.mappings
}

// ReconcileAndLoad runs every phase over batch. Failures of individual entities are recorded
// in the run metrics and do not stop the batch; an error is only returned if ctx is done or the
// mappings cannot be persisted.
func (p *Pipeline) ReconcileAndLoad(ctx context.Context, batch *model.Batch, batchIndex int) error {
	if batch.Index != batchIndex {
		return errors.WithStack(&modelerrors.ErrInvalidArgument{
			Name:    "batchIndex",
			Value:   batchIndex,
			Message: "does not match the index the batch was generated with",
		})
	}
	logger := log.WithField("batch", batchIndex)
	start := time.Now()
	for _, phase := range p.phases {
		phaseStart := time.Now()
		if err := phase.Run(ctx, batch); err != nil {
			return errors.WithMessagef(err, "loading %s of batch %d", phase.Name, batchIndex)
		}
		if phase.Type != "" {
			if err := records.WriteMappings(p.scriptsDir, phase.Type, batchIndex, p.mappings.Mappings(phase.Type, batchIndex)); err != nil {
				return err
			}
			logger.Infof("Loaded %d of %d %s in %s", p.mappings.Len(phase.Type, batchIndex), batch.Count(phase.Type), phase.Type, time.Since(phaseStart))
		} else {
			logger.Infof("Loaded %s in %s", phase.Name, time.Since(phaseStart))
		}
	}
	p.metrics.RecordBatchLoaded()
	logger.Infof("Finished loading batch in %s", time.Since(start))
	return nil
}

// created records the server id of e and marks it created.
func (p *Pipeline) created(t model.EntityType, batch int, e model.Entity, serverID string) {
	p.mappings.Record(t, batch, e.EntityID(), serverID)
	e.MarkCreated(serverID)
	p.metrics.RecordCreated(t)
}

// resolve returns the server id of the entity of type t generated as id. A reference that
// cannot be resolved is returned unchanged, logged and counted against the referring type.
func (p *Pipeline) resolve(t model.EntityType, batch int, referrer model.EntityType, referrerID, id string) string {
	if serverID, ok := p.mappings.Resolve(t, batch, id); ok {
		return serverID
	}
	log.WithFields(log.Fields{
		"batch":     batch,
		"type":      referrer,
		"id":        referrerID,
		"reference": id,
	}).Warnf("Could not map %s reference", t)
	p.metrics.RecordUnresolved(referrer)
	return id
}

// resolveRoles returns a copy of roles with user ids, and group ids if withGroups is set,
// rewritten to server ids. When withGroups is unset the copy carries no groups.
func (p *Pipeline) resolveRoles(batch int, referrer model.EntityType, referrerID string, roles model.RoleTable, withGroups bool) model.RoleTable {
	resolved := make(model.RoleTable, len(roles))
	for _, name := range roles.Names() {
		role := roles[name]
		r := &model.Role{TotalUsers: role.TotalUsers, TotalGroups: role.TotalGroups}
		for _, id := range role.Users {
			r.Users = append(r.Users, p.resolve(model.Users, batch, referrer, referrerID, id))
		}
		if withGroups {
			for _, id := range role.Groups {
				r.Groups = append(r.Groups, p.resolve(model.Groups, batch, referrer, referrerID, id))
			}
		}
		resolved[name] = r
	}
	return resolved
}

func creatorOf(b *model.Batch, t model.EntityType, id, creator string) (*model.User, error) {
	u, ok := b.User(creator)
	if !ok {
		return nil, errors.WithStack(&modelerrors.ErrNotFound{
			Type:    "user",
			Value:   creator,
			Message: "creator of " + string(t) + " " + id + " is not part of the batch",
		})
	}
	return u, nil
}

func (p *Pipeline) failed(b *model.Batch, t model.EntityType, id string, creating bool, err error) {
	log.WithFields(log.Fields{"batch": b.Index, "type": t, "id": id}).WithError(err).Warn("Request failed")
	p.metrics.RecordFailure(b.Index, t, id, creating, err)
}
