package loader

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/oaeproject/model-loader/internal/model"
)

type call struct {
	op      string
	as      string
	target  string
	roles   model.RoleTable
	members map[string]string
	replyTo string
}

// fakeClient assigns "srv-<id>" to every created entity unless the id is listed in fail.
type fakeClient struct {
	mu       sync.Mutex
	calls    []call
	fail     map[string]bool
	messages int
	delay    time.Duration

	active    int32
	maxActive int32
}

func newFakeClient(fail ...string) *fakeClient {
	f := &fakeClient{fail: map[string]bool{}}
	for _, id := range fail {
		f.fail[id] = true
	}
	return f
}

func (f *fakeClient) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeClient) create(ctx context.Context, c call, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.record(c)
	if f.fail[id] {
		return "", errors.Errorf("server refused %s", id)
	}
	return "srv-" + id, nil
}

func (f *fakeClient) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ops []string
	for _, c := range f.calls {
		ops = append(ops, c.op+":"+c.target)
	}
	return ops
}

func (f *fakeClient) find(op, target string) (call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c.op == op && c.target == target {
			return c, true
		}
	}
	return call{}, false
}

func (f *fakeClient) CreateUser(ctx context.Context, u *model.User) (string, error) {
	n := atomic.AddInt32(&f.active, 1)
	for {
		peak := atomic.LoadInt32(&f.maxActive)
		if n <= peak || atomic.CompareAndSwapInt32(&f.maxActive, peak, n) {
			break
		}
	}
	return f.create(ctx, call{op: "createUser", target: u.ID}, u.ID)
}

func (f *fakeClient) UpdateBasicInfo(_ context.Context, u *model.User, serverID string) error {
	f.record(call{op: "basicInfo", target: serverID})
	return nil
}

func (f *fakeClient) UploadProfilePicture(_ context.Context, u *model.User, serverID string) error {
	f.record(call{op: "picture", target: serverID})
	return nil
}

func (f *fakeClient) Follow(_ context.Context, follower *model.User, followee string) error {
	f.record(call{op: "follow", as: follower.ID, target: followee})
	return nil
}

func (f *fakeClient) CreatePublication(ctx context.Context, creator *model.User, p *model.Publication) (string, error) {
	return f.create(ctx, call{op: "createPublication", as: creator.ID, target: p.ID}, p.ID)
}

func (f *fakeClient) CreateGroup(ctx context.Context, creator *model.User, g *model.Group) (string, error) {
	return f.create(ctx, call{op: "createGroup", as: creator.ID, target: g.ID, roles: g.Roles}, g.ID)
}

func (f *fakeClient) SetGroupMembers(_ context.Context, creator *model.User, groupID string, members map[string]string) error {
	f.record(call{op: "members", as: creator.ID, target: groupID, members: members})
	return nil
}

func (f *fakeClient) CreateContent(ctx context.Context, creator *model.User, item *model.Content) (string, error) {
	return f.create(ctx, call{op: "createContent", as: creator.ID, target: item.ID, roles: item.Roles}, item.ID)
}

func (f *fakeClient) CreateDiscussion(ctx context.Context, creator *model.User, d *model.Discussion) (string, error) {
	defer atomic.AddInt32(&f.active, -1)
	return f.create(ctx, call{op: "createDiscussion", as: creator.ID, target: d.ID, roles: d.Roles}, d.ID)
}

func (f *fakeClient) PostMessage(_ context.Context, author *model.User, t model.EntityType, resourceID, body, replyTo string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: "message", as: author.ID, target: resourceID, replyTo: replyTo})
	if f.fail[body] {
		return "", errors.Errorf("server refused message %q", body)
	}
	id := "msg-" + strconv.Itoa(f.messages)
	f.messages++
	return id, nil
}
