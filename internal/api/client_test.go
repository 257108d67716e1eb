package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oaeproject/model-loader/internal/model"
)

type fakeServer struct {
	mu       sync.Mutex
	logins   int
	requests []*http.Request
	forms    []map[string][]string
	fail     map[string]int
	files    map[string]string
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	f := &fakeServer{fail: map[string]int{}, files: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err == nil {
			data, _ := io.ReadAll(file)
			f.files[header.Filename] = string(data)
		}
	} else if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.requests = append(f.requests, r)
	f.forms = append(f.forms, r.Form)

	if status, ok := f.fail[r.URL.Path]; ok {
		http.Error(w, `{"msg":"nope"}`, status)
		return
	}

	switch {
	case r.URL.Path == "/api/auth/login":
		f.logins++
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: r.Form.Get("username")})
		_, _ = w.Write([]byte(`{}`))
	case r.URL.Path == "/api/user/create":
		_, _ = w.Write([]byte(`{"id":"u:cam:` + r.Form.Get("username") + `"}`))
	default:
		if _, err := r.Cookie("sid"); err != nil {
			http.Error(w, "anonymous", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"x:cam:1"}`))
	}
}

func (f *fakeServer) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var paths []string
	for _, r := range f.requests {
		paths = append(paths, r.URL.Path)
	}
	return paths
}

type recordingObserver struct {
	mu         sync.Mutex
	operations []string
	errors     int
}

func (o *recordingObserver) ObserveRequest(operation string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.operations = append(o.operations, operation)
	if err != nil {
		o.errors++
	}
}

func testUser() *model.User {
	return &model.User{
		Base:                model.Base{ID: "batch0-mary-smith-1"},
		UserID:              "batch0-mary-smith-1",
		Password:            "letmein",
		FirstName:           "Mary",
		LastName:            "Smith",
		DisplayName:         "Mary Smith",
		UserAccountPrivacy:  model.Public,
		UserType:            model.Student,
		HasBasicInfoSection: true,
		HasEmail:            true,
		Email:               "mary_smith@cam.ac.uk",
	}
}

func TestCreateUser_ThenAuthenticatedCallsReuseSession(t *testing.T) {
	fake, srv := newFakeServer(t)
	observer := &recordingObserver{}
	c := NewClient(Config{ServerURL: srv.URL + "//", Timeout: time.Second}, observer)
	ctx := context.Background()
	u := testUser()

	id, err := c.CreateUser(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "u:cam:batch0-mary-smith-1", id)

	require.NoError(t, c.UpdateBasicInfo(ctx, u, id))
	require.NoError(t, c.Follow(ctx, u, "u:cam:other"))

	assert.Equal(t, 1, fake.logins)
	assert.Equal(t, []string{
		"/api/user/create",
		"/api/auth/login",
		"/api/user/u:cam:batch0-mary-smith-1",
		"/api/following/u:cam:other/follow",
	}, fake.paths())
	assert.Equal(t, "mary_smith@cam.ac.uk", fake.forms[2]["email"][0])
	assert.Equal(t, "/test", strings.TrimPrefix(fake.requests[0].Header.Get("Referer"), srv.URL))
	assert.Equal(t, []string{"Create user", "Login", "Add basic info", "Follow user"}, observer.operations)
	assert.Equal(t, 0, observer.errors)

	cookie, ok := c.Session().Cookie(u.UserID)
	require.True(t, ok)
	assert.Equal(t, "sid=batch0-mary-smith-1", cookie)
}

func TestUpdateBasicInfo_SkipsWhenNothingToSend(t *testing.T) {
	fake, srv := newFakeServer(t)
	c := NewClient(Config{ServerURL: srv.URL}, nil)
	u := testUser()
	u.HasBasicInfoSection = false
	require.NoError(t, c.UpdateBasicInfo(context.Background(), u, "u:cam:1"))
	require.NoError(t, c.UploadProfilePicture(context.Background(), u, "u:cam:1"))
	assert.Empty(t, fake.paths())
}

func TestFailedRequest_ReturnsRequestError(t *testing.T) {
	fake, srv := newFakeServer(t)
	fake.fail["/api/group/create"] = http.StatusInternalServerError
	observer := &recordingObserver{}
	c := NewClient(Config{ServerURL: srv.URL}, observer)

	g := &model.Group{
		Base:       model.Base{ID: "batch0-chess-1"},
		Name:       "Chess",
		Visibility: model.Public,
		JoinPolicy: model.JoinYes,
		Roles: model.RoleTable{
			model.Manager: {Users: []string{"u:cam:2"}},
			model.Member:  {Users: []string{"u:cam:3", "u:cam:4"}},
		},
	}
	_, err := c.CreateGroup(context.Background(), testUser(), g)
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusInternalServerError, reqErr.Status)
	assert.Equal(t, "Create group", reqErr.Operation)
	assert.Equal(t, []string{"u:cam:3", "u:cam:4"}, reqErr.Params["members"])
	assert.Contains(t, reqErr.Body, "nope")
	assert.Equal(t, 1, observer.errors)
}

func TestUnauthorized_ForgetsCookie(t *testing.T) {
	fake, srv := newFakeServer(t)
	c := NewClient(Config{ServerURL: srv.URL}, nil)
	u := testUser()
	require.NoError(t, c.Login(context.Background(), Credentials{UserID: u.UserID, Password: u.Password}))

	fake.fail["/api/following/u:cam:2/follow"] = http.StatusUnauthorized
	err := c.Follow(context.Background(), u, "u:cam:2")
	require.Error(t, err)
	_, ok := c.Session().Cookie(u.UserID)
	assert.False(t, ok)
}

func TestCreateContent_FileIsUploadedAsMultipart(t *testing.T) {
	fake, srv := newFakeServer(t)
	c := NewClient(Config{ServerURL: srv.URL}, nil)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("lecture notes"), 0o644))

	item := &model.Content{
		Base:            model.Base{ID: "batch0-notes-1"},
		ResourceSubType: model.File,
		Name:            "Notes",
		Visibility:      model.Private,
		Type:            "other",
		Size:            "small",
		Path:            path,
		Filename:        "Week one \"notes\"",
		Roles: model.RoleTable{
			model.Viewer: {Users: []string{"u:cam:2"}, Groups: []string{"g:cam:1"}},
		},
	}
	id, err := c.CreateContent(context.Background(), testUser(), item)
	require.NoError(t, err)
	assert.Equal(t, "x:cam:1", id)

	assert.Equal(t, "lecture notes", fake.files[`Week one "notes"`])
	form := fake.forms[len(fake.forms)-1]
	assert.Equal(t, []string{"file"}, form["resourceSubType"])
	assert.ElementsMatch(t, []string{"u:cam:2", "g:cam:1"}, form["viewers"])
}

func TestCreateContent_MissingFileFails(t *testing.T) {
	_, srv := newFakeServer(t)
	c := NewClient(Config{ServerURL: srv.URL}, nil)
	item := &model.Content{ResourceSubType: model.File, Path: filepath.Join(t.TempDir(), "gone.pdf")}
	_, err := c.CreateContent(context.Background(), testUser(), item)
	assert.Error(t, err)
}

func TestPostMessage(t *testing.T) {
	fake, srv := newFakeServer(t)
	c := NewClient(Config{ServerURL: srv.URL}, nil)
	ctx := context.Background()

	_, err := c.PostMessage(ctx, testUser(), model.Discussions, "d:cam:1", "Hello", "")
	require.NoError(t, err)
	_, err = c.PostMessage(ctx, testUser(), model.ContentItems, "c:cam:1", "Reply", "m:1")
	require.NoError(t, err)
	_, err = c.PostMessage(ctx, testUser(), model.Groups, "g:cam:1", "Nope", "")
	assert.Error(t, err)

	paths := fake.paths()
	assert.Equal(t, "/api/discussion/d:cam:1/messages", paths[1])
	assert.Equal(t, "/api/content/c:cam:1/messages", paths[2])
	assert.Empty(t, fake.forms[1]["replyTo"])
	assert.Equal(t, []string{"m:1"}, fake.forms[2]["replyTo"])
}

func TestRateLimit_PacesRequests(t *testing.T) {
	_, srv := newFakeServer(t)
	c := NewClient(Config{ServerURL: srv.URL, RequestsPerSecond: 20, Burst: 1}, nil)
	start := time.Now()
	for i := 0; i < 4; i++ {
		_, err := c.CreateUser(context.Background(), testUser())
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 140*time.Millisecond)
}

func TestCancelledContext(t *testing.T) {
	_, srv := newFakeServer(t)
	c := NewClient(Config{ServerURL: srv.URL}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.CreateUser(ctx, testUser())
	assert.Error(t, err)
}

func TestSession(t *testing.T) {
	s := NewSession()
	_, ok := s.Cookie("u1")
	assert.False(t, ok)

	s.Store("u1", "sid=abc")
	cookie, ok := s.Cookie("u1")
	assert.True(t, ok)
	assert.Equal(t, "sid=abc", cookie)
	assert.Equal(t, 1, s.Len())

	s.Forget("u1")
	assert.Equal(t, 0, s.Len())
}
