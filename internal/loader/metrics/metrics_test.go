package metrics

import (
	"bytes"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oaeproject/model-loader/internal/api"
	"github.com/oaeproject/model-loader/internal/model"
)

func TestRunMetrics_Summary(t *testing.T) {
	m := New()
	m.ObserveRequest("createUser", 10*time.Millisecond, nil)
	m.ObserveRequest("createUser", 12*time.Millisecond, nil)
	m.ObserveRequest("createGroup", 5*time.Millisecond, errors.New("boom"))
	m.RecordCreated(model.Users)
	m.RecordCreated(model.Users)
	m.RecordUnresolved(model.Groups)
	m.RecordBatchLoaded()
	m.RecordFailure(0, model.Groups, "g1", true, errors.New("boom"))

	s, err := m.Summary()
	require.NoError(t, err)
	assert.Equal(t, 3, s.Requests)
	assert.Equal(t, 1, s.RequestErrors)
	assert.Equal(t, 1, s.Unresolved)
	assert.Equal(t, 1, s.Batches)
	assert.Equal(t, map[string]int{"users": 2}, s.Created)
	assert.Equal(t, map[string]int{"groups": 1}, s.Failed)
	require.Len(t, s.Details, 1)
	assert.Equal(t, "g1", s.Details[0].EntityID)
}

func TestRunMetrics_RecordFailure_RequestError(t *testing.T) {
	m := New()
	reqErr := &api.RequestError{
		Operation: "createContent",
		Method:    "POST",
		URL:       "http://localhost/api/content/create",
		Status:    400,
		Params:    url.Values{"displayName": {"x"}},
		Body:      "bad request",
	}
	m.RecordFailure(2, model.ContentItems, "c1", false, errors.Wrap(reqErr, "creating content"))

	details := m.Details()
	require.Len(t, details, 1)
	assert.Equal(t, "createContent", details[0].Operation)
	assert.Equal(t, 400, details[0].Status)
	assert.Equal(t, "x", details[0].Params.Get("displayName"))
	assert.Equal(t, "bad request", details[0].Body)

	s, err := m.Summary()
	require.NoError(t, err)
	assert.Empty(t, s.Failed)
}

func TestRunMetrics_Concurrent(t *testing.T) {
	m := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.ObserveRequest("follow", time.Millisecond, nil)
			m.RecordFailure(i, model.Users, "u", false, errors.New("x"))
		}(i)
	}
	wg.Wait()

	s, err := m.Summary()
	require.NoError(t, err)
	assert.Equal(t, 20, s.Requests)
	assert.Len(t, s.Details, 20)
}

func TestSummary_Write(t *testing.T) {
	s := Summary{
		Requests: 4,
		Created:  map[string]int{"users": 3, "groups": 1},
		Details: []ErrorDetail{{
			Batch: 1, Type: model.ContentItems, EntityID: "c9", Operation: "createContent",
			Params: url.Values{"a": {"b"}}, Body: "nope\n", Err: "request failed",
		}},
	}
	var buf bytes.Buffer
	s.Write(&buf)
	out := buf.String()
	assert.Contains(t, out, "Requests made: 4")
	assert.Contains(t, out, "Entities created: groups=1, users=3")
	assert.Contains(t, out, "Entities failed: none")
	assert.Contains(t, out, "batch 1 content c9: request failed")
	assert.Contains(t, out, "params: a=b")
	assert.Contains(t, out, "response: nope")
}
