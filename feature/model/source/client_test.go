package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Config{
		BaseURL:        serverURL,
		Token:          "secret",
		ModelRef:       "model-1",
		PageSize:       2,
		TimeoutSeconds: 5,
	})
}

func TestFetch_FollowsPagination(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RequestURI())
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("cursor") {
		case "":
			w.Write([]byte(`{"nodes":[{"sourceObjectId":"obj-1","attributes":{"ASSEMBLY_GUID":"g1"}},{"sourceObjectId":"obj-2","attributes":{"ASSEMBLY_GUID":"g2"}}],"nextCursor":"p2"}`))
		case "p2":
			w.Write([]byte(`{"nodes":[{"sourceObjectId":"obj-3","attributes":{"ASSEMBLY_GUID":"g3"}}],"nextCursor":""}`))
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.Fetch(context.Background(), "model-1")
	require.NoError(t, err)

	assert.Equal(t, "model-1", result.SnapshotRef)
	require.Len(t, result.Nodes, 3)
	assert.Equal(t, "obj-1", result.Nodes[0].SourceObjectID)
	assert.Equal(t, "obj-3", result.Nodes[2].SourceObjectID)
	assert.False(t, result.FetchedAt.IsZero())
	require.Len(t, requests, 2)
	assert.Contains(t, requests[0], "/models/model-1/nodes")
	assert.Contains(t, requests[1], "cursor=p2")
}

func TestFetch_DefaultsToConfiguredModelRef(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/models/model-1/nodes")
		w.Write([]byte(`{"nodes":[],"nextCursor":""}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "model-1", result.SnapshotRef)
	assert.Empty(t, result.Nodes)
}

func TestFetch_FailedPageAbortsWholeFetch(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"nodes":[{"sourceObjectId":"obj-1","attributes":{}}],"nextCursor":"p2"}`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.Fetch(context.Background(), "model-1")
	require.Error(t, err)
	assert.Nil(t, result)

	var srcErr *Error
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, http.StatusBadGateway, srcErr.StatusCode())
	assert.Contains(t, srcErr.Error(), "upstream down")
}

func TestFetch_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Fetch(context.Background(), "model-1")

	var srcErr *Error
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, http.StatusUnauthorized, srcErr.StatusCode())
}

func TestFetch_NoModelRef(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost"})
	_, err := client.Fetch(context.Background(), "")
	require.Error(t, err)
}
