package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPost(t *testing.T, client *http.Client, baseURL, content string) {
	t.Helper()
	resp, raw := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/posts/", map[string]string{"content": content})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create post response: %s", raw)
}

func TestCreatePostRequiresContent(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)
	signup(t, client, env.ts.URL, "Ann", "ann1", "ann@x.com", "secret1")

	resp, raw := doJSON(t, client, http.MethodPost, env.ts.URL+"/api/v1/posts/", map[string]string{"image": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Content is required", message(t, raw))
}

func TestCreatePostWithImage(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)
	signup(t, client, env.ts.URL, "Ann", "ann1", "ann@x.com", "secret1")

	resp, raw := doJSON(t, client, http.MethodPost, env.ts.URL+"/api/v1/posts/", map[string]string{
		"content": "hello world",
		"image":   "data:image/png;base64,aGVsbG8=",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &post))
	assert.Equal(t, "hello world", post["content"])
	assert.Equal(t, "https://img.test/object-1.png", post["image"])
	assert.Equal(t, "ann1", post["authorUsername"])
}

func TestFeedShowsOwnAndConnectionsPostsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ann := newClient(t)
	bob := newClient(t)
	carol := newClient(t)
	signup(t, ann, env.ts.URL, "Ann", "ann1", "ann@x.com", "secret1")
	signup(t, bob, env.ts.URL, "Bob", "bob1", "bob@x.com", "secret1")
	signup(t, carol, env.ts.URL, "Carol", "carol1", "carol@x.com", "secret1")

	resp, _ := doJSON(t, ann, http.MethodPost, env.ts.URL+"/api/v1/users/bob1/connect", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	createPost(t, ann, env.ts.URL, "ann first")
	createPost(t, bob, env.ts.URL, "bob post")
	createPost(t, carol, env.ts.URL, "carol post")
	createPost(t, ann, env.ts.URL, "ann second")

	resp, raw := doJSON(t, ann, http.MethodGet, env.ts.URL+"/api/v1/posts/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var feed []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &feed))

	var contents []string
	for _, post := range feed {
		contents = append(contents, post["content"].(string))
	}
	assert.Equal(t, []string{"ann second", "bob post", "ann first"}, contents,
		"feed is own + connections' posts, newest first; strangers excluded")
}

func TestFeedRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := doJSON(t, newClient(t), http.MethodGet, env.ts.URL+"/api/v1/posts/", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
