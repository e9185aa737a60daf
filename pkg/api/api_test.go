package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/picfeed/pkg/client"
	clierrors "github.com/zfogg/picfeed/pkg/errors"
)

const postJSON = `{"id":"p1","user_id":"u1","image_url":"https://cdn.test/p1.jpg","caption":"hi",
"created_at":"2026-01-02T03:04:05Z","author":{"id":"u1","username":"alice","display_name":"Alice","avatar_url":""},
"likes_count":2,"comments_count":1,"is_liked":true,
"recent_comments":[{"id":"c1","post_id":"p1","user_id":"u2","content":"nice","created_at":"2026-01-02T03:05:05Z","author":{"id":"u2","username":"bob"}}]}`

func serve(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client.SetClient(client.New(srv.URL, 2*time.Second))
}

func TestGetFeed(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/posts", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "10", r.URL.Query().Get("offset"))
		assert.Equal(t, "u1", r.URL.Query().Get("userId"))
		_, _ = io.WriteString(w, `{"data":[`+postJSON+`],"pagination":{"total":11,"limit":5,"offset":10,"hasMore":false}}`)
	})

	page, err := GetFeed(context.Background(), 5, 10, "u1")
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "alice", page.Data[0].Author.Username)
	assert.Equal(t, "hi", page.Data[0].CaptionText())
	assert.Equal(t, "nice", page.Data[0].RecentComments[0].Content)
	assert.Equal(t, int64(11), page.Pagination.Total)
}

func TestEmptyFeedIsValid(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[],"pagination":{"total":0,"limit":10,"offset":0,"hasMore":false}}`)
	})

	page, err := GetFeed(context.Background(), 10, 0, "")
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

func TestMalformedResponseFailsClosed(t *testing.T) {
	bodies := map[string]string{
		"missing data":     `{"pagination":{"total":0,"limit":10,"offset":0,"hasMore":false}}`,
		"post without id":  `{"data":[{"user_id":"u1","image_url":"x","author":{"id":"u1","username":"a"}}],"pagination":{"total":1,"limit":10,"offset":0}}`,
		"negative count":   `{"data":[{"id":"p","user_id":"u1","image_url":"x","likes_count":-1,"author":{"id":"u1","username":"a"}}],"pagination":{"total":1,"limit":10,"offset":0}}`,
		"not json":         `<html></html>`,
		"wrong field type": `{"data":"nope","pagination":{}}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			serve(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})
			_, err := GetFeed(context.Background(), 10, 0, "")
			require.Error(t, err)
			assert.True(t, clierrors.IsKind(err, clierrors.KindUnknown), clierrors.Format(err))
		})
	}
}

func TestErrorResponsesAreClassified(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":"like already exists","code":"CONFLICT"}`)
	})

	_, err := LikePost(context.Background(), "p1")
	require.Error(t, err)
	e := clierrors.Classify(err)
	assert.Equal(t, clierrors.KindConflict, e.Kind)
	assert.Equal(t, "like already exists", e.Message)
	assert.Equal(t, http.StatusConflict, e.StatusCode)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	client.SetClient(client.New(url, time.Second))

	_, err := GetMe(context.Background())
	assert.True(t, clierrors.IsKind(err, clierrors.KindNetwork))
}

func TestCancelledContext(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GetPost(ctx, "p1")
	assert.True(t, clierrors.IsKind(err, clierrors.KindNetwork))
}

func TestLikeSendsBody(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"post_id":"p1"}`, string(body))
		_, _ = io.WriteString(w, `{"success":true,"like":{"post_id":"p1","user_id":"u1"},"is_liked":false,"likes_count":0}`)
	})

	res, err := UnlikePost(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, res.IsLiked)
	assert.Equal(t, int64(0), res.LikesCount)
}

func TestCreatePostMultipart(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "sunset", r.FormValue("caption"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "a.png", hdr.Filename)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "PNGDATA", string(data))

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"post":{"id":"p9","user_id":"u1","image_url":"https://cdn.test/p9.png","caption":"sunset"}}`)
	})

	created, err := CreatePost(context.Background(), "a.png", strings.NewReader("PNGDATA"), "sunset")
	require.NoError(t, err)
	assert.Equal(t, "p9", created.Post.ID)
}

func TestUsers(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/users/search":
			assert.Equal(t, "ali", r.URL.Query().Get("q"))
			_, _ = io.WriteString(w, `{"users":[{"id":"u1","username":"alice","posts_count":3}]}`)
		case "/api/v1/users/u1":
			_, _ = io.WriteString(w, `{"user":{"id":"u1","username":"alice","followers_count":4},"isFollowing":true,"isOwnProfile":false}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	found, err := SearchUsers(context.Background(), "ali")
	require.NoError(t, err)
	require.Len(t, found.Users, 1)

	profile, err := GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, profile.IsFollowing)
	assert.Equal(t, int64(4), profile.User.FollowersCount)

	_, err = GetUser(context.Background(), "missing")
	assert.True(t, clierrors.IsKind(err, clierrors.KindNotFound))
}
