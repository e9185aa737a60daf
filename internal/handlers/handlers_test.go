package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/zfogg/picfeed/internal/dto"
	"github.com/zfogg/picfeed/internal/models"
	"github.com/zfogg/picfeed/internal/repository"
	"github.com/zfogg/picfeed/internal/service"
	"github.com/zfogg/picfeed/internal/storage"
	"github.com/zfogg/picfeed/internal/testutil"
	"github.com/zfogg/picfeed/internal/util"
	"gorm.io/gorm"
)

// minimal PNG: signature plus the start of an IHDR chunk
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), []byte("\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")...)

// HandlersTestSuite runs the API against an in-memory database and image store
type HandlersTestSuite struct {
	suite.Suite
	db     *gorm.DB
	images *storage.MockImageStore
	router *gin.Engine
	h      *Handlers
	alice  *models.User
	bob    *models.User
}

func (suite *HandlersTestSuite) SetupTest() {
	suite.db = testutil.NewDB(suite.T())
	suite.images = storage.NewMockImageStore()
	suite.alice = testutil.CreateUser(suite.T(), suite.db, "alice")
	suite.bob = testutil.CreateUser(suite.T(), suite.db, "bob")

	postSvc := service.NewPostService(repository.NewPostRepository(suite.db), suite.images)
	h := NewHandlers(suite.db, postSvc)
	suite.h = h

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.GET("/health", h.Health)
	h.RegisterRoutes(suite.router.Group("/api/v1"), RouteMiddleware{
		RequireAuth:  suite.authMiddleware(true),
		OptionalAuth: suite.authMiddleware(false),
	})
}

// authMiddleware trusts X-User-ID and loads that user
func (suite *HandlersTestSuite) authMiddleware(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			if required {
				util.RespondUnauthorized(c)
				return
			}
			c.Next()
			return
		}

		var user models.User
		if err := suite.db.First(&user, "id = ?", userID).Error; err != nil {
			util.RespondUnauthorized(c)
			return
		}
		c.Set(util.UserIDKey, user.ID)
		c.Set(util.UserKey, &user)
		c.Next()
	}
}

func (suite *HandlersTestSuite) request(method, path, userID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) upload(userID string, fields map[string]string, data []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(suite.T(), mw.WriteField(k, v))
	}
	if data != nil {
		part, err := mw.CreateFormFile("file", "photo.png")
		require.NoError(suite.T(), err)
		_, err = part.Write(data)
		require.NoError(suite.T(), err)
	}
	require.NoError(suite.T(), mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (suite *HandlersTestSuite) countRows(model any, where string, args ...any) int64 {
	var n int64
	require.NoError(suite.T(), suite.db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.request(http.MethodGet, "/health", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"database":"ok"`)
}

func (suite *HandlersTestSuite) TestCreatePostAppearsFirstInFeed() {
	t := suite.T()
	testutil.CreatePost(t, suite.db, suite.bob.ID, time.Now().Add(-time.Hour))

	w := suite.upload(suite.alice.ID, map[string]string{"caption": "  sunset  "}, pngBytes)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[struct {
		Success bool        `json:"success"`
		Post    models.Post `json:"post"`
	}](t, w)
	assert.True(t, created.Success)
	require.NotNil(t, created.Post.Caption)
	assert.Equal(t, "sunset", *created.Post.Caption)
	assert.True(t, strings.HasPrefix(created.Post.ImageURL, "https://cdn.test/posts/"+suite.alice.ID+"/"))
	assert.Equal(t, 1, suite.images.Count())

	w = suite.request(http.MethodGet, "/api/v1/posts?limit=10&offset=0", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[dto.PostPage](t, w)
	require.Len(t, page.Data, 2)
	assert.Equal(t, created.Post.ID, page.Data[0].ID)
	assert.Equal(t, "alice", page.Data[0].Author.Username)
	assert.Equal(t, int64(2), page.Pagination.Total)
	assert.False(t, page.Pagination.HasMore)
}

func (suite *HandlersTestSuite) TestCreatePostWithoutCaption() {
	w := suite.upload(suite.alice.ID, nil, pngBytes)
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(suite.T(), w.Body.String(), `"caption":null`)
}

func (suite *HandlersTestSuite) TestCreatePostRejections() {
	t := suite.T()

	w := suite.upload("", nil, pngBytes)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = suite.upload(suite.alice.ID, nil, []byte("plain text, not an image"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"file"`)

	w = suite.upload(suite.alice.ID, nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = suite.upload(suite.alice.ID, map[string]string{"caption": strings.Repeat("c", models.MaxCaptionLength+1)}, pngBytes)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"caption"`)

	w = suite.upload(suite.alice.ID, map[string]string{"userId": suite.bob.ID}, pngBytes)
	assert.Equal(t, http.StatusForbidden, w.Code)

	assert.Equal(t, 0, suite.images.Count())
	assert.Equal(t, int64(0), suite.countRows(&models.Post{}, "1 = 1"))
}

func (suite *HandlersTestSuite) TestCreatePostOversizedImage() {
	big := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, storage.MaxImageSize)...)
	w := suite.upload(suite.alice.ID, nil, big)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), 0, suite.images.Count())
}

func (suite *HandlersTestSuite) TestUploadFailureCreatesNothing() {
	suite.images.UploadErr = assert.AnError
	w := suite.upload(suite.alice.ID, nil, pngBytes)
	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
	assert.Equal(suite.T(), int64(0), suite.countRows(&models.Post{}, "1 = 1"))
}

func (suite *HandlersTestSuite) TestFeedPaging() {
	t := suite.T()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		testutil.CreatePost(t, suite.db, suite.alice.ID, base.Add(time.Duration(i)*time.Minute))
	}

	w := suite.request(http.MethodGet, "/api/v1/posts?limit=2&offset=0", "", nil)
	page := decode[dto.PostPage](t, w)
	assert.Len(t, page.Data, 2)
	assert.True(t, page.Pagination.HasMore)

	w = suite.request(http.MethodGet, "/api/v1/posts?limit=2&offset=4", "", nil)
	page = decode[dto.PostPage](t, w)
	assert.Len(t, page.Data, 1)
	assert.False(t, page.Pagination.HasMore)
	assert.Equal(t, int64(5), page.Pagination.Total)

	w = suite.request(http.MethodGet, "/api/v1/posts?userId="+suite.bob.ID, "", nil)
	page = decode[dto.PostPage](t, w)
	assert.Empty(t, page.Data)
	assert.NotNil(t, page.Data)
}

func (suite *HandlersTestSuite) TestLikeRequiresAuth() {
	post := testutil.CreatePost(suite.T(), suite.db, suite.bob.ID, time.Now())

	w := suite.request(http.MethodPost, "/api/v1/likes", "", dto.LikeRequest{PostID: post.ID})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(suite.T(), int64(0), suite.countRows(&models.Like{}, "post_id = ?", post.ID))
}

func (suite *HandlersTestSuite) TestLikeLifecycle() {
	t := suite.T()
	post := testutil.CreatePost(t, suite.db, suite.bob.ID, time.Now())

	w := suite.request(http.MethodPost, "/api/v1/likes", suite.alice.ID, dto.LikeRequest{PostID: post.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	liked := decode[dto.LikeResponse](t, w)
	assert.True(t, liked.IsLiked)
	assert.Equal(t, int64(1), liked.LikesCount)
	assert.Equal(t, post.ID, liked.Like.PostID)

	w = suite.request(http.MethodPost, "/api/v1/likes", suite.alice.ID, dto.LikeRequest{PostID: post.ID})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, int64(1), suite.countRows(&models.Like{}, "post_id = ?", post.ID))

	w = suite.request(http.MethodGet, "/api/v1/posts/"+post.ID, suite.alice.ID, nil)
	detail := decode[dto.PostDetailResponse](t, w)
	assert.True(t, detail.Post.IsLiked)
	assert.Equal(t, int64(1), detail.Post.LikesCount)

	w = suite.request(http.MethodGet, "/api/v1/likes/user", suite.alice.ID, nil)
	page := decode[dto.PostPage](t, w)
	require.Len(t, page.Data, 1)
	assert.Equal(t, post.ID, page.Data[0].ID)

	w = suite.request(http.MethodDelete, "/api/v1/likes", suite.alice.ID, dto.LikeRequest{PostID: post.ID})
	require.Equal(t, http.StatusOK, w.Code)
	unliked := decode[dto.LikeResponse](t, w)
	assert.False(t, unliked.IsLiked)
	assert.Equal(t, int64(0), unliked.LikesCount)

	w = suite.request(http.MethodDelete, "/api/v1/likes", suite.alice.ID, dto.LikeRequest{PostID: post.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestLikeMissingPost() {
	w := suite.request(http.MethodPost, "/api/v1/likes", suite.alice.ID, dto.LikeRequest{PostID: "00000000-0000-0000-0000-000000000000"})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.request(http.MethodPost, "/api/v1/likes", suite.alice.ID, map[string]string{})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCommentTooLong() {
	t := suite.T()
	post := testutil.CreatePost(t, suite.db, suite.bob.ID, time.Now())
	before := suite.countRows(&models.Comment{}, "post_id = ?", post.ID)

	w := suite.request(http.MethodPost, "/api/v1/comments", suite.alice.ID, dto.CreateCommentRequest{
		PostID:  post.ID,
		Content: strings.Repeat("x", models.MaxCommentLength+1),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, before, suite.countRows(&models.Comment{}, "post_id = ?", post.ID))

	w = suite.request(http.MethodPost, "/api/v1/comments", suite.alice.ID, dto.CreateCommentRequest{
		PostID:  post.ID,
		Content: strings.Repeat("x", models.MaxCommentLength),
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func (suite *HandlersTestSuite) TestCommentLifecycle() {
	t := suite.T()
	post := testutil.CreatePost(t, suite.db, suite.bob.ID, time.Now())

	w := suite.request(http.MethodPost, "/api/v1/comments", suite.alice.ID, dto.CreateCommentRequest{
		PostID:  post.ID,
		Content: "  nice shot  ",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	comment := decode[dto.CommentResponse](t, w)
	assert.Equal(t, "nice shot", comment.Content)
	assert.Equal(t, "alice", comment.Author.Username)

	w = suite.request(http.MethodPost, "/api/v1/comments", suite.alice.ID, dto.CreateCommentRequest{
		PostID:  post.ID,
		Content: " \n\t ",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodDelete, "/api/v1/comments", suite.bob.ID, dto.DeleteCommentRequest{CommentID: comment.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request(http.MethodDelete, "/api/v1/comments", suite.alice.ID, dto.DeleteCommentRequest{CommentID: comment.ID})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = suite.request(http.MethodDelete, "/api/v1/comments", suite.alice.ID, dto.DeleteCommentRequest{CommentID: comment.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestTextIsStoredAsWritten() {
	t := suite.T()
	post := testutil.CreatePost(t, suite.db, suite.bob.ID, time.Now())

	for _, content := range []string{"if a<b then c", "I <3 this and x<y z", "<b>not markup</b> & more"} {
		w := suite.request(http.MethodPost, "/api/v1/comments", suite.alice.ID, dto.CreateCommentRequest{
			PostID:  post.ID,
			Content: content,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, content, decode[dto.CommentResponse](t, w).Content)
	}

	w := suite.request(http.MethodGet, "/api/v1/posts/"+post.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[dto.PostDetailResponse](t, w)
	stored := make([]string, 0, len(detail.Comments))
	for _, c := range detail.Comments {
		stored = append(stored, c.Content)
	}
	assert.ElementsMatch(t, []string{"if a<b then c", "I <3 this and x<y z", "<b>not markup</b> & more"}, stored)

	w = suite.upload(suite.alice.ID, map[string]string{"caption": "x<y, 3>2"}, pngBytes)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Post models.Post `json:"post"`
	}](t, w)
	require.NotNil(t, created.Post.Caption)
	assert.Equal(t, "x<y, 3>2", *created.Post.Caption)
}

func (suite *HandlersTestSuite) TestFollowLifecycle() {
	t := suite.T()

	w := suite.request(http.MethodPost, "/api/v1/follows", suite.alice.ID, dto.FollowRequest{FollowingID: suite.alice.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(0), suite.countRows(&models.Follow{}, "1 = 1"))

	w = suite.request(http.MethodPost, "/api/v1/follows", suite.alice.ID, dto.FollowRequest{FollowingID: suite.bob.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = suite.request(http.MethodPost, "/api/v1/follows", suite.alice.ID, dto.FollowRequest{FollowingID: suite.bob.ID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = suite.request(http.MethodGet, "/api/v1/users/"+suite.bob.ID, suite.alice.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[dto.UserProfileResponse](t, w)
	assert.True(t, profile.IsFollowing)
	assert.False(t, profile.IsOwnProfile)
	assert.Equal(t, int64(1), profile.User.FollowersCount)

	w = suite.request(http.MethodDelete, "/api/v1/follows", suite.alice.ID, dto.FollowRequest{FollowingID: suite.bob.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	w = suite.request(http.MethodDelete, "/api/v1/follows", suite.alice.ID, dto.FollowRequest{FollowingID: suite.bob.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestDeletePostCascades() {
	t := suite.T()

	w := suite.upload(suite.alice.ID, map[string]string{"caption": "bye"}, pngBytes)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[struct {
		Post models.Post `json:"post"`
	}](t, w)
	postID := created.Post.ID

	testutil.Like(t, suite.db, postID, suite.bob.ID)
	testutil.CreateComment(t, suite.db, postID, suite.bob.ID, "wow", time.Now())

	w = suite.request(http.MethodDelete, "/api/v1/posts/"+postID, suite.bob.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request(http.MethodDelete, "/api/v1/posts/"+postID, suite.alice.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"success":true`)

	w = suite.request(http.MethodGet, "/api/v1/posts/"+postID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(0), suite.countRows(&models.Like{}, "post_id = ?", postID))
	assert.Equal(t, int64(0), suite.countRows(&models.Comment{}, "post_id = ?", postID))
	assert.Equal(t, 0, suite.images.Count())

	w = suite.request(http.MethodDelete, "/api/v1/posts/"+postID, suite.alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestUsers() {
	t := suite.T()

	w := suite.request(http.MethodGet, "/api/v1/users/search?q=ALI", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[dto.UserSearchResponse](t, w)
	require.Len(t, found.Users, 1)
	assert.Equal(t, suite.alice.ID, found.Users[0].ID)

	w = suite.request(http.MethodGet, "/api/v1/users/"+suite.alice.ID, suite.alice.ID, nil)
	profile := decode[dto.UserProfileResponse](t, w)
	assert.True(t, profile.IsOwnProfile)
	assert.False(t, profile.IsFollowing)

	w = suite.request(http.MethodGet, "/api/v1/users/00000000-0000-0000-0000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = suite.request(http.MethodGet, "/api/v1/me", suite.bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[dto.UserResponse](t, w)
	assert.Equal(t, "bob", me.Username)

	w = suite.request(http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestMalformedIDs() {
	t := suite.T()
	post := testutil.CreatePost(t, suite.db, suite.bob.ID, time.Now())

	for _, path := range []string{"/api/v1/posts/abc", "/api/v1/users/abc", "/api/v1/posts/urn:uuid:nope"} {
		w := suite.request(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Body.String(), `"code":"NOT_FOUND"`, path)
	}

	w := suite.request(http.MethodDelete, "/api/v1/posts/abc", suite.bob.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = suite.request(http.MethodGet, "/api/v1/posts?userId=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"userId"`)

	bodies := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, "/api/v1/likes", dto.LikeRequest{PostID: "abc"}},
		{http.MethodDelete, "/api/v1/likes", dto.LikeRequest{PostID: "abc"}},
		{http.MethodPost, "/api/v1/comments", dto.CreateCommentRequest{PostID: "abc", Content: "hi"}},
		{http.MethodDelete, "/api/v1/comments", dto.DeleteCommentRequest{CommentID: "pending-1"}},
		{http.MethodPost, "/api/v1/follows", dto.FollowRequest{FollowingID: "abc"}},
	}
	for _, b := range bodies {
		w := suite.request(b.method, b.path, suite.alice.ID, b.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s %s", b.method, b.path)
	}
	assert.Equal(t, int64(0), suite.countRows(&models.Like{}, "post_id = ?", post.ID))

	// upper-case ids are the same id
	w = suite.request(http.MethodGet, "/api/v1/posts/"+strings.ToUpper(post.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

type fakeUserSearch struct {
	ids   []string
	err   error
	calls int
}

func (f *fakeUserSearch) SearchUsers(ctx context.Context, query string, limit int) ([]string, error) {
	f.calls++
	return f.ids, f.err
}

func (suite *HandlersTestSuite) TestUserSearchUsesIndexThenFallsBack() {
	t := suite.T()
	index := &fakeUserSearch{ids: []string{suite.bob.ID, suite.alice.ID}}
	suite.h.SetUserSearch(index)

	w := suite.request(http.MethodGet, "/api/v1/users/search?q=xyz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[dto.UserSearchResponse](t, w)
	require.Len(t, found.Users, 2)
	assert.Equal(t, "bob", found.Users[0].Username, "index ranking is kept")
	assert.Equal(t, "alice", found.Users[1].Username)

	index.err = assert.AnError
	w = suite.request(http.MethodGet, "/api/v1/users/search?q=ali", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found = decode[dto.UserSearchResponse](t, w)
	require.Len(t, found.Users, 1)
	assert.Equal(t, "alice", found.Users[0].Username)
	assert.Equal(t, 2, index.calls)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
