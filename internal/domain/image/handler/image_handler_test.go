package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"social_feed/internal/domain/image/service"
	"social_feed/internal/pkg/errs"
	"social_feed/internal/pkg/middleware"
	"social_feed/internal/pkg/testutil/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRouter(svc service.ImageService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	fakeAuth := func(c *gin.Context) { c.Set(middleware.ContextUserID, int64(9)) }
	setupTestRoutes(r, NewImageHandler(svc), fakeAuth)
	return r
}

func setupTestRoutes(r *gin.Engine, h *ImageHandler, auth gin.HandlerFunc) {
	r.GET("/image/:hash", h.Get)
	r.POST("/image/upload", auth, h.Upload)
	r.POST("/image/upload/batch", auth, h.UploadBatch)
}

func multipartBody(t *testing.T, field string, names ...string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, name := range names {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestUpload(t *testing.T) {
	svc := new(mocks.MockImageService)
	svc.On("Upload", mock.Anything, int64(9), "a.png", int64(4), mock.Anything).
		Return(&service.UploadResult{Hash: "k.png", Width: 3, Height: 2}, nil)
	r := newRouter(svc)

	body, ct := multipartBody(t, "file", "a.png")
	req := httptest.NewRequest(http.MethodPost, "/image/upload", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"hash":"k.png","width":3,"height":2}}`, w.Body.String())
}

func TestUploadRejectsType(t *testing.T) {
	svc := new(mocks.MockImageService)
	svc.On("Upload", mock.Anything, int64(9), "a.gif", mock.Anything, mock.Anything).Return(nil, errs.ErrFileNotAllowed)
	r := newRouter(svc)

	body, ct := multipartBody(t, "file", "a.gif")
	req := httptest.NewRequest(http.MethodPost, "/image/upload", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadBatchKeepsOrder(t *testing.T) {
	svc := new(mocks.MockImageService)
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		svc.On("Upload", mock.Anything, int64(9), name, mock.Anything, mock.Anything).
			Return(&service.UploadResult{Hash: "k-" + name}, nil)
	}
	r := newRouter(svc)

	body, ct := multipartBody(t, "files", "a.png", "b.png", "c.png")
	req := httptest.NewRequest(http.MethodPost, "/image/upload/batch", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[{"hash":"k-a.png","width":0,"height":0},{"hash":"k-b.png","width":0,"height":0},{"hash":"k-c.png","width":0,"height":0}]`)
}

func TestGetRedirects(t *testing.T) {
	svc := new(mocks.MockImageService)
	svc.On("PresignedURL", mock.Anything, "k.png").Return("https://s3.test/k.png?sig=1", nil)
	svc.On("PresignedURL", mock.Anything, "nope.png").Return("", errs.ErrImageNotFound)
	r := newRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/image/k.png", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://s3.test/k.png?sig=1", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/image/nope.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
