package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"social_feed/internal/domain/image/service"
	"social_feed/internal/pkg/errs"
	"social_feed/internal/pkg/middleware"
	"social_feed/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// 批量上传的最大并发
const uploadConcurrency = 5

type ImageHandler struct {
	service service.ImageService
}

func NewImageHandler(s service.ImageService) *ImageHandler {
	return &ImageHandler{service: s}
}

func (h *ImageHandler) upload(ctx context.Context, ownerID int64, fh *multipart.FileHeader) (*service.UploadResult, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errs.Validation("cannot read uploaded file")
	}
	defer f.Close()
	return h.service.Upload(ctx, ownerID, fh.Filename, fh.Size, f)
}

// Upload 上传单张图片
// @Summary 上传图片
// @Tags Image
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "png/jpg/jpeg"
// @Success 200 {object} response.Response{data=service.UploadResult}
// @Router /image/upload [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.FromError(c, errs.Validation("file is required"))
		return
	}
	res, err := h.upload(c.Request.Context(), middleware.UserID(c), fh)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, res)
}

// UploadBatch 批量上传，结果顺序与请求一致，任一失败则整体失败
// @Summary 批量上传图片
// @Tags Image
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param files formData file true "Files"
// @Success 200 {object} response.Response{data=[]service.UploadResult}
// @Router /image/upload/batch [post]
func (h *ImageHandler) UploadBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.FromError(c, errs.Validation("invalid form data"))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.FromError(c, errs.Validation("no files uploaded"))
		return
	}

	ownerID := middleware.UserID(c)
	results := make([]*service.UploadResult, len(files))
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(uploadConcurrency)
	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			res, err := h.upload(ctx, ownerID, fh)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, results)
}

// Get 跳转到带签名的对象地址
// @Summary 获取图片
// @Tags Image
// @Param hash path string true "图片 hash"
// @Success 302
// @Failure 404 {object} response.Response
// @Router /image/{hash} [get]
func (h *ImageHandler) Get(c *gin.Context) {
	url, err := h.service.PresignedURL(c.Request.Context(), c.Param("hash"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}
