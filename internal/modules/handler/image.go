package handler

import (
	"net/http"

	"github.com/archfolio/archfolio/internal/modules/serializer"
	"github.com/archfolio/archfolio/internal/modules/service"
	"github.com/archfolio/archfolio/internal/pkg/utils/filecheck"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ImageHandler struct {
	svc   service.ImageService
	files *filecheck.Validator
}

func NewImageHandler(svc service.ImageService, files *filecheck.Validator) *ImageHandler {
	return &ImageHandler{svc: svc, files: files}
}

type DeleteImagesReq struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

type DownloadURLReq struct {
	ID string `form:"id" binding:"required"`
}

type DownloadURLResp struct {
	URL string `json:"url"`
}

// AddImages godoc
//
//	@Summary	Add collection images
//	@Tags		image
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		id		path		string	true	"Project ID"
//	@Param		images	formData	file	true	"Images to add"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=[]serializer.Image}
//	@Router		/projects/{id}/images [post]
func (h *ImageHandler) AddImages(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project id", err))
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("no images provided", nil))
		return
	}
	if err := h.files.CheckAll(files); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), err))
		return
	}

	images, err := h.svc.AddImages(c.Request.Context(), projectID, files)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(serializer.BuildImages(images)))
}

// ReplaceMainImage godoc
//
//	@Summary	Replace main image
//	@Description	Upload a new main image and retire the previous one.
//	@Tags		image
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		id		path		string	true	"Project ID"
//	@Param		image	formData	file	true	"New main image"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=serializer.Image}
//	@Router		/projects/{id}/images/main [put]
func (h *ImageHandler) ReplaceMainImage(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project id", err))
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("image is required", err))
		return
	}
	if err := h.files.Check(file); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), err))
		return
	}

	image, err := h.svc.ReplaceMainImage(c.Request.Context(), projectID, file)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(serializer.BuildImage(*image)))
}

// ListProjectImages godoc
//
//	@Summary	List project images
//	@Tags		image
//	@Produce	json
//	@Param		id	path	string	true	"Project ID"
//	@Success	200	{object}	serializer.Response{data=[]serializer.Image}
//	@Router		/projects/{id}/images [get]
func (h *ImageHandler) ListProjectImages(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project id", err))
		return
	}
	images, err := h.svc.GetByProjectID(c.Request.Context(), projectID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(serializer.BuildImages(images)))
}

// GetDownloadURL godoc
//
//	@Summary	Get image download URL
//	@Description	Mint a short-lived presigned URL for an image object, for buckets without public read access.
//	@Tags		image
//	@Produce	json
//	@Param		id	query	string	true	"Image ID"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=DownloadURLResp}
//	@Router		/images/download_url [get]
func (h *ImageHandler) GetDownloadURL(c *gin.Context) {
	req := DownloadURLReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	url, err := h.svc.GetDownloadURL(c.Request.Context(), req.ID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(DownloadURLResp{URL: url}))
}

// DeleteImages godoc
//
//	@Summary	Delete images
//	@Description	Delete image records and their stored objects. Unknown ids are skipped.
//	@Tags		image
//	@Accept		json
//	@Produce	json
//	@Param		body	body	DeleteImagesReq	true	"Image IDs to delete"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Router		/images [delete]
func (h *ImageHandler) DeleteImages(c *gin.Context) {
	req := DeleteImagesReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	if err := h.svc.DeleteImages(c.Request.Context(), req.IDs); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(nil))
}
