package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/archfolio/archfolio/internal/modules/serializer"
	"github.com/archfolio/archfolio/internal/modules/service"
	"github.com/archfolio/archfolio/internal/pkg/utils/filecheck"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	svc   service.ProjectService
	files *filecheck.Validator
}

func NewProjectHandler(svc service.ProjectService, files *filecheck.Validator) *ProjectHandler {
	return &ProjectHandler{svc: svc, files: files}
}

type ProjectReq struct {
	Name         string  `form:"name" json:"name" binding:"required,min=1,max=50" example:"Riverside Villa"`
	BuildingType string  `form:"building_type" json:"building_type" binding:"required,max=18" example:"residential"`
	Area         float64 `form:"area" json:"area" binding:"gte=0,lte=50000" example:"240.5"`
	Year         int     `form:"year" json:"year" binding:"required,gte=2000,lte=2100" example:"2024"`
	Month        int     `form:"month" json:"month" binding:"required,gte=1,lte=12" example:"6"`
	City         string  `form:"city" json:"city" binding:"max=18" example:"Gdansk"`
	Street       string  `form:"street" json:"street" binding:"max=40" example:"Dluga 12"`
	Description  string  `form:"description" json:"description" binding:"max=500"`
}

func (r ProjectReq) toInput() service.ProjectInput {
	return service.ProjectInput{
		Name:         r.Name,
		BuildingType: r.BuildingType,
		Area:         r.Area,
		Year:         r.Year,
		Month:        r.Month,
		City:         r.City,
		Street:       r.Street,
		Description:  r.Description,
	}
}

type ListProjectsReq struct {
	Page int `form:"page,default=0" json:"page" binding:"gte=0" example:"0"`
	Size int `form:"size,default=10" json:"size" binding:"gte=1,max=50" example:"10"`
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Create a project with an optional main image and optional collection images. Images are uploaded first; if persisting the project fails they are removed again.
//	@Tags			project
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name				formData	string	true	"Project name"
//	@Param			building_type		formData	string	true	"Building type"
//	@Param			area				formData	number	false	"Area in square meters"
//	@Param			year				formData	integer	true	"Completion year"
//	@Param			month				formData	integer	true	"Completion month"
//	@Param			city				formData	string	false	"City"
//	@Param			street				formData	string	false	"Street"
//	@Param			description			formData	string	false	"Description"
//	@Param			main_image			formData	file	false	"Main image"
//	@Param			collection_images	formData	file	false	"Collection images"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=serializer.Project}
//	@Router			/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	req := ProjectReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	// main_image is optional; a project may start without one.
	var main *multipart.FileHeader
	if files := form.File["main_image"]; len(files) > 0 {
		main = files[0]
	}
	collection := form.File["collection_images"]

	if main != nil {
		if err := h.files.Check(main); err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), err))
			return
		}
	}
	if err := h.files.CheckAll(collection); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), err))
		return
	}

	project, err := h.svc.Create(c.Request.Context(), req.toInput(), main, collection)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(serializer.BuildProject(*project)))
}

// GetProject godoc
//
//	@Summary	Get project
//	@Tags		project
//	@Produce	json
//	@Param		id	path	string	true	"Project ID"
//	@Success	200	{object}	serializer.Response{data=serializer.Project}
//	@Router		/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project id", err))
		return
	}
	project, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(serializer.BuildProject(*project)))
}

// ListProjects godoc
//
//	@Summary	List projects
//	@Tags		project
//	@Produce	json
//	@Param		page	query	integer	false	"Page number, zero-based"
//	@Param		size	query	integer	false	"Page size, default 10, max 50"
//	@Success	200	{object}	serializer.Response{data=[]serializer.Project}
//	@Router		/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	req := ListProjectsReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	projects, err := h.svc.List(c.Request.Context(), req.Page, req.Size)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(serializer.BuildProjects(projects)))
}

// UpdateProject godoc
//
//	@Summary	Update project
//	@Description	Replace the project's scalar fields. Images are managed through the image endpoints.
//	@Tags		project
//	@Accept		json
//	@Produce	json
//	@Param		id		path	string		true	"Project ID"
//	@Param		project	body	ProjectReq	true	"New field values"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response{data=serializer.Project}
//	@Router		/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project id", err))
		return
	}
	req := ProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	project, err := h.svc.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(serializer.BuildProject(*project)))
}

// DeleteProject godoc
//
//	@Summary	Delete project
//	@Description	Delete a project, its image records and its stored objects.
//	@Tags		project
//	@Produce	json
//	@Param		id	path	string	true	"Project ID"
//	@Security	BearerAuth
//	@Success	200	{object}	serializer.Response
//	@Router		/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project id", err))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(nil))
}

// respondServiceErr maps service errors onto HTTP responses.
func respondServiceErr(c *gin.Context, err error) {
	var (
		upErr   *service.UploadError
		compErr *service.CompensatedError
	)
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, serializer.NotFoundErr("project not found"))
	case errors.Is(err, service.ErrImageNotFound):
		c.JSON(http.StatusNotFound, serializer.NotFoundErr("image not found"))
	case errors.As(err, &upErr):
		c.JSON(http.StatusBadGateway, serializer.StorageErr("image upload failed", err))
	case errors.As(err, &compErr):
		c.JSON(http.StatusInternalServerError, serializer.DBErr("failed to persist, uploads were rolled back", err))
	default:
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
	}
}
