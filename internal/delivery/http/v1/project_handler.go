package v1

import (
	"net/http"

	"portfolio-cms-backend/internal/delivery/http/middleware"
	"portfolio-cms-backend/internal/delivery/http/response"
	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectUC domain.ProjectUsecase
}

func NewProjectHandler(public, protected *gin.RouterGroup, projectUC domain.ProjectUsecase) {
	handler := &ProjectHandler{projectUC: projectUC}

	publicProjects := public.Group("/projects")
	{
		publicProjects.GET("/users/:userId/projects", handler.ListByUser)
		publicProjects.GET("/:id", handler.Get)
	}

	protectedProjects := protected.Group("/projects")
	{
		protectedProjects.POST("", handler.Create)
		protectedProjects.PUT("/:id", handler.Update)
		protectedProjects.DELETE("/:id", handler.Delete)
	}
}

// ListByUser godoc
// @Summary      List a user's projects
// @Description  Published projects for visitors, every project for the owner. Ordered by displayOrder, newest first within a position.
// @Tags         projects
// @Produce      json
// @Param        userId  path      string  true  "Owner user ID"
// @Success      200     {object}  response.Response{data=[]domain.Project}
// @Router       /projects/users/{userId}/projects [get]
func (h *ProjectHandler) ListByUser(c *gin.Context) {
	projects, err := h.projectUC.ListByUser(c.Request.Context(), c.Param("userId"), middleware.CallerID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Projects retrieved successfully", projects)
}

// Get godoc
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  response.Response{data=domain.Project}
// @Failure      404  {object}  response.Response
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectUC.Get(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Project retrieved successfully", project)
}

// Create godoc
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        project  body      domain.ProjectInput  true  "Project JSON"
// @Success      201      {object}  response.Response{data=domain.Project}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /projects [post]
// @Security     BearerAuth
func (h *ProjectHandler) Create(c *gin.Context) {
	var req domain.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	project, err := h.projectUC.Create(c.Request.Context(), middleware.CallerID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Project created successfully", project)
}

// Update godoc
// @Summary      Update project
// @Description  Partial update. Sending technologies replaces the whole list; omitting it keeps the current one.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Project ID"
// @Param        project  body      domain.ProjectPatch  true  "Fields to change"
// @Success      200      {object}  response.Response{data=domain.Project}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /projects/{id} [put]
// @Security     BearerAuth
func (h *ProjectHandler) Update(c *gin.Context) {
	var req domain.ProjectPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	project, err := h.projectUC.Update(c.Request.Context(), c.Param("id"), middleware.CallerID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Project updated successfully", project)
}

// Delete godoc
// @Summary      Delete project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /projects/{id} [delete]
// @Security     BearerAuth
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectUC.Delete(c.Request.Context(), c.Param("id"), middleware.CallerID(c)); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Project deleted successfully", nil)
}
