package v1

import (
	"net/http"

	"portfolio-cms-backend/internal/delivery/http/middleware"
	"portfolio-cms-backend/internal/delivery/http/response"
	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type BlogPostHandler struct {
	postUC domain.BlogPostUsecase
}

func NewBlogPostHandler(public, protected *gin.RouterGroup, postUC domain.BlogPostUsecase) {
	handler := &BlogPostHandler{postUC: postUC}

	publicPosts := public.Group("/blogposts")
	{
		publicPosts.GET("", handler.List)
		publicPosts.GET("/slug/:slug", handler.GetBySlug)
		publicPosts.GET("/:id", handler.Get)
	}

	protectedPosts := protected.Group("/blogposts")
	{
		protectedPosts.POST("", handler.Create)
		protectedPosts.PUT("/:id", handler.Update)
		protectedPosts.DELETE("/:id", handler.Delete)
	}
}

// List godoc
// @Summary      List blog posts
// @Description  Without userId: every published post. With userId: that author's posts, drafts included when the caller is the author.
// @Tags         blogposts
// @Produce      json
// @Param        userId  query     string  false  "Author user ID"
// @Success      200     {object}  response.Response{data=[]domain.BlogPost}
// @Router       /blogposts [get]
func (h *BlogPostHandler) List(c *gin.Context) {
	posts, err := h.postUC.List(c.Request.Context(), c.Query("userId"), middleware.CallerID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Blog posts retrieved successfully", posts)
}

// Get godoc
// @Summary      Get blog post
// @Tags         blogposts
// @Produce      json
// @Param        id   path      string  true  "Blog post ID"
// @Success      200  {object}  response.Response{data=domain.BlogPost}
// @Failure      404  {object}  response.Response
// @Router       /blogposts/{id} [get]
func (h *BlogPostHandler) Get(c *gin.Context) {
	post, err := h.postUC.Get(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Blog post retrieved successfully", post)
}

// GetBySlug godoc
// @Summary      Get blog post by slug
// @Tags         blogposts
// @Produce      json
// @Param        slug  path      string  true  "Slug"
// @Success      200   {object}  response.Response{data=domain.BlogPost}
// @Failure      404   {object}  response.Response
// @Router       /blogposts/slug/{slug} [get]
func (h *BlogPostHandler) GetBySlug(c *gin.Context) {
	post, err := h.postUC.GetBySlug(c.Request.Context(), c.Param("slug"), middleware.CallerID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Blog post retrieved successfully", post)
}

// Create godoc
// @Summary      Create blog post
// @Description  The slug is derived from the title when omitted. Publishing stamps publishedAt.
// @Tags         blogposts
// @Accept       json
// @Produce      json
// @Param        post  body      domain.BlogPostInput  true  "Blog post JSON"
// @Success      201   {object}  response.Response{data=domain.BlogPost}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /blogposts [post]
// @Security     BearerAuth
func (h *BlogPostHandler) Create(c *gin.Context) {
	var req domain.BlogPostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	post, err := h.postUC.Create(c.Request.Context(), middleware.CallerID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Blog post created successfully", post)
}

// Update godoc
// @Summary      Update blog post
// @Description  Partial update. Sending tags replaces the whole list; returning to draft clears publishedAt.
// @Tags         blogposts
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Blog post ID"
// @Param        post  body      domain.BlogPostPatch  true  "Fields to change"
// @Success      200   {object}  response.Response{data=domain.BlogPost}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /blogposts/{id} [put]
// @Security     BearerAuth
func (h *BlogPostHandler) Update(c *gin.Context) {
	var req domain.BlogPostPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	post, err := h.postUC.Update(c.Request.Context(), c.Param("id"), middleware.CallerID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Blog post updated successfully", post)
}

// Delete godoc
// @Summary      Delete blog post
// @Tags         blogposts
// @Produce      json
// @Param        id   path      string  true  "Blog post ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /blogposts/{id} [delete]
// @Security     BearerAuth
func (h *BlogPostHandler) Delete(c *gin.Context) {
	if err := h.postUC.Delete(c.Request.Context(), c.Param("id"), middleware.CallerID(c)); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Blog post deleted successfully", nil)
}
