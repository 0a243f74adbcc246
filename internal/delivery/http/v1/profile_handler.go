package v1

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"portfolio-cms-backend/internal/delivery/http/middleware"
	"portfolio-cms-backend/internal/delivery/http/response"
	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"
	"portfolio-cms-backend/pkg/logger"
	"portfolio-cms-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProfileHandler struct {
	profileUC      domain.ProfileUsecase
	linkUC         domain.SocialLinkUsecase
	exportUC       domain.PortfolioExportUsecase
	uploads        *security.UploadLimiter
	secLog         *security.SecurityLogger
	maxUploadBytes int64
}

type ProfileHandlerDeps struct {
	ProfileUC      domain.ProfileUsecase
	SocialLinkUC   domain.SocialLinkUsecase
	ExportUC       domain.PortfolioExportUsecase
	Uploads        *security.UploadLimiter
	SecLog         *security.SecurityLogger
	MaxUploadBytes int64
}

func NewProfileHandler(public, protected *gin.RouterGroup, deps ProfileHandlerDeps) {
	handler := &ProfileHandler{
		profileUC:      deps.ProfileUC,
		linkUC:         deps.SocialLinkUC,
		exportUC:       deps.ExportUC,
		uploads:        deps.Uploads,
		secLog:         deps.SecLog,
		maxUploadBytes: deps.MaxUploadBytes,
	}

	publicProfiles := public.Group("/profiles")
	{
		publicProfiles.GET("", handler.Discover)
		publicProfiles.GET("/:id", handler.Get)
	}

	protectedProfiles := protected.Group("/profiles")
	{
		protectedProfiles.PUT("/:id", handler.Update)
		protectedProfiles.DELETE("/:id", handler.Delete)
		protectedProfiles.GET("/:id/export", handler.Export)
		protectedProfiles.POST("/:id/social-links", handler.AddSocialLink)
		protectedProfiles.DELETE("/:id/social-links/:linkId", handler.DeleteSocialLink)
	}
}

// Discover godoc
// @Summary      Discover profiles
// @Description  List published profiles with their published projects and posts.
// @Tags         profiles
// @Produce      json
// @Param        search             query     string  false  "Name or title contains"
// @Param        location           query     string  false  "Location contains"
// @Param        industry           query     string  false  "Industry contains"
// @Param        yearsOfExperience  query     int     false  "Minimum years of experience"
// @Param        interests          query     string  false  "Comma-separated interests, any match"
// @Param        limit              query     int     false  "Page size (max 100)"
// @Param        offset             query     int     false  "Rows to skip"
// @Success      200                {object}  response.Response{data=[]domain.ProfileAggregate}
// @Router       /profiles [get]
func (h *ProfileHandler) Discover(c *gin.Context) {
	filter := domain.DiscoverFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Location: strings.TrimSpace(c.Query("location")),
		Industry: strings.TrimSpace(c.Query("industry")),
	}
	if years := c.Query("yearsOfExperience"); years != "" {
		if v, err := strconv.Atoi(years); err == nil {
			filter.MinYears = &v
		}
	}
	if interests := c.Query("interests"); interests != "" {
		filter.Interests = strings.Split(interests, ",")
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset"))

	profiles, err := h.profileUC.Discover(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profiles retrieved successfully", profiles)
}

// Get godoc
// @Summary      Get profile
// @Description  Full portfolio of a user. Drafts are visible to their owner only.
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=domain.ProfileAggregate}
// @Failure      404  {object}  response.Response
// @Router       /profiles/{id} [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileUC.GetProfile(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved successfully", profile)
}

// Update godoc
// @Summary      Update profile
// @Description  Partial update. Every submitted form key is applied; avatar and resume files replace the stored ones, and an empty avatarUrl or resumeUrl removes them.
// @Tags         profiles
// @Accept       multipart/form-data
// @Produce      json
// @Param        id                 path      string  true   "User ID"
// @Param        name               formData  string  false  "Display name"
// @Param        title              formData  string  false  "Headline"
// @Param        bio                formData  string  false  "Bio"
// @Param        location           formData  string  false  "Location"
// @Param        interests          formData  string  false  "JSON array or comma-separated list"
// @Param        websiteUrl         formData  string  false  "Website"
// @Param        primaryColor       formData  string  false  "Hex color"
// @Param        secondaryColor     formData  string  false  "Hex color"
// @Param        status             formData  string  false  "draft or published"
// @Param        industry           formData  string  false  "Industry"
// @Param        yearsOfExperience  formData  int     false  "Years of experience"
// @Param        avatarUrl          formData  string  false  "Send empty to remove the avatar"
// @Param        resumeUrl          formData  string  false  "Send empty to remove the resume"
// @Param        avatar             formData  file    false  "Avatar image"
// @Param        resume             formData  file    false  "Resume PDF"
// @Success      200                {object}  response.Response{data=domain.Profile}
// @Failure      400                {object}  response.Response
// @Failure      401                {object}  response.Response
// @Failure      403                {object}  response.Response
// @Failure      429                {object}  response.Response
// @Router       /profiles/{id} [put]
// @Security     BearerAuth
func (h *ProfileHandler) Update(c *gin.Context) {
	userID := c.Param("id")
	callerID := middleware.CallerID(c)
	if callerID != userID {
		c.Error(apperror.Forbidden("You can only update your own profile"))
		return
	}

	// Two attachments plus form fields
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*h.maxUploadBytes+1<<20)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.Request.ParseMultipartForm(1 << 20); err != nil {
			c.Error(formError(err))
			return
		}
	} else if err := c.Request.ParseForm(); err != nil {
		c.Error(formError(err))
		return
	}

	update, err := parseProfileUpdate(c.Request.PostForm)
	if err != nil {
		c.Error(err)
		return
	}

	var files domain.ProfileFiles
	if c.Request.MultipartForm != nil {
		for slot, target := range map[domain.FileSlot]**domain.Upload{
			domain.SlotAvatar: &files.Avatar,
			domain.SlotResume: &files.Resume,
		} {
			fh, err := c.FormFile(string(slot))
			if errors.Is(err, http.ErrMissingFile) {
				continue
			}
			if err != nil {
				c.Error(formError(err))
				return
			}
			if *target, err = readUpload(fh, h.maxUploadBytes); err != nil {
				c.Error(apperror.BadRequest("Failed to read uploaded " + string(slot)))
				return
			}
		}
	}

	if n := countUploads(files); n > 0 {
		allowed, err := h.uploads.Allow(c.Request.Context(), callerID, n)
		if err != nil {
			logger.Log.Warn("Upload quota check failed", "error", err)
		} else if !allowed {
			h.secLog.LogUploadRejected(c.Request.Context(), callerID, middleware.RequestMeta(c), "daily_quota")
			c.Error(apperror.TooManyRequests("Daily upload limit reached. Please try again tomorrow."))
			return
		}
	}

	profile, err := h.profileUC.UpdateProfile(c.Request.Context(), userID, callerID, update, files)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindValidation && countUploads(files) > 0 {
			h.secLog.LogUploadRejected(c.Request.Context(), callerID, middleware.RequestMeta(c), err.Error())
		}
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated successfully", profile)
}

// Delete godoc
// @Summary      Delete account
// @Description  Remove the user, their profile, projects, posts and stored files.
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profiles/{id} [delete]
// @Security     BearerAuth
func (h *ProfileHandler) Delete(c *gin.Context) {
	userID := c.Param("id")
	if err := h.profileUC.DeleteAccount(c.Request.Context(), userID, middleware.CallerID(c)); err != nil {
		c.Error(err)
		return
	}

	h.secLog.LogAccountEvent(c.Request.Context(), security.EventAccountDeleted, userID, middleware.RequestMeta(c))
	response.Success(c, http.StatusOK, "Account deleted successfully", nil)
}

// Export godoc
// @Summary      Export portfolio
// @Description  Download the caller's own portfolio, drafts included, as an Excel workbook.
// @Tags         profiles
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "User ID"
// @Success      200  {file}    binary
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /profiles/{id}/export [get]
// @Security     BearerAuth
func (h *ProfileHandler) Export(c *gin.Context) {
	data, filename, err := h.exportUC.ExportPortfolio(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// AddSocialLink godoc
// @Summary      Add social link
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "Profile ID"
// @Param        link  body      domain.SocialLinkInput  true  "Platform and URL"
// @Success      201   {object}  response.Response{data=domain.SocialLink}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /profiles/{id}/social-links [post]
// @Security     BearerAuth
func (h *ProfileHandler) AddSocialLink(c *gin.Context) {
	var req domain.SocialLinkInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	link, err := h.linkUC.Add(c.Request.Context(), c.Param("id"), middleware.CallerID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Social link added successfully", link)
}

// DeleteSocialLink godoc
// @Summary      Delete social link
// @Tags         profiles
// @Produce      json
// @Param        id      path      string  true  "Profile ID"
// @Param        linkId  path      string  true  "Social link ID"
// @Success      200     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /profiles/{id}/social-links/{linkId} [delete]
// @Security     BearerAuth
func (h *ProfileHandler) DeleteSocialLink(c *gin.Context) {
	if err := h.linkUC.Delete(c.Request.Context(), c.Param("id"), c.Param("linkId"), middleware.CallerID(c)); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Social link deleted successfully", nil)
}

func countUploads(files domain.ProfileFiles) int {
	n := 0
	if files.Avatar != nil {
		n++
	}
	if files.Resume != nil {
		n++
	}
	return n
}

func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperror.New(http.StatusRequestEntityTooLarge, "Upload is too large", err)
	}
	return apperror.BadRequest("Invalid form data")
}
