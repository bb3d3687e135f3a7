// file: internals/features/publish/controller/wordpress_controller.go
package controller

import (
	"errors"
	"io"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	blogsvc "schoolchamps_backend/internals/features/blogs/service"
	"schoolchamps_backend/internals/features/publish/service"
	"schoolchamps_backend/internals/features/workflow"
	helper "schoolchamps_backend/internals/helpers"
	"schoolchamps_backend/internals/middlewares/auth"
)

type WordpressController struct {
	Publisher *service.Publisher
	WP        *service.WordpressClient
}

func NewWordpressController(publisher *service.Publisher, wp *service.WordpressClient) *WordpressController {
	return &WordpressController{Publisher: publisher, WP: wp}
}

/* =========================================================
   PUBLISH
   ========================================================= */

// Publish runs the full publish saga for one approved blog.
// POST /api/blogs/:id/publish
func (ctrl *WordpressController) Publish(c *fiber.Ctx) error {
	blogID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid blog id")
	}

	userID, err := auth.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	actor := blogsvc.Actor{
		UserID:   userID,
		Role:     auth.GetRole(c),
		SchoolID: auth.GetSchoolID(c),
	}

	result, err := ctrl.Publisher.Publish(c.Context(), blogID, actor)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Blog not found")
		case errors.Is(err, workflow.ErrInvalidTransition):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, workflow.ErrForbidden):
			return helper.JsonError(c, fiber.StatusForbidden, "You are not allowed to publish this blog")
		case errors.Is(err, service.ErrInsufficientCredits):
			return helper.JsonError(c, fiber.StatusPaymentRequired, "Insufficient coins to publish")
		case errors.Is(err, service.ErrPublishInFlight):
			return helper.JsonError(c, fiber.StatusConflict, "A publish for this blog is already running")
		case errors.Is(err, service.ErrPostPublishedButNotRecorded):
			return helper.JsonError(c, fiber.StatusConflict, "Post was published but the blog could not be updated; contact support")
		default:
			log.Printf("[PUBLISH][ERROR] blog=%s: %v", blogID, err)
			return helper.JsonError(c, fiber.StatusBadGateway, "Publishing failed")
		}
	}

	return helper.JsonOK(c, "Blog published", result)
}

/* =========================================================
   WORDPRESS PASSTHROUGH
   ========================================================= */

// UploadMedia forwards a file into the WordPress media library.
// POST /api/wordpress/media
func (ctrl *WordpressController) UploadMedia(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "File is required")
	}
	if fileHeader.Size > 10*1024*1024 {
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, "File exceeds 10MB")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to open file")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to read file")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	media, err := ctrl.WP.UploadMedia(c.Context(), fileHeader.Filename, contentType, data)
	if err != nil {
		log.Printf("[WORDPRESS] media upload failed: %v", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Media upload failed")
	}
	return helper.JsonCreated(c, "Media uploaded", media)
}

// GetPost proxies a single post read for the dashboard.
// GET /api/wordpress/posts/:id
func (ctrl *WordpressController) GetPost(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid post id")
	}
	post, err := ctrl.WP.GetPost(c.Context(), id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadGateway, err.Error())
	}
	return helper.JsonOK(c, "OK", post)
}
