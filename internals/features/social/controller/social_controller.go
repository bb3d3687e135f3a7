// file: internals/features/social/controller/social_controller.go
package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/constants"
	blogModel "schoolchamps_backend/internals/features/blogs/model"
	"schoolchamps_backend/internals/features/social/dto"
	"schoolchamps_backend/internals/features/social/model"
	"schoolchamps_backend/internals/features/social/service"
	"schoolchamps_backend/internals/features/workflow"
	helper "schoolchamps_backend/internals/helpers"
	"schoolchamps_backend/internals/middlewares/auth"
)

type SocialController struct {
	DB       *gorm.DB
	Registry *service.Registry
	Fanout   *service.FanoutService
	LinkedIn *service.LinkedInOAuth
}

func NewSocialController(db *gorm.DB, registry *service.Registry, fanout *service.FanoutService, linkedin *service.LinkedInOAuth) *SocialController {
	return &SocialController{DB: db, Registry: registry, Fanout: fanout, LinkedIn: linkedin}
}

// schoolScope resolves which school the caller may act for. A school
// actor is pinned to its own id; marketer and admin pass an explicit one.
func (ctrl *SocialController) schoolScope(c *fiber.Ctx, requested uuid.UUID) (uuid.UUID, error) {
	if auth.GetRole(c) == constants.RoleSchool {
		own := auth.GetSchoolID(c)
		if own == uuid.Nil {
			return uuid.Nil, errors.New("token carries no school")
		}
		if requested != uuid.Nil && requested != own {
			return uuid.Nil, errors.New("cannot act for another school")
		}
		return own, nil
	}
	if requested == uuid.Nil {
		return uuid.Nil, errors.New("school_id is required")
	}
	return requested, nil
}

/* =========================================================
   FAN-OUT
   ========================================================= */

// FanoutBlog announces a published blog on the school's platforms.
// POST /api/blogs/:id/social-fanout
func (ctrl *SocialController) FanoutBlog(c *fiber.Ctx) error {
	blogID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid blog id")
	}

	var req dto.FanoutRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(c, &req); err != nil {
		return err
	}

	var blog blogModel.BlogModel
	if err := ctrl.DB.WithContext(c.Context()).Where("blog_id = ?", blogID).First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Blog not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load blog")
	}
	if blog.BlogStatus != workflow.StatusPublishedWP || blog.BlogWordpressURL == nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Only published blogs can be announced")
	}
	if blog.BlogSchoolID == nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Blog has no school assigned")
	}
	schoolID, err := ctrl.schoolScope(c, *blog.BlogSchoolID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	}

	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = model.AllPlatforms()
	}

	message := req.Message
	if message == "" {
		message = fmt.Sprintf("📰 New on our blog: %s", blog.BlogTitle)
	}
	content := service.PostContent{
		Message: message,
		LinkURL: *blog.BlogWordpressURL,
	}
	if blog.BlogFeaturedImageURL != nil {
		content.ImageURL = *blog.BlogFeaturedImageURL
	}

	results := ctrl.Fanout.Fanout(c.Context(), schoolID, platforms, content)

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	return helper.JsonOK(c, fmt.Sprintf("Fan-out finished: %d/%d platform(s) succeeded", succeeded, len(results)),
		fiber.Map{
			"blog_id": blogID,
			"results": results,
		})
}

/* =========================================================
   CONNECTION STATUS
   ========================================================= */

// Status lists every platform with its connect state for one school.
// GET /api/schools/:id/social/status
func (ctrl *SocialController) Status(c *fiber.Ctx) error {
	requested, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}
	schoolID, err := ctrl.schoolScope(c, requested)
	if err != nil {
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	}

	rows, err := ctrl.Registry.ListConnections(c.Context(), schoolID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load connections")
	}
	return helper.JsonOK(c, "OK", dto.StatusListResponse(rows))
}

/* =========================================================
   FACEBOOK / INSTAGRAM CONNECT
   ========================================================= */

// ConnectFacebook stores a page token, optionally wiring the Instagram
// business account behind the same page.
// POST /api/schools/:id/social/facebook
func (ctrl *SocialController) ConnectFacebook(c *fiber.Ctx) error {
	requested, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}
	schoolID, err := ctrl.schoolScope(c, requested)
	if err != nil {
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	}

	var req dto.ConnectFacebookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(c, &req); err != nil {
		return err
	}

	fb, err := ctrl.Registry.SaveConnection(c.Context(), service.SaveConnectionInput{
		SchoolID:    schoolID,
		Platform:    model.PlatformFacebook,
		AccessToken: req.AccessToken,
		TargetID:    req.PageID,
		ExpiresAt:   req.ExpiresAt,
		Metadata:    datatypes.JSON([]byte(fmt.Sprintf(`{"page_id":%q}`, req.PageID))),
	})
	if err != nil {
		log.Printf("[SOCIAL] facebook connect failed school=%s: %v", schoolID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store connection")
	}

	out := []dto.ConnectionStatusResponse{dto.FromConnectionModel(fb)}
	if req.InstagramBusinessID != "" {
		ig, err := ctrl.Registry.SaveConnection(c.Context(), service.SaveConnectionInput{
			SchoolID:    schoolID,
			Platform:    model.PlatformInstagram,
			AccessToken: req.AccessToken, // IG publishing rides the page token
			TargetID:    req.InstagramBusinessID,
			ExpiresAt:   req.ExpiresAt,
			Metadata:    datatypes.JSON([]byte(fmt.Sprintf(`{"via_page":%q}`, req.PageID))),
		})
		if err != nil {
			log.Printf("[SOCIAL] instagram connect failed school=%s: %v", schoolID, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Facebook stored but Instagram failed")
		}
		out = append(out, dto.FromConnectionModel(ig))
	}
	return helper.JsonCreated(c, "Connection saved", out)
}

/* =========================================================
   LINKEDIN CONNECT (three-legged)
   ========================================================= */

// LinkedInAuthURL hands the dashboard the consent URL.
// GET /api/schools/:id/social/linkedin/auth-url
func (ctrl *SocialController) LinkedInAuthURL(c *fiber.Ctx) error {
	requested, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}
	schoolID, err := ctrl.schoolScope(c, requested)
	if err != nil {
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"auth_url": ctrl.LinkedIn.AuthURL(schoolID.String()),
	})
}

// LinkedInCallback exchanges the OAuth code and stores the tokens.
// POST /api/schools/:id/social/linkedin/callback
func (ctrl *SocialController) LinkedInCallback(c *fiber.Ctx) error {
	requested, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}
	schoolID, err := ctrl.schoolScope(c, requested)
	if err != nil {
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	}

	var req dto.LinkedInCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(c, &req); err != nil {
		return err
	}
	// The auth URL carried the school id as OAuth state; a callback with
	// somebody else's state is a cross-site splice, not ours.
	if req.State != schoolID.String() {
		return helper.JsonError(c, fiber.StatusForbidden, "OAuth state mismatch")
	}

	access, refresh, expiresAt, err := ctrl.LinkedIn.Exchange(c.Context(), req.Code)
	if err != nil {
		log.Printf("[SOCIAL] linkedin exchange failed school=%s: %v", schoolID, err)
		return helper.JsonError(c, fiber.StatusBadGateway, "LinkedIn code exchange failed")
	}

	row, err := ctrl.Registry.SaveConnection(c.Context(), service.SaveConnectionInput{
		SchoolID:     schoolID,
		Platform:     model.PlatformLinkedIn,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    &expiresAt,
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store connection")
	}

	// list organizations so the dashboard can offer the target picker
	orgs, err := ctrl.LinkedIn.ListOrganizations(c.Context(), access)
	if err != nil {
		log.Printf("[SOCIAL] linkedin org listing failed school=%s: %v", schoolID, err)
		orgs = nil
	}
	return helper.JsonCreated(c, "LinkedIn connected", fiber.Map{
		"connection":    dto.FromConnectionModel(row),
		"organizations": orgs,
	})
}

// LinkedInSelectOrganization pins the organization to post as.
// POST /api/schools/:id/social/linkedin/select-organization
func (ctrl *SocialController) LinkedInSelectOrganization(c *fiber.Ctx) error {
	requested, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}
	schoolID, err := ctrl.schoolScope(c, requested)
	if err != nil {
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	}

	var req dto.SelectTargetRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(c, &req); err != nil {
		return err
	}

	if err := ctrl.Registry.SetTarget(c.Context(), schoolID, model.PlatformLinkedIn, req.TargetID); err != nil {
		var pe *service.PlatformError
		if errors.As(err, &pe) && pe.Code == service.CodeNotConnected {
			return helper.JsonError(c, fiber.StatusNotFound, "LinkedIn is not connected")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to set organization")
	}
	return helper.JsonUpdated(c, "Organization selected", fiber.Map{"target_id": req.TargetID})
}

/* =========================================================
   MAINTENANCE
   ========================================================= */

// Disconnect wipes a platform's tokens.
// DELETE /api/schools/:id/social/:platform
func (ctrl *SocialController) Disconnect(c *fiber.Ctx) error {
	requested, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}
	schoolID, err := ctrl.schoolScope(c, requested)
	if err != nil {
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	}
	platform := model.SocialPlatform(c.Params("platform"))
	if !platform.Valid() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Unknown platform")
	}

	if err := ctrl.Registry.Disconnect(c.Context(), schoolID, platform); err != nil {
		var pe *service.PlatformError
		if errors.As(err, &pe) && pe.Code == service.CodeNotConnected {
			return helper.JsonError(c, fiber.StatusNotFound, "Platform is not connected")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to disconnect")
	}
	return helper.JsonDeleted(c, "Disconnected", fiber.Map{"platform": platform})
}

// RefreshToken force-rotates one platform token.
// POST /api/schools/:id/social/:platform/refresh
func (ctrl *SocialController) RefreshToken(c *fiber.Ctx) error {
	requested, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid school id")
	}
	schoolID, err := ctrl.schoolScope(c, requested)
	if err != nil {
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	}
	platform := model.SocialPlatform(c.Params("platform"))
	if !platform.Valid() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Unknown platform")
	}

	if err := ctrl.Registry.RefreshConnection(c.Context(), schoolID, platform); err != nil {
		var pe *service.PlatformError
		if errors.As(err, &pe) {
			switch pe.Code {
			case service.CodeNotConnected:
				return helper.JsonError(c, fiber.StatusNotFound, "Platform is not connected")
			case service.CodeAuthExpired:
				return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Token could not be refreshed; reconnect the platform")
			}
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Refresh failed")
	}
	return helper.JsonUpdated(c, "Token refreshed", fiber.Map{"platform": platform})
}
