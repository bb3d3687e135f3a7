// file: internals/features/users/controller/auth_controller.go
package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"schoolchamps_backend/internals/configs"
	"schoolchamps_backend/internals/constants"
	schoolModel "schoolchamps_backend/internals/features/schools/model"
	"schoolchamps_backend/internals/features/users/dto"
	"schoolchamps_backend/internals/features/users/model"
	helper "schoolchamps_backend/internals/helpers"
	"schoolchamps_backend/internals/middlewares/auth"
)

const tokenTTL = 24 * time.Hour

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

/* =========================================================
   REGISTER
   ========================================================= */

// Register creates a user; school-role users get their school wired in
// the same transaction (existing id or inline creation).
// POST /api/auth/register
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(c, &req); err != nil {
		return err
	}
	if req.Role == constants.RoleSchool && req.SchoolID == nil && req.SchoolName == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "School users need school_id or school_name")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := model.UserModel{
		UserName:     strings.TrimSpace(req.Name),
		UserEmail:    email,
		UserPassword: string(hash),
		UserRole:     req.Role,
		UserIsActive: true,
	}

	err = ctrl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var existing model.UserModel
		if err := tx.Where("user_email = ?", email).First(&existing).Error; err == nil {
			return errors.New("email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if req.Role == constants.RoleSchool {
			if req.SchoolID != nil {
				var school schoolModel.SchoolModel
				if err := tx.Where("school_id = ?", *req.SchoolID).First(&school).Error; err != nil {
					return errors.New("school not found")
				}
				user.UserSchoolID = req.SchoolID
			} else {
				school := schoolModel.SchoolModel{SchoolName: strings.TrimSpace(req.SchoolName)}
				if err := tx.Create(&school).Error; err != nil {
					return err
				}
				user.UserSchoolID = &school.SchoolID
			}
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		switch err.Error() {
		case "email already registered":
			return helper.JsonError(c, fiber.StatusConflict, "Email already registered")
		case "school not found":
			return helper.JsonError(c, fiber.StatusNotFound, "School not found")
		}
		log.Printf("[AUTH] register failed: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Registration failed")
	}

	log.Printf("[AUTH] registered user=%s role=%s", user.UserID, user.UserRole)
	return helper.JsonCreated(c, "Registered", dto.FromUserModel(&user))
}

/* =========================================================
   LOGIN / ME
   ========================================================= */

// POST /api/auth/login
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(c, &req); err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user model.UserModel
	if err := ctrl.DB.WithContext(c.Context()).Where("user_email = ?", email).First(&user).Error; err != nil {
		// same answer for unknown email and wrong password
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.UserPassword), []byte(req.Password)); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if !user.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Account is deactivated")
	}

	expiresAt := time.Now().Add(tokenTTL)
	claims := jwt.MapClaims{
		"user_id":   user.UserID.String(),
		"role":      user.UserRole,
		"user_name": user.UserName,
		"exp":       expiresAt.Unix(),
		"iat":       time.Now().Unix(),
	}
	if user.UserSchoolID != nil {
		claims["school_id"] = user.UserSchoolID.String()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to sign token")
	}

	log.Printf("[AUTH] login user=%s role=%s", user.UserID, user.UserRole)
	return helper.JsonOK(c, "Logged in", dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        dto.FromUserModel(&user),
	})
}

// GET /api/auth/me
func (ctrl *AuthController) Me(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	var user model.UserModel
	if err := ctrl.DB.WithContext(c.Context()).Where("user_id = ?", userID).First(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	return helper.JsonOK(c, "OK", dto.FromUserModel(&user))
}
