package api

import (
	"net/http" // HTTP status codes

	"makerspace/internal/balance"    // Amount formatting
	"makerspace/internal/middleware" // Current user
	"makerspace/internal/service"    // Business operations

	"github.com/gin-gonic/gin" // Gin web framework
)

// ProfileRequest is the body of PUT /profile
type ProfileRequest struct {
	FullName                     string `json:"full_name" binding:"required,max=255"`
	PhoneNumber                  string `json:"phone_number" binding:"max=50"`
	EmergencyContactName         string `json:"emergency_contact_name" binding:"max=255"`
	EmergencyContactPhone        string `json:"emergency_contact_phone" binding:"max=50"`
	EmergencyContactRelationship string `json:"emergency_contact_relationship" binding:"max=100"`
	PreferredContactMethod       string `json:"preferred_contact_method" binding:"omitempty,oneof=email phone discord"`
	Notes                        string `json:"notes"`
}

// MeHandler returns who the session belongs to and what they may do
func MeHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)
		profile, err := deps.Service.Profile(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":                profile.ID,
			"full_name":         profile.FullName,
			"roles":             profile.Roles,
			"is_admin":          profile.IsAdmin(),
			"membership_status": profile.MembershipStatus,
		})
	}
}

// GetProfileHandler returns the caller's profile
func GetProfileHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)
		profile, err := deps.Service.Profile(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// UpdateProfileHandler edits the caller's contact details
func UpdateProfileHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)
		var req ProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		profile, err := deps.Service.UpdateProfile(c.Request.Context(), userID, service.ContactDetails{
			FullName:                     req.FullName,
			PhoneNumber:                  req.PhoneNumber,
			EmergencyContactName:         req.EmergencyContactName,
			EmergencyContactPhone:        req.EmergencyContactPhone,
			EmergencyContactRelationship: req.EmergencyContactRelationship,
			PreferredContactMethod:       req.PreferredContactMethod,
			Notes:                        req.Notes,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c, deps, usersKey)
		c.JSON(http.StatusOK, profile)
	}
}

// OrdersHandler lists the caller's unpaid orders and what they owe
func OrdersHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)
		history, err := deps.Service.Orders(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"orders":             history.Orders,
			"count":              len(history.Orders),
			"total_owed":         history.TotalOwed,
			"total_owed_display": balance.FormatAmount(history.TotalOwed),
		})
	}
}
