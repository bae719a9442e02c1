package main

import (
	"errors"
	"net/http"

	"budgetbe/models"
	"budgetbe/store"

	"github.com/gin-gonic/gin"
)

// saveProfileHandler creates or updates the caller's profile. The profile name
// is what family members see next to this user's expenses.
func (s *server) saveProfileHandler(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "user not found"}})
		return
	}
	var req struct {
		Name     string `json:"name" binding:"required"`
		Location string `json:"location"`
		Website  string `json:"website"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrors(err)})
		return
	}
	profile, err := s.users.ProfileByUserID(c.Request.Context(), uid)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "failed to save profile"}})
			return
		}
		profile = &models.Profile{UserID: uid}
	}
	profile.Name = req.Name
	profile.Location = req.Location
	profile.Website = req.Website
	if err := s.users.SaveProfile(c.Request.Context(), profile); err != nil {
		s.log.Error().Err(err).Uint("user_id", uid).Msg("profile save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "failed to save profile"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": profile.ID})
}

func (s *server) getProfileHandler(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "user not found"}})
		return
	}
	profile, err := s.users.ProfileByUserID(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"msg": "profile not found"}})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// createFamilyHandler creates a family owned by the caller and makes the
// caller its first member. The wider family set takes effect on next login,
// when the session token is re-issued.
func (s *server) createFamilyHandler(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "user not found"}})
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrors(err)})
		return
	}
	family := models.Family{Name: req.Name, OwnerID: uid}
	if err := s.users.CreateFamily(c.Request.Context(), &family); err != nil {
		s.log.Error().Err(err).Uint("user_id", uid).Msg("family create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "failed to create family"}})
		return
	}
	if err := s.users.SetFamily(c.Request.Context(), uid, family.ID); err != nil {
		s.log.Error().Err(err).Uint("user_id", uid).Msg("family assign failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "failed to create family"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": family.ID, "name": family.Name})
}

func (s *server) joinFamilyHandler(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "user not found"}})
		return
	}
	var req struct {
		ID uint `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrors(err)})
		return
	}
	family, err := s.users.FamilyByID(c.Request.Context(), req.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"msg": "family not found"}})
		return
	}
	if err := s.users.SetFamily(c.Request.Context(), uid, family.ID); err != nil {
		s.log.Error().Err(err).Uint("user_id", uid).Msg("family join failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "failed to join family"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": family.ID, "name": family.Name})
}
