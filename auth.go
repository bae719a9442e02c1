package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"budgetbe/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

// jwtAuthMiddleware validates the Bearer token and puts the caller's id and
// family-member id set into the request context. Handlers treat the family
// set as opaque session input.
func (s *server) jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "missing or invalid Authorization header"}})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return s.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "invalid token"}})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "invalid claims"}})
			c.Abort()
			return
		}
		uidFloat, ok := claims["uid"].(float64)
		if !ok || uidFloat <= 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "invalid claims"}})
			c.Abort()
			return
		}
		c.Set("uid", uint(uidFloat))
		var family []uint
		if raw, ok := claims["family"].([]interface{}); ok {
			for _, v := range raw {
				if f, ok := v.(float64); ok {
					family = append(family, uint(f))
				}
			}
		}
		c.Set("family", family)
		c.Next()
	}
}

// callerID returns the authenticated user's id from the request context.
func callerID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("uid")
	if !ok {
		return 0, false
	}
	uid, ok := v.(uint)
	return uid, ok
}

// familyMemberIDs returns the family set carried by the session token.
func familyMemberIDs(c *gin.Context) []uint {
	v, ok := c.Get("family")
	if !ok {
		return nil
	}
	ids, _ := v.([]uint)
	return ids
}

func (s *server) registerHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrors(err)})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": []fieldError{{Param: "password", Msg: "Password must be at least 6 characters"}}})
		return
	}
	if _, err := s.users.ByEmail(c.Request.Context(), email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{"msg": "user already exists"}})
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "registration failed"}})
		return
	}
	user := models.User{Email: email, HashedPassword: hashed}
	if err := s.users.Create(c.Request.Context(), &user); err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("user create failed")
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{"msg": "user already exists"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func (s *server) loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrors(err)})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.ByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "invalid credentials"}})
		return
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "invalid credentials"}})
		return
	}
	tokenString, err := s.signAccessToken(c, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "failed to generate token"}})
		return
	}
	refreshToken, err := s.createAndStoreRefreshToken(c, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "failed to create refresh token"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// signAccessToken embeds the caller's id and current family-member set in the
// token, so expense handlers receive the family set from the session alone.
func (s *server) signAccessToken(c *gin.Context, user *models.User) (string, error) {
	family, err := s.users.FamilyMemberIDs(c.Request.Context(), user.ID)
	if err != nil {
		return "", err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":    user.ID,
		"family": family,
		"exp":    time.Now().Add(accessTokenTTL).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func (s *server) createAndStoreRefreshToken(c *gin.Context, userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	rt := models.RefreshToken{
		UserID:    userID,
		TokenHash: hex.EncodeToString(h[:]),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.tokens.Create(c.Request.Context(), &rt); err != nil {
		return "", err
	}
	return token, nil
}

func (s *server) findRefreshTokenByRaw(c *gin.Context, token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	return s.tokens.ByHash(c.Request.Context(), hex.EncodeToString(h[:]))
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func (s *server) refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrors(err)})
		return
	}
	rt, err := s.findRefreshTokenByRaw(c, req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "invalid or expired refresh token"}})
		return
	}
	user, err := s.users.ByID(c.Request.Context(), rt.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "user not found"}})
		return
	}
	tokenString, err := s.signAccessToken(c, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "failed to generate token"}})
		return
	}
	// rotate: revoke the used token and hand out a new one
	if err := s.tokens.Revoke(c.Request.Context(), rt.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "failed to rotate refresh token"}})
		return
	}
	newRT, err := s.createAndStoreRefreshToken(c, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "failed to rotate refresh token"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func (s *server) revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrors(err)})
		return
	}
	rt, err := s.findRefreshTokenByRaw(c, req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"msg": "refresh token not found"}})
		return
	}
	if err := s.tokens.Revoke(c.Request.Context(), rt.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "failed to revoke token"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}
