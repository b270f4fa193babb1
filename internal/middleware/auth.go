package middleware

import (
	"strings"
	"sync"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		// Download links open in a new tab and cannot set headers.
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		cfg := c.MustGet("config").(*config.Config)
		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// RoleMiddleware gates a route group by role. Admins pass every gate.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := user.Role == model.RoleAdmin
		if !hasRole {
			for _, role := range roles {
				if user.Role == role {
					hasRole = true
					break
				}
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

type UserActivityRepo interface {
	UpdateLastLogin(userID uint) error
}

// activityInterval bounds last-seen writes to one per user per interval.
const activityInterval = time.Minute

type activityTracker struct {
	mu   sync.Mutex
	seen map[uint]time.Time
}

func (t *activityTracker) shouldTouch(userID uint, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if last, ok := t.seen[userID]; ok && now.Sub(last) < activityInterval {
		return false
	}
	t.seen[userID] = now
	return true
}

// ActivityMiddleware keeps the account's last-seen timestamp fresh. Writes
// are debounced per user so request bursts do not turn into bursts of
// single-row updates.
func ActivityMiddleware(repo UserActivityRepo) gin.HandlerFunc {
	tracker := &activityTracker{seen: make(map[uint]time.Time)}
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims != nil && tracker.shouldTouch(claims.UserID, time.Now()) {
			if err := repo.UpdateLastLogin(claims.UserID); err != nil {
				logger.Log.Warn("failed to update last activity",
					zap.Uint("user_id", claims.UserID), zap.Error(err))
			}
		}
		c.Next()
	}
}
