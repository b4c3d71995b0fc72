package endpoint

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/docspot/docspot-api/config"
	"github.com/docspot/docspot-api/middleware"
	"github.com/docspot/docspot-api/model"
	"github.com/docspot/docspot-api/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

func getUserOrRespond(c *gin.Context) (*model.User, bool) {
	user, ok := middleware.GetUser(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "User not authenticated", Err: fmt.Errorf("no account in context")})
		return nil, false
	}
	return user, true
}

// parseIDParam parses the "id" path parameter into a uint and returns an error if invalid.
func parseIDParam(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("id must be a valid integer")
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be a positive integer")
	}
	return uint(id), nil
}

// notifyUser appends a notification to the given account's inbox. The append
// is a single INSERT so concurrent workflow completions never lose entries.
// Best-effort: failures are logged and never abort the primary mutation.
func notifyUser(db *gorm.DB, userID uint, n model.Notification) {
	n.UserID = userID
	if err := db.Create(&n).Error; err != nil {
		util.LogEvent(util.Event{
			EventType: util.EventNotificationFailed,
			UserID:    fmt.Sprintf("%d", userID),
			Message:   fmt.Sprintf("Failed to append %s notification: %v", n.Type, err),
		})
	}
}

// saveUploadedDocument stores an optional uploaded file under the configured
// upload directory and returns the stored path. A missing file yields an
// empty path and no error.
func saveUploadedDocument(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		// No file attached.
		return "", nil
	}
	cfg := config.LoadConfig()
	dst := filepath.Join(cfg.UploadDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return dst, nil
}
