package endpoint

import (
	"github.com/docspot/docspot-api/model"
	"github.com/docspot/docspot-api/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListUsers godoc
// @Summary      List patient accounts (admin only)
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Users retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/user/all [get]
func ListUsers(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var users []model.User
	if err := db.Where("is_doctor = ? AND role <> ?", false, model.RoleAdmin).Find(&users).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve users", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Users retrieved", Data: users})
}

// DeleteUser godoc
// @Summary      Delete an account (admin only)
// @Description  Unconditional delete; appointments owned by the account are kept
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200 {object} util.APIResponse "User deleted"
// @Failure      400 {object} util.APIResponse "Invalid user id"
// @Failure      404 {object} util.APIResponse "User not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/user/delete/{id} [post]
func DeleteUser(c *gin.Context) {
	uid, err := parseIDParam(c)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: err.Error(), Err: err})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		user := &model.User{}
		if err := tx.First(user, uid).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", uid).Delete(&model.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "User not found", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to delete user", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User deleted"})
}

// ListNotifications godoc
// @Summary      Fetch the caller's notification inbox
// @Description  Notifications are fetched, never pushed; entries are append-only
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Notifications retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/user/notifications [get]
func ListNotifications(c *gin.Context) {
	user, ok := getUserOrRespond(c)
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var notifications []model.Notification
	if err := db.Where("user_id = ?", user.ID).Order("created_at ASC").Find(&notifications).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve notifications", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Notifications retrieved", Data: notifications})
}
