package endpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/docspot/docspot-api/model"
	"github.com/docspot/docspot-api/util"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Sentinel errors for the doctor application workflow
var (
	ErrEmailExists = errors.New("email already exists")
)

// doctorApplication carries the professional fields shared by the public
// application and the admin direct-add, both submitted as multipart forms.
type doctorApplication struct {
	Name           string
	Email          string
	Password       string
	Phone          string
	Specialization string
	Experience     string
	Fees           float64
	Address        string
	Timings        datatypes.JSON
	Documents      string
}

func bindDoctorApplication(c *gin.Context) (doctorApplication, error) {
	app := doctorApplication{
		Name:           util.NormalizeName(c.PostForm("name")),
		Email:          c.PostForm("email"),
		Password:       c.PostForm("password"),
		Phone:          c.PostForm("phone"),
		Specialization: c.PostForm("specialization"),
		Experience:     c.PostForm("experience"),
		Address:        c.PostForm("address"),
	}

	required := map[string]string{
		"name":           app.Name,
		"email":          app.Email,
		"password":       app.Password,
		"phone":          app.Phone,
		"specialization": app.Specialization,
		"address":        app.Address,
	}
	for field, value := range required {
		if value == "" {
			return app, fmt.Errorf("%s is empty or missing required fields", field)
		}
	}

	if feesStr := c.PostForm("fees"); feesStr != "" {
		fees, err := strconv.ParseFloat(feesStr, 64)
		if err != nil {
			return app, fmt.Errorf("fees must be a number")
		}
		app.Fees = fees
	}

	timings, err := parseTimings(c.PostForm("timings"))
	if err != nil {
		return app, err
	}
	app.Timings = timings

	doc, err := saveUploadedDocument(c, "docImg")
	if err != nil {
		return app, fmt.Errorf("failed to store uploaded document: %w", err)
	}
	app.Documents = doc

	return app, nil
}

// parseTimings validates the timings form value, a JSON array of time-range strings.
func parseTimings(raw string) (datatypes.JSON, error) {
	if raw == "" {
		return nil, nil
	}
	var timings []string
	if err := json.Unmarshal([]byte(raw), &timings); err != nil {
		return nil, fmt.Errorf("timings must be a JSON array of strings")
	}
	b, _ := json.Marshal(timings)
	return datatypes.JSON(b), nil
}

// createDoctorAccount creates the account and its profile in a single
// transaction so a profile failure never leaves an orphaned account.
func createDoctorAccount(db *gorm.DB, app doctorApplication, status string) error {
	hashed, err := util.HashPassword(app.Password)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing model.User
		err := tx.Where("email = ?", app.Email).First(&existing).Error
		if err == nil {
			return ErrEmailExists
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		user := model.User{
			Name:     app.Name,
			Email:    app.Email,
			Password: hashed,
			Phone:    app.Phone,
			Role:     model.RoleDoctor,
			IsDoctor: status == model.DoctorApproved,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		doctor := model.Doctor{
			UserID:         user.ID,
			FullName:       app.Name,
			Email:          app.Email,
			Phone:          app.Phone,
			Specialization: app.Specialization,
			Experience:     app.Experience,
			Fees:           app.Fees,
			Timings:        app.Timings,
			Address:        app.Address,
			Documents:      app.Documents,
			Status:         status,
		}
		return tx.Create(&doctor).Error
	})
}

func handleDoctorCreation(c *gin.Context, status, successMsg string) {
	app, err := bindDoctorApplication(c)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: err.Error(), Err: fmt.Errorf("invalid payload")})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	if err := createDoctorAccount(db, app, status); err != nil {
		if errors.Is(err, ErrEmailExists) {
			util.CallUserError(c, util.APIErrorParams{Msg: "Email already exists", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create doctor account", Err: err})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: successMsg})
}

// ApplyDoctorPublic godoc
// @Summary      Self-service doctor application
// @Description  Creates a doctor-role account and a pending profile in one transaction
// @Tags         Doctors
// @Accept       multipart/form-data
// @Produce      json
// @Success      201 {object} util.APIResponse "Application submitted"
// @Failure      400 {object} util.APIResponse "Invalid payload or email already exists"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/doctor/apply-public [post]
func ApplyDoctorPublic(c *gin.Context) {
	handleDoctorCreation(c, model.DoctorPending, "Application submitted. Log in after admin approval.")
}

// AddDoctor godoc
// @Summary      Admin direct-add of an approved doctor
// @Tags         Doctors
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} util.APIResponse "Doctor added"
// @Failure      400 {object} util.APIResponse "Invalid payload or email already exists"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/doctor/add [post]
func AddDoctor(c *gin.Context) {
	handleDoctorCreation(c, model.DoctorApproved, "Doctor added")
}

type applyDoctorRequest struct {
	Specialization string   `json:"specialization" binding:"required"`
	Experience     string   `json:"experience"`
	Fees           float64  `json:"fees"`
	Timings        []string `json:"timings"`
	Address        string   `json:"address" binding:"required"`
}

// ApplyDoctor godoc
// @Summary      Doctor profile application for an existing account
// @Description  Creates a pending profile linked to the caller and notifies admins
// @Tags         Doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} util.APIResponse "Application submitted"
// @Failure      400 {object} util.APIResponse "Invalid payload or profile already exists"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/doctor/apply [post]
func ApplyDoctor(c *gin.Context) {
	user, ok := getUserOrRespond(c)
	if !ok {
		return
	}

	var req applyDoctorRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var existing model.Doctor
	if err := db.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Doctor profile already exists", Err: fmt.Errorf("profile already exists")})
		return
	}

	timings, _ := json.Marshal(req.Timings)
	doctor := model.Doctor{
		UserID:         user.ID,
		FullName:       user.Name,
		Email:          user.Email,
		Phone:          user.Phone,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Fees:           req.Fees,
		Timings:        datatypes.JSON(timings),
		Address:        req.Address,
		Status:         model.DoctorPending,
	}
	if err := db.Create(&doctor).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create doctor profile", Err: err})
		return
	}

	// Tell every admin a new application is waiting.
	var admins []model.User
	if err := db.Where("role = ?", model.RoleAdmin).Find(&admins).Error; err == nil {
		data, _ := json.Marshal(map[string]interface{}{"doctorId": doctor.ID, "name": doctor.FullName})
		for _, admin := range admins {
			notifyUser(db, admin.ID, model.Notification{
				Type:        model.NotificationApplyDoctor,
				Message:     fmt.Sprintf("%s has applied for a doctor account", doctor.FullName),
				OnClickPath: "/admin/doctors",
				Data:        datatypes.JSON(data),
			})
		}
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Application submitted"})
}

// ListDoctors godoc
// @Summary      List approved doctors
// @Tags         Doctors
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Doctors retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/doctor/all [get]
func ListDoctors(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var doctors []model.Doctor
	if err := db.Where("status = ?", model.DoctorApproved).Find(&doctors).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve doctors", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctors retrieved", Data: doctors})
}

// ListAllDoctors godoc
// @Summary      List all doctor profiles regardless of status (admin only)
// @Tags         Doctors
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Doctors retrieved"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/doctor/admin/all [get]
func ListAllDoctors(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var doctors []model.Doctor
	if err := db.Find(&doctors).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve doctors", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctors retrieved", Data: doctors})
}

type changeDoctorStatusRequest struct {
	DoctorID uint   `json:"doctorId" binding:"required"`
	Status   string `json:"status" binding:"required"`
}

// ChangeDoctorStatus godoc
// @Summary      Transition a doctor application (admin only)
// @Description  Approval sets the owning account's isDoctor flag; any other status clears it
// @Tags         Doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body changeDoctorStatusRequest true "Target status"
// @Success      200 {object} util.APIResponse "Status updated"
// @Failure      400 {object} util.APIResponse "Invalid status"
// @Failure      403 {object} util.APIResponse "Forbidden"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/doctor/change-status [post]
func ChangeDoctorStatus(c *gin.Context) {
	var req changeDoctorStatusRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	if !model.ValidDoctorStatus(req.Status) {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid status", Err: fmt.Errorf("unknown status %q", req.Status)})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var doctor model.Doctor
	if err := db.First(&doctor, req.DoctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Doctor not found", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve doctor", Err: err})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		doctor.Status = req.Status
		if err := tx.Save(&doctor).Error; err != nil {
			return err
		}

		var owner model.User
		if err := tx.First(&owner, doctor.UserID).Error; err != nil {
			return err
		}
		owner.IsDoctor = req.Status == model.DoctorApproved
		owner.Role = model.RoleDoctor
		return tx.Save(&owner).Error
	})
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update doctor status", Err: err})
		return
	}

	notifyUser(db, doctor.UserID, model.Notification{
		Type:        model.NotificationDoctorStatusUpdated,
		Message:     fmt.Sprintf("Your doctor account request has been %s", req.Status),
		OnClickPath: "/notification",
	})

	util.LogEvent(util.Event{
		EventType: util.EventDoctorStatusChanged,
		UserID:    fmt.Sprintf("%d", doctor.UserID),
		Email:     doctor.Email,
		IP:        c.ClientIP(),
		Message:   fmt.Sprintf("Doctor %d status changed to %s", doctor.ID, req.Status),
	})

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctor status updated", Data: doctor})
}

// GetDoctorInfo godoc
// @Summary      Caller's own doctor profile
// @Tags         Doctors
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Doctor retrieved"
// @Failure      404 {object} util.APIResponse "Doctor profile not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/doctor/info [post]
func GetDoctorInfo(c *gin.Context) {
	user, ok := getUserOrRespond(c)
	if !ok {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var doctor model.Doctor
	if err := db.Where("user_id = ?", user.ID).First(&doctor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Doctor profile not found", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve doctor", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctor retrieved", Data: doctor})
}

type doctorByIDRequest struct {
	DoctorID uint `json:"doctorId" binding:"required"`
}

// GetDoctorByID godoc
// @Summary      Single doctor profile by id
// @Tags         Doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Doctor retrieved"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/doctor/by-id [post]
func GetDoctorByID(c *gin.Context) {
	var req doctorByIDRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var doctor model.Doctor
	if err := db.First(&doctor, req.DoctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Doctor not found", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve doctor", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctor retrieved", Data: doctor})
}

type updateDoctorProfileRequest struct {
	FullName       string   `json:"fullname"`
	Phone          string   `json:"phone"`
	Specialization string   `json:"specialization"`
	Experience     string   `json:"experience"`
	Fees           float64  `json:"fees"`
	Timings        []string `json:"timings"`
	Address        string   `json:"address"`
}

// UpdateDoctorProfile godoc
// @Summary      Self-edit of the caller's doctor profile
// @Tags         Doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Profile updated"
// @Failure      404 {object} util.APIResponse "Doctor profile not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/doctor/update-profile [post]
func UpdateDoctorProfile(c *gin.Context) {
	user, ok := getUserOrRespond(c)
	if !ok {
		return
	}

	var req updateDoctorProfileRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var doctor model.Doctor
	if err := db.Where("user_id = ?", user.ID).First(&doctor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Doctor profile not found", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve doctor", Err: err})
		return
	}

	if req.FullName != "" {
		doctor.FullName = util.NormalizeName(req.FullName)
	}
	if req.Phone != "" {
		doctor.Phone = req.Phone
	}
	if req.Specialization != "" {
		doctor.Specialization = req.Specialization
	}
	if req.Experience != "" {
		doctor.Experience = req.Experience
	}
	if req.Fees > 0 {
		doctor.Fees = req.Fees
	}
	if req.Address != "" {
		doctor.Address = req.Address
	}
	if req.Timings != nil {
		b, _ := json.Marshal(req.Timings)
		doctor.Timings = datatypes.JSON(b)
	}

	if err := db.Save(&doctor).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update profile", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Doctor profile updated", Data: doctor})
}
