// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/docspot/docspot-api/config"
	"github.com/docspot/docspot-api/endpoint"
	"github.com/docspot/docspot-api/middleware"
	"github.com/docspot/docspot-api/model"
	"github.com/docspot/docspot-api/util"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Doctor{},
		&model.Appointment{},
		&model.Notification{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("Error migrating schema: %v", err)
	}

	if err := model.SeedAdmin(db); err != nil {
		log.Fatalf("Error seeding admin account: %v", err)
	}

	util.SetJWTSecret(cfg.JWTSecret)
	util.SetAuditLoggerDB(db)
	util.InitUserEmailCacheFromEnv()

	// Redis backs the rate limiter; the service runs without it.
	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
	}

	mailer := util.NewSMTPMailer(cfg, 0)
	mailer.Start()
	defer mailer.Stop()
	util.SetMailer(mailer)

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.EndpointCallLogger())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})
	router.Static("/uploads", cfg.UploadDir)

	registerRoutes(router)

	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

func registerRoutes(router *gin.Engine) {
	loginLimiter := middleware.RateLimiter(middleware.RateLimitConfig{})
	bookingLimiter := middleware.RateLimiter(middleware.RateLimitConfig{Limit: 10, Window: time.Minute})

	user := router.Group("/api/user")
	{
		user.POST("/register", loginLimiter, endpoint.Register)
		user.POST("/login", loginLimiter, endpoint.Login)
		user.POST("/get-user-data", middleware.Auth(), endpoint.GetUserData)
		user.GET("/notifications", middleware.Auth(), endpoint.ListNotifications)
		user.GET("/all", middleware.Auth(), middleware.RequireRole(model.RoleAdmin), endpoint.ListUsers)
		user.POST("/delete/:id", middleware.Auth(), middleware.RequireRole(model.RoleAdmin), endpoint.DeleteUser)
	}

	doctor := router.Group("/api/doctor")
	{
		doctor.POST("/apply-public", endpoint.ApplyDoctorPublic)
		doctor.POST("/add", middleware.Auth(), middleware.RequireRole(model.RoleAdmin), endpoint.AddDoctor)
		doctor.POST("/apply", middleware.Auth(), endpoint.ApplyDoctor)
		doctor.GET("/all", middleware.Auth(), endpoint.ListDoctors)
		doctor.GET("/admin/all", middleware.Auth(), middleware.RequireRole(model.RoleAdmin), endpoint.ListAllDoctors)
		doctor.POST("/change-status", middleware.Auth(), middleware.RequireRole(model.RoleAdmin), endpoint.ChangeDoctorStatus)
		doctor.POST("/info", middleware.Auth(), endpoint.GetDoctorInfo)
		doctor.POST("/by-id", middleware.Auth(), endpoint.GetDoctorByID)
		doctor.POST("/update-profile", middleware.Auth(), middleware.RequireRole(model.RoleDoctor), endpoint.UpdateDoctorProfile)
	}

	appointment := router.Group("/api/appointment")
	{
		appointment.POST("/book", bookingLimiter, middleware.Auth(), middleware.RequireRole(model.RolePatient), endpoint.BookAppointment)
		appointment.GET("/user", middleware.Auth(), middleware.RequireRole(model.RolePatient), endpoint.UserAppointments)
		appointment.GET("/doctor", middleware.Auth(), middleware.RequireRole(model.RoleDoctor), endpoint.DoctorAppointments)
		appointment.POST("/update-status", middleware.Auth(), middleware.RequireRole(model.RoleDoctor), endpoint.UpdateAppointmentStatus)
	}
}
