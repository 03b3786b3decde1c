package handlers

import (
	"net/http"

	"medconnect/models"
	"medconnect/services/directory"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler exposes directory maintenance and the public directory reads.
type AdminHandler struct {
	Directory directory.DirectoryService
}

func NewAdminHandler(dir directory.DirectoryService) *AdminHandler {
	return &AdminHandler{Directory: dir}
}

func (ah *AdminHandler) CreateUserHandler(c *gin.Context) {
	var req models.User
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := ah.Directory.CreateUser(c.Request.Context(), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	getLogger(c).Info("User created", zap.String("userId", u.ID), zap.String("role", string(u.Role)))
	c.JSON(http.StatusCreated, u)
}

func (ah *AdminHandler) CreateHospitalHandler(c *gin.Context) {
	var req models.Hospital
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h, err := ah.Directory.CreateHospital(c.Request.Context(), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h)
}

func (ah *AdminHandler) CreateDoctorHandler(c *gin.Context) {
	var req models.Doctor
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := ah.Directory.CreateDoctor(c.Request.Context(), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (ah *AdminHandler) CreateMedicalTestHandler(c *gin.Context) {
	var req models.MedicalTest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := ah.Directory.CreateMedicalTest(c.Request.Context(), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (ah *AdminHandler) SetAvailabilityHandler(c *gin.Context) {
	var body struct {
		Availability []models.AvailabilityWindow `json:"availability" binding:"dive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	d, err := ah.Directory.SetDoctorAvailability(c.Request.Context(), c.Param("id"), body.Availability)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (ah *AdminHandler) ListHospitalsHandler(c *gin.Context) {
	hospitals, err := ah.Directory.ListHospitals(c.Request.Context())
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hospitals": hospitals})
}

func (ah *AdminHandler) ListHospitalTestsHandler(c *gin.Context) {
	tests, err := ah.Directory.ListMedicalTests(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tests": tests})
}

func (ah *AdminHandler) ListDoctorsHandler(c *gin.Context) {
	doctors, err := ah.Directory.ListDoctors(c.Request.Context(), c.Query("hospitalId"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}
