package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/utils"
)

type DemandController struct {
	DB *gorm.DB
}

func NewDemandController(db *gorm.DB) *DemandController {
	return &DemandController{DB: db}
}

// CreateDemand -> a client asks for products; no order exists yet.
func (dc *DemandController) CreateDemand(c *gin.Context) {
	userID, ok := c.Get("user_id")
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		ProductID   *uint  `json:"product_id"`
		Quantity    int    `json:"quantity" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Quantity <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("quantity must be positive"))
		return
	}

	demand := models.Demand{
		UserID:      userID.(uint),
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Description: req.Description,
		Status:      "open",
	}
	if err := dc.DB.Create(&demand).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Demand created", demand)
}

// GetAllDemands -> admins and vendors review open demands; clients see
// their own.
func (dc *DemandController) GetAllDemands(c *gin.Context) {
	role, _ := c.Get("role")

	query := dc.DB.Preload("Product").Order("created_at desc")
	if role == models.RoleClient {
		userID, _ := c.Get("user_id")
		query = query.Where("user_id = ?", userID)
	}

	var demands []models.Demand
	if err := query.Find(&demands).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of demands", demands)
}

// UpdateDemandStatus -> admin moves a demand along (open/accepted/closed).
func (dc *DemandController) UpdateDemandStatus(c *gin.Context) {
	role, _ := c.Get("role")
	if role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	id, _ := strconv.Atoi(c.Param("demand_id"))

	var demand models.Demand
	if err := dc.DB.First(&demand, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	demand.Status = req.Status
	if err := dc.DB.Save(&demand).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Demand updated", demand)
}
