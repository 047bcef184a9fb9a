package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/utils"
)

type VendorController struct {
	DB *gorm.DB
}

func NewVendorController(db *gorm.DB) *VendorController {
	return &VendorController{DB: db}
}

// GetAllVendors -> list vendors
func (vc *VendorController) GetAllVendors(c *gin.Context) {
	var vendors []models.Vendor
	if err := vc.DB.Order("name asc").Find(&vendors).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of vendors", vendors)
}

// CreateVendor -> admin only
func (vc *VendorController) CreateVendor(c *gin.Context) {
	role, _ := c.Get("role")
	if role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var vendor models.Vendor
	if err := c.ShouldBindJSON(&vendor); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if vendor.ID == "" {
		vendor.ID = uuid.NewString()
	}
	vendor.Active = true

	if err := vc.DB.Create(&vendor).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Vendor created", vendor)
}

// UpdateVendor -> admin, or the vendor itself
func (vc *VendorController) UpdateVendor(c *gin.Context) {
	vendorID := c.Param("vendor_id")
	role, _ := c.Get("role")
	if role != models.RoleAdmin && c.GetString("vendor_id") != vendorID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var vendor models.Vendor
	if err := vc.DB.First(&vendor, "id = ?", vendorID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name    *string `json:"name"`
		Email   *string `json:"email"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
		Active  *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		vendor.Name = *req.Name
	}
	if req.Email != nil {
		vendor.Email = *req.Email
	}
	if req.Phone != nil {
		vendor.Phone = *req.Phone
	}
	if req.Address != nil {
		vendor.Address = *req.Address
	}
	if req.Active != nil && role == models.RoleAdmin {
		vendor.Active = *req.Active
	}

	if err := vc.DB.Save(&vendor).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Vendor updated", vendor)
}

// DeleteVendor -> admin only
func (vc *VendorController) DeleteVendor(c *gin.Context) {
	role, _ := c.Get("role")
	if role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	vendorID := c.Param("vendor_id")

	var count int64
	vc.DB.Model(&models.Order{}).Where("vendor_id = ?", vendorID).Count(&count)
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("vendor still has %d orders", count))
		return
	}

	if err := vc.DB.Delete(&models.Vendor{}, "id = ?", vendorID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Vendor deleted", gin.H{"vendor_id": vendorID})
}
