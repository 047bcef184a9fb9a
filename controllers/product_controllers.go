package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/utils"
)

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

// GetAllProducts -> list, optionally scoped to one vendor
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	query := pc.DB.Preload("Vendor").Order("name asc")
	if vendorID := c.Query("vendor_id"); vendorID != "" {
		query = query.Where("vendor_id = ?", vendorID)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

// CreateProduct -> admin, or a vendor for its own catalogue
func (pc *ProductController) CreateProduct(c *gin.Context) {
	role, _ := c.Get("role")
	if role != models.RoleAdmin && role != models.RoleVendor {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if role == models.RoleVendor {
		product.VendorID = c.GetString("vendor_id")
	}

	if err := pc.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

// UpdateProduct -> admin, or the owning vendor
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("product_id"))

	var product models.Product
	if err := pc.DB.First(&product, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	role, _ := c.Get("role")
	if role != models.RoleAdmin && product.VendorID != c.GetString("vendor_id") {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		SKU         *string  `json:"sku"`
		UnitPrice   *float64 `json:"unit_price"`
		Stock       *int     `json:"stock"`
		Description *string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.UnitPrice != nil {
		product.UnitPrice = *req.UnitPrice
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Description != nil {
		product.Description = *req.Description
	}

	if err := pc.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

// DeleteProduct -> admin only
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	role, _ := c.Get("role")
	if role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	id, _ := strconv.Atoi(c.Param("product_id"))
	if err := pc.DB.Delete(&models.Product{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"product_id": id})
}
