package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/permissions"
	"github.com/yeremiapane/orderdesk-app/utils"
)

type FieldConfigController struct {
	Model *permissions.Model
	Store *permissions.Store
}

func NewFieldConfigController(model *permissions.Model, store *permissions.Store) *FieldConfigController {
	return &FieldConfigController{Model: model, Store: store}
}

// GetFieldConfig -> the form layout for the caller's role, display order.
func (fc *FieldConfigController) GetFieldConfig(c *gin.Context) {
	role := c.GetString("role")
	utils.RespondJSON(c, http.StatusOK, "Field configuration", fc.Model.VisibleFields(role))
}

// UpdateFieldConfig -> admin replaces the whole mapping in bulk. The list
// is persisted and swapped atomically; a failed save keeps the previous
// mapping on both surfaces.
func (fc *FieldConfigController) UpdateFieldConfig(c *gin.Context) {
	role, _ := c.Get("role")
	if role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var fields []models.FieldConfig
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := fc.Store.SaveFieldConfig(fields); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := fc.Model.Replace(fields); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.InfoLogger.Printf("Field configuration replaced (%d entries)", len(fields))
	utils.RespondJSON(c, http.StatusOK, "Field configuration updated", fields)
}

// ResetFieldConfig -> admin restores the built-in defaults.
func (fc *FieldConfigController) ResetFieldConfig(c *gin.Context) {
	role, _ := c.Get("role")
	if role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	defaults, err := fc.Store.ResetFieldConfig()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	fc.Model.Reset()

	utils.RespondJSON(c, http.StatusOK, "Field configuration reset", defaults)
}
