package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/permissions"
	"github.com/yeremiapane/orderdesk-app/reconciler"
	"github.com/yeremiapane/orderdesk-app/utils"
	"github.com/yeremiapane/orderdesk-app/view"
)

type DashboardController struct {
	Rec   *reconciler.Reconciler
	Perms *permissions.Model
}

func NewDashboardController(rec *reconciler.Reconciler, perms *permissions.Model) *DashboardController {
	return &DashboardController{Rec: rec, Perms: perms}
}

// GetDashboardRows -> the filtered, sorted, projected row sequence the
// table renders, plus the field layout for the caller's role. The same
// permission mapping gates both, so a cell editable here is also editable
// in the dynamic form.
func (dc *DashboardController) GetDashboardRows(c *gin.Context) {
	role := c.GetString("role")

	fs := view.FilterState{
		VendorID:    c.Query("vendor_id"),
		Status:      c.Query("status"),
		SearchTerm:  c.Query("search_term"),
		SearchScope: c.Query("search_scope"),
		SortKey:     c.Query("sort_key"),
		SortDesc:    c.Query("sort_desc") == "true",
	}
	if from, err := time.Parse("2006-01-02", c.Query("date_from")); err == nil {
		fs.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("date_to")); err == nil {
		fs.DateTo = &to
	}

	// Vendors are always scoped to their own orders, whatever the filter
	// bar says.
	if role == models.RoleVendor {
		fs.VendorID = c.GetString("vendor_id")
	}

	rows := view.Apply(view.ProjectRows(dc.Rec.Snapshot()), fs)

	fields := dc.Perms.VisibleFields(role)
	editable := make(map[string]bool, len(fields))
	for _, fc := range fields {
		editable[fc.Name] = dc.Perms.CanEdit(fc.Name, role)
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard rows", gin.H{
		"rows":     rows,
		"fields":   fields,
		"editable": editable,
		"stale":    dc.Rec.IsStale(),
	})
}
