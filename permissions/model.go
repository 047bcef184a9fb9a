package permissions

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yeremiapane/orderdesk-app/models"
)

var ErrPermissionDenied = errors.New("field is not editable by this role")

// Model is the single field-permission mapping both the data table and the
// dynamic edit form consult, so an edit allowed in one surface is never
// silently rejected in the other.
type Model struct {
	mu     sync.RWMutex
	fields []models.FieldConfig
	byName map[string]models.FieldConfig
}

func NewModel(fields []models.FieldConfig) *Model {
	m := &Model{}
	// Defaults are trusted; a broken override list falls back to them.
	if err := m.Replace(fields); err != nil {
		_ = m.Replace(DefaultFieldConfigs())
	}
	return m
}

// CanEdit reports whether role may edit the named field. Admin passes every
// check regardless of configuration; a mapping that says editable_by:vendor
// must never lock operators out of their own data. Unknown fields are
// editable by admin only.
func (m *Model) CanEdit(fieldName, role string) bool {
	if role == models.RoleAdmin {
		return true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	fc, ok := m.byName[fieldName]
	if !ok {
		return false
	}
	return fc.EditableBy == models.FieldAudienceBoth || fc.EditableBy == role
}

// CanView mirrors CanEdit with the visibility rule.
func (m *Model) CanView(fieldName, role string) bool {
	if role == models.RoleAdmin {
		return true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	fc, ok := m.byName[fieldName]
	if !ok {
		return false
	}
	return fc.VisibleTo == models.FieldAudienceBoth || fc.VisibleTo == role
}

// Fields returns the mapping in display order.
func (m *Model) Fields() []models.FieldConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.FieldConfig, len(m.fields))
	copy(out, m.fields)
	return out
}

// VisibleFields returns the form layout for one role, in display order.
func (m *Model) VisibleFields(role string) []models.FieldConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.FieldConfig
	for _, fc := range m.fields {
		if role == models.RoleAdmin || fc.VisibleTo == models.FieldAudienceBoth || fc.VisibleTo == role {
			out = append(out, fc)
		}
	}
	return out
}

// Replace swaps the whole mapping atomically: the list is validated first
// and either applied in full or not at all.
func (m *Model) Replace(fields []models.FieldConfig) error {
	if err := validate(fields); err != nil {
		return err
	}

	byName := make(map[string]models.FieldConfig, len(fields))
	ordered := make([]models.FieldConfig, len(fields))
	copy(ordered, fields)
	for _, fc := range ordered {
		byName[fc.Name] = fc
	}

	m.mu.Lock()
	m.fields = ordered
	m.byName = byName
	m.mu.Unlock()
	return nil
}

// Reset restores the built-in default mapping.
func (m *Model) Reset() {
	_ = m.Replace(DefaultFieldConfigs())
}

func validate(fields []models.FieldConfig) error {
	if len(fields) == 0 {
		return errors.New("field config list is empty")
	}

	seen := make(map[string]bool, len(fields))
	for _, fc := range fields {
		if fc.Name == "" {
			return errors.New("field config entry without a name")
		}
		if seen[fc.Name] {
			return fmt.Errorf("duplicate field config entry: %s", fc.Name)
		}
		seen[fc.Name] = true

		switch fc.EditableBy {
		case models.FieldAudienceAdmin, models.FieldAudienceVendor, models.FieldAudienceBoth:
		default:
			return fmt.Errorf("field %s: invalid editable_by %q", fc.Name, fc.EditableBy)
		}
		switch fc.VisibleTo {
		case models.FieldAudienceAdmin, models.FieldAudienceVendor, models.FieldAudienceBoth:
		default:
			return fmt.Errorf("field %s: invalid visible_to %q", fc.Name, fc.VisibleTo)
		}
	}
	return nil
}
