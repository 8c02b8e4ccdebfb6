package models

import "time"

// Category groups complaints. Inactive categories stay valid for display on
// older complaints but are not offered for new ones.
type Category struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Ref returns a reference to c.
func (c Category) Ref() CategoryRef { return CategoryRef{ID: c.ID, Name: c.Name} }

// ActiveCategories filters out deactivated and malformed entries.
func ActiveCategories(all []Category) []Category {
	out := make([]Category, 0, len(all))
	for _, c := range all {
		if c.IsActive && c.ID != "" && c.Name != "" {
			out = append(out, c)
		}
	}
	return out
}

// CategoryInput is the create/update payload.
type CategoryInput struct {
	Name        string `json:"name,omitempty" form:"name" binding:"required,min=2"`
	Description string `json:"description,omitempty" form:"description"`
}

// CategoryUsage is one row of the category usage statistics.
type CategoryUsage struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
	IsActive bool   `json:"isActive"`
}
