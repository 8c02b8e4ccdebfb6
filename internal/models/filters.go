package models

import (
	"net/url"
	"strconv"
)

// ComplaintFilters narrows a complaint listing. Zero values are omitted from
// the query string.
type ComplaintFilters struct {
	Status     Status   `form:"status"`
	Priority   Priority `form:"priority"`
	Category   string   `form:"category"`
	CreatedBy  string   `form:"createdBy"`
	AssignedTo string   `form:"assignedTo"`
	VerifiedBy string   `form:"verifiedBy"`
	StartDate  string   `form:"startDate"`
	EndDate    string   `form:"endDate"`
	Page       int      `form:"page"`
	Limit      int      `form:"limit"`
	SortBy     string   `form:"sortBy"`
	SortOrder  string   `form:"sortOrder"`
}

// DefaultComplaintFilters returns the listing defaults: newest first, ten per page.
func DefaultComplaintFilters() ComplaintFilters {
	return ComplaintFilters{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "desc"}
}

// WithDefaults fills unset paging and sorting fields.
func (f ComplaintFilters) WithDefaults() ComplaintFilters {
	d := DefaultComplaintFilters()
	if f.Page < 1 {
		f.Page = d.Page
	}
	if f.Limit < 1 {
		f.Limit = d.Limit
	}
	if f.SortBy == "" {
		f.SortBy = d.SortBy
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		f.SortOrder = d.SortOrder
	}
	return f
}

// Values encodes the filters as query parameters.
func (f ComplaintFilters) Values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("status", string(f.Status))
	set("priority", string(f.Priority))
	set("category", f.Category)
	set("createdBy", f.CreatedBy)
	set("assignedTo", f.AssignedTo)
	set("verifiedBy", f.VerifiedBy)
	set("startDate", f.StartDate)
	set("endDate", f.EndDate)
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	set("sortBy", f.SortBy)
	set("sortOrder", f.SortOrder)
	return v
}

// UserFilters narrows a user listing.
type UserFilters struct {
	Role   Role   `form:"role"`
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (f UserFilters) Values() url.Values {
	v := url.Values{}
	if f.Role != "" {
		v.Set("role", string(f.Role))
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}
