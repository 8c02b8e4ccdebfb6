package models

import "encoding/json"

// Envelope is the fixed response shape of every API call.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Errors  []string        `json:"errors,omitempty"`
	// Some list endpoints put pagination next to data instead of inside it.
	Pagination *Pagination `json:"pagination,omitempty"`
}

// OK reports whether the API marked the call successful.
func (e Envelope) OK() bool { return e.Status == "success" }

// Pagination accompanies every list payload.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// HasNext reports whether a page follows the current one.
func (p Pagination) HasNext() bool { return p.Page < p.Pages }

// HasPrev reports whether a page precedes the current one.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// ComplaintPage is one page of complaints.
type ComplaintPage struct {
	Complaints []Complaint `json:"complaints"`
	Pagination Pagination  `json:"pagination"`
}

// UserPage is one page of users.
type UserPage struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}
