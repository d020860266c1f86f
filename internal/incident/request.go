package incident

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FormValue accepts either a multipart form field or any JSON scalar, so
// {"isAnonymous": true} and isAnonymous=true bind the same way.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(b)
	return nil
}

func (v FormValue) String() string {
	return strings.TrimSpace(string(v))
}

// Float parses the value as a finite number.
func (v FormValue) Float() (float64, bool) {
	s := v.String()
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// True reports a case-insensitive "true".
func (v FormValue) True() bool {
	return strings.EqualFold(v.String(), "true")
}

type CreateIncidentRequest struct {
	Title           FormValue `form:"title" json:"title"`
	Description     FormValue `form:"description" json:"description"`
	Category        FormValue `form:"category" json:"category"`
	Latitude        FormValue `form:"latitude" json:"latitude"`
	Longitude       FormValue `form:"longitude" json:"longitude"`
	Address         FormValue `form:"address" json:"address"`
	IsAnonymous     FormValue `form:"isAnonymous" json:"isAnonymous"`
	ReporterName    FormValue `form:"reporterName" json:"reporterName"`
	ReporterContact FormValue `form:"reporterContact" json:"reporterContact"`
	Priority        FormValue `form:"priority" json:"priority"`

	// UserID selects the contact partition alerted by an SOS.
	UserID FormValue `form:"userId" json:"userId"`
}

// UpdateIncidentRequest is a partial update. Nil fields are left as is.
type UpdateIncidentRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// ListFilter narrows a listing. Empty strings mean no constraint; the
// radius filter applies only when all three geo fields are set.
type ListFilter struct {
	Category  string
	Status    string
	Priority  string
	Latitude  *float64
	Longitude *float64
	Radius    *float64
}

func (f ListFilter) hasRadius() bool {
	return f.Latitude != nil && f.Longitude != nil && f.Radius != nil
}
