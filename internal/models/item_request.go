package models

// ReportItemRequest carries the multipart form fields of a report
// submission. The image file itself is read separately from the form.
type ReportItemRequest struct {
	Type              string   `form:"type" binding:"required"`
	ItemName          string   `form:"item_name" binding:"required"`
	Location          string   `form:"location" binding:"required"`
	DateFoundLost     string   `form:"date_found_lost" binding:"required"`
	TimeFoundLost     string   `form:"time_found_lost" binding:"required"`
	ContactInfo       string   `form:"contact_info" binding:"required"`
	UniqueIdentifiers string   `form:"unique_identifiers"`
	Latitude          *float64 `form:"latitude"`
	Longitude         *float64 `form:"longitude"`
}
