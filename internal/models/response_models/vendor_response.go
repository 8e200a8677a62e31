package response_models

import "time"

type DocumentResponse struct {
	ID          string    `json:"id"`
	VendorID    string    `json:"vendorId"`
	VendorName  string    `json:"vendorName,omitempty"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	ExpiryDate  time.Time `json:"expiryDate"`
	ExpiryClass string    `json:"expiryClass"`
	DaysLeft    int64     `json:"daysLeft"`
	CreatedAt   time.Time `json:"createdAt"`
}

type VendorResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Email     *string            `json:"email,omitempty"`
	Phone     *string            `json:"phone,omitempty"`
	Company   *string            `json:"company,omitempty"`
	Notes     *string            `json:"notes,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	Documents []DocumentResponse `json:"documents"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}
