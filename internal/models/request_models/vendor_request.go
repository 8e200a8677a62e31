package request_models

// Optional fields may be sent as empty strings; they are stored as null.
type CreateVendorRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Company string `json:"company" validate:"omitempty,max=200"`
	Notes   string `json:"notes" validate:"omitempty,max=1000"`
}

type CreateDocumentRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	Type       string `json:"type" validate:"required,oneof=COI WSIB OTHER"`
	URL        string `json:"url" validate:"required,url"`
	ExpiryDate string `json:"expiryDate" validate:"required,datestr"`
	VendorID   string `json:"vendorId" validate:"required,uuid"`
}
