package request_models

type UpdateOrganizationRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type CheckoutRequest struct {
	Plan string `json:"plan" form:"plan" validate:"required,oneof=PRO TEAM"`
}

type PageRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}
