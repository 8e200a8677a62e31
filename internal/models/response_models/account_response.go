package response_models

type AuthResponse struct {
	Token   string `json:"token"`
	UserID  string `json:"userId"`
	OrgID   string `json:"orgId,omitempty"`
	OrgName string `json:"orgName,omitempty"`
}
