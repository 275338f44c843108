package dto

type UpdateSettingRequest struct {
	Value string `json:"value" validate:"required"`
}

type SettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
