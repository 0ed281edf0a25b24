package request

type CreateFundRequest struct {
	Name string `json:"name"`
}

type UpdateFundRequest struct {
	Name string `json:"name"`
}
