package request

type SelectFundRequest struct {
	FundID string `json:"fundId"`
}
