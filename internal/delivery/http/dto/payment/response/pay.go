package response

type PayResponse struct {
	TxRef  string `json:"tx_ref"`
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
