package request

type PayRequest struct {
	DestinationAddress string `json:"destination_address"`
	Amount             string `json:"amount"`
	Gateway            string `json:"gateway,omitempty"`
}
