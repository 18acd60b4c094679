package market

// IPORequest for PUT /market/ipo
type IPORequest struct {
	Price   int64 `json:"price" validate:"required,gt=0"`
	Shares  int64 `json:"shares" validate:"required,gt=0"`
	UserCap int64 `json:"user_cap" validate:"required,gt=0"`
}

// TradingLimitRequest for PUT /market/limit
type TradingLimitRequest struct {
	Limit int64 `json:"limit" validate:"required,gt=0"`
}

// TransferFeeRequest for PUT /market/fee
type TransferFeeRequest struct {
	FeeBps int64 `json:"fee_bps" validate:"gte=0,lte=10000"`
}

// TradingHoursRequest for PUT /market/hours
type TradingHoursRequest struct {
	OpenTime  string `json:"open_time" validate:"required,clocktime"`
	CloseTime string `json:"close_time" validate:"required,clocktime"`
}

// ConfirmRequest guards destructive operations. The call is rejected
// unless Confirm is explicitly true.
type ConfirmRequest struct {
	Confirm bool `json:"confirm"`
}

// PriceRequest for POST /market/price
type PriceRequest struct {
	Price  int64 `json:"price" validate:"required,gt=0"`
	Volume int64 `json:"volume" validate:"gte=0"`
}
