package request

// CreateCheckoutRequest starts the hosted checkout for a date range.
// Dates are RFC3339; ordering is validated in the service against the
// car's price before anything is sent to Stripe.
type CreateCheckoutRequest struct {
	CarID     string `json:"car_id" validate:"required,uuid4"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// UpdateInvoiceRequest attaches a receipt URL to bookings by payment
// intent. Called by the back-office cron, not by renters.
type UpdateInvoiceRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
	ReceiptURL      string `json:"receiptUrl" validate:"required,url"`
}
