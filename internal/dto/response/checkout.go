package response

// CheckoutResponse carries the provider's hosted-checkout URL the
// renter's browser is redirected to.
type CheckoutResponse struct {
	URL string `json:"url"`
}

// ReminderSweepResponse is the cron endpoint's result summary.
type ReminderSweepResponse struct {
	Candidates int `json:"candidates"`
	ToSend     int `json:"toSend"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
}
