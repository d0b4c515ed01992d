package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/charge"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
)

// CheckoutParams is the subset of a hosted checkout session this app
// creates: one line item, quantity 1, string-only metadata bag.
type CheckoutParams struct {
	Currency           string
	UnitAmount         int64
	ProductName        string
	ProductDescription string
	ImageURL           string
	Metadata           map[string]string
	SuccessURL         string
	CancelURL          string
	TermsMessage       string
}

// Provider wraps the Stripe API so usecases can be tested with fakes.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, p *CheckoutParams) (*stripe.CheckoutSession, error)
	ListSessionsByPaymentIntent(ctx context.Context, paymentIntentID string, limit int64) ([]*stripe.CheckoutSession, error)
	GetCharge(ctx context.Context, chargeID string) (*stripe.Charge, error)
	VerifyEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

type stripeProvider struct {
	webhookSecret string
}

func NewStripeProvider(secretKey, webhookSecret string) Provider {
	stripe.Key = secretKey
	return &stripeProvider{webhookSecret: webhookSecret}
}

func (p *stripeProvider) CreateCheckoutSession(ctx context.Context, cp *CheckoutParams) (*stripe.CheckoutSession, error) {
	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name:        stripe.String(cp.ProductName),
		Description: stripe.String(cp.ProductDescription),
	}
	if cp.ImageURL != "" {
		productData.Images = stripe.StringSlice([]string{cp.ImageURL})
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(cp.Currency),
					UnitAmount:  stripe.Int64(cp.UnitAmount),
					ProductData: productData,
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(cp.SuccessURL),
		CancelURL:  stripe.String(cp.CancelURL),
		ConsentCollection: &stripe.CheckoutSessionConsentCollectionParams{
			TermsOfService: stripe.String(string(stripe.CheckoutSessionConsentCollectionTermsOfServiceRequired)),
		},
	}
	if cp.TermsMessage != "" {
		params.CustomText = &stripe.CheckoutSessionCustomTextParams{
			TermsOfServiceAcceptance: &stripe.CheckoutSessionCustomTextTermsOfServiceAcceptanceParams{
				Message: stripe.String(cp.TermsMessage),
			},
		}
	}
	params.Context = ctx
	for k, v := range cp.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return s, nil
}

func (p *stripeProvider) ListSessionsByPaymentIntent(ctx context.Context, paymentIntentID string, limit int64) ([]*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(limit)

	var sessions []*stripe.CheckoutSession
	iter := session.List(params)
	for iter.Next() {
		sessions = append(sessions, iter.CheckoutSession())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list sessions for payment intent %s: %w", paymentIntentID, err)
	}

	return sessions, nil
}

func (p *stripeProvider) GetCharge(ctx context.Context, chargeID string) (*stripe.Charge, error) {
	params := &stripe.ChargeParams{}
	params.Context = ctx

	ch, err := charge.Get(chargeID, params)
	if err != nil {
		return nil, fmt.Errorf("get charge %s: %w", chargeID, err)
	}

	return ch, nil
}

// VerifyEvent checks the Stripe-Signature header against the raw body.
// Live events carry the account's pinned api_version, which rarely
// matches the SDK's; the HMAC check alone decides authenticity.
func (p *stripeProvider) VerifyEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, sigHeader, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}
