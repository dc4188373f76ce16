// Package payments wraps the hosted payment gateway. The gateway itself
// is an external system; this package only shapes requests and responses
// around its two calls: set up a payment sheet for an amount, and present
// it to completion.
package payments

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrSetupFailed reports that the gateway refused to create a payment
// session; the checkout must abort before any order is written.
var ErrSetupFailed = errors.New("payment session setup failed")

// Gateway is the payment provider contract: amounts are in minor
// currency units, completion is a plain boolean.
type Gateway interface {
	SetupPaymentSheet(amountMinor int64) (string, error)
	PresentPaymentSheet(sheetID string) (bool, error)
}

// HTTPGateway is the production Gateway over the provider's HTTP API.
type HTTPGateway struct {
	baseURL string
	secret  string
}

// NewHTTPGateway creates a gateway client for the given base URL and
// secret key.
func NewHTTPGateway(baseURL, secret string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		secret:  secret,
	}
}

// SetupPaymentSheet creates a payment session for the amount and returns
// its id.
func (g *HTTPGateway) SetupPaymentSheet(amountMinor int64) (string, error) {
	agent := fiber.Post(g.baseURL + "/v1/payment_sheets")
	agent.Set(fiber.HeaderAuthorization, "Bearer "+g.secret)
	agent.JSON(fiber.Map{
		"amount":   amountMinor,
		"currency": "usd",
	})

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("payment sheet setup request failed: %w", errs[0])
	}
	if code != fiber.StatusOK && code != fiber.StatusCreated {
		return "", fmt.Errorf("%w: gateway returned status %d", ErrSetupFailed, code)
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode payment sheet response: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: gateway returned no sheet id", ErrSetupFailed)
	}
	return resp.ID, nil
}

// PresentPaymentSheet drives the sheet to completion and reports whether
// the payment went through. A false result with a nil error means the
// user backed out.
func (g *HTTPGateway) PresentPaymentSheet(sheetID string) (bool, error) {
	agent := fiber.Post(g.baseURL + "/v1/payment_sheets/" + sheetID + "/present")
	agent.Set(fiber.HeaderAuthorization, "Bearer "+g.secret)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return false, fmt.Errorf("payment sheet presentation failed: %w", errs[0])
	}
	if code != fiber.StatusOK {
		return false, fmt.Errorf("gateway returned status %d presenting sheet %s", code, sheetID)
	}

	var resp struct {
		Completed bool `json:"completed"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("failed to decode presentation response: %w", err)
	}
	return resp.Completed, nil
}
