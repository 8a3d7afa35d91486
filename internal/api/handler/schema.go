package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/haulwise/backoffice/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// amountInput accepts a money amount either as a JSON integer or as display
// text such as "50,000" or "₩-3,000". Text goes through domain.ParseAmount.
type amountInput struct {
	text    string
	numeric bool
}

func (a *amountInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountInput{text: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a number or text")
	}
	*a = amountInput{text: n.String(), numeric: true}
	return nil
}

func (a amountInput) parse() (int64, error) {
	if a.numeric {
		n, err := strconv.ParseInt(a.text, 10, 64)
		if err != nil || !domain.ValidAmount(n) {
			return 0, domain.ErrInvalidAmount
		}
		return n, nil
	}
	return domain.ParseAmount(a.text)
}
