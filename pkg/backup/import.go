package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dmitrymomot/subtracker/pkg/async"
	"github.com/dmitrymomot/subtracker/pkg/subscription"
)

// wireRecord distinguishes absent fields from zero values.
type wireRecord struct {
	ID               *string `json:"id" validate:"required"`
	ServiceName      *string `json:"serviceName" validate:"required"`
	StartDate        *string `json:"startDate" validate:"required"`
	EndDate          *string `json:"endDate" validate:"required"`
	SubscriptionType *string `json:"subscriptionType" validate:"required,cadence"`
	MobileNumber     *string `json:"mobileNumber" validate:"required"`
	Email            *string `json:"email" validate:"required"`
	PaymentMethod    *string `json:"paymentMethod" validate:"required"`
	CardBank         *string `json:"cardBank" validate:"required"`
	AutoRenewal      *bool   `json:"autoRenewal" validate:"required"`
	CreatedAt        *string `json:"createdAt"`
}

// requiredKeys must appear verbatim in every record. json.Unmarshal matches
// keys case-insensitively, so presence is checked on the raw object first.
var requiredKeys = []string{
	"id", "serviceName", "startDate", "endDate", "subscriptionType",
	"mobileNumber", "email", "paymentMethod", "cardBank", "autoRenewal",
}

func checkKeys(item json.RawMessage) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		return err
	}
	for _, key := range requiredKeys {
		if _, ok := fields[key]; !ok {
			return fmt.Errorf("missing field %q", key)
		}
	}
	return nil
}

func (w wireRecord) record() subscription.Record {
	r := subscription.Record{
		ID:               *w.ID,
		ServiceName:      *w.ServiceName,
		StartDate:        *w.StartDate,
		EndDate:          *w.EndDate,
		SubscriptionType: subscription.Cadence(*w.SubscriptionType),
		MobileNumber:     *w.MobileNumber,
		Email:            *w.Email,
		PaymentMethod:    *w.PaymentMethod,
		CardBank:         *w.CardBank,
		AutoRenewal:      *w.AutoRenewal,
	}
	if w.CreatedAt != nil {
		r.CreatedAt = *w.CreatedAt
	}
	return r
}

// Import reads a backup document and returns its records in file order.
// Any failure is a *ValidationError and no records are returned.
func Import(r io.Reader) ([]subscription.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ValidationError{Message: MsgReadFailed, Err: err}
	}
	return Parse(data)
}

// Parse validates an in-memory backup document. See Import.
func Parse(data []byte) ([]subscription.Record, error) {
	if !json.Valid(data) {
		return nil, &ValidationError{Message: MsgParseFailed}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		return nil, &ValidationError{Message: MsgInvalidFormat, Err: fmt.Errorf("document is not an array")}
	}

	records := make([]subscription.Record, 0, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, &ValidationError{Message: MsgInvalidFormat, Err: fmt.Errorf("record %d is not an object", i)}
		}

		if err := checkKeys(item); err != nil {
			return nil, &ValidationError{Message: MsgInvalidFormat, Err: fmt.Errorf("record %d: %w", i, err)}
		}

		var w wireRecord
		if err := json.Unmarshal(item, &w); err != nil {
			return nil, &ValidationError{Message: MsgInvalidFormat, Err: fmt.Errorf("record %d: %w", i, err)}
		}
		if err := subscription.Validator().Struct(w); err != nil {
			return nil, &ValidationError{Message: MsgInvalidFormat, Err: fmt.Errorf("record %d: %w", i, err)}
		}
		records = append(records, w.record())
	}
	return records, nil
}

// ImportAsync runs Import in its own goroutine. The future resolves exactly
// once with the records or the error.
func ImportAsync(ctx context.Context, r io.Reader) *async.Future[[]subscription.Record] {
	return async.Async(ctx, r, func(_ context.Context, r io.Reader) ([]subscription.Record, error) {
		return Import(r)
	})
}
