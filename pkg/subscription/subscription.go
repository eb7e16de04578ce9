package subscription

// Record is a single tracked subscription.
// ID and CreatedAt are assigned once at creation and never change afterwards.
type Record struct {
	ID               string  `json:"id"`
	ServiceName      string  `json:"serviceName"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	SubscriptionType Cadence `json:"subscriptionType"`
	MobileNumber     string  `json:"mobileNumber"`
	Email            string  `json:"email"`
	PaymentMethod    string  `json:"paymentMethod"`
	CardBank         string  `json:"cardBank"`
	AutoRenewal      bool    `json:"autoRenewal"`
	CreatedAt        string  `json:"createdAt,omitempty"`
}

// FormData holds the user-editable fields of a Record.
type FormData struct {
	ServiceName      string  `json:"serviceName" validate:"required,notblank"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	SubscriptionType Cadence `json:"subscriptionType" validate:"required,cadence"`
	MobileNumber     string  `json:"mobileNumber"`
	Email            string  `json:"email"`
	PaymentMethod    string  `json:"paymentMethod"`
	CardBank         string  `json:"cardBank"`
	AutoRenewal      bool    `json:"autoRenewal"`
}

// NewRecord builds a record from form data with the given identity.
func NewRecord(id, createdAt string, form FormData) Record {
	r := Record{ID: id, CreatedAt: createdAt}
	r.Apply(form)
	return r
}

// Apply replaces every field except ID and CreatedAt with the values from form.
func (r *Record) Apply(form FormData) {
	r.ServiceName = form.ServiceName
	r.StartDate = form.StartDate
	r.EndDate = form.EndDate
	r.SubscriptionType = form.SubscriptionType
	r.MobileNumber = form.MobileNumber
	r.Email = form.Email
	r.PaymentMethod = form.PaymentMethod
	r.CardBank = form.CardBank
	r.AutoRenewal = form.AutoRenewal
}

// Form returns the editable part of the record, e.g. to prefill an edit form.
func (r Record) Form() FormData {
	return FormData{
		ServiceName:      r.ServiceName,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		SubscriptionType: r.SubscriptionType,
		MobileNumber:     r.MobileNumber,
		Email:            r.Email,
		PaymentMethod:    r.PaymentMethod,
		CardBank:         r.CardBank,
		AutoRenewal:      r.AutoRenewal,
	}
}

// Clone returns a copy of records that shares no backing array with the input.
// A nil input yields an empty, non-nil slice so it serializes as [].
func Clone(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	return out
}
