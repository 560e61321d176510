package ledger

import "time"

// PostingRequest is the JSON body for creating or replacing a posting.
type PostingRequest struct {
	Entries         []PostingLineRequest `json:"entries" validate:"required,min=1,dive"`
	Narration       string               `json:"narration"`
	TransactionDate string               `json:"transaction_date" validate:"required"`
	VoucherType     string               `json:"voucherType"`
}

// PostingLineRequest is one line of a posting request.
type PostingLineRequest struct {
	AccountHead  string  `json:"account_head" validate:"required"`
	AccountType  string  `json:"account_type"`
	DebitAmount  float64 `json:"debit_amount" validate:"gte=0"`
	CreditAmount float64 `json:"credit_amount" validate:"gte=0"`
	Narration    string  `json:"narration"`
}

const requestDateLayout = "2006-01-02"

// ToInput converts the request into a domain posting input. The tenant
// and actor are filled by the handler from the resolved identity.
func (r PostingRequest) ToInput(tenantID, actorID int64) (PostingInput, error) {
	date, err := time.Parse(requestDateLayout, r.TransactionDate)
	if err != nil {
		return PostingInput{}, &ValidationError{Msg: "transaction_date must be YYYY-MM-DD"}
	}
	lines := make([]LineInput, 0, len(r.Entries))
	for _, e := range r.Entries {
		lines = append(lines, LineInput{
			AccountHead: e.AccountHead,
			AccountType: AccountType(e.AccountType),
			Debit:       e.DebitAmount,
			Credit:      e.CreditAmount,
			Narration:   e.Narration,
		})
	}
	return PostingInput{
		TenantID:        tenantID,
		ActorID:         actorID,
		VoucherType:     VoucherType(r.VoucherType),
		TransactionDate: date,
		Narration:       r.Narration,
		Lines:           lines,
	}, nil
}
