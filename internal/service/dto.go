package service

// CheckoutForm carries the checkout modal's fields. Field-level validation
// is collected by the checkout service so every error surfaces at once;
// nothing here is required at the binding layer.
type CheckoutForm struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Comment        string `json:"comment"`
	Address        string `json:"address"`
	DeliveryMethod string `json:"delivery_method"`
	PaymentMethod  string `json:"payment_method"`
	CashChange     string `json:"cash_change"`
}

// ReviewForm is a top-level review submission.
type ReviewForm struct {
	Name   string `json:"name"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// ReplyForm is a reply submission; ParentID may point at a reply, the
// service re-targets it to the thread root.
type ReplyForm struct {
	Name     string `json:"name"`
	Text     string `json:"text"`
	ParentID int    `json:"parent_id"`
}
