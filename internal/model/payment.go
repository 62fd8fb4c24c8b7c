package model

import "time"

// Payment is the financial record confirming a booking's Paid status.
// A payment row exists if and only if the booking reached Paid at least
// once; removing the payment cancels the booking again.
//
// Fields:
//
//	ID            – primary key identifier.
//	BookingID     – the booking this payment settles (unique).
//	Method        – payment method label (e.g. card, cash).
//	PaidAt        – timestamp of the payment.
//	AmountCents   – amount charged in cents.
//	TransactionID – 8-digit uniformly random transaction reference.
type Payment struct {
	ID            uint64    `json:"id"`             // payments.id
	BookingID     uint64    `json:"booking_id"`     // payments.booking_id
	Method        string    `json:"method"`         // payments.method
	PaidAt        time.Time `json:"paid_at"`        // payments.paid_at
	AmountCents   uint32    `json:"amount_cents"`   // payments.amount_cents
	TransactionID uint64    `json:"transaction_id"` // payments.transaction_id
}
