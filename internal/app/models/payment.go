package models

import "time"

// Transaction is a single ledger row
type Transaction struct {
	ID        int64             `json:"id" db:"id"`
	UserID    *int64            `json:"userId,omitempty" db:"user_id"`
	Amount    float64           `json:"amount" db:"amount"`
	Currency  string            `json:"currency" db:"currency"`
	Type      TransactionType   `json:"type" db:"type"`
	Status    TransactionStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
	UserName  *string           `json:"userName,omitempty" db:"user_name"`
}

// Payout is money owed to a tutor
type Payout struct {
	ID        int64        `json:"id" db:"id"`
	TutorID   *int64       `json:"tutorId,omitempty" db:"tutor_id"`
	Amount    float64      `json:"amount" db:"amount"`
	Currency  string       `json:"currency" db:"currency"`
	Status    PayoutStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	TutorName *string      `json:"tutorName,omitempty" db:"tutor_name"`
}

// Refund is a request to return money for a transaction
type Refund struct {
	ID            int64        `json:"id" db:"id"`
	TransactionID *int64       `json:"transactionId,omitempty" db:"transaction_id"`
	UserID        *int64       `json:"userId,omitempty" db:"user_id"`
	Amount        float64      `json:"amount" db:"amount"`
	Currency      string       `json:"currency" db:"currency"`
	Reason        *string      `json:"reason,omitempty" db:"reason"`
	Status        RefundStatus `json:"status" db:"status"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
	UserName      *string      `json:"userName,omitempty" db:"user_name"`
}

// Fee is a platform fee rule
type Fee struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Type      FeeType   `json:"type" db:"type"`
	Value     float64   `json:"value" db:"value"`
	Currency  string    `json:"currency" db:"currency"`
	AppliesTo string    `json:"appliesTo" db:"applies_to"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
