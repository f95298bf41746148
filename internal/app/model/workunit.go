package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WorkUnitKind string

const (
	WorkUnitTicket  WorkUnitKind = "ticket"
	WorkUnitBooking WorkUnitKind = "booking"
)

// VendorStatus is the assignment lifecycle of a work unit.
type VendorStatus string

const (
	VendorStatusUnassigned VendorStatus = "Unassigned"
	VendorStatusPending    VendorStatus = "Pending"
	VendorStatusAccepted   VendorStatus = "Accepted"
	VendorStatusCompleted  VendorStatus = "Completed"
	VendorStatusDeclined   VendorStatus = "Declined"
	VendorStatusCancelled  VendorStatus = "Cancelled"
)

// Status is the public-facing lifecycle owned by the surrounding system; the
// core only flips it as a side effect of assignment transitions.
type Status string

const (
	StatusSubmitted          Status = "submitted"
	StatusAwaitingAssignment Status = "awaiting_assignment"
	StatusInProgress         Status = "in_progress"
	StatusResolved           Status = "resolved"
	StatusCancelled          Status = "cancelled"
	StatusClosed             Status = "closed"
)

type PaymentStatus string

const (
	PaymentStatusNone    PaymentStatus = "none"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type SparePart struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Completion holds the data a vendor submits when finishing a job.
type Completion struct {
	Resolution    string          `json:"resolution"`
	SpareParts    []SparePart     `json:"spare_parts,omitempty"`
	SpareAmount   decimal.Decimal `json:"spare_amount"`
	TravelAmount  decimal.Decimal `json:"travel_amount"`
	BillingAmount decimal.Decimal `json:"billing_amount"`
	BookingAmount decimal.Decimal `json:"booking_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	GSTIncluded   bool            `json:"gst_included"`
	GSTAmount     decimal.Decimal `json:"gst_amount"`
	CompletedAt   time.Time       `json:"completed_at"`
}

// SpareTotal sums the itemized spare parts, falling back to SpareAmount when
// no itemization was supplied.
func (c *Completion) SpareTotal() decimal.Decimal {
	if len(c.SpareParts) == 0 {
		return c.SpareAmount
	}
	sum := decimal.Zero
	for _, p := range c.SpareParts {
		sum = sum.Add(p.Amount)
	}
	return sum
}

type WorkUnit struct {
	ID            uuid.UUID     `json:"id"`
	Kind          WorkUnitKind  `json:"kind"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	VendorStatus  VendorStatus  `json:"vendor_status"`

	AssignedVendor   *uuid.UUID `json:"assigned_vendor,omitempty"`
	AssignedAt       *time.Time `json:"assigned_at,omitempty"`
	AssignedBy       string     `json:"assigned_by,omitempty"`
	ResponseDeadline *time.Time `json:"response_deadline,omitempty"`
	AcceptedAt       *time.Time `json:"accepted_at,omitempty"`

	DeclineReason string `json:"decline_reason,omitempty"`
	CancelReason  string `json:"cancel_reason,omitempty"`

	Completion *Completion `json:"completion,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssignmentRecord is one append-only history entry for a work unit.
type AssignmentRecord struct {
	ID              int64        `json:"id"`
	UnitID          uuid.UUID    `json:"unit_id"`
	VendorID        uuid.UUID    `json:"vendor_id"`
	AssignedBy      string       `json:"assigned_by,omitempty"`
	AssignedAt      time.Time    `json:"assigned_at"`
	ResultingStatus VendorStatus `json:"resulting_status"`
	Notes           string       `json:"notes,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}
