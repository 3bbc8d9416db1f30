// Package api defines the request and response messages of the bill service.
// Messages travel as JSON; money amounts in views are decimal strings.
package api

import "github.com/shopspring/decimal"

// CreateBillRequest starts a new bill. All fields are optional.
type CreateBillRequest struct {
	Title    string      `json:"title,omitempty" validate:"max=120"`
	Currency string      `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	Config   *BillConfig `json:"config,omitempty"`
}

// CreateBillResponse carries the new bill and the edit token that grants
// access to it. The token is only returned here.
type CreateBillResponse struct {
	BillID string    `json:"bill_id"`
	Token  string    `json:"token"`
	Bill   *BillView `json:"bill"`
}

type GetBillRequest struct {
	BillID string `json:"bill_id" validate:"required"`
}

type AddPersonRequest struct {
	BillID string `json:"bill_id" validate:"required"`
	Name   string `json:"name" validate:"max=80"`
}

type RemovePersonRequest struct {
	BillID   string `json:"bill_id" validate:"required"`
	PersonID string `json:"person_id" validate:"required"`
}

type AddItemRequest struct {
	BillID    string `json:"bill_id" validate:"required"`
	Name      string `json:"name" validate:"max=200"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest patches an item. Omitted fields are kept.
type UpdateItemRequest struct {
	BillID    string  `json:"bill_id" validate:"required"`
	ItemID    string  `json:"item_id" validate:"required"`
	Name      *string `json:"name,omitempty" validate:"omitempty,max=200"`
	UnitPrice *int64  `json:"unit_price,omitempty"`
	Quantity  *int    `json:"quantity,omitempty"`
}

type RemoveItemRequest struct {
	BillID string `json:"bill_id" validate:"required"`
	ItemID string `json:"item_id" validate:"required"`
}

// AssignmentRequest names one item and one person. Used to assign and unassign.
type AssignmentRequest struct {
	BillID   string `json:"bill_id" validate:"required"`
	ItemID   string `json:"item_id" validate:"required"`
	PersonID string `json:"person_id" validate:"required"`
}

type AssignAllRequest struct {
	BillID string `json:"bill_id" validate:"required"`
	ItemID string `json:"item_id" validate:"required"`
}

// UpdateConfigRequest patches the tax and tip settings. Omitted fields are kept.
type UpdateConfigRequest struct {
	BillID         string   `json:"bill_id" validate:"required"`
	TaxPercent     *float64 `json:"tax_percent,omitempty"`
	TaxIncluded    *bool    `json:"tax_included,omitempty"`
	TipType        *string  `json:"tip_type,omitempty" validate:"omitempty,oneof=percent fixed"`
	TipPercent     *float64 `json:"tip_percent,omitempty"`
	TipAmount      *int64   `json:"tip_amount,omitempty"`
	TipIsVoluntary *bool    `json:"tip_is_voluntary,omitempty"`
}

// SetStepRequest moves the wizard. Move takes precedence over Step.
type SetStepRequest struct {
	BillID string `json:"bill_id" validate:"required"`
	Step   int    `json:"step,omitempty"`
	Move   string `json:"move,omitempty" validate:"omitempty,oneof=next prev"`
}

type ResetBillRequest struct {
	BillID string `json:"bill_id" validate:"required"`
}

// ScanReceiptRequest sends a receipt photo for item extraction. Image is
// base64, optionally with a data URL prefix.
type ScanReceiptRequest struct {
	BillID    string `json:"bill_id" validate:"required"`
	Image     string `json:"image" validate:"required"`
	MediaType string `json:"media_type,omitempty"`
}

func (r *GetBillRequest) GetBillID() string      { return r.BillID }
func (r *AddPersonRequest) GetBillID() string    { return r.BillID }
func (r *RemovePersonRequest) GetBillID() string { return r.BillID }
func (r *AddItemRequest) GetBillID() string      { return r.BillID }
func (r *UpdateItemRequest) GetBillID() string   { return r.BillID }
func (r *RemoveItemRequest) GetBillID() string   { return r.BillID }
func (r *AssignmentRequest) GetBillID() string   { return r.BillID }
func (r *AssignAllRequest) GetBillID() string    { return r.BillID }
func (r *UpdateConfigRequest) GetBillID() string { return r.BillID }
func (r *SetStepRequest) GetBillID() string      { return r.BillID }
func (r *ResetBillRequest) GetBillID() string    { return r.BillID }
func (r *ScanReceiptRequest) GetBillID() string  { return r.BillID }

type Person struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Item struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	UnitPrice  int64    `json:"unit_price"`
	Quantity   int      `json:"quantity"`
	AssignedTo []string `json:"assigned_to"`
}

type BillConfig struct {
	TaxPercent     float64 `json:"tax_percent"`
	TaxIncluded    bool    `json:"tax_included"`
	TipType        string  `json:"tip_type" validate:"oneof=percent fixed"`
	TipPercent     float64 `json:"tip_percent"`
	TipAmount      int64   `json:"tip_amount"`
	TipIsVoluntary bool    `json:"tip_is_voluntary"`
}

type ItemShare struct {
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Share    decimal.Decimal `json:"share"`
}

type PersonSplit struct {
	PersonID string          `json:"person_id"`
	Name     string          `json:"name"`
	Color    string          `json:"color"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Tip      decimal.Decimal `json:"tip"`
	Total    decimal.Decimal `json:"total"`
	Items    []ItemShare     `json:"items"`
}

// Summary is the allocation of a bill. Total is exact; DisplayTotal is
// rounded to the nearest 100.
type Summary struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	Tip            decimal.Decimal `json:"tip"`
	Total          decimal.Decimal `json:"total"`
	DisplayTotal   decimal.Decimal `json:"display_total"`
	FormattedTotal string          `json:"formatted_total"`
	PerPerson      []PersonSplit   `json:"per_person"`
	ShareText      string          `json:"share_text"`
}

// BillView is a bill together with its freshly computed summary.
type BillView struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Currency  string     `json:"currency"`
	Step      int        `json:"step"`
	StepName  string     `json:"step_name"`
	People    []Person   `json:"people"`
	Items     []Item     `json:"items"`
	Config    BillConfig `json:"config"`
	Summary   Summary    `json:"summary"`
	CreatedAt int64      `json:"created_at"`
	UpdatedAt int64      `json:"updated_at"`
}
