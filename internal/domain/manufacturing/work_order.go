package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/shared"
)

// WorkOrderNamingPrefix is the naming series prefix for work orders
const WorkOrderNamingPrefix = "MFG"

// WorkOrderStatus is the production lifecycle of a submitted work order.
type WorkOrderStatus string

const (
	StatusDraft      WorkOrderStatus = "Draft"
	StatusNotStarted WorkOrderStatus = "Not Started"
	StatusInProcess  WorkOrderStatus = "In Process"
	StatusCompleted  WorkOrderStatus = "Completed"
	StatusStopped    WorkOrderStatus = "Stopped"
	StatusCancelled  WorkOrderStatus = "Cancelled"
)

// WorkOrder is a production instruction referencing a BOM, a target
// quantity and the source/WIP/finished-goods warehouses.
type WorkOrder struct {
	shared.Document
	ProductionItem       string          `gorm:"size:140;not null;index"`
	ItemName             string          `gorm:"size:200"`
	BOMNo                string          `gorm:"size:140;not null;index"`
	Qty                  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ProducedQty          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status               WorkOrderStatus `gorm:"size:20;not null;default:'Draft';index"`
	SourceWarehouse      string          `gorm:"size:200"`
	WIPWarehouse         string          `gorm:"size:200"`
	FGWarehouse          string          `gorm:"size:200"`
	PlannedStartDate     *time.Time
	ExpectedDeliveryDate *time.Time
	RequiredItems        []WorkOrderItem `gorm:"foreignKey:WorkOrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (WorkOrder) TableName() string {
	return "work_orders"
}

// WorkOrderItem is one required raw material row, populated from the BOM
// when the order is created.
type WorkOrderItem struct {
	shared.BaseEntity
	WorkOrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode        string          `gorm:"size:140;not null"`
	ItemName        string          `gorm:"size:200"`
	RequiredQty     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TransferredQty  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ConsumedQty     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Rate            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SourceWarehouse string          `gorm:"size:200"`
}

// TableName returns the table name for GORM
func (WorkOrderItem) TableName() string {
	return "work_order_items"
}

// NewWorkOrder creates a draft work order from a submitted BOM. Required
// item rows are scaled from the BOM components to the order quantity.
func NewWorkOrder(bom *BOM, qty decimal.Decimal, company, sourceWH, wipWH, fgWH string) (*WorkOrder, error) {
	if bom == nil || !bom.IsSubmitted() || !bom.IsActive {
		return nil, shared.ErrInvalidBOM
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QTY", "Quantity to manufacture must be positive")
	}
	if company == "" {
		return nil, shared.ErrMissingCompany
	}
	wo := &WorkOrder{
		Document:        shared.NewDocument(company, time.Now()),
		ProductionItem:  bom.Item,
		ItemName:        bom.ItemName,
		BOMNo:           bom.Name,
		Qty:             qty,
		ProducedQty:     decimal.Zero,
		Status:          StatusDraft,
		SourceWarehouse: sourceWH,
		WIPWarehouse:    wipWH,
		FGWarehouse:     fgWH,
	}
	for _, comp := range bom.Items {
		srcWH := comp.SourceWarehouse
		if srcWH == "" {
			srcWH = sourceWH
		}
		wo.RequiredItems = append(wo.RequiredItems, WorkOrderItem{
			BaseEntity:      shared.NewBaseEntity(),
			WorkOrderID:     wo.ID,
			ItemCode:        comp.ItemCode,
			ItemName:        comp.ItemName,
			RequiredQty:     bom.RequiredQty(comp.Qty, qty),
			Rate:            comp.Rate,
			SourceWarehouse: srcWH,
		})
	}
	return wo, nil
}

// Progress returns the completion percentage, rounded to one decimal
func (w *WorkOrder) Progress() float64 {
	if w.Qty.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	pct, _ := w.ProducedQty.Div(w.Qty).Mul(decimal.NewFromInt(100)).Round(1).Float64()
	return pct
}

// RemainingQty returns the quantity still to be manufactured
func (w *WorkOrder) RemainingQty() decimal.Decimal {
	return w.Qty.Sub(w.ProducedQty)
}

// Submit transitions the order from draft to Not Started
func (w *WorkOrder) Submit() error {
	if err := w.MarkSubmitted(); err != nil {
		return err
	}
	w.Status = StatusNotStarted
	return nil
}

// CanStart reports whether material transfer to WIP is allowed
func (w *WorkOrder) CanStart() bool {
	return w.IsSubmitted() && (w.Status == StatusNotStarted || w.Status == StatusInProcess)
}

// RecordTransfer records raw material moved into the WIP warehouse and
// moves the order into process.
func (w *WorkOrder) RecordTransfer(forQty decimal.Decimal) error {
	if !w.CanStart() {
		return shared.NewDomainError("INVALID_STATE", "Work order cannot be started in status "+string(w.Status))
	}
	for i := range w.RequiredItems {
		item := &w.RequiredItems[i]
		share := item.RequiredQty
		if !w.Qty.IsZero() {
			share = item.RequiredQty.Mul(forQty).Div(w.Qty).Round(4)
		}
		item.TransferredQty = item.TransferredQty.Add(share)
		item.Touch()
	}
	w.Status = StatusInProcess
	w.Touch()
	return nil
}

// RecordProduction records finished goods produced. The quantity must not
// exceed the remaining quantity and the order must not be completed or
// stopped.
func (w *WorkOrder) RecordProduction(qty decimal.Decimal) error {
	if !w.IsSubmitted() {
		return shared.NewDomainError("INVALID_STATE", "Work order must be submitted before production")
	}
	if w.Status == StatusCompleted || w.Status == StatusStopped {
		return shared.NewDomainError("INVALID_STATE", "Work order is "+string(w.Status))
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QTY", "Produced quantity must be positive")
	}
	if qty.GreaterThan(w.RemainingQty()) {
		return shared.NewDomainError("QTY_EXCEEDS_REMAINING", "Produced quantity exceeds remaining quantity")
	}
	for i := range w.RequiredItems {
		item := &w.RequiredItems[i]
		share := item.RequiredQty
		if !w.Qty.IsZero() {
			share = item.RequiredQty.Mul(qty).Div(w.Qty).Round(4)
		}
		item.ConsumedQty = item.ConsumedQty.Add(share)
		item.Touch()
	}
	w.ProducedQty = w.ProducedQty.Add(qty)
	if w.ProducedQty.GreaterThanOrEqual(w.Qty) {
		w.Status = StatusCompleted
	} else {
		w.Status = StatusInProcess
	}
	w.Touch()
	return nil
}

// Stop halts the order; no further production is accepted
func (w *WorkOrder) Stop() error {
	if !w.IsSubmitted() {
		return shared.NewDomainError("INVALID_STATE", "Only submitted work orders can be stopped")
	}
	if w.Status == StatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Completed work orders cannot be stopped")
	}
	w.Status = StatusStopped
	w.Touch()
	return nil
}

// CanCancel reports whether a submitted order may be cancelled: nothing
// may have been produced yet. Linked stock entries are checked by the
// application service.
func (w *WorkOrder) CanCancel() bool {
	return w.IsSubmitted() && w.ProducedQty.IsZero()
}

// Cancel cancels a submitted order
func (w *WorkOrder) Cancel() error {
	if !w.CanCancel() {
		return shared.NewDomainError("INVALID_STATE", "Work order with recorded production cannot be cancelled")
	}
	if err := w.MarkCancelled(); err != nil {
		return err
	}
	w.Status = StatusCancelled
	return nil
}
