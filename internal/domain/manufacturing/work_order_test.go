package manufacturing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBOM(t *testing.T) *BOM {
	t.Helper()
	bom, err := NewBOM("TP-001", "Xuân Hòa Thái Bình", decimal.NewFromInt(1), "Nos")
	require.NoError(t, err)
	bom.ItemName = "Tủ sắt"
	require.NoError(t, bom.AddItem("VT-001", decimal.NewFromInt(2), decimal.NewFromInt(100), "Kg"))
	require.NoError(t, bom.AddItem("VT-002", decimal.NewFromInt(4), decimal.NewFromInt(50), "Nos"))
	require.NoError(t, bom.Validate())
	bom.Name = "BOM-2025-00001"
	require.NoError(t, bom.MarkSubmitted())
	return bom
}

func testWorkOrder(t *testing.T, qty int64) *WorkOrder {
	t.Helper()
	wo, err := NewWorkOrder(testBOM(t), decimal.NewFromInt(qty), "Xuân Hòa Thái Bình",
		"Kho Chính - XHTB", "Kho WIP - XHTB", "Kho Thành Phẩm - XHTB")
	require.NoError(t, err)
	wo.Name = "MFG-2025-00001"
	return wo
}

func TestNewWorkOrder(t *testing.T) {
	t.Run("scales required items to the order quantity", func(t *testing.T) {
		wo := testWorkOrder(t, 5)
		require.Len(t, wo.RequiredItems, 2)
		assert.True(t, wo.RequiredItems[0].RequiredQty.Equal(decimal.NewFromInt(10)))
		assert.True(t, wo.RequiredItems[1].RequiredQty.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, StatusDraft, wo.Status)
	})

	t.Run("rejects draft and inactive BOMs", func(t *testing.T) {
		bom, err := NewBOM("TP-001", "Xuân Hòa Thái Bình", decimal.NewFromInt(1), "Nos")
		require.NoError(t, err)
		_, err = NewWorkOrder(bom, decimal.NewFromInt(1), "Xuân Hòa Thái Bình", "", "", "")
		assert.Error(t, err)

		submitted := testBOM(t)
		submitted.IsActive = false
		_, err = NewWorkOrder(submitted, decimal.NewFromInt(1), "Xuân Hòa Thái Bình", "", "", "")
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewWorkOrder(testBOM(t), decimal.Zero, "Xuân Hòa Thái Bình", "", "", "")
		assert.Error(t, err)
	})
}

func TestWorkOrderLifecycle(t *testing.T) {
	t.Run("submit moves draft to Not Started", func(t *testing.T) {
		wo := testWorkOrder(t, 5)
		require.NoError(t, wo.Submit())
		assert.Equal(t, StatusNotStarted, wo.Status)
		assert.True(t, wo.IsSubmitted())
	})

	t.Run("draft cannot start", func(t *testing.T) {
		wo := testWorkOrder(t, 5)
		assert.False(t, wo.CanStart())
		assert.Error(t, wo.RecordTransfer(wo.Qty))
	})

	t.Run("transfer moves order into process", func(t *testing.T) {
		wo := testWorkOrder(t, 5)
		require.NoError(t, wo.Submit())
		require.NoError(t, wo.RecordTransfer(wo.Qty))
		assert.Equal(t, StatusInProcess, wo.Status)
		assert.True(t, wo.RequiredItems[0].TransferredQty.Equal(decimal.NewFromInt(10)))
	})
}

func TestWorkOrderRecordProduction(t *testing.T) {
	t.Run("partial production keeps order in process", func(t *testing.T) {
		wo := testWorkOrder(t, 10)
		require.NoError(t, wo.Submit())
		require.NoError(t, wo.RecordProduction(decimal.NewFromInt(4)))
		assert.Equal(t, StatusInProcess, wo.Status)
		assert.True(t, wo.ProducedQty.Equal(decimal.NewFromInt(4)))
		assert.InDelta(t, 40.0, wo.Progress(), 0.001)
	})

	t.Run("full production completes the order", func(t *testing.T) {
		wo := testWorkOrder(t, 10)
		require.NoError(t, wo.Submit())
		require.NoError(t, wo.RecordProduction(decimal.NewFromInt(10)))
		assert.Equal(t, StatusCompleted, wo.Status)
		assert.True(t, wo.RemainingQty().IsZero())
	})

	t.Run("rejects quantity over the remaining amount", func(t *testing.T) {
		wo := testWorkOrder(t, 10)
		require.NoError(t, wo.Submit())
		require.NoError(t, wo.RecordProduction(decimal.NewFromInt(8)))
		assert.Error(t, wo.RecordProduction(decimal.NewFromInt(3)))
		assert.True(t, wo.ProducedQty.Equal(decimal.NewFromInt(8)))
	})

	t.Run("stopped orders accept no production", func(t *testing.T) {
		wo := testWorkOrder(t, 10)
		require.NoError(t, wo.Submit())
		require.NoError(t, wo.Stop())
		assert.Error(t, wo.RecordProduction(decimal.NewFromInt(1)))
	})
}

func TestWorkOrderStop(t *testing.T) {
	t.Run("completed orders cannot be stopped", func(t *testing.T) {
		wo := testWorkOrder(t, 1)
		require.NoError(t, wo.Submit())
		require.NoError(t, wo.RecordProduction(decimal.NewFromInt(1)))
		assert.Error(t, wo.Stop())
	})

	t.Run("drafts cannot be stopped", func(t *testing.T) {
		wo := testWorkOrder(t, 1)
		assert.Error(t, wo.Stop())
	})
}

func TestWorkOrderCancel(t *testing.T) {
	t.Run("submitted order without production cancels", func(t *testing.T) {
		wo := testWorkOrder(t, 5)
		require.NoError(t, wo.Submit())
		require.NoError(t, wo.Cancel())
		assert.Equal(t, StatusCancelled, wo.Status)
	})

	t.Run("produced quantity blocks cancellation", func(t *testing.T) {
		wo := testWorkOrder(t, 5)
		require.NoError(t, wo.Submit())
		require.NoError(t, wo.RecordProduction(decimal.NewFromInt(1)))
		assert.False(t, wo.CanCancel())
		assert.Error(t, wo.Cancel())
	})
}
