package stock

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurposeNamingPrefix(t *testing.T) {
	cases := map[Purpose]string{
		PurposeMaterialReceipt:        "NK",
		PurposeMaterialIssue:          "XK",
		PurposeMaterialTransfer:       "CK",
		PurposeTransferForManufacture: "CP",
		PurposeManufacture:            "SX",
		PurposeRepack:                 "DG",
		PurposeDisassemble:            "TG",
		PurposeSendToSubcontractor:    "GC",
		PurposeMaterialConsumption:    "TH",
		Purpose("Something Else"):     "KHO",
	}
	for purpose, prefix := range cases {
		assert.Equal(t, prefix, purpose.NamingPrefix(), "purpose %q", purpose)
	}
}

func TestStockEntryAddItem(t *testing.T) {
	t.Run("issue rows require a source warehouse", func(t *testing.T) {
		entry, err := NewStockEntry(PurposeMaterialIssue, "Xuân Hòa Thái Bình", time.Now())
		require.NoError(t, err)
		_, err = entry.AddItem("VT-001", decimal.NewFromInt(1), decimal.Zero, "", "")
		assert.Error(t, err)
		_, err = entry.AddItem("VT-001", decimal.NewFromInt(1), decimal.Zero, "Kho Chính - XHTB", "")
		assert.NoError(t, err)
	})

	t.Run("receipt rows require a target warehouse", func(t *testing.T) {
		entry, err := NewStockEntry(PurposeMaterialReceipt, "Xuân Hòa Thái Bình", time.Now())
		require.NoError(t, err)
		_, err = entry.AddItem("VT-001", decimal.NewFromInt(1), decimal.Zero, "", "")
		assert.Error(t, err)
		_, err = entry.AddItem("VT-001", decimal.NewFromInt(1), decimal.Zero, "", "Kho Chính - XHTB")
		assert.NoError(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		entry, err := NewStockEntry(PurposeMaterialReceipt, "Xuân Hòa Thái Bình", time.Now())
		require.NoError(t, err)
		_, err = entry.AddItem("VT-001", decimal.Zero, decimal.Zero, "", "Kho Chính - XHTB")
		assert.Error(t, err)
	})
}

func TestStockEntryValidate(t *testing.T) {
	t.Run("rejects an empty entry", func(t *testing.T) {
		entry, err := NewStockEntry(PurposeMaterialReceipt, "Xuân Hòa Thái Bình", time.Now())
		require.NoError(t, err)
		assert.Error(t, entry.Validate())
	})

	t.Run("manufacture entry needs exactly one finished row", func(t *testing.T) {
		entry, err := NewStockEntry(PurposeManufacture, "Xuân Hòa Thái Bình", time.Now())
		require.NoError(t, err)
		_, err = entry.AddItem("VT-001", decimal.NewFromInt(2), decimal.Zero, "Kho WIP - XHTB", "")
		require.NoError(t, err)
		assert.Error(t, entry.Validate(), "no finished row")

		row, err := entry.AddItem("TP-001", decimal.NewFromInt(1), decimal.NewFromInt(500), "", "Kho Chính - XHTB")
		require.NoError(t, err)
		row.IsFinishedItem = true
		assert.NoError(t, entry.Validate())
	})
}

func TestStockEntryTotalOutgoing(t *testing.T) {
	entry, err := NewStockEntry(PurposeMaterialIssue, "Xuân Hòa Thái Bình", time.Now())
	require.NoError(t, err)
	_, err = entry.AddItem("VT-001", decimal.NewFromInt(3), decimal.Zero, "Kho Chính - XHTB", "")
	require.NoError(t, err)
	_, err = entry.AddItem("VT-001", decimal.NewFromInt(2), decimal.Zero, "Kho Chính - XHTB", "")
	require.NoError(t, err)

	out := entry.TotalOutgoing()
	total := out[[2]string{"VT-001", "Kho Chính - XHTB"}]
	assert.True(t, total.Equal(decimal.NewFromInt(5)), "duplicate rows must aggregate")
}
