package stock

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinReceive(t *testing.T) {
	t.Run("first receipt sets the valuation rate", func(t *testing.T) {
		bin := NewBin("VT-001", "Kho Chính - XHTB")
		err := bin.Receive(decimal.NewFromInt(10), decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.True(t, bin.ActualQty.Equal(decimal.NewFromInt(10)))
		assert.True(t, bin.ValuationRate.Equal(decimal.NewFromInt(100)))
		assert.True(t, bin.StockValue.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("second receipt moves the weighted average", func(t *testing.T) {
		bin := NewBin("VT-001", "Kho Chính - XHTB")
		require.NoError(t, bin.Receive(decimal.NewFromInt(10), decimal.NewFromInt(100)))
		require.NoError(t, bin.Receive(decimal.NewFromInt(10), decimal.NewFromInt(200)))

		// (10*100 + 10*200) / 20 = 150
		assert.True(t, bin.ValuationRate.Equal(decimal.NewFromInt(150)), "got %s", bin.ValuationRate)
		assert.True(t, bin.ActualQty.Equal(decimal.NewFromInt(20)))
		assert.True(t, bin.StockValue.Equal(decimal.NewFromInt(3000)))
	})

	t.Run("receipt into an emptied bin resets the rate", func(t *testing.T) {
		bin := NewBin("VT-001", "Kho Chính - XHTB")
		require.NoError(t, bin.Receive(decimal.NewFromInt(5), decimal.NewFromInt(100)))
		_, err := bin.Issue(decimal.NewFromInt(5))
		require.NoError(t, err)
		require.NoError(t, bin.Receive(decimal.NewFromInt(5), decimal.NewFromInt(40)))
		assert.True(t, bin.ValuationRate.Equal(decimal.NewFromInt(40)))
	})

	t.Run("rejects non-positive quantity and negative rate", func(t *testing.T) {
		bin := NewBin("VT-001", "Kho Chính - XHTB")
		assert.Error(t, bin.Receive(decimal.Zero, decimal.NewFromInt(10)))
		assert.Error(t, bin.Receive(decimal.NewFromInt(1), decimal.NewFromInt(-1)))
	})
}

func TestBinIssue(t *testing.T) {
	t.Run("issues at the current valuation rate", func(t *testing.T) {
		bin := NewBin("VT-001", "Kho Chính - XHTB")
		require.NoError(t, bin.Receive(decimal.NewFromInt(10), decimal.NewFromInt(100)))
		require.NoError(t, bin.Receive(decimal.NewFromInt(10), decimal.NewFromInt(200)))

		rate, err := bin.Issue(decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.NewFromInt(150)))
		assert.True(t, bin.ActualQty.Equal(decimal.NewFromInt(15)))
		assert.True(t, bin.StockValue.Equal(decimal.NewFromInt(2250)))
	})

	t.Run("refuses to go negative", func(t *testing.T) {
		bin := NewBin("VT-001", "Kho Chính - XHTB")
		require.NoError(t, bin.Receive(decimal.NewFromInt(3), decimal.NewFromInt(100)))
		_, err := bin.Issue(decimal.NewFromInt(4))
		assert.Error(t, err)
		assert.True(t, bin.ActualQty.Equal(decimal.NewFromInt(3)), "failed issue must not mutate")
	})
}
