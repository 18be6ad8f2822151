package rpc

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuanhoa/backend/internal/domain/shared"
)

func parseKwargs(t *testing.T, body string) Kwargs {
	t.Helper()
	kw := Kwargs{}
	require.NoError(t, json.Unmarshal([]byte(body), &kw))
	return kw
}

func TestKwargsString(t *testing.T) {
	kw := parseKwargs(t, `{"item_code": "VT-001", "qty": 5}`)
	assert.Equal(t, "VT-001", kw.String("item_code"))
	assert.Equal(t, "5", kw.String("qty"), "bare numbers render as text")
	assert.Equal(t, "", kw.String("missing"))
	assert.Equal(t, "Kho Chính - XHTB", kw.StringDefault("warehouse", "Kho Chính - XHTB"))
}

func TestKwargsDecimal(t *testing.T) {
	kw := parseKwargs(t, `{"as_number": 12.5, "as_string": "12.5", "padded": " 7 ", "junk": "abc"}`)
	assert.True(t, kw.Decimal("as_number").Equal(decimal.NewFromFloat(12.5)))
	assert.True(t, kw.Decimal("as_string").Equal(decimal.NewFromFloat(12.5)), "string and number forms are interchangeable")
	assert.True(t, kw.Decimal("padded").Equal(decimal.NewFromInt(7)))
	assert.True(t, kw.Decimal("junk").IsZero())
	assert.True(t, kw.Decimal("missing").IsZero())
}

func TestKwargsInt(t *testing.T) {
	kw := parseKwargs(t, `{"page": 3, "page_size": "25"}`)
	assert.Equal(t, 3, kw.Int("page"))
	assert.Equal(t, 25, kw.Int("page_size"))
	assert.Equal(t, 20, kw.IntDefault("limit", 20))
}

func TestKwargsBool(t *testing.T) {
	kw := parseKwargs(t, `{"a": true, "b": "1", "c": "yes", "d": 0, "e": "false"}`)
	assert.True(t, kw.Bool("a"))
	assert.True(t, kw.Bool("b"))
	assert.True(t, kw.Bool("c"))
	assert.False(t, kw.Bool("d"))
	assert.False(t, kw.Bool("e"))
	assert.False(t, kw.Bool("missing"))
	assert.Nil(t, kw.BoolPtr("missing"))
	require.NotNil(t, kw.BoolPtr("a"))
	assert.True(t, *kw.BoolPtr("a"))
}

func TestKwargsDate(t *testing.T) {
	kw := parseKwargs(t, `{"posting_date": "2025-03-10", "ts": "2025-03-10T08:30:00Z", "bad": "10/03/2025"}`)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), kw.Date("posting_date"))
	assert.Equal(t, 8, kw.Date("ts").Hour())
	assert.True(t, kw.Date("bad").IsZero())
	assert.Nil(t, kw.DatePtr("bad"))
	assert.NotNil(t, kw.DatePtr("posting_date"))
}

func TestKwargsUnmarshal(t *testing.T) {
	type line struct {
		ItemCode string          `json:"item_code"`
		Qty      decimal.Decimal `json:"qty"`
	}

	t.Run("decodes a plain array", func(t *testing.T) {
		kw := parseKwargs(t, `{"items": [{"item_code": "VT-001", "qty": 5}]}`)
		var lines []line
		require.NoError(t, kw.Unmarshal("items", &lines))
		require.Len(t, lines, 1)
		assert.Equal(t, "VT-001", lines[0].ItemCode)
	})

	t.Run("unwraps a string-wrapped array", func(t *testing.T) {
		kw := parseKwargs(t, `{"items": "[{\"item_code\": \"VT-002\", \"qty\": \"3\"}]"}`)
		var lines []line
		require.NoError(t, kw.Unmarshal("items", &lines))
		require.Len(t, lines, 1)
		assert.Equal(t, "VT-002", lines[0].ItemCode)
		assert.True(t, lines[0].Qty.Equal(decimal.NewFromInt(3)))
	})

	t.Run("absent and empty-string keys decode to nothing", func(t *testing.T) {
		kw := parseKwargs(t, `{"items": ""}`)
		var lines []line
		require.NoError(t, kw.Unmarshal("items", &lines))
		assert.Empty(t, lines)
		require.NoError(t, kw.Unmarshal("missing", &lines))
	})

	t.Run("malformed payloads become a localized input error", func(t *testing.T) {
		kw := parseKwargs(t, `{"items": "not json"}`)
		var lines []line
		err := kw.Unmarshal("items", &lines)
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})
}

func TestKwargsFilter(t *testing.T) {
	kw := parseKwargs(t, `{"page": "2", "page_size": 50, "search": "thép", "status": "In Process", "warehouse": "Kho Chính - XHTB"}`)
	filter := kw.Filter()
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, 50, filter.PageSize)
	assert.Equal(t, "thép", filter.Search)
	assert.Equal(t, "In Process", filter.Filters["status"])
	assert.Equal(t, "Kho Chính - XHTB", filter.Filters["warehouse"])

	oversized := parseKwargs(t, `{"page_size": 1000}`)
	assert.Equal(t, 100, oversized.Filter().PageSize, "page size clamps")
}
