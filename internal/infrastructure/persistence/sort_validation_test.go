package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder(""))
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(" DESC "))
	assert.Equal(t, "ASC", ValidateSortOrder("descending; DROP TABLE items"))
}

func TestValidateSortField(t *testing.T) {
	t.Run("whitelisted columns pass through", func(t *testing.T) {
		assert.Equal(t, "item_name", ValidateSortField("item_name", ItemSortFields, "item_code"))
		assert.Equal(t, "posting_date", ValidateSortField(" posting_date ", StockEntrySortFields, "name"))
	})

	t.Run("unknown or empty fields get the default", func(t *testing.T) {
		assert.Equal(t, "item_code", ValidateSortField("", ItemSortFields, "item_code"))
		assert.Equal(t, "item_code", ValidateSortField("no_such_column", ItemSortFields, "item_code"))
	})

	t.Run("sql fragments never pass the whitelist", func(t *testing.T) {
		assert.Equal(t, "name", ValidateSortField("name; DELETE FROM stock_entries", StockEntrySortFields, "name"))
		assert.Equal(t, "name", ValidateSortField("(SELECT secret FROM users)", StockEntrySortFields, "name"))
		assert.Equal(t, "item_code", ValidateSortField("item_code, qty", ItemSortFields, "item_code"))
	})
}
