package rpc

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/shared"
)

// Kwargs is the loosely typed keyword argument bag of an RPC call. Clients
// send values as strings, numbers or JSON-encoded arrays interchangeably,
// so every accessor tolerates both representations.
type Kwargs map[string]json.RawMessage

// bindKwargs reads the request body into a Kwargs map. An empty body is a
// valid call with no arguments.
func bindKwargs(c *gin.Context) (Kwargs, error) {
	kw := Kwargs{}
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return kw, nil
	}
	if err := c.ShouldBindJSON(&kw); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Dữ liệu gửi lên không hợp lệ")
	}
	return kw, nil
}

// String returns a string argument, unquoting JSON strings and rendering
// bare numbers as text
func (k Kwargs) String(key string) string {
	raw, ok := k[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.Trim(string(raw), `"`)
}

// StringDefault returns a string argument or the fallback when absent
func (k Kwargs) StringDefault(key, fallback string) string {
	if v := k.String(key); v != "" {
		return v
	}
	return fallback
}

// Decimal returns a numeric argument sent as a JSON number or a string
func (k Kwargs) Decimal(key string) decimal.Decimal {
	raw, ok := k[key]
	if !ok {
		return decimal.Zero
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		if d, err := decimal.NewFromString(num.String()); err == nil {
			return d
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// Int returns an integer argument sent as a JSON number or a string
func (k Kwargs) Int(key string) int {
	raw, ok := k[key]
	if !ok {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	return 0
}

// IntDefault returns an integer argument or the fallback when absent or zero
func (k Kwargs) IntDefault(key string, fallback int) int {
	if n := k.Int(key); n != 0 {
		return n
	}
	return fallback
}

// Bool returns a boolean argument; accepts true/false, 1/0 and their
// string forms
func (k Kwargs) Bool(key string) bool {
	raw, ok := k[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	switch strings.Trim(strings.ToLower(string(raw)), `"`) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// BoolPtr returns a boolean argument, or nil when the key is absent
func (k Kwargs) BoolPtr(key string) *bool {
	if _, ok := k[key]; !ok {
		return nil
	}
	b := k.Bool(key)
	return &b
}

// Has reports whether the argument is present
func (k Kwargs) Has(key string) bool {
	_, ok := k[key]
	return ok
}

// Date returns a date argument in YYYY-MM-DD or RFC 3339 form
func (k Kwargs) Date(key string) time.Time {
	s := k.String(key)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DatePtr returns a date argument or nil when absent or unparseable
func (k Kwargs) DatePtr(key string) *time.Time {
	t := k.Date(key)
	if t.IsZero() {
		return nil
	}
	return &t
}

// Unmarshal decodes an argument into dest. String-wrapped JSON is
// unwrapped first; some clients send line item arrays as JSON strings.
func (k Kwargs) Unmarshal(key string, dest any) error {
	raw, ok := k[key]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil
		}
		raw = json.RawMessage(s)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return shared.NewDomainError("INVALID_INPUT", "Danh sách vật tư không hợp lệ")
	}
	return nil
}

// Filter assembles a list filter from the conventional paging arguments
func (k Kwargs) Filter() shared.Filter {
	filter := shared.DefaultFilter()
	filter.Page = k.IntDefault("page", filter.Page)
	filter.PageSize = k.IntDefault("page_size", filter.PageSize)
	filter.Search = k.String("search")
	if orderBy := k.String("order_by"); orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir := k.String("order_dir"); orderDir != "" {
		filter.OrderDir = orderDir
	}
	if status := k.String("status"); status != "" {
		filter.Filters["status"] = status
	}
	if purpose := k.String("purpose"); purpose != "" {
		filter.Filters["purpose"] = purpose
	}
	if warehouse := k.String("warehouse"); warehouse != "" {
		filter.Filters["warehouse"] = warehouse
	}
	if itemCode := k.String("item_code"); itemCode != "" {
		filter.Filters["item_code"] = itemCode
	}
	if group := k.String("item_group"); group != "" {
		filter.Filters["item_group"] = group
	}
	filter.Normalize()
	return filter
}
