package catalog

import (
	"context"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/xuanhoa/backend/internal/domain/catalog"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ItemService handles item master data operations
type ItemService struct {
	items  catalog.ItemRepository
	groups catalog.ItemGroupRepository
}

// NewItemService creates a new ItemService
func NewItemService(items catalog.ItemRepository, groups catalog.ItemGroupRepository) *ItemService {
	return &ItemService{items: items, groups: groups}
}

// CreateItemRequest carries the fields accepted when creating an item
type CreateItemRequest struct {
	ItemCode     string          `json:"item_code" validate:"required"`
	ItemName     string          `json:"item_name" validate:"required"`
	ItemGroup    string          `json:"item_group"`
	StockUOM     string          `json:"stock_uom"`
	Description  string          `json:"description"`
	StandardRate decimal.Decimal `json:"standard_rate"`
}

// List returns items matching the filter
func (s *ItemService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[catalog.Item], error) {
	filter.Normalize()
	items, total, err := s.items.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[catalog.Item]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Detail returns one item by code
func (s *ItemService) Detail(ctx context.Context, itemCode string) (*catalog.Item, error) {
	return s.items.FindByCode(ctx, itemCode)
}

// Create creates a new item after validating the code is free and the
// group exists
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*catalog.Item, error) {
	exists, err := s.items.ExistsByCode(ctx, req.ItemCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ITEM_EXISTS", "Mã hàng đã tồn tại")
	}
	if req.ItemGroup != "" {
		if ok, err := s.groups.ExistsByName(ctx, req.ItemGroup); err != nil {
			return nil, err
		} else if !ok {
			return nil, shared.NewDomainError("ITEM_GROUP_NOT_FOUND", "Nhóm hàng không tồn tại")
		}
	}

	item, err := catalog.NewItem(req.ItemCode, req.ItemName, req.ItemGroup, req.StockUOM)
	if err != nil {
		return nil, err
	}
	item.Description = req.Description
	item.StandardRate = req.StandardRate
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update changes the mutable fields of an item
func (s *ItemService) Update(ctx context.Context, itemCode string, req CreateItemRequest) (*catalog.Item, error) {
	item, err := s.items.FindByCode(ctx, itemCode)
	if err != nil {
		return nil, err
	}
	if req.ItemGroup != "" {
		if ok, err := s.groups.ExistsByName(ctx, req.ItemGroup); err != nil {
			return nil, err
		} else if !ok {
			return nil, shared.NewDomainError("ITEM_GROUP_NOT_FOUND", "Nhóm hàng không tồn tại")
		}
	}
	var rate *decimal.Decimal
	if !req.StandardRate.IsZero() {
		rate = &req.StandardRate
	}
	item.Update(req.ItemName, req.ItemGroup, req.Description, rate)
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ToggleStatus flips an item's disabled flag and returns the new state
func (s *ItemService) ToggleStatus(ctx context.Context, itemCode string) (bool, error) {
	item, err := s.items.FindByCode(ctx, itemCode)
	if err != nil {
		return false, err
	}
	disabled := item.ToggleDisabled()
	if err := s.items.Save(ctx, item); err != nil {
		return false, err
	}
	return disabled, nil
}

// Search finds items for autocomplete. Matching is diacritics-insensitive
// so "banh" finds "Bánh".
func (s *ItemService) Search(ctx context.Context, query, itemGroup string, limit int) ([]catalog.Item, error) {
	items, err := s.items.Search(ctx, query, itemGroup, limit)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 || query == "" {
		return items, nil
	}

	// No direct hits: retry against the folded catalog
	folded := Fold(query)
	candidates, err := s.items.Search(ctx, "", itemGroup, 100)
	if err != nil {
		return nil, err
	}
	var matches []catalog.Item
	for _, item := range candidates {
		if strings.Contains(Fold(item.ItemCode), folded) || strings.Contains(Fold(item.ItemName), folded) {
			matches = append(matches, item)
			if limit > 0 && len(matches) >= limit {
				break
			}
		}
	}
	return matches, nil
}

// Dropdown lists enabled stock items for selection widgets
func (s *ItemService) Dropdown(ctx context.Context) ([]catalog.Item, error) {
	return s.items.Search(ctx, "", "", 100)
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases a string and strips combining marks. Vietnamese đ/Đ is
// folded to d explicitly since it is a distinct letter, not a mark.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)
	out = strings.ReplaceAll(out, "đ", "d")
	return out
}
