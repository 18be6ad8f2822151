package catalog

import (
	"context"

	"github.com/xuanhoa/backend/internal/domain/catalog"
	"github.com/xuanhoa/backend/internal/domain/shared"
)

// ItemGroupService handles the item group tree and units of measure
type ItemGroupService struct {
	groups catalog.ItemGroupRepository
	items  catalog.ItemRepository
	uoms   catalog.UOMRepository
}

// NewItemGroupService creates a new ItemGroupService
func NewItemGroupService(groups catalog.ItemGroupRepository, items catalog.ItemRepository, uoms catalog.UOMRepository) *ItemGroupService {
	return &ItemGroupService{groups: groups, items: items, uoms: uoms}
}

// GroupNode is one node of the item group tree with its children.
type GroupNode struct {
	Name      string       `json:"name"`
	IsGroup   bool         `json:"is_group"`
	ItemCount int64        `json:"item_count"`
	Children  []*GroupNode `json:"children"`
}

// List returns item groups matching an optional name search
func (s *ItemGroupService) List(ctx context.Context, search string) ([]catalog.ItemGroup, error) {
	return s.groups.FindAll(ctx, search)
}

// Tree assembles the item group hierarchy with per-group item counts
func (s *ItemGroupService) Tree(ctx context.Context) ([]*GroupNode, error) {
	groups, err := s.groups.FindAll(ctx, "")
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*GroupNode, len(groups))
	for _, g := range groups {
		count, err := s.items.CountByGroup(ctx, g.Name)
		if err != nil {
			return nil, err
		}
		nodes[g.Name] = &GroupNode{Name: g.Name, IsGroup: g.IsGroup, ItemCount: count, Children: []*GroupNode{}}
	}

	var roots []*GroupNode
	for _, g := range groups {
		node := nodes[g.Name]
		if g.ParentItemGroup != "" {
			if parent, ok := nodes[g.ParentItemGroup]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots, nil
}

// Create creates an item group under an optional parent
func (s *ItemGroupService) Create(ctx context.Context, name, parent string, isGroup bool) (*catalog.ItemGroup, error) {
	exists, err := s.groups.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ITEM_GROUP_EXISTS", "Nhóm hàng đã tồn tại")
	}
	if parent != "" {
		if ok, err := s.groups.ExistsByName(ctx, parent); err != nil {
			return nil, err
		} else if !ok {
			return nil, shared.NewDomainError("ITEM_GROUP_NOT_FOUND", "Nhóm hàng cha không tồn tại")
		}
	}
	group, err := catalog.NewItemGroup(name, parent, isGroup)
	if err != nil {
		return nil, err
	}
	if err := s.groups.Save(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Update renames a group's parent assignment
func (s *ItemGroupService) Update(ctx context.Context, name, parent string) (*catalog.ItemGroup, error) {
	group, err := s.groups.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if parent != "" && parent != group.ParentItemGroup {
		if ok, err := s.groups.ExistsByName(ctx, parent); err != nil {
			return nil, err
		} else if !ok {
			return nil, shared.NewDomainError("ITEM_GROUP_NOT_FOUND", "Nhóm hàng cha không tồn tại")
		}
		group.ParentItemGroup = parent
		group.Touch()
	}
	if err := s.groups.Save(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Delete removes a group. Groups with items or child groups are refused.
func (s *ItemGroupService) Delete(ctx context.Context, name string) error {
	if _, err := s.groups.FindByName(ctx, name); err != nil {
		return err
	}
	itemCount, err := s.items.CountByGroup(ctx, name)
	if err != nil {
		return err
	}
	if itemCount > 0 {
		return shared.NewDomainError("ITEM_GROUP_IN_USE", "Nhóm hàng đang được sử dụng bởi mặt hàng")
	}
	childCount, err := s.groups.CountChildren(ctx, name)
	if err != nil {
		return err
	}
	if childCount > 0 {
		return shared.NewDomainError("ITEM_GROUP_HAS_CHILDREN", "Nhóm hàng còn nhóm con")
	}
	return s.groups.Delete(ctx, name)
}

// UOMList lists the available units of measure
func (s *ItemGroupService) UOMList(ctx context.Context) ([]catalog.UOM, error) {
	return s.uoms.FindAll(ctx)
}
