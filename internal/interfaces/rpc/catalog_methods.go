package rpc

import (
	"github.com/gin-gonic/gin"
	appcatalog "github.com/xuanhoa/backend/internal/application/catalog"
)

func (s *Server) registerCatalogMethods() {
	s.register("get_items", s.getItems)
	s.register("get_item_list", s.getItems)
	s.register("get_item_detail", s.getItemDetail)
	s.register("create_item", s.createItem)
	s.register("update_item", s.updateItem)
	s.register("toggle_item_status", s.toggleItemStatus)
	s.register("search_items", s.searchItems)
	s.register("get_item_group_list", s.getItemGroupList)
	s.register("get_item_group_tree", s.getItemGroupTree)
	s.register("create_item_group", s.createItemGroup)
	s.register("update_item_group", s.updateItemGroup)
	s.register("delete_item_group", s.deleteItemGroup)
	s.register("get_uom_list", s.getUOMList)
	s.register("get_suppliers", s.getSuppliers)
	s.register("get_customers", s.getCustomers)
}

func (s *Server) getItems(c *gin.Context, kw Kwargs) {
	page, err := s.services.Items.List(c.Request.Context(), kw.Filter())
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, page)
}

func (s *Server) getItemDetail(c *gin.Context, kw Kwargs) {
	item, err := s.services.Items.Detail(c.Request.Context(), kw.String("item_code"))
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, item)
}

func itemRequest(kw Kwargs) appcatalog.CreateItemRequest {
	return appcatalog.CreateItemRequest{
		ItemCode:     kw.String("item_code"),
		ItemName:     kw.String("item_name"),
		ItemGroup:    kw.String("item_group"),
		StockUOM:     kw.String("stock_uom"),
		Description:  kw.String("description"),
		StandardRate: kw.Decimal("standard_rate"),
	}
}

func (s *Server) createItem(c *gin.Context, kw Kwargs) {
	req := itemRequest(kw)
	if err := checkRequest(req); err != nil {
		replyError(c, err)
		return
	}
	item, err := s.services.Items.Create(c.Request.Context(), req)
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã tạo mặt hàng "+item.ItemCode, gin.H{"item_code": item.ItemCode})
}

func (s *Server) updateItem(c *gin.Context, kw Kwargs) {
	item, err := s.services.Items.Update(c.Request.Context(), kw.String("item_code"), itemRequest(kw))
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã cập nhật mặt hàng "+item.ItemCode, gin.H{"item_code": item.ItemCode})
}

func (s *Server) toggleItemStatus(c *gin.Context, kw Kwargs) {
	disabled, err := s.services.Items.ToggleStatus(c.Request.Context(), kw.String("item_code"))
	if err != nil {
		replyError(c, err)
		return
	}
	msg := "Đã kích hoạt mặt hàng"
	if disabled {
		msg = "Đã ngưng sử dụng mặt hàng"
	}
	replySuccess(c, msg, gin.H{"disabled": disabled})
}

func (s *Server) searchItems(c *gin.Context, kw Kwargs) {
	items, err := s.services.Items.Search(
		c.Request.Context(), kw.String("query"), kw.String("item_group"), kw.IntDefault("limit", 20))
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, items)
}

func (s *Server) getItemGroupList(c *gin.Context, kw Kwargs) {
	groups, err := s.services.ItemGroups.List(c.Request.Context(), kw.String("search"))
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, groups)
}

func (s *Server) getItemGroupTree(c *gin.Context, kw Kwargs) {
	tree, err := s.services.ItemGroups.Tree(c.Request.Context())
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, tree)
}

func (s *Server) createItemGroup(c *gin.Context, kw Kwargs) {
	group, err := s.services.ItemGroups.Create(
		c.Request.Context(), kw.String("name"), kw.String("parent"), kw.Bool("is_group"))
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã tạo nhóm hàng "+group.Name, gin.H{"name": group.Name})
}

func (s *Server) updateItemGroup(c *gin.Context, kw Kwargs) {
	group, err := s.services.ItemGroups.Update(c.Request.Context(), kw.String("name"), kw.String("parent"))
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã cập nhật nhóm hàng "+group.Name, gin.H{"name": group.Name})
}

func (s *Server) deleteItemGroup(c *gin.Context, kw Kwargs) {
	if err := s.services.ItemGroups.Delete(c.Request.Context(), kw.String("name")); err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã xóa nhóm hàng", nil)
}

func (s *Server) getUOMList(c *gin.Context, kw Kwargs) {
	uoms, err := s.services.ItemGroups.UOMList(c.Request.Context())
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, uoms)
}

func (s *Server) getSuppliers(c *gin.Context, kw Kwargs) {
	suppliers, err := s.services.Parties.Suppliers(
		c.Request.Context(), kw.String("search"), kw.IntDefault("limit", 50))
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, suppliers)
}

func (s *Server) getCustomers(c *gin.Context, kw Kwargs) {
	customers, err := s.services.Parties.Customers(
		c.Request.Context(), kw.String("search"), kw.IntDefault("limit", 50))
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, customers)
}
