package rpc

import (
	"github.com/gin-gonic/gin"
	appstock "github.com/xuanhoa/backend/internal/application/stock"
)

func (s *Server) registerStockMethods() {
	s.register("create_material_receipt", s.createMaterialReceipt)
	s.register("create_material_issue", s.createMaterialIssue)
	s.register("get_stock_entries", s.getStockEntries)
	s.register("get_stock_entry_detail", s.getStockEntryDetail)
	s.register("get_item_stock", s.getItemStock)
	s.register("get_all_stock", s.getAllStock)
	s.register("get_stock_by_warehouse", s.getStockByWarehouse)
	s.register("get_warehouse_stock", s.getStockByWarehouse)
	s.register("get_warehouse_details", s.getWarehouseDetails)
	s.register("get_stock_ledger", s.getStockLedger)
	s.register("get_warehouses", s.getWarehouses)
}

// entryLines reads the items argument, falling back to the legacy
// single-item kwargs (item_code, qty, rate, warehouse)
func entryLines(kw Kwargs) ([]appstock.LineInput, error) {
	var lines []appstock.LineInput
	if err := kw.Unmarshal("items", &lines); err != nil {
		return nil, err
	}
	if len(lines) == 0 && kw.Has("item_code") {
		lines = append(lines, appstock.LineInput{
			ItemCode:  kw.String("item_code"),
			Qty:       kw.Decimal("qty"),
			Rate:      kw.Decimal("rate"),
			Warehouse: kw.String("warehouse"),
		})
	}
	return lines, nil
}

func (s *Server) createMaterialReceipt(c *gin.Context, kw Kwargs) {
	lines, err := entryLines(kw)
	if err != nil {
		replyError(c, err)
		return
	}
	result, err := s.services.StockEntries.CreateMaterialReceipt(
		c.Request.Context(), lines, kw.String("warehouse"), kw.Date("posting_date"))
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, result.Message, gin.H{"name": result.Name})
}

func (s *Server) createMaterialIssue(c *gin.Context, kw Kwargs) {
	lines, err := entryLines(kw)
	if err != nil {
		replyError(c, err)
		return
	}
	result, err := s.services.StockEntries.CreateMaterialIssue(
		c.Request.Context(), lines, kw.String("warehouse"), kw.Date("posting_date"))
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, result.Message, gin.H{"name": result.Name})
}

func (s *Server) getStockEntries(c *gin.Context, kw Kwargs) {
	page, err := s.services.StockEntries.List(c.Request.Context(), kw.Filter())
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, page)
}

func (s *Server) getStockEntryDetail(c *gin.Context, kw Kwargs) {
	entry, err := s.services.StockEntries.Detail(c.Request.Context(), kw.String("name"))
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, entry)
}

func (s *Server) getItemStock(c *gin.Context, kw Kwargs) {
	result, err := s.services.StockQueries.ItemStock(
		c.Request.Context(), kw.String("item_code"), kw.String("warehouse"))
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, result)
}

func (s *Server) getAllStock(c *gin.Context, kw Kwargs) {
	page, err := s.services.StockQueries.AllStock(c.Request.Context(), kw.Filter())
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, page)
}

func (s *Server) getStockByWarehouse(c *gin.Context, kw Kwargs) {
	page, err := s.services.StockQueries.StockByWarehouse(
		c.Request.Context(), kw.String("warehouse"), kw.Filter())
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, page)
}

func (s *Server) getWarehouseDetails(c *gin.Context, kw Kwargs) {
	details, err := s.services.StockQueries.WarehouseStockDetails(
		c.Request.Context(), kw.StringDefault("warehouse", kw.String("name")))
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, details)
}

func (s *Server) getStockLedger(c *gin.Context, kw Kwargs) {
	page, err := s.services.StockQueries.Ledger(c.Request.Context(), kw.Filter())
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, page)
}

func (s *Server) getWarehouses(c *gin.Context, kw Kwargs) {
	warehouses, err := s.services.StockQueries.Warehouses(c.Request.Context(), kw.BoolPtr("is_group"))
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, warehouses)
}
