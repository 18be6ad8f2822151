package rpc

import (
	"github.com/gin-gonic/gin"
	appmanufacturing "github.com/xuanhoa/backend/internal/application/manufacturing"
	"github.com/xuanhoa/backend/internal/domain/shared"
)

func (s *Server) registerManufacturingMethods() {
	s.register("get_work_orders", s.getWorkOrders)
	s.register("get_work_order_detail", s.getWorkOrderDetail)
	s.register("create_work_order", s.createWorkOrder)
	s.register("submit_work_order", s.submitWorkOrder)
	s.register("start_work_order", s.startWorkOrder)
	s.register("complete_work_order", s.completeWorkOrder)
	s.register("stop_work_order", s.stopWorkOrder)
	s.register("cancel_work_order", s.cancelWorkOrder)
	s.register("get_boms", s.getBOMs)
	s.register("get_all_boms", s.getAllBOMs)
	s.register("get_bom_detail", s.getBOMDetail)
	s.register("get_bom_items", s.getBOMItems)
	s.register("create_bom", s.createBOM)
	s.register("update_bom", s.updateBOM)
	s.register("delete_bom", s.deleteBOM)
}

func (s *Server) getWorkOrders(c *gin.Context, kw Kwargs) {
	page, err := s.services.WorkOrders.List(c.Request.Context(), kw.Filter())
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, page)
}

func (s *Server) getWorkOrderDetail(c *gin.Context, kw Kwargs) {
	detail, err := s.services.WorkOrders.Detail(c.Request.Context(), kw.String("name"))
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, detail)
}

func (s *Server) createWorkOrder(c *gin.Context, kw Kwargs) {
	req := appmanufacturing.CreateWorkOrderRequest{
		BOMNo:                kw.String("bom_no"),
		Item:                 kw.String("item"),
		Qty:                  kw.Decimal("qty"),
		SourceWarehouse:      kw.String("source_warehouse"),
		WIPWarehouse:         kw.String("wip_warehouse"),
		FGWarehouse:          kw.String("fg_warehouse"),
		PlannedStartDate:     kw.DatePtr("planned_start_date"),
		ExpectedDeliveryDate: kw.DatePtr("expected_delivery_date"),
	}
	wo, err := s.services.WorkOrders.Create(c.Request.Context(), req)
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã tạo lệnh sản xuất "+wo.Name, gin.H{"name": wo.Name})
}

func (s *Server) submitWorkOrder(c *gin.Context, kw Kwargs) {
	wo, err := s.services.WorkOrders.Submit(c.Request.Context(), kw.String("name"))
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã ghi sổ lệnh sản xuất "+wo.Name, gin.H{"name": wo.Name, "status": wo.Status})
}

func (s *Server) startWorkOrder(c *gin.Context, kw Kwargs) {
	result, err := s.services.WorkOrders.Start(c.Request.Context(), kw.String("name"))
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, result.Message, gin.H{"name": result.Name, "stock_entry": result.StockEntry})
}

func (s *Server) completeWorkOrder(c *gin.Context, kw Kwargs) {
	result, err := s.services.WorkOrders.Complete(c.Request.Context(), kw.String("name"), kw.Decimal("qty"))
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, result.Message, gin.H{"name": result.Name, "stock_entry": result.StockEntry})
}

func (s *Server) stopWorkOrder(c *gin.Context, kw Kwargs) {
	wo, err := s.services.WorkOrders.Stop(c.Request.Context(), kw.String("name"))
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã dừng lệnh sản xuất "+wo.Name, gin.H{"name": wo.Name, "status": wo.Status})
}

func (s *Server) cancelWorkOrder(c *gin.Context, kw Kwargs) {
	if err := s.services.WorkOrders.Cancel(c.Request.Context(), kw.String("name")); err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã hủy lệnh sản xuất", nil)
}

func (s *Server) getBOMs(c *gin.Context, kw Kwargs) {
	page, err := s.services.BOMs.List(c.Request.Context(), kw.Filter())
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, page)
}

// getAllBOMs returns every BOM without paging, for dropdowns
func (s *Server) getAllBOMs(c *gin.Context, kw Kwargs) {
	filter := kw.Filter()
	filter.PageSize = 100
	page, err := s.services.BOMs.List(c.Request.Context(), filter)
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, page.Data)
}

func (s *Server) getBOMDetail(c *gin.Context, kw Kwargs) {
	bom, err := s.services.BOMs.Detail(c.Request.Context(), kw.String("name"))
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, bom)
}

func (s *Server) getBOMItems(c *gin.Context, kw Kwargs) {
	rows, err := s.services.BOMs.Items(c.Request.Context(), kw.StringDefault("bom_no", kw.String("name")))
	if err != nil {
		replyError(c, err)
		return
	}
	reply(c, rows)
}

func (s *Server) createBOM(c *gin.Context, kw Kwargs) {
	var lines []appmanufacturing.BOMLineInput
	if err := kw.Unmarshal("items", &lines); err != nil {
		replyError(c, err)
		return
	}
	req := appmanufacturing.CreateBOMRequest{
		Item:      kw.String("item"),
		Quantity:  kw.Decimal("quantity"),
		UOM:       kw.String("uom"),
		IsDefault: kw.Bool("is_default"),
		Items:     lines,
	}
	bom, err := s.services.BOMs.Create(c.Request.Context(), req)
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã tạo BOM "+bom.Name, gin.H{"name": bom.Name})
}

func (s *Server) updateBOM(c *gin.Context, kw Kwargs) {
	name := kw.String("name")
	if name == "" {
		replyError(c, shared.NewDomainError("INVALID_INPUT", "Thiếu tên BOM"))
		return
	}
	bom, err := s.services.BOMs.Update(c.Request.Context(), name, kw.BoolPtr("is_active"), kw.BoolPtr("is_default"))
	if err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã cập nhật BOM "+bom.Name, gin.H{"name": bom.Name})
}

func (s *Server) deleteBOM(c *gin.Context, kw Kwargs) {
	if err := s.services.BOMs.Delete(c.Request.Context(), kw.String("name")); err != nil {
		replyError(c, err)
		return
	}
	replySuccess(c, "Đã xóa BOM", nil)
}
