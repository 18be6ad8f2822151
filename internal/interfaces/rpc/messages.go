package rpc

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/domain/stock"
)

// messageByCode maps stable domain error codes to the Vietnamese messages
// shown to users. Codes missing here fall through to the error's own
// message, then to the substring classifier.
var messageByCode = map[string]string{
	"NOT_FOUND":                  "Không tìm thấy dữ liệu",
	"ITEM_NOT_FOUND":             "Không tìm thấy mặt hàng",
	"WAREHOUSE_NOT_FOUND":        "Không tìm thấy kho",
	"SUPPLIER_NOT_FOUND":         "Không tìm thấy nhà cung cấp",
	"CUSTOMER_NOT_FOUND":         "Không tìm thấy khách hàng",
	"INVALID_BOM":                "BOM không hợp lệ hoặc không tồn tại",
	"EMPTY_ITEMS":                "Danh sách vật tư trống",
	"INVALID_QTY":                "Số lượng không hợp lệ",
	"INVALID_RATE":               "Đơn giá không hợp lệ",
	"INVALID_AMOUNT":             "Số tiền không hợp lệ",
	"AMOUNT_EXCEEDS_OUTSTANDING": "Số tiền vượt quá công nợ còn lại",
	"INSUFFICIENT_STOCK":         "Không đủ tồn kho",
	"WAREHOUSE_IS_GROUP":         "Kho nhóm không thể chứa hàng",
	"NO_DEFAULT_WAREHOUSE":       "Không xác định được kho mặc định",
	"ALREADY_SUBMITTED":          "Chứng từ đã được ghi sổ",
	"ALREADY_CANCELLED":          "Chứng từ đã bị hủy",
	"HAS_PAYMENTS":               "Hóa đơn đã có thanh toán, không thể hủy",
	"MISSING_COMPANY":            "Chưa cấu hình công ty mặc định",
	"PERMISSION_DENIED":          "Không có quyền thực hiện thao tác này",
}

// classify translates untyped error text to a Vietnamese message by
// substring, the fallback for errors raised below the domain layer.
func classify(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "insufficient") || strings.Contains(lower, "không đủ"):
		return "Không đủ tồn kho"
	case strings.Contains(lower, "not found") || strings.Contains(lower, "does not exist"):
		return "Không tìm thấy dữ liệu"
	case strings.Contains(lower, "duplicate") || strings.Contains(lower, "already exists"):
		return "Dữ liệu đã tồn tại"
	case strings.Contains(lower, "permission"):
		return "Không có quyền thực hiện thao tác này"
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline"):
		return "Hệ thống phản hồi chậm, vui lòng thử lại"
	default:
		return "Đã xảy ra lỗi: " + msg
	}
}

// localize picks the user-facing Vietnamese message for an error. Messages
// already written in Vietnamese pass through unchanged.
func localize(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		if isVietnamese(domainErr.Message) {
			return domainErr.Message
		}
		if msg, ok := messageByCode[domainErr.Code]; ok {
			return msg
		}
		return classify(domainErr.Message)
	}
	return classify(err.Error())
}

// isVietnamese reports whether a message already carries Vietnamese text,
// detected by its diacritic characters.
func isVietnamese(s string) bool {
	return strings.ContainsAny(s, "ăâđêôơưáàảãạéèẻẽẹíìỉĩịóòỏõọúùủũụýỳỷỹỵẤẦẨẪẬẮẰẲẴẶ")
}

// replyError reports a failed RPC call. Business failures stay HTTP 200
// with success:false; insufficient stock additionally carries the
// structured shortfall rows.
func replyError(c *gin.Context, err error) {
	var stockErr *stock.InsufficientStockError
	if errors.As(err, &stockErr) {
		replyFailure(c, stockErr.Error(), gin.H{"insufficient_items": stockErr.Shortages})
		return
	}
	replyFailure(c, localize(err), nil)
}
