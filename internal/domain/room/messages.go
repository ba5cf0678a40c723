// internal/domain/room/messages.go

package room

import "errors"

// User-facing messages
const (
	MsgListFailed    = "Không thể tải danh sách phòng trọ. Vui lòng thử lại sau."
	MsgDetailFailed  = "Không thể tải thông tin phòng trọ. Vui lòng thử lại sau."
	MsgNotFound      = "Phòng trọ không tồn tại hoặc đã bị xoá."
	MsgMissingID     = "Không tìm thấy mã phòng trọ."
	MsgNoResults     = "Không tìm thấy phòng trọ phù hợp với từ khóa của bạn."
	MsgInvalidFilter = "Bộ lọc không hợp lệ."
	MsgNoComments    = "Chưa có bình luận nào cho phòng trọ này"
)

// ListMessage returns the message shown for a search outcome, or "" when
// rooms were found
func ListMessage(count int, err error) string {
	switch {
	case err == nil && count > 0:
		return ""
	case err == nil:
		return MsgNoResults
	case errors.Is(err, ErrInvalidFilter):
		return MsgInvalidFilter
	default:
		return MsgListFailed
	}
}

// DetailMessage returns the message shown when a detail lookup fails
func DetailMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingID):
		return MsgMissingID
	case errors.Is(err, ErrNotFound):
		return MsgNotFound
	default:
		return MsgDetailFailed
	}
}
