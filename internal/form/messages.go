package form

// User-facing texts shown by the presentation layer.
const (
	MessageSubmitted    = "Thêm order thành công!"
	MessageSubmitFailed = "Đã xảy ra lỗi !"
)

var messages = map[Field]map[ErrorKind]string{
	FieldClothNum: {
		KindRequired: "Số lượng đồ bạn gửi Passdy là bắt buộc.",
	},
	FieldAddressName: {
		KindRequired:  "Họ và tên là bắt buộc.",
		KindPattern:   "Họ tên có chứa ký tự đặc biệt!",
		KindMaxLength: "Họ tên không thể vượt quá 30 ký tự.",
	},
	FieldEmail: {
		KindRequired: "Email là bắt buộc!",
		KindPattern:  "Email không hợp lệ!",
	},
	FieldPhone: {
		KindRequired:  "Số điện thoại là bắt buộc.",
		KindPattern:   "Số điện thoại không thể chứa ký tự đặc biệt.",
		KindMaxLength: "Số điện thoại không thể vượt quá 15 ký tự.",
	},
	FieldCityID: {
		KindRequired: "Thành phố là bắt buộc.",
	},
	FieldDistrictID: {
		KindRequired: "Quận là bắt buộc.",
	},
	FieldWardID: {
		KindRequired: "Phường là bắt buộc.",
	},
	FieldAddress: {
		KindRequired:  "Địa chỉ cụ thể là bắt buộc.",
		KindMaxLength: "Địa chỉ cụ thể không thể quá 100 ký tự.",
	},
}

// Message returns the text for a broken rule, or "" when none is defined.
func Message(field Field, kind ErrorKind) string {
	return messages[field][kind]
}
