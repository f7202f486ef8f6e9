package service

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/passdy/intake/internal/address"
	"github.com/passdy/intake/internal/order"
)

var demoProvinces = []address.Record{
	{ID: 1, Name: "Thành phố Hà Nội"},
	{ID: 48, Name: "Thành phố Đà Nẵng"},
	{ID: 79, Name: "Thành phố Hồ Chí Minh"},
}

var demoDistricts = map[address.ID][]address.Record{
	1: {
		{ID: 1, Name: "Quận Ba Đình"},
		{ID: 2, Name: "Quận Hoàn Kiếm"},
	},
	48: {
		{ID: 490, Name: "Quận Liên Chiểu"},
		{ID: 492, Name: "Quận Hải Châu"},
	},
	79: {
		{ID: 760, Name: "Quận 1"},
		{ID: 769, Name: "Thành phố Thủ Đức"},
		{ID: 770, Name: "Quận 3"},
	},
}

var demoWards = map[address.ID][]address.Record{
	1: {
		{ID: 1, Name: "Phường Phúc Xá"},
		{ID: 4, Name: "Phường Trúc Bạch"},
	},
	2: {
		{ID: 37, Name: "Phường Phúc Tân"},
		{ID: 40, Name: "Phường Đồng Xuân"},
	},
	490: {
		{ID: 20194, Name: "Phường Hòa Hiệp Bắc"},
	},
	492: {
		{ID: 20227, Name: "Phường Thạch Thang"},
		{ID: 20230, Name: "Phường Hải Châu I"},
	},
	760: {
		{ID: 26734, Name: "Phường Tân Định"},
		{ID: 26737, Name: "Phường Đa Kao"},
		{ID: 26740, Name: "Phường Bến Nghé"},
	},
	769: {
		{ID: 26794, Name: "Phường Linh Xuân"},
		{ID: 26797, Name: "Phường Bình Chiểu"},
	},
	770: {
		{ID: 27139, Name: "Phường 14"},
	},
}

func demoLookup(req address.Request) []address.Record {
	switch req.Tier {
	case address.TierProvince:
		return slices.Clone(demoProvinces)
	case address.TierDistrict:
		return slices.Clone(demoDistricts[req.ParentID])
	case address.TierWard:
		return slices.Clone(demoWards[req.ParentID])
	default:
		return nil
	}
}

func demoReceipt(payload order.Payload) (*order.Receipt, error) {
	data, err := json.Marshal(map[string]any{
		"id":         fmt.Sprintf("ord_%s", uuid.NewString()[:8]),
		"status":     "pending",
		"cloth_num":  payload.ClothNum,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal demo receipt: %w", err)
	}
	return &order.Receipt{Data: data}, nil
}
