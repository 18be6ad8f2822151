package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Bánh", "banh"},
		{"Đinh vít", "dinh vit"},
		{"Thép Tấm", "thep tam"},
		{"Tủ sắt", "tu sat"},
		{"điện", "dien"},
		{"Xuân Hòa", "xuan hoa"},
		{"Kho Chính", "kho chinh"},
		{"Thành Phẩm", "thanh pham"},
		{"VT-001", "vt-001"},
		{"no accents!", "no accents!"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Fold(tc.in), "Fold(%q)", tc.in)
	}
}
