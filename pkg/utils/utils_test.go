package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineAmount(t *testing.T) {
	tests := []struct {
		name     string
		weight   decimal.Decimal
		price    decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "whole tons",
			weight:   decimal.NewFromInt(35),
			price:    decimal.NewFromInt(800),
			expected: decimal.NewFromInt(28000),
		},
		{
			name:     "fractional weight",
			weight:   decimal.RequireFromString("38.5"),
			price:    decimal.NewFromInt(800),
			expected: decimal.NewFromInt(30800),
		},
		{
			name:     "rounds to cents",
			weight:   decimal.RequireFromString("33.333"),
			price:    decimal.RequireFromString("712.35"),
			expected: decimal.RequireFromString("23744.76"), // 23744.76255
		},
		{
			name:     "zero price",
			weight:   decimal.NewFromInt(40),
			price:    decimal.Zero,
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := LineAmount(tt.weight, tt.price)
			assert.True(t, result.Equal(tt.expected),
				"Expected %v, but got %v", tt.expected, result)
		})
	}
}

func TestFloorZero(t *testing.T) {
	assert.True(t, FloorZero(decimal.NewFromInt(-5000)).IsZero())
	assert.True(t, FloorZero(decimal.NewFromInt(20000)).Equal(decimal.NewFromInt(20000)))
	assert.True(t, FloorZero(decimal.Zero).IsZero())
}

func TestDateOrToday(t *testing.T) {
	assert.Equal(t, "2024-01-17", DateOrToday("2024-01-17"))
	assert.Equal(t, time.Now().Format(DateLayout), DateOrToday(""))
	assert.Equal(t, time.Now().Format(DateLayout), DateOrToday("   "))
}

func TestIsDate(t *testing.T) {
	assert.True(t, IsDate("2024-02-29"))
	assert.False(t, IsDate("2023-02-29"))
	assert.False(t, IsDate("17/01/2024"))
	assert.False(t, IsDate(""))
}

func TestDriverIDFromName(t *testing.T) {
	tests := []struct {
		name  string
		left  string
		right string
		same  bool
	}{
		{name: "same name", left: "张师傅", right: "张师傅", same: true},
		{name: "surrounding spaces ignored", left: " 张师傅 ", right: "张师傅", same: true},
		{name: "blank maps to unknown driver", left: "", right: UnknownDriver, same: true},
		{name: "shared prefix still differs", left: "张师傅", right: "张师兄", same: false},
		{name: "different names", left: "李师傅", right: "王师傅", same: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r := DriverIDFromName(tt.left), DriverIDFromName(tt.right)
			if tt.same {
				assert.Equal(t, l, r)
			} else {
				assert.NotEqual(t, l, r)
			}
		})
	}
}

func TestDriverIDFromName_FixedWidth(t *testing.T) {
	for _, name := range []string{"a", "张师傅", strings.Repeat("很长的名字", 20)} {
		id := DriverIDFromName(name)
		assert.True(t, strings.HasPrefix(id, "drv_"))
		assert.Len(t, id, len("drv_")+16)
	}
}
