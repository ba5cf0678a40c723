package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"đà nẵng":               "da nang",
		"ĐÀ NẴNG":               "da nang",
		"Thành phố Hồ Chí Minh": "thanh pho ho chi minh",
		"  Huế   cố đô ":        "hue co do",
		"Quận Bình Thạnh":       "quan binh thanh",
		"":                      "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("Đà Nẵng Center", "da nang"))
	assert.True(t, Matches("123 Da Nang St.", "đà nẵng"))
	assert.False(t, Matches("Hanoi", "da nang"))
	assert.True(t, Matches("Hanoi", ""))
	assert.True(t, Matches("", ""))
	assert.False(t, Matches("", "hanoi"))
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, MatchesAny("bách khoa", "Phòng trọ A", "Gần ĐH Bách Khoa"))
	assert.False(t, MatchesAny("bach khoa", "Phòng trọ A", "Quận 7"))
	assert.True(t, MatchesAny("  ", "anything"))
}
