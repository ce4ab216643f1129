package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfIsDeterministic(t *testing.T) {
	a := Of("Breaking: patch released", "Vendor ships fix for CVE-2024-0001")
	b := Of("Breaking: patch released", "Vendor ships fix for CVE-2024-0001")
	require.Equal(t, a, b)
	assert.Len(t, a, Size)
}

func TestOfDistinguishesPairs(t *testing.T) {
	cases := [][2]string{
		{"title", "summary"},
		{"Title", "summary"},
		{"title", "summary "},
		{"title", ""},
		{"", "title"},
		{"a|", "b"},
		{"a", "|b"},
		{"ab", ""},
		{"a", "b"},
	}
	seen := map[string][2]string{}
	for _, c := range cases {
		fp := Of(c[0], c[1])
		if prev, ok := seen[fp]; ok {
			t.Fatalf("collision between %q and %q", prev, c)
		}
		seen[fp] = c
	}
}

func TestOfEmptyInputs(t *testing.T) {
	fp := Of("", "")
	assert.Len(t, fp, Size)
	assert.Equal(t, fp, Of("", ""))
}
