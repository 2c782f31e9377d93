package correlation

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureKeepsExistingID(t *testing.T) {
	ctx := WithID(context.Background(), "abc")
	ctx, id := Ensure(ctx)
	assert.Equal(t, "abc", id)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc", got)
}

func TestEnsureMintsULID(t *testing.T) {
	ctx, id := Ensure(context.Background())
	assert.Len(t, id, 26)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestFromContextEmpty(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	assert.Equal(t, context.Background(), WithID(context.Background(), ""))
}

func TestFromHeader(t *testing.T) {
	cases := []struct {
		name    string
		inbound string
		keep    bool
	}{
		{"upstream id", " upstream-id_1.2 ", true},
		{"missing", "", false},
		{"spaces inside", "a b", false},
		{"non ascii", "facture-é", false},
		{"too long", strings.Repeat("a", maxInboundLength+1), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			h.Set(Header, tc.inbound)

			ctx, id := FromHeader(context.Background(), h)
			stored, ok := FromContext(ctx)
			require.True(t, ok)
			assert.Equal(t, id, stored)

			if tc.keep {
				assert.Equal(t, strings.TrimSpace(tc.inbound), id)
				return
			}
			assert.Len(t, id, 26)
		})
	}
}
