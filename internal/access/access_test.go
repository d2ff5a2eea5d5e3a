package access

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanEdit(t *testing.T) {
	cases := []struct {
		name       string
		viewer     Viewer
		ownerID    uint
		fullAccess bool
		want       bool
	}{
		{name: "owner viewing own profile", viewer: Viewer{UserID: 7}, ownerID: 7, want: true},
		{name: "other user without grant", viewer: Viewer{UserID: 8}, ownerID: 7, want: false},
		{name: "delegated full access wins", viewer: Viewer{UserID: 8}, ownerID: 7, fullAccess: true, want: true},
		{name: "full access without session", viewer: Viewer{}, ownerID: 7, fullAccess: true, want: true},
		{name: "no session no grant", viewer: Viewer{}, ownerID: 7, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CanEdit(tc.viewer, tc.ownerID, tc.fullAccess))
		})
	}
}

func TestAnonymous(t *testing.T) {
	require.True(t, Viewer{}.Anonymous())
	require.False(t, Viewer{UserID: 1}.Anonymous())
}
