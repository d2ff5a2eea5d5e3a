// Package access resolves what the authenticated viewer may do with a fetched
// resource. The server-computed full-access flag always wins when present;
// the identity comparison covers the common self-view case.
package access

// Viewer identifies the authenticated user making the request. A zero ID
// means no session.
type Viewer struct {
	UserID uint
	Role   string
}

// Anonymous reports whether there is no authenticated session.
func (v Viewer) Anonymous() bool {
	return v.UserID == 0
}

// CanEdit reports whether the viewer may see edit affordances on a resource
// owned by ownerID. fullAccess is the server-computed capability flag covering
// delegated and administrative access.
func CanEdit(v Viewer, ownerID uint, fullAccess bool) bool {
	if fullAccess {
		return true
	}
	if v.Anonymous() {
		return false
	}
	return v.UserID == ownerID
}
