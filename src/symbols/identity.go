package symbols

import "strings"

// DefaultNamespace is assumed when an identity omits its namespace.
const DefaultNamespace = "minecraft"

// Identity is a namespaced identifier, e.g. "mypack:foo/bar". The path
// is stored as its slash-separated segments.
type Identity struct {
	Namespace string
	Path      []string
}

// ParseIdentity splits a raw identifier string into namespace and path
// segments. A missing namespace resolves to DefaultNamespace; a bare
// leading colon keeps the empty namespace explicit so that String
// round-trips the original form.
func ParseIdentity(raw string) Identity {
	namespace := DefaultNamespace
	path := raw
	if i := strings.Index(raw, ":"); i >= 0 {
		namespace = raw[:i]
		path = raw[i+1:]
	}
	return Identity{Namespace: namespace, Path: strings.Split(path, "/")}
}

// String renders the canonical "namespace:path" form. The namespace is
// always printed, including the default one, so identity strings used
// as Category keys are unique.
func (id Identity) String() string {
	return id.Namespace + ":" + strings.Join(id.Path, "/")
}

// Equal reports whether two identities refer to the same symbol.
func (id Identity) Equal(other Identity) bool {
	if id.Namespace != other.Namespace || len(id.Path) != len(other.Path) {
		return false
	}
	for i := range id.Path {
		if id.Path[i] != other.Path[i] {
			return false
		}
	}
	return true
}
