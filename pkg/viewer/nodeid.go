package viewer

import "strings"

// NodeID identifies a node by its position: the keys from the root joined
// with ".". Literal "." and "\" inside a key are escaped as "\." and "\\"
// so that distinct positions never share an ID. A top-level empty key is
// `\`, since the empty id is the root path.
type NodeID string

const emptyKeyID NodeID = `\`

// String returns the id text.
func (id NodeID) String() string { return string(id) }

// JoinPath builds the NodeID for path.
func JoinPath(path []string) NodeID {
	if len(path) == 1 && path[0] == "" {
		return emptyKeyID
	}
	var b strings.Builder
	for i, seg := range path {
		if i > 0 {
			b.WriteByte('.')
		}
		if !strings.ContainsAny(seg, `.\`) {
			b.WriteString(seg)
			continue
		}
		for _, r := range seg {
			if r == '.' || r == '\\' {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	return NodeID(b.String())
}

// SplitID reverses JoinPath. The empty id is the root path.
func SplitID(id NodeID) []string {
	s := string(id)
	if s == "" {
		return nil
	}
	if id == emptyKeyID {
		return []string{""}
	}
	var (
		out     []string
		cur     strings.Builder
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '.':
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		// trailing lone backslash is kept literally
		cur.WriteByte('\\')
	}
	return append(out, cur.String())
}

func childPath(path []string, key string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = key
	return out
}

func hasPrefix(path, prefix []string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i := range prefix {
		if path[i] != prefix[i] {
			return false
		}
	}
	return true
}
