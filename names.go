package sqlw

// columnIndex maps the column names of one result to their positions. It is
// built once when the result is opened.
type columnIndex struct {
	exact  map[string]int
	folded map[string]int // normalizeColAscii(name) -> index
}

func newColumnIndex(cols []string) columnIndex {
	idx := columnIndex{
		exact:  make(map[string]int, len(cols)),
		folded: make(map[string]int, len(cols)),
	}
	// First occurrence wins for duplicate names (e.g. joins without aliases).
	for i, c := range cols {
		if _, ok := idx.exact[c]; !ok {
			idx.exact[c] = i
		}
		n := normalizeColAscii(c)
		if _, ok := idx.folded[n]; !ok {
			idx.folded[n] = i
		}
	}
	return idx
}

func (x columnIndex) lookup(name string) (int, bool) {
	if i, ok := x.exact[name]; ok {
		return i, true
	}
	i, ok := x.folded[normalizeColAscii(name)]
	return i, ok
}

// normalizeColAscii strips one layer of identifier quoting ("x", `x`, [x])
// and lower-cases ASCII letters.
func normalizeColAscii(s string) string {
	if l := len(s); l >= 2 {
		switch s[0] {
		case '"':
			if s[l-1] == '"' {
				s = s[1 : l-1]
			}
		case '`':
			if s[l-1] == '`' {
				s = s[1 : l-1]
			}
		case '[':
			if s[l-1] == ']' {
				s = s[1 : l-1]
			}
		}
	}
	return toLowerAscii(s)
}

func toLowerAscii(s string) string {
	i := 0
	for i < len(s) && !(s[i] >= 'A' && s[i] <= 'Z') {
		i++
	}
	if i == len(s) {
		return s
	}
	b := []byte(s)
	for ; i < len(b); i++ {
		if c := b[i]; c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
