package scene

import "strings"

// Path is an absolute, slash-separated prim path such as
// "/procedural/mesh0". The root is "/".
type Path string

const RootPath Path = "/"

// AppendChild returns p with name appended as a new last element.
func (p Path) AppendChild(name string) Path {
	if p == "" || p == RootPath {
		return Path("/" + name)
	}
	return Path(string(p) + "/" + name)
}

// AppendPath appends each element of rel, a relative path such as
// "prototypes/mesh", to p.
func (p Path) AppendPath(rel string) Path {
	out := p
	for _, elem := range strings.Split(rel, "/") {
		if elem != "" {
			out = out.AppendChild(elem)
		}
	}
	return out
}

// Name returns the last element of p.
func (p Path) Name() string {
	s := string(p)
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Parent returns p without its last element.
func (p Path) Parent() Path {
	s := string(p)
	i := strings.LastIndexByte(s, '/')
	if i <= 0 {
		return RootPath
	}
	return Path(s[:i])
}

// HasPrefix reports whether p is prefix or lies below it.
func (p Path) HasPrefix(prefix Path) bool {
	if prefix == RootPath {
		return strings.HasPrefix(string(p), "/")
	}
	s, pre := string(p), string(prefix)
	return s == pre || strings.HasPrefix(s, pre+"/")
}

func (p Path) String() string { return string(p) }
