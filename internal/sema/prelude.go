package sema

import "strings"

// Lang trait paths. Paths under std:: and alloc:: resolve to the same traits.
const (
	PathDefault    = "core::default::Default"
	PathClone      = "core::clone::Clone"
	PathCopy       = "core::marker::Copy"
	PathDebug      = "core::fmt::Debug"
	PathPartialEq  = "core::cmp::PartialEq"
	PathEq         = "core::cmp::Eq"
	PathPartialOrd = "core::cmp::PartialOrd"
	PathOrd        = "core::cmp::Ord"
	PathHash       = "core::hash::Hash"
)

var langTraits = []string{
	PathDefault, PathClone, PathCopy, PathDebug,
	PathPartialEq, PathEq, PathPartialOrd, PathOrd, PathHash,
}

// libAdt describes a standard library type the crate may name without
// declaring it. always lists lang traits implemented regardless of the type
// arguments; the remaining lang traits hold iff every argument implements them.
type libAdt struct {
	name   string
	params int
	always []string
	never  []string
}

var libAdts = []libAdt{
	{name: "String", always: []string{PathDefault}, never: []string{PathCopy}},
	{name: "Vec", params: 1, always: []string{PathDefault}, never: []string{PathCopy}},
	{name: "VecDeque", params: 1, always: []string{PathDefault}, never: []string{PathCopy}},
	{name: "HashMap", params: 2, always: []string{PathDefault}, never: []string{PathCopy, PathHash, PathOrd, PathPartialOrd}},
	{name: "HashSet", params: 1, always: []string{PathDefault}, never: []string{PathCopy, PathHash, PathOrd, PathPartialOrd}},
	{name: "BTreeMap", params: 2, always: []string{PathDefault}, never: []string{PathCopy}},
	{name: "BTreeSet", params: 1, always: []string{PathDefault}, never: []string{PathCopy}},
	{name: "Option", params: 1, always: []string{PathDefault}},
	{name: "PhantomData", params: 1, always: []string{PathDefault, PathClone, PathCopy, PathDebug, PathPartialEq, PathEq, PathPartialOrd, PathOrd, PathHash}},
	{name: "Box", params: 1, never: []string{PathCopy}},
	{name: "Rc", params: 1, always: []string{PathClone}, never: []string{PathCopy}},
	{name: "Arc", params: 1, always: []string{PathClone}, never: []string{PathCopy}},
	{name: "Cell", params: 1, never: []string{PathCopy, PathHash}},
	{name: "RefCell", params: 1, never: []string{PathCopy, PathHash}},
	{name: "Mutex", params: 1, never: []string{PathClone, PathCopy, PathPartialEq, PathEq, PathPartialOrd, PathOrd, PathHash}},
	{name: "RwLock", params: 1, never: []string{PathClone, PathCopy, PathPartialEq, PathEq, PathPartialOrd, PathOrd, PathHash}},
	{name: "Wrapping", params: 1},
	{name: "Duration", always: []string{PathDefault, PathClone, PathCopy, PathDebug, PathPartialEq, PathEq, PathPartialOrd, PathOrd, PathHash}},
	{name: "Result", params: 2, never: []string{PathDefault}},
	{name: "File", never: []string{PathDefault, PathClone, PathCopy, PathPartialEq, PathEq, PathPartialOrd, PathOrd, PathHash}},
}

func (l *libAdt) verdict(path string) (implemented, decided bool) {
	for _, p := range l.always {
		if p == path {
			return true, true
		}
	}
	for _, p := range l.never {
		if p == path {
			return false, true
		}
	}
	return false, false
}

var primitiveNames = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "usize": true,
	"f32": true, "f64": true, "bool": true, "char": true, "str": true,
}

// canonicalTraitPath maps `std::fmt::Debug`, `::core::fmt::Debug` and
// `alloc::..` spellings onto the core path.
func canonicalTraitPath(path string) string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "::")
	for _, prefix := range []string{"std::", "alloc::"} {
		if strings.HasPrefix(path, prefix) {
			return "core::" + strings.TrimPrefix(path, prefix)
		}
	}
	return path
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "::"); i >= 0 {
		return path[i+2:]
	}
	return path
}
