package jsstring

import (
	"github.com/dolthub/swiss"
	"golang.org/x/exp/slices"
)

// wellKnown lists the strings interned at process start: property names and
// identifiers referenced often enough by the compiler and the (external) VM
// that allocating them on every occurrence would be wasteful (spec.md
// §4.2.3-§4.2.4). The set mirrors the commonly-hot ECMAScript property and
// operator names; a real engine's table would be considerably larger, but
// every name the compiler itself needs to intern (§4.1.9, names_map target)
// is covered.
var wellKnown = []string{
	"",
	"length", "prototype", "constructor", "name", "message", "stack",
	"value", "writable", "enumerable", "configurable", "get", "set",
	"this", "arguments", "undefined", "null", "true", "false",
	"NaN", "Infinity",
	"toString", "valueOf", "toJSON", "hasOwnProperty", "isPrototypeOf",
	"propertyIsEnumerable", "toLocaleString",
	"next", "done", "return", "throw",
	"Symbol.iterator", "Symbol.asyncIterator",
	"call", "apply", "bind",
	"global", "globalThis",
	"Object", "Array", "Function", "String", "Number", "Boolean",
	"Math", "JSON", "Date", "RegExp", "Error", "TypeError", "RangeError",
	"SyntaxError", "ReferenceError",
	"default", "as", "from", "of",
	"Map", "Set", "WeakMap", "WeakSet", "Promise", "Symbol",
	"size", "byteLength", "buffer",
}

var (
	statics     []*staticEntry
	staticIndex *swiss.Map[string, int]
	internEmpty String
)

func init() {
	// Deduplicate and sort for a deterministic table regardless of slice
	// literal order above.
	names := slices.Clone(wellKnown)
	slices.Sort(names)
	names = slices.Compact(names)

	statics = make([]*staticEntry, len(names))
	staticIndex = swiss.NewMap[string, int](uint32(len(names)))
	for i, n := range names {
		units := make([]uint16, len(n))
		enc := Latin1
		for j := 0; j < len(n); j++ {
			units[j] = uint16(n[j])
			if units[j] >= 256 {
				enc = UTF16
			}
		}
		e := &staticEntry{idx: i, encoding: enc, units: units}
		statics[i] = e
		staticIndex.Put(n, i)
		if n == "" {
			internEmpty = String{stat: e}
		}
	}
}

// asciiKey returns the Go string formed by treating each code unit as a byte
// and reports whether that is lossless, i.e. every unit is < 128. The static
// table contains only plain-ASCII entries, so a non-ASCII input can never
// match and the lookup short-circuits.
func asciiKey(at func(int) uint16, n int) (string, bool) {
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		cu := at(i)
		if cu >= 128 {
			return "", false
		}
		b[i] = byte(cu)
	}
	return string(b), true
}

func lookupStaticLatin1(b []byte) (*staticEntry, bool) {
	key, ok := asciiKey(func(i int) uint16 { return uint16(b[i]) }, len(b))
	if !ok {
		return nil, false
	}
	idx, ok := staticIndex.Get(key)
	if !ok {
		return nil, false
	}
	return statics[idx], true
}

func lookupStaticUTF16(u []uint16) (*staticEntry, bool) {
	key, ok := asciiKey(func(i int) uint16 { return u[i] }, len(u))
	if !ok {
		return nil, false
	}
	idx, ok := staticIndex.Get(key)
	if !ok {
		return nil, false
	}
	return statics[idx], true
}

// Intern returns the static handle for name if it is a well-known string,
// and reports whether one exists. It does not allocate.
func Intern(name string) (String, bool) {
	idx, ok := staticIndex.Get(name)
	if !ok {
		return String{}, false
	}
	return String{stat: statics[idx]}, true
}
