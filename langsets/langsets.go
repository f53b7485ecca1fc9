// Package langsets holds the frozen per-language name sets that keep
// extraction and resolution from treating built-ins, common methods, and
// known external packages as project-graph targets.
package langsets

// StringSet is a read-only membership set.
type StringSet map[string]struct{}

// Of builds a StringSet from a literal list.
func Of(names ...string) StringSet {
	s := make(StringSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports membership; a nil set never matches.
func (s StringSet) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s[name]
	return ok
}

// GoBuiltins are Go predeclared identifiers and universe-block names; a
// call to one of these is never a project-graph edge.
var GoBuiltins = Of(
	"append", "cap", "close", "complex", "copy", "delete", "imag", "len",
	"make", "new", "panic", "print", "println", "real", "recover", "min", "max", "clear",
	"true", "false", "iota", "nil",
	"bool", "byte", "complex64", "complex128", "error", "float32", "float64",
	"int", "int8", "int16", "int32", "int64", "rune", "string",
	"uint", "uint8", "uint16", "uint32", "uint64", "uintptr", "any", "comparable",
)

// GoStdlibPackages are standard-library import-path roots. No extractor or
// resolver consults this set; calls qualified through these packages are
// not filtered.
var GoStdlibPackages = Of(
	"bufio", "bytes", "cmp", "compress", "container", "context", "crypto",
	"database", "debug", "encoding", "errors", "expvar", "flag", "fmt", "go",
	"hash", "html", "image", "index", "io", "log", "maps", "math", "mime",
	"net", "os", "path", "plugin", "reflect", "regexp", "runtime", "slices",
	"sort", "strconv", "strings", "sync", "syscall", "testing", "text",
	"time", "unicode", "unsafe", "embed", "iter",
)

// GoCommonMethods are method names so common across unrelated receiver
// types that a bare qualified call to them is not a reliable cross-file
// edge unless the receiver has been type-resolved.
var GoCommonMethods = Of(
	"String", "Error", "Close", "Write", "Read", "Len", "Get", "Set", "Add",
	"Remove", "Delete", "Append", "Clone", "Copy", "Equal", "Marshal",
	"Unmarshal", "Lock", "Unlock", "RLock", "RUnlock", "Done", "Wait",
	"Stop", "Start", "Run",
)

// GoKnownExternalPackages are well-known third-party module path roots
// observed across the retrieved corpus. No extractor or resolver consults
// this set; calls through these packages are not dropped.
var GoKnownExternalPackages = Of(
	"github.com", "golang.org", "google.golang.org", "gopkg.in",
	"k8s.io", "cloud.google.com",
)

// TSBuiltins are TypeScript/JavaScript global identifiers.
var TSBuiltins = Of(
	"console", "Object", "Array", "String", "Number", "Boolean", "Symbol",
	"Promise", "Map", "Set", "WeakMap", "WeakSet", "Date", "RegExp",
	"Error", "TypeError", "RangeError", "JSON", "Math", "Reflect", "Proxy",
	"undefined", "null", "NaN", "Infinity", "globalThis", "window",
	"document", "require", "module", "exports", "process", "Buffer",
	"setTimeout", "setInterval", "clearTimeout", "clearInterval",
	"parseInt", "parseFloat", "isNaN", "isFinite", "encodeURIComponent",
	"decodeURIComponent",
)

var TSCommonMethods = Of(
	"then", "catch", "finally", "map", "filter", "reduce", "forEach",
	"push", "pop", "shift", "unshift", "slice", "splice", "concat",
	"join", "split", "indexOf", "includes", "find", "findIndex", "sort",
	"reverse", "toString", "valueOf", "hasOwnProperty", "keys", "values",
	"entries", "assign", "freeze", "stringify", "parse", "log", "warn",
	"error", "info", "debug",
)

var TSTypeBuiltins = Of(
	"string", "number", "boolean", "void", "any", "unknown", "never",
	"object", "undefined", "null", "symbol", "bigint",
	"T", "K", "V", "U", "P", "R",
)

var RustBuiltins = Of(
	"println", "print", "format", "vec", "panic", "assert", "assert_eq",
	"assert_ne", "matches", "todo", "unimplemented", "unreachable", "dbg",
	"Some", "None", "Ok", "Err", "Box", "Rc", "Arc", "RefCell", "Cell",
	"String", "Vec", "HashMap", "HashSet", "BTreeMap", "BTreeSet", "Option",
	"Result", "Self", "self",
)

var RustCommonMethods = Of(
	"new", "clone", "default", "into", "from", "as_ref", "as_mut",
	"unwrap", "unwrap_or", "unwrap_or_else", "expect", "map", "and_then",
	"iter", "iter_mut", "into_iter", "collect", "push", "pop", "len",
	"is_empty", "contains", "get", "insert", "remove",
)

var CPPBuiltins = Of(
	"std", "cout", "cin", "endl", "nullptr", "true", "false",
	"int", "float", "double", "char", "bool", "void", "long", "short",
	"unsigned", "signed", "auto", "const", "static", "vector", "string",
	"map", "set", "pair", "shared_ptr", "unique_ptr",
)

var CPPCommonMethods = Of(
	"push_back", "pop_back", "size", "empty", "begin", "end", "clear",
	"insert", "erase", "find", "at", "front", "back", "resize", "reserve",
)

var CBuiltins = Of(
	"printf", "scanf", "malloc", "free", "calloc", "realloc", "memcpy",
	"memset", "strlen", "strcpy", "strcmp", "sizeof", "NULL", "int",
	"char", "float", "double", "void", "long", "short", "unsigned",
	"signed", "struct", "union", "enum", "static", "const",
)

// CCommonMethods is empty: C has no methods.
var CCommonMethods = StringSet(nil)

var JavaBuiltins = Of(
	"System", "String", "Object", "Integer", "Long", "Double", "Float",
	"Boolean", "Character", "Byte", "Short", "Void", "Math", "Exception",
	"RuntimeException", "Override", "this", "super", "null", "true",
	"false", "List", "Map", "Set", "ArrayList", "HashMap", "HashSet",
)

var JavaCommonMethods = Of(
	"toString", "equals", "hashCode", "getClass", "get", "set", "put",
	"add", "remove", "size", "isEmpty", "contains", "iterator", "build",
	"builder", "of", "stream", "forEach", "map", "filter", "collect",
)

// FrameworkDeadCodePatterns are bare-name prefixes/exacts that dead-code
// detection excludes when exclude_framework is set.
var FrameworkDeadCodePatterns = []string{"test_", "visit_", "setUp", "tearDown", "Test", "Visit"}

// SupportedExtensions is the single source of truth for registry dispatch.
var SupportedExtensions = []string{
	".go",
	".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs",
	".rs",
	".cpp", ".cc", ".cxx", ".hpp", ".hh", ".hxx", ".h", ".c",
	".java",
}
