// Package ast defines the syntax-node model shared by the C++ front end
// and the graph engine. The front end converts parsed nodes into this form
// one at a time during its depth-first walk; the engine never touches the
// underlying parse tree.
package ast

// Ref is a stable identity for a syntax node. The front end derives refs so
// that the same declaration encountered from multiple translation units
// (typically via shared headers) yields the same ref, while positional nodes
// are keyed by file and offset. NilRef marks a missing or malformed node.
type Ref uint64

// NilRef is the null node reference.
const NilRef Ref = 0

// Location is a resolved source span. Invalid positions (compiler-synthesized
// nodes, macro expansions the parser could not place) leave Valid false.
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	Valid     bool
}

// Access is a C++ member access specifier.
type Access string

const (
	AccessPublic    Access = "public"
	AccessProtected Access = "protected"
	AccessPrivate   Access = "private"
	AccessNone      Access = "none"
)

// Storage is a declaration storage class.
type Storage string

const (
	StorageNone     Storage = "none"
	StorageStatic   Storage = "static"
	StorageExtern   Storage = "extern"
	StorageAuto     Storage = "auto"
	StorageRegister Storage = "register"
)

// TypeCategory classifies a type by its structural shape.
type TypeCategory string

const (
	TypeBuiltin       TypeCategory = "builtin"
	TypePointer       TypeCategory = "pointer"
	TypeReference     TypeCategory = "reference"
	TypeArray         TypeCategory = "array"
	TypeFunction      TypeCategory = "function"
	TypeRecord        TypeCategory = "record"
	TypeEnum          TypeCategory = "enum"
	TypeTemplateParam TypeCategory = "template_param"
	TypeUserDefined   TypeCategory = "user_defined"
)

// RefKind tags a reference site.
type RefKind string

const (
	RefUses  RefKind = "uses"
	RefCalls RefKind = "calls"
)

// DeclInfo carries declaration-specific extraction inputs. QualifiedName is
// normally empty and derived by the engine from the scope chain; the resolver
// pre-fills it for declarations reached outside the traversal (reference
// targets, base classes, primary templates).
type DeclInfo struct {
	Name           string
	QualifiedName  string
	Access         Access
	Storage        Storage
	HasBody        bool
	HasInitializer bool
	Defining       bool // defining occurrence of a tag/namespace
}

// TypeInfo describes a type entity.
type TypeInfo struct {
	Name     string
	Category TypeCategory
	Const    bool
	Volatile bool
}

// StmtInfo carries statement-specific extraction inputs. ExprKind is the
// kind of the wrapped expression for expression statements, KindUnknown
// otherwise.
type StmtInfo struct {
	ExprKind Kind
}

// ExprInfo carries expression-specific extraction inputs.
type ExprInfo struct {
	ValueCategory string
	Literal       string
	Operator      string
}

// AuxInfo carries inputs for the auxiliary entity kinds. Only the fields
// relevant to the node's kind are set.
type AuxInfo struct {
	Name           string // macro name, template parameter name
	IsFunctionLike bool   // function-like macro
	Path           string // include path
	IsSystem       bool   // <...> include
	Directive      string // pragma directive text
	Text           string // comment text
	IsDoc          bool   // doc-style comment
	Message        string // static assertion message
	Result         string // constant-expression evaluation result
	BlockIndex     int    // control-flow-graph block index
	ParamKind      string // template parameter kind (type, non-type, template)
	Position       int    // template parameter position
	TargetName     string // using-declaration target
}

// BaseClause is one entry of a class definition's base list.
type BaseClause struct {
	Base    *Node
	Access  Access
	Virtual bool
}

// Node is the engine's view of one visited syntax node. Cross-links (Target,
// Bases, Template, Overridden, DocComment, DeclType) point at nodes that may
// not have been visited yet; the engine materializes them on demand through
// the identity registry.
type Node struct {
	Ref      Ref
	Kind     Kind
	Loc      Location
	Implicit bool
	Snippet  string

	Decl *DeclInfo
	Type *TypeInfo
	Stmt *StmtInfo
	Expr *ExprInfo
	Aux  *AuxInfo

	// Semantic cross-links.
	DeclType     *Node        // type of a value/function declaration
	Target       *Node        // resolved declaration for a reference site
	TargetKind   RefKind      // uses or calls
	Bases        []BaseClause // direct bases of a class definition
	Template     *Node        // primary template of a specialization
	TemplateKind string       // explicit_specialization, partial_specialization, instantiation
	Overridden   []*Node      // methods this method overrides
	DocComment   *Node        // preceding documentation comment
}

// Name returns the declared name, or "" for unnamed nodes.
func (n *Node) Name() string {
	if n == nil || n.Decl == nil {
		return ""
	}
	return n.Decl.Name
}
