package ast

// Kind identifies the concrete type of a Node.
type Kind int

const (
	KindModule Kind = iota

	// Statements.
	KindFunctionDef
	KindClassDef
	KindReturn
	KindRaise
	KindBreak
	KindContinue
	KindPass
	KindIf
	KindFor
	KindWhile
	KindTry
	KindExceptHandler
	KindWith
	KindAssert
	KindImport
	KindImportFrom
	KindAssign
	KindAugAssign
	KindAnnAssign
	KindExprStmt
	KindDelete
	KindGlobal
	KindOtherStmt

	// Expressions.
	KindName
	KindAttribute
	KindCall
	KindBoolOp
	KindSubscript
	KindStarred
	KindConstant
	KindLambda
	KindIfExp
	KindNamedExpr
	KindComprehension
	KindCollection
	KindOtherExpr
)

var kindNames = [...]string{
	KindModule:        "Module",
	KindFunctionDef:   "FunctionDef",
	KindClassDef:      "ClassDef",
	KindReturn:        "Return",
	KindRaise:         "Raise",
	KindBreak:         "Break",
	KindContinue:      "Continue",
	KindPass:          "Pass",
	KindIf:            "If",
	KindFor:           "For",
	KindWhile:         "While",
	KindTry:           "Try",
	KindExceptHandler: "ExceptHandler",
	KindWith:          "With",
	KindAssert:        "Assert",
	KindImport:        "Import",
	KindImportFrom:    "ImportFrom",
	KindAssign:        "Assign",
	KindAugAssign:     "AugAssign",
	KindAnnAssign:     "AnnAssign",
	KindExprStmt:      "Expr",
	KindDelete:        "Delete",
	KindGlobal:        "Global",
	KindOtherStmt:     "OtherStmt",
	KindName:          "Name",
	KindAttribute:     "Attribute",
	KindCall:          "Call",
	KindBoolOp:        "BoolOp",
	KindSubscript:     "Subscript",
	KindStarred:       "Starred",
	KindConstant:      "Constant",
	KindLambda:        "Lambda",
	KindIfExp:         "IfExp",
	KindNamedExpr:     "NamedExpr",
	KindComprehension: "Comprehension",
	KindCollection:    "Collection",
	KindOtherExpr:     "OtherExpr",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Context is the role a name plays at the point it appears.
type Context int

const (
	Load Context = iota
	Store
	Del
)

func (c Context) String() string {
	switch c {
	case Store:
		return "Store"
	case Del:
		return "Del"
	default:
		return "Load"
	}
}

// BoolOperator is the operator of a BoolOp.
type BoolOperator int

const (
	And BoolOperator = iota
	Or
)

func (o BoolOperator) String() string {
	if o == Or {
		return "or"
	}
	return "and"
}

// Node is implemented by every syntax tree node. The interface is sealed:
// only types in this package satisfy it.
type Node interface {
	Kind() Kind
	// Pos returns the 1-based line the node starts on.
	Pos() int
	node()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Module is the root of a parsed source unit.
type Module struct {
	Path string
	Body []Stmt
}

// Param is one function or lambda parameter.
type Param struct {
	Name       string
	Annotation Expr
	Default    Expr
}

// Keyword is a keyword argument in a call or class header.
type Keyword struct {
	Name  string // empty for **kwargs
	Value Expr
}

// Alias is one name bound by an import statement.
type Alias struct {
	Name   string // dotted module or member name as written
	AsName string
}

// WithItem is one context manager of a with statement.
type WithItem struct {
	Context Expr
	Vars    Expr // nil when there is no "as" clause
}

// Generator is one for clause of a comprehension.
type Generator struct {
	Target Expr
	Iter   Expr
	Ifs    []Expr
	Async  bool
}

type (
	FunctionDef struct {
		Line       int
		Name       string
		Async      bool
		Decorators []Expr
		Params     []Param
		Returns    Expr
		Body       []Stmt
	}

	ClassDef struct {
		Line       int
		Name       string
		Decorators []Expr
		Bases      []Expr
		Keywords   []Keyword
		Body       []Stmt
	}

	Return struct {
		Line  int
		Value Expr
	}

	Raise struct {
		Line  int
		Exc   Expr
		Cause Expr
	}

	Break struct {
		Line int
	}

	Continue struct {
		Line int
	}

	Pass struct {
		Line int
	}

	// If is an if statement. An elif chain is an If nested as the only
	// statement of Orelse.
	If struct {
		Line   int
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	For struct {
		Line   int
		Async  bool
		Target Expr
		Iter   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	While struct {
		Line   int
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	Try struct {
		Line      int
		Star      bool // except* groups
		Body      []Stmt
		Handlers  []*ExceptHandler
		Orelse    []Stmt
		Finalbody []Stmt
	}

	// ExceptHandler is a single except clause. It is neither a statement nor
	// an expression.
	ExceptHandler struct {
		Line int
		Type Expr
		Name string
		Body []Stmt
	}

	With struct {
		Line  int
		Async bool
		Items []WithItem
		Body  []Stmt
	}

	Assert struct {
		Line int
		Test Expr
		Msg  Expr
	}

	Import struct {
		Line  int
		Names []Alias
	}

	ImportFrom struct {
		Line   int
		Module string
		Level  int
		Names  []Alias // a single "*" alias for wildcard imports
	}

	Assign struct {
		Line    int
		Targets []Expr
		Value   Expr
	}

	AugAssign struct {
		Line   int
		Target Expr
		Op     string
		Value  Expr
	}

	AnnAssign struct {
		Line       int
		Target     Expr
		Annotation Expr
		Value      Expr
	}

	ExprStmt struct {
		Line  int
		Value Expr
	}

	Delete struct {
		Line    int
		Targets []Expr
	}

	Global struct {
		Line     int
		Nonlocal bool
		Names    []string
	}

	// OtherStmt holds statements without a dedicated kind, such as match,
	// type aliases and print statements, keeping their expressions and
	// nested blocks reachable.
	OtherStmt struct {
		Line   int
		Type   string
		Exprs  []Expr
		Bodies [][]Stmt
	}
)

type (
	Name struct {
		Line int
		ID   string
		Ctx  Context
	}

	Attribute struct {
		Line  int
		Value Expr
		Attr  string
		Ctx   Context
	}

	Call struct {
		Line     int
		Func     Expr
		Args     []Expr
		Keywords []Keyword
	}

	// BoolOp is a flattened chain of one boolean operator: a or b or c has
	// three Values.
	BoolOp struct {
		Line   int
		Op     BoolOperator
		Values []Expr
	}

	Subscript struct {
		Line  int
		Value Expr
		Slice Expr
		Ctx   Context
	}

	Starred struct {
		Line  int
		Value Expr
		Ctx   Context
	}

	Constant struct {
		Line int
		Text string
	}

	Lambda struct {
		Line   int
		Params []Param
		Body   Expr
	}

	IfExp struct {
		Line   int
		Test   Expr
		Body   Expr
		Orelse Expr
	}

	NamedExpr struct {
		Line   int
		Target *Name
		Value  Expr
	}

	// Comprehension covers list, set, dict and generator comprehensions.
	// Elts holds the element expression, or key and value for dicts.
	Comprehension struct {
		Line       int
		Type       string
		Elts       []Expr
		Generators []Generator
	}

	// Collection covers tuple, list, set and dict displays. Dict displays
	// store keys and values interleaved.
	Collection struct {
		Line int
		Type string
		Elts []Expr
		Ctx  Context
	}

	// OtherExpr holds expressions without a dedicated kind, such as binary
	// operators, comparisons, await and formatted strings.
	OtherExpr struct {
		Line     int
		Type     string
		Operands []Expr
	}
)

func (*Module) Kind() Kind        { return KindModule }
func (*FunctionDef) Kind() Kind   { return KindFunctionDef }
func (*ClassDef) Kind() Kind      { return KindClassDef }
func (*Return) Kind() Kind        { return KindReturn }
func (*Raise) Kind() Kind         { return KindRaise }
func (*Break) Kind() Kind         { return KindBreak }
func (*Continue) Kind() Kind      { return KindContinue }
func (*Pass) Kind() Kind          { return KindPass }
func (*If) Kind() Kind            { return KindIf }
func (*For) Kind() Kind           { return KindFor }
func (*While) Kind() Kind         { return KindWhile }
func (*Try) Kind() Kind           { return KindTry }
func (*ExceptHandler) Kind() Kind { return KindExceptHandler }
func (*With) Kind() Kind          { return KindWith }
func (*Assert) Kind() Kind        { return KindAssert }
func (*Import) Kind() Kind        { return KindImport }
func (*ImportFrom) Kind() Kind    { return KindImportFrom }
func (*Assign) Kind() Kind        { return KindAssign }
func (*AugAssign) Kind() Kind     { return KindAugAssign }
func (*AnnAssign) Kind() Kind     { return KindAnnAssign }
func (*ExprStmt) Kind() Kind      { return KindExprStmt }
func (*Delete) Kind() Kind        { return KindDelete }
func (*Global) Kind() Kind        { return KindGlobal }
func (*OtherStmt) Kind() Kind     { return KindOtherStmt }
func (*Name) Kind() Kind          { return KindName }
func (*Attribute) Kind() Kind     { return KindAttribute }
func (*Call) Kind() Kind          { return KindCall }
func (*BoolOp) Kind() Kind        { return KindBoolOp }
func (*Subscript) Kind() Kind     { return KindSubscript }
func (*Starred) Kind() Kind       { return KindStarred }
func (*Constant) Kind() Kind      { return KindConstant }
func (*Lambda) Kind() Kind        { return KindLambda }
func (*IfExp) Kind() Kind         { return KindIfExp }
func (*NamedExpr) Kind() Kind     { return KindNamedExpr }
func (*Comprehension) Kind() Kind { return KindComprehension }
func (*Collection) Kind() Kind    { return KindCollection }
func (*OtherExpr) Kind() Kind     { return KindOtherExpr }

func (*Module) Pos() int          { return 1 }
func (n *FunctionDef) Pos() int   { return n.Line }
func (n *ClassDef) Pos() int      { return n.Line }
func (n *Return) Pos() int        { return n.Line }
func (n *Raise) Pos() int         { return n.Line }
func (n *Break) Pos() int         { return n.Line }
func (n *Continue) Pos() int      { return n.Line }
func (n *Pass) Pos() int          { return n.Line }
func (n *If) Pos() int            { return n.Line }
func (n *For) Pos() int           { return n.Line }
func (n *While) Pos() int         { return n.Line }
func (n *Try) Pos() int           { return n.Line }
func (n *ExceptHandler) Pos() int { return n.Line }
func (n *With) Pos() int          { return n.Line }
func (n *Assert) Pos() int        { return n.Line }
func (n *Import) Pos() int        { return n.Line }
func (n *ImportFrom) Pos() int    { return n.Line }
func (n *Assign) Pos() int        { return n.Line }
func (n *AugAssign) Pos() int     { return n.Line }
func (n *AnnAssign) Pos() int     { return n.Line }
func (n *ExprStmt) Pos() int      { return n.Line }
func (n *Delete) Pos() int        { return n.Line }
func (n *Global) Pos() int        { return n.Line }
func (n *OtherStmt) Pos() int     { return n.Line }
func (n *Name) Pos() int          { return n.Line }
func (n *Attribute) Pos() int     { return n.Line }
func (n *Call) Pos() int          { return n.Line }
func (n *BoolOp) Pos() int        { return n.Line }
func (n *Subscript) Pos() int     { return n.Line }
func (n *Starred) Pos() int       { return n.Line }
func (n *Constant) Pos() int      { return n.Line }
func (n *Lambda) Pos() int        { return n.Line }
func (n *IfExp) Pos() int         { return n.Line }
func (n *NamedExpr) Pos() int     { return n.Line }
func (n *Comprehension) Pos() int { return n.Line }
func (n *Collection) Pos() int    { return n.Line }
func (n *OtherExpr) Pos() int     { return n.Line }

func (*Module) node()        {}
func (*FunctionDef) node()   {}
func (*ClassDef) node()      {}
func (*Return) node()        {}
func (*Raise) node()         {}
func (*Break) node()         {}
func (*Continue) node()      {}
func (*Pass) node()          {}
func (*If) node()            {}
func (*For) node()           {}
func (*While) node()         {}
func (*Try) node()           {}
func (*ExceptHandler) node() {}
func (*With) node()          {}
func (*Assert) node()        {}
func (*Import) node()        {}
func (*ImportFrom) node()    {}
func (*Assign) node()        {}
func (*AugAssign) node()     {}
func (*AnnAssign) node()     {}
func (*ExprStmt) node()      {}
func (*Delete) node()        {}
func (*Global) node()        {}
func (*OtherStmt) node()     {}
func (*Name) node()          {}
func (*Attribute) node()     {}
func (*Call) node()          {}
func (*BoolOp) node()        {}
func (*Subscript) node()     {}
func (*Starred) node()       {}
func (*Constant) node()      {}
func (*Lambda) node()        {}
func (*IfExp) node()         {}
func (*NamedExpr) node()     {}
func (*Comprehension) node() {}
func (*Collection) node()    {}
func (*OtherExpr) node()     {}

func (*FunctionDef) stmtNode() {}
func (*ClassDef) stmtNode()    {}
func (*Return) stmtNode()      {}
func (*Raise) stmtNode()       {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
func (*Pass) stmtNode()        {}
func (*If) stmtNode()          {}
func (*For) stmtNode()         {}
func (*While) stmtNode()       {}
func (*Try) stmtNode()         {}
func (*With) stmtNode()        {}
func (*Assert) stmtNode()      {}
func (*Import) stmtNode()      {}
func (*ImportFrom) stmtNode()  {}
func (*Assign) stmtNode()      {}
func (*AugAssign) stmtNode()   {}
func (*AnnAssign) stmtNode()   {}
func (*ExprStmt) stmtNode()    {}
func (*Delete) stmtNode()      {}
func (*Global) stmtNode()      {}
func (*OtherStmt) stmtNode()   {}

func (*Name) exprNode()          {}
func (*Attribute) exprNode()     {}
func (*Call) exprNode()          {}
func (*BoolOp) exprNode()        {}
func (*Subscript) exprNode()     {}
func (*Starred) exprNode()       {}
func (*Constant) exprNode()      {}
func (*Lambda) exprNode()        {}
func (*IfExp) exprNode()         {}
func (*NamedExpr) exprNode()     {}
func (*Comprehension) exprNode() {}
func (*Collection) exprNode()    {}
func (*OtherExpr) exprNode()     {}
