package descriptor

import "record-triplifier/internal/common"

// Op is a canonical guard comparison operator.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpExists
)

// String returns the canonical operator token.
func (o Op) String() string {
	switch o {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpExists:
		return "exists"
	default:
		return common.UnknownStr
	}
}

// opSynonyms is the fixed operator synonym table shared by the validator and
// the guard evaluator.
var opSynonyms = map[string]Op{
	"==": OpEq, "eq": OpEq, "equal": OpEq, "=": OpEq,
	"!=": OpNe, "ne": OpNe, "notequal": OpNe, "<>": OpNe,
	"<": OpLt, "lt": OpLt,
	"<=": OpLe, "le": OpLe,
	">": OpGt, "gt": OpGt,
	">=": OpGe, "ge": OpGe,
	"exists": OpExists, "exi": OpExists,
}

// NormalizeOp resolves an operator token through the synonym table.
// Unknown tokens report false; guards with unknown operators fail closed.
func NormalizeOp(token string) (Op, bool) {
	op, ok := opSynonyms[token]
	return op, ok
}
