package update

// Operator is a MongoDB update operator.
type Operator string

const (
	AddToSetOp    Operator = "$addToSet"
	BitOp         Operator = "$bit"
	CurrentDateOp Operator = "$currentDate"
	IncOp         Operator = "$inc"
	MinOp         Operator = "$min"
	MaxOp         Operator = "$max"
	MulOp         Operator = "$mul"
	PopOp         Operator = "$pop"
	PullOp        Operator = "$pull"
	PullAllOp     Operator = "$pullAll"
	PushOp        Operator = "$push"
	RenameOp      Operator = "$rename"
	SetOp         Operator = "$set"
	SetOnInsertOp Operator = "$setOnInsert"
	UnsetOp       Operator = "$unset"
)

var operators = map[Operator]bool{
	AddToSetOp: true, BitOp: true, CurrentDateOp: true, IncOp: true,
	MinOp: true, MaxOp: true, MulOp: true, PopOp: true, PullOp: true,
	PullAllOp: true, PushOp: true, RenameOp: true, SetOp: true,
	SetOnInsertOp: true, UnsetOp: true,
}

// Valid reports whether op is one of the supported update operators.
func (op Operator) Valid() bool {
	return operators[op]
}
