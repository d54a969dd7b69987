package vm

// ----------------------------------------------------------------------------
// General information

// This section contains some general information about the VM intermediate language.
//
// We declare a shared 'Command' interface for every macro operation available for the
// language and we define some other useful top-level struct such as Program and Module.
// Is important to note that a VM program can be composed of multiple translation units
// that can be also referenced as file or modules or also classes.

// A VM Program is just a set of multiple modules/files, in the VM spec each Jack class is
// translated to its own .vm file (just like Java .class file) that can be handled as its
// own translation unit during the compilation or lowering phases. The map key is the
// module name (the .vm file stem), which also doubles as the 'static' segment namespace.
type Program map[string]Module

// A VM Module is just a linear list of VM commands, in source order.
type Module []Command

// Used to put together all command in the VM language (Memory, Arithmetic, ... ops).
type Command interface{}

// ----------------------------------------------------------------------------
// Memory Op

// In memory representation of a Memory operation for the VM language.
//
// In the VM intermediate language there are only two possible memory operation on the stack.
// We could either push a new value taken from the specified segment location on the stack's
// top or take the stack's top and saves its value at the specified segment location.
type MemoryOp struct {
	Operation OperationType // The type of operation, either 'push' or 'pop'
	Segment   SegmentType   // The named memory segment to use (this, that, temp, ...)
	Offset    uint16        // The specific location/offset inside of the memory segment
}

type OperationType string // Enum to manage the operation allowed for a MemoryOp

const (
	Push OperationType = "push"
	Pop  OperationType = "pop"
)

type SegmentType string // Enum to manage the segment accessible for a MemoryOp

const (
	Temp     SegmentType = "temp"     // Real segment used to store intermediate computations
	Constant SegmentType = "constant" // Virtual segment used to access numeric constant

	Local    SegmentType = "local"    // Real segment used to store local function variables
	Static   SegmentType = "static"   // Real segment used to store shared/static variables
	Argument SegmentType = "argument" // Real segment used to store function's argument

	This    SegmentType = "this"    // Virtual segment used to point to a specific memory location
	That    SegmentType = "that"    // Virtual segment used to point to a specific memory location
	Pointer SegmentType = "pointer" // Real segment w/ 2 location used to set the 'this' and 'that' pointers
)

// ----------------------------------------------------------------------------
// Arithmetic Op

// In memory representation of a Arithmetic operation for the VM language.
//
// In the VM intermediate language there are just a handful of operation available.
// In particular each operation acts directly on the top of the stack, of course we have both unary
// and binary operation, the specific management of each op will be handled in the codegen phase.
type ArithmeticOp struct{ Operation ArithOpType }

type ArithOpType string // Enum to manage the operation allowed for an ArithmeticOp

const (
	Eq ArithOpType = "eq" // Comparison operations
	Gt ArithOpType = "gt"
	Lt ArithOpType = "lt"

	Add ArithOpType = "add" // Arithmetic operations
	Sub ArithOpType = "sub"
	Neg ArithOpType = "neg"

	Not ArithOpType = "not" // Bitwise operations
	And ArithOpType = "and"
	Or  ArithOpType = "or"
)

// ----------------------------------------------------------------------------
// Label & Branching Ops

// Declares a jump target scoped to the enclosing function. Referenced by a GotoOp from
// anywhere within the same function (forward and backward references are both allowed).
type LabelOp struct{ Name string }

// Unconditional or conditional jump to a LabelOp declared in the same function.
//
// The two forms only differ in whether they pop and test the stack's top beforehand,
// the Jump field disambiguates between them since both share the same 'target label' shape.
type GotoOp struct {
	Jump  JumpType
	Label string
}

type JumpType string // Enum to manage the two jump flavors allowed for a GotoOp

const (
	Unconditional JumpType = "goto"
	Conditional   JumpType = "if-goto"
)

// ----------------------------------------------------------------------------
// Function, Call & Return Ops

// Declares a function entry point and how many local variables it allocates (zero
// initialized) before its first statement executes.
type FuncDecl struct {
	Name    string
	NLocals uint16
}

// Calls a previously declared function (forward references across modules are allowed,
// resolved by the downstream assembler), passing the top 'NArgs' stack values as arguments.
type FuncCallOp struct {
	Name  string
	NArgs uint16
}

// Pops the current call frame, restores the caller's segments and resumes execution
// at the call site, leaving the callee's return value on top of the caller's stack.
type ReturnOp struct{}
