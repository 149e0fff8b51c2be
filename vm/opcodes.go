package vm

// Op identifies a decoded instruction's operation. Values below 0x40 carry
// no argument; the bands above mirror the raw stream's argument-size rule.
// chunk.decodeInstructions already applies that banding and the
// multi-byte-variant normalization before an Instruction ever reaches the
// interpreter, so Op here is always the canonical mnemonic.
type Op = byte

// No-argument opcodes (stack-only effects, or read their operands off the
// evaluation stack rather than the instruction stream).
const (
	OpNop          Op = 0x00
	OpPushZero     Op = 0x01
	OpPushVoid     Op = 0x02
	OpAdd          Op = 0x03
	OpSub          Op = 0x04
	OpMul          Op = 0x05
	OpDiv          Op = 0x06
	OpMod          Op = 0x07
	OpNegate       Op = 0x08
	OpJoinStr      Op = 0x09 // string `&` concatenation
	OpJoinPadStr   Op = 0x0A // string `&&` padded concatenation
	OpLt           Op = 0x0B
	OpLtEq         Op = 0x0C
	OpNtEq         Op = 0x0D
	OpEq           Op = 0x0E
	OpGt           Op = 0x0F
	OpGtEq         Op = 0x10
	OpAnd          Op = 0x11
	OpOr           Op = 0x12
	OpNot          Op = 0x13
	OpContainsStr  Op = 0x14
	OpOntoSpr      Op = 0x15
	OpIntoSpr      Op = 0x16
	OpStartTell    Op = 0x17 // pop target, push onto tell stack
	OpEndTell      Op = 0x18 // pop tell stack
	OpTellCallZero Op = 0x19 // tell-block call with no args pre-pushed (rare; ext_call with tell covers the common path)
	OpSwap         Op = 0x1A // swap top two stack values
	OpDup          Op = 0x1B // duplicate top of stack (peek-and-push)
	OpRet          Op = 0x1C
	OpRetFactory   Op = 0x1D
	OpPushCurrentMe Op = 0x1E // push the active scope's receiver ("me")
)

// Argument-carrying opcodes. The exact byte width was already resolved at
// decode time; the interpreter only cares about the decoded int32
// Argument.
const (
	OpPushInt        Op = 0x40 // signed; arg is the literal int value
	OpPushFloat      Op = 0x41 // arg indexes the literal pool
	OpPushLiteral    Op = 0x42 // arg indexes the literal pool (string/raw)
	OpPushSymbol     Op = 0x43 // arg is a nameID
	OpGetLocal       Op = 0x44 // arg is a local slot index
	OpSetLocal       Op = 0x45
	OpGetParam       Op = 0x46 // arg is an arg-vector index
	OpSetParam       Op = 0x47
	OpGetGlobal      Op = 0x48 // arg is a nameID
	OpSetGlobal      Op = 0x49
	OpJmp            Op = 0x4A // arg is offset ± applied to current instr offset
	OpJmpIfZero      Op = 0x4B
	OpEndRepeat      Op = 0x4C // backward jump; arg is subtracted
	OpExtCall        Op = 0x4D // arg is a nameID; pops an arg-list
	OpLocalCall      Op = 0x4E // arg is a nameID; restricted to current script
	OpObjCall        Op = 0x4F // arg is a nameID; pops an arg-list whose first elem is the receiver
	OpNewObj         Op = 0x50 // arg is a nameID (script name) for new()
	OpGetProp        Op = 0x51 // arg is a nameID; property of "me"
	OpSetProp        Op = 0x52
	OpGetObjProp     Op = 0x53 // arg is a nameID; pops the target object
	OpSetObjProp     Op = 0x54 // arg is a nameID; pops value, target
	OpGetChainedProp Op = 0x55 // arg is a nameID; chains through a popped object path
	OpGetTopLevelProp Op = 0x56 // arg is a nameID naming a top-level object (stage, sprite list, ...)
	OpGetMovieProp   Op = 0x57 // arg is a nameID
	OpSetMovieProp   Op = 0x58
	OpTheBuiltin     Op = 0x59 // arg is a nameID naming an environment value
	OpPushList       Op = 0x5A // arg is element count N
	OpPushPropList   Op = 0x5B // arg is pair count N (pops key,value N times)
	OpPushArgList    Op = 0x5C // arg is element count N
	OpPushArgListNoRet Op = 0x5D
	OpPop            Op = 0x5E // arg is the pop count N
	OpPushVarRef     Op = 0x5F // arg is a nameID
	OpPushChunkVarRef Op = 0x60 // arg is a nameID; chunk kind/bounds come off the stack
	OpTellCall       Op = 0x61 // arg is a nameID; dispatch to the top tell target
	OpPutRef         Op = 0x62 // pops value, ref; writes value through a VarRef/StringChunk
	OpDeleteRef      Op = 0x63 // pops ref; deletes the referenced chunk range from its source
)
