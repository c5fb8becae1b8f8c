package bytecode

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// MaxNestingDepth bounds how deeply code objects and tuples may nest in a
// serialized code object.
const MaxNestingDepth = 200

// Marshal converts a Code object into its JSON representation.
func Marshal(code *Code) ([]byte, error) {
	def, err := defFromCode(code)
	if err != nil {
		return nil, err
	}
	return json.Marshal(def)
}

// Unmarshal converts a JSON representation into a Code object.
func Unmarshal(data []byte) (*Code, error) {
	var def codeDef
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	return codeFromDef(&def, 0)
}

// Serialization types

type constantDef struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type instructionDef struct {
	Offset       int             `json:"offset"`
	Opname       string          `json:"opname"`
	Arg          *int            `json:"arg"`
	ArgVal       json.RawMessage `json:"argval,omitempty"`
	ArgRepr      string          `json:"argrepr"`
	StartsLine   *int            `json:"starts_line"`
	IsJumpTarget bool            `json:"is_jump_target"`
}

type codeDef struct {
	Name            string            `json:"name"`
	QualName        string            `json:"qualname,omitempty"`
	Filename        string            `json:"filename,omitempty"`
	FirstLineNo     int               `json:"firstlineno"`
	ArgCount        int               `json:"argcount"`
	PosOnlyArgCount int               `json:"posonlyargcount"`
	KwOnlyArgCount  int               `json:"kwonlyargcount"`
	Flags           int               `json:"flags"`
	VarNames        []string          `json:"varnames"`
	Names           []string          `json:"names"`
	FreeVars        []string          `json:"freevars"`
	CellVars        []string          `json:"cellvars"`
	Constants       []json.RawMessage `json:"consts"`
	Instructions    []instructionDef  `json:"instructions"`
	Source          string            `json:"source,omitempty"`
}

func defFromCode(code *Code) (*codeDef, error) {
	if code == nil {
		return nil, fmt.Errorf("cannot marshal nil code")
	}
	def := &codeDef{
		Name:            code.name,
		QualName:        code.qualname,
		Filename:        code.filename,
		FirstLineNo:     code.firstLineNo,
		ArgCount:        code.argCount,
		PosOnlyArgCount: code.posOnlyArgCount,
		KwOnlyArgCount:  code.kwOnlyArgCount,
		Flags:           code.flags,
		VarNames:        nonNil(code.varNames),
		Names:           nonNil(code.names),
		FreeVars:        nonNil(code.freeVars),
		CellVars:        nonNil(code.cellVars),
		Constants:       make([]json.RawMessage, 0, len(code.constants)),
		Instructions:    make([]instructionDef, 0, len(code.instructions)),
		Source:          code.source,
	}
	for _, c := range code.constants {
		raw, err := marshalConstant(c, false)
		if err != nil {
			return nil, err
		}
		def.Constants = append(def.Constants, raw)
	}
	for _, instr := range code.instructions {
		idef := instructionDef{
			Offset:       instr.Offset,
			Opname:       instr.Opname,
			ArgRepr:      instr.ArgRepr,
			IsJumpTarget: instr.IsJumpTarget,
		}
		if instr.HasArg {
			arg := instr.Arg
			idef.Arg = &arg
		}
		if instr.StartsLine > 0 {
			line := instr.StartsLine
			idef.StartsLine = &line
		}
		if instr.ArgVal != nil {
			raw, err := marshalConstant(instr.ArgVal, true)
			if err != nil {
				return nil, err
			}
			idef.ArgVal = raw
		}
		def.Instructions = append(def.Instructions, idef)
	}
	return def, nil
}

// marshalConstant encodes a constant in its typed envelope. Operand values
// reference code objects by repr only.
func marshalConstant(c any, operand bool) (json.RawMessage, error) {
	var def constantDef
	var value any
	switch c := c.(type) {
	case nil:
		def.Type = "none"
	case bool:
		def.Type, value = "bool", c
	case int:
		def.Type, value = "int", c
	case int64:
		def.Type, value = "int", c
	case float64:
		if math.IsInf(c, 0) || math.IsNaN(c) {
			def.Type, value = "repr", formatFloat(c)
		} else {
			def.Type, value = "float", c
		}
	case string:
		def.Type, value = "str", c
	case []byte:
		def.Type, value = "bytes", hex.EncodeToString(c)
	case Repr:
		def.Type, value = "repr", string(c)
	case Tuple:
		items := make([]json.RawMessage, 0, len(c))
		for _, item := range c {
			raw, err := marshalConstant(item, operand)
			if err != nil {
				return nil, err
			}
			items = append(items, raw)
		}
		def.Type, value = "tuple", items
	case *Code:
		if operand {
			def.Type, value = "repr", c.String()
			break
		}
		nested, err := defFromCode(c)
		if err != nil {
			return nil, err
		}
		def.Type, value = "code", nested
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", c)
	}
	if value != nil {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		def.Value = raw
	}
	return json.Marshal(def)
}

func codeFromDef(def *codeDef, depth int) (*Code, error) {
	if depth > MaxNestingDepth {
		return nil, fmt.Errorf("code objects nested deeper than %d levels", MaxNestingDepth)
	}
	constants := make([]any, 0, len(def.Constants))
	for i, raw := range def.Constants {
		c, err := unmarshalConstant(raw, depth+1)
		if err != nil {
			return nil, fmt.Errorf("%s: constant %d: %w", def.Name, i, err)
		}
		constants = append(constants, c)
	}
	instructions := make([]Instruction, 0, len(def.Instructions))
	for i, idef := range def.Instructions {
		instr := Instruction{
			Offset:       idef.Offset,
			Opname:       idef.Opname,
			ArgRepr:      idef.ArgRepr,
			IsJumpTarget: idef.IsJumpTarget,
		}
		if idef.Arg != nil {
			instr.Arg, instr.HasArg = *idef.Arg, true
		}
		if idef.StartsLine != nil {
			instr.StartsLine = *idef.StartsLine
		}
		if len(idef.ArgVal) > 0 {
			v, err := unmarshalConstant(idef.ArgVal, depth+1)
			if err != nil {
				return nil, fmt.Errorf("%s: instruction %d: %w", def.Name, i, err)
			}
			instr.ArgVal = v
		}
		instructions = append(instructions, instr)
	}
	return NewCode(CodeParams{
		Name:            def.Name,
		QualName:        def.QualName,
		Filename:        def.Filename,
		FirstLineNo:     def.FirstLineNo,
		ArgCount:        def.ArgCount,
		PosOnlyArgCount: def.PosOnlyArgCount,
		KwOnlyArgCount:  def.KwOnlyArgCount,
		Flags:           def.Flags,
		VarNames:        def.VarNames,
		Names:           def.Names,
		FreeVars:        def.FreeVars,
		CellVars:        def.CellVars,
		Constants:       constants,
		Instructions:    instructions,
		Source:          def.Source,
	}), nil
}

func unmarshalConstant(raw json.RawMessage, depth int) (any, error) {
	if depth > MaxNestingDepth {
		return nil, fmt.Errorf("constants nested deeper than %d levels", MaxNestingDepth)
	}
	if string(raw) == "null" {
		return nil, nil
	}
	var def constantDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, err
	}
	switch def.Type {
	case "none":
		return nil, nil
	case "bool":
		var b bool
		err := json.Unmarshal(def.Value, &b)
		return b, err
	case "int":
		text := string(def.Value)
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			// Arbitrary precision integers keep their decimal text
			return Repr(text), nil
		}
		return n, nil
	case "float":
		var f float64
		err := json.Unmarshal(def.Value, &f)
		return f, err
	case "str":
		var s string
		err := json.Unmarshal(def.Value, &s)
		return s, err
	case "bytes":
		var s string
		if err := json.Unmarshal(def.Value, &s); err != nil {
			return nil, err
		}
		return hex.DecodeString(s)
	case "repr":
		var s string
		err := json.Unmarshal(def.Value, &s)
		return Repr(s), err
	case "tuple":
		var items []json.RawMessage
		if err := json.Unmarshal(def.Value, &items); err != nil {
			return nil, err
		}
		tuple := make(Tuple, 0, len(items))
		for _, item := range items {
			v, err := unmarshalConstant(item, depth+1)
			if err != nil {
				return nil, err
			}
			tuple = append(tuple, v)
		}
		return tuple, nil
	case "code":
		var nested codeDef
		if err := json.Unmarshal(def.Value, &nested); err != nil {
			return nil, err
		}
		return codeFromDef(&nested, depth+1)
	default:
		return nil, fmt.Errorf("unknown constant type: %q", def.Type)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
