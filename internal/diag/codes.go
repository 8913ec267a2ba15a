package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Ввод-вывод: чтение наборов, кэш
	IOInfo          Code = 1000
	IOLoadFileError Code = 1001
	IOCacheError    Code = 1002

	// Наборы кейсов (suite)
	SuiteInfo            Code = 2000
	SuiteUnknownKey      Code = 2001
	SuiteBadCase         Code = 2002
	SuiteUnknownType     Code = 2003
	SuiteBadOperand      Code = 2004
	SuiteDuplicateStruct Code = 2005
	SuiteUnknownBuiltin  Code = 2006
	SuiteUnknownOperator Code = 2007
	SuiteExpectMismatch  Code = 2008

	// Вычисление констант (4000-4999)
	ConstInfo                   Code = 4000
	ConstMaterialization        Code = 4001 // abstract value does not fit the concrete type
	ConstOverflow               Code = 4002
	ConstDomain                 Code = 4003 // builtin precondition violated
	ConstDivideByZero           Code = 4004
	ConstSignedOverflowDivision Code = 4005 // MIN / -1
	ConstIndexOutOfRange        Code = 4006
	ConstShiftOutOfRange        Code = 4007
	ConstShiftSignChange        Code = 4008
	ConstBitRange               Code = 4009 // extractBits/insertBits offset+count
	ConstPackRange              Code = 4010
	ConstNotConstant            Code = 4011
	ConstInvalidOperand         Code = 4012

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:     "Unknown error",
	IOInfo:          "I/O information",
	IOLoadFileError: "Failed to load file",
	IOCacheError:    "Result cache unavailable",

	SuiteInfo:            "Suite information",
	SuiteUnknownKey:      "Unknown key in suite file",
	SuiteBadCase:         "Malformed case",
	SuiteUnknownType:     "Unknown type name",
	SuiteBadOperand:      "Operand does not match its type",
	SuiteDuplicateStruct: "Duplicate struct declaration",
	SuiteUnknownBuiltin:  "Unknown builtin function",
	SuiteUnknownOperator: "Unknown operator",
	SuiteExpectMismatch:  "Result does not match expectation",

	ConstInfo:                   "Constant evaluation information",
	ConstMaterialization:        "Value cannot be materialized",
	ConstOverflow:               "Result is not representable",
	ConstDomain:                 "Argument outside function domain",
	ConstDivideByZero:           "Division or modulo by zero",
	ConstSignedOverflowDivision: "Signed overflow in division",
	ConstIndexOutOfRange:        "Index out of range",
	ConstShiftOutOfRange:        "Shift amount out of range",
	ConstShiftSignChange:        "Shift changes sign",
	ConstBitRange:               "Bit range exceeds width",
	ConstPackRange:              "Value does not fit packed format",
	ConstNotConstant:            "Expression is not a constant",
	ConstInvalidOperand:         "Invalid operand",

	ObsInfo:    "Observability information",
	ObsTimings: "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SUI%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CEV%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
