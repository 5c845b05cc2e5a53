package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Reflection engine
	ReflInfo               Code = 1000
	ReflNotDefined         Code = 1001 // entity not defined or not reflectable
	ReflQueryUnimplemented Code = 1002 // query is a placeholder
	ReflNoAttribute        Code = 1003 // no matching user-defined attribute

	// Manifest loading
	ManInfo            Code = 2000
	ManParseError      Code = 2001
	ManUnknownKind     Code = 2002
	ManDuplicateName   Code = 2003
	ManUnresolvedRef   Code = 2004
	ManInvalidValue    Code = 2005
	ManCyclicReference Code = 2006

	// Query scripts
	ScrInfo              Code = 3000
	ScrUnknownQuery      Code = 3001
	ScrBadOperand        Code = 3002
	ScrUnresolvedOperand Code = 3003
	ScrArity             Code = 3004
	ScrQueryFailed       Code = 3005

	// I/O
	IOLoadFileError Code = 4001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	ReflInfo:               "Reflection information",
	ReflNotDefined:         "Entity is not defined or not reflectable",
	ReflQueryUnimplemented: "Reflection query is not implemented",
	ReflNoAttribute:        "No matching user-defined attribute",
	ManInfo:                "Manifest information",
	ManParseError:          "Manifest could not be parsed",
	ManUnknownKind:         "Unknown entity kind",
	ManDuplicateName:       "Duplicate entity name",
	ManUnresolvedRef:       "Unresolved reference",
	ManInvalidValue:        "Invalid value",
	ManCyclicReference:     "Cyclic reference",
	ScrInfo:                "Script information",
	ScrUnknownQuery:        "Unknown query",
	ScrBadOperand:          "Malformed operand",
	ScrUnresolvedOperand:   "Operand does not name an entity",
	ScrArity:               "Wrong number of operands",
	ScrQueryFailed:         "Query failed",
	IOLoadFileError:        "I/O error",
	ObsInfo:                "Observability information",
	ObsTimings:             "Timings",
}

// Domain is the subsystem a code belongs to. It is also the prefix of the
// code's ID.
type Domain uint8

const (
	DomainUnknown Domain = iota
	DomainReflection
	DomainManifest
	DomainScript
	DomainIO
	DomainObservability
)

var domainPrefix = [...]string{
	DomainReflection:    "REF",
	DomainManifest:      "MAN",
	DomainScript:        "SCR",
	DomainIO:            "IO",
	DomainObservability: "OBS",
}

func (d Domain) String() string {
	if d == DomainUnknown || int(d) >= len(domainPrefix) {
		return "E"
	}
	return domainPrefix[d]
}

// Domain maps the thousands digit of c: 1xxx REF, 2xxx MAN, 3xxx SCR,
// 4xxx IO, 6xxx OBS.
func (c Code) Domain() Domain {
	switch c / 1000 {
	case 1:
		return DomainReflection
	case 2:
		return DomainManifest
	case 3:
		return DomainScript
	case 4:
		return DomainIO
	case 6:
		return DomainObservability
	}
	return DomainUnknown
}

func (c Code) ID() string {
	d := c.Domain()
	if d == DomainUnknown {
		return "E0000"
	}
	return fmt.Sprintf("%s%04d", d, int(c))
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
