package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Плейсхолдеры
	ParInfo           Code = 1000
	ParEmptyName      Code = 1001
	ParEmptyDefault   Code = 1002
	ParMissingDefault Code = 1003
	ParMalformed      Code = 1004
	ParIgnoredDefault Code = 1005
	ParIgnoredFormat  Code = 1006

	// Коллекции
	ColInfo          Code = 2000
	ColDuplicateName Code = 2001
	ColGroupConflict Code = 2002
	ColNoFields      Code = 2003
	ColInvalidName   Code = 2004

	// Генерация
	GenInfo          Code = 3000
	GenUnknownTarget Code = 3001
	GenFailed        Code = 3002
	GenLongLine      Code = 3003
	GenInvalidCode   Code = 3004

	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	// Конфигурация проекта
	CfgInfo         Code = 5000
	CfgInvalid      Code = 5001
	CfgUnknownKey   Code = 5002
	CfgInvalidValue Code = 5003

	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Документы
	DocInfo         Code = 7000
	DocTooManyParts Code = 7001
	DocStale        Code = 7002
)

var codeDescription = map[Code]string{
	UnknownCode:       "Unknown error",
	ParInfo:           "Placeholder information",
	ParEmptyName:      "Placeholder has an empty name",
	ParEmptyDefault:   "Placeholder has an empty default",
	ParMissingDefault: "Placeholder has no default",
	ParMalformed:      "Malformed placeholder",
	ParIgnoredDefault: "Empty default is ignored",
	ParIgnoredFormat:  "Empty format specifier is ignored",
	ColInfo:           "Collection information",
	ColDuplicateName:  "Duplicate placeholder name",
	ColGroupConflict:  "Name used both as a field and as a group",
	ColNoFields:       "No placeholder with a default",
	ColInvalidName:    "Invalid dotted field name",
	GenInfo:           "Generation information",
	GenUnknownTarget:  "Unknown generation target",
	GenFailed:         "Code generation failed",
	GenLongLine:       "Generated line exceeds max width",
	GenInvalidCode:    "Generated code is rejected by the target language",
	IOLoadFileError:   "I/O load file error",
	IOWriteFileError:  "I/O write file error",
	CfgInfo:           "Configuration information",
	CfgInvalid:        "Invalid configuration file",
	CfgUnknownKey:     "Unknown configuration key",
	CfgInvalidValue:   "Invalid configuration value",
	ObsInfo:           "Observability information",
	ObsTimings:        "Pipeline timings",
	DocInfo:           "Document information",
	DocTooManyParts:   "Document has too many sections",
	DocStale:          "Generated sections are out of date",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("PAR%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("COL%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("DOC%04d", ic)
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
