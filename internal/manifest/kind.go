package manifest

import (
	"path/filepath"
	"strings"
)

// Record type constants used by the sample catalog and type inference.
const (
	TypeDocument     = "document"
	TypeSpreadsheet  = "spreadsheet"
	TypePresentation = "presentation"
	TypeImage        = "image"
	TypeCode         = "code"
	TypeOther        = "other"
)

// extToType maps file extensions to record types.
var extToType = map[string]string{
	// Documents
	".doc":  TypeDocument,
	".docx": TypeDocument,
	".pdf":  TypeDocument,
	".txt":  TypeDocument,
	".md":   TypeDocument,
	".odt":  TypeDocument,
	".rtf":  TypeDocument,

	// Spreadsheets
	".csv":  TypeSpreadsheet,
	".tsv":  TypeSpreadsheet,
	".xls":  TypeSpreadsheet,
	".xlsx": TypeSpreadsheet,
	".ods":  TypeSpreadsheet,

	// Presentations
	".ppt":  TypePresentation,
	".pptx": TypePresentation,
	".key":  TypePresentation,
	".odp":  TypePresentation,

	// Images
	".png":  TypeImage,
	".jpg":  TypeImage,
	".jpeg": TypeImage,
	".gif":  TypeImage,
	".svg":  TypeImage,
	".webp": TypeImage,

	// Code
	".go":   TypeCode,
	".js":   TypeCode,
	".ts":   TypeCode,
	".py":   TypeCode,
	".css":  TypeCode,
	".html": TypeCode,
	".sh":   TypeCode,
	".sql":  TypeCode,
}

// DetectType returns the record type for a file name based on its extension.
func DetectType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if typ, ok := extToType[ext]; ok {
		return typ
	}
	return TypeOther
}
