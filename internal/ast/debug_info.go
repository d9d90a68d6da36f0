package ast

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/funvibe/dynexpr/internal/typesystem"
)

// Well-known document GUIDs used by symbol writers.
var (
	DocumentTypeText = uuid.MustParse("5a869d0b-6611-11d3-bd2a-0000f80849bd")
	LanguageCSharp   = uuid.MustParse("3f5162f8-07c6-11d3-9053-00c04fa302a1")
	VendorMicrosoft  = uuid.MustParse("994b45c4-e6e9-11d2-903f-00c04fa302a1")
)

// clearLine marks a sequence point that hides the following code.
const clearLine = 0xfeefee

// SymbolDocumentInfo identifies a source file for debug information.
type SymbolDocumentInfo struct {
	FileName       string
	Language       uuid.UUID
	LanguageVendor uuid.UUID
	DocumentType   uuid.UUID
}

// SymbolDocument describes a plain-text source file of unknown language.
func SymbolDocument(fileName string) (*SymbolDocumentInfo, error) {
	return SymbolDocumentWithLanguage(fileName, uuid.Nil, uuid.Nil, DocumentTypeText)
}

// SymbolDocumentWithLanguage describes a source file. A nil document type
// means text.
func SymbolDocumentWithLanguage(fileName string, language, vendor, documentType uuid.UUID) (*SymbolDocumentInfo, error) {
	if fileName == "" {
		return nil, newArgumentError("fileName", -1, ErrArgumentNil)
	}
	if documentType == uuid.Nil {
		documentType = DocumentTypeText
	}
	return &SymbolDocumentInfo{
		FileName:       fileName,
		Language:       language,
		LanguageVendor: vendor,
		DocumentType:   documentType,
	}, nil
}

// DebugInfoExpression marks a span of source code. Lines and columns are
// 1-based and inclusive.
type DebugInfoExpression struct {
	document    *SymbolDocumentInfo
	startLine   int
	startColumn int
	endLine     int
	endColumn   int
}

// NewDebugInfo creates a sequence point for the given span.
func NewDebugInfo(doc *SymbolDocumentInfo, startLine, startColumn, endLine, endColumn int) (*DebugInfoExpression, error) {
	if doc == nil {
		return nil, newArgumentError("document", -1, ErrArgumentNil)
	}
	if startLine == clearLine && startColumn == 0 && endLine == clearLine && endColumn == 0 {
		return ClearDebugInfo(doc)
	}
	if err := validateSpan(startLine, startColumn, endLine, endColumn); err != nil {
		return nil, err
	}
	return &DebugInfoExpression{doc, startLine, startColumn, endLine, endColumn}, nil
}

// ClearDebugInfo creates a sequence point that clears the current one.
func ClearDebugInfo(doc *SymbolDocumentInfo) (*DebugInfoExpression, error) {
	if doc == nil {
		return nil, newArgumentError("document", -1, ErrArgumentNil)
	}
	return &DebugInfoExpression{doc, clearLine, 0, clearLine, 0}, nil
}

func validateSpan(startLine, startColumn, endLine, endColumn int) error {
	checks := []struct {
		name  string
		value int
	}{
		{"startLine", startLine},
		{"startColumn", startColumn},
		{"endLine", endLine},
		{"endColumn", endColumn},
	}
	for _, c := range checks {
		if c.value < 1 {
			return newArgumentError(c.name, -1, fmt.Errorf("%w: %d", ErrOutOfRange, c.value))
		}
	}
	if endLine < startLine || (endLine == startLine && endColumn < startColumn) {
		return newArgumentError("endLine", -1, ErrStartEndMustBeOrdered)
	}
	return nil
}

func (n *DebugInfoExpression) NodeType() ExpressionType             { return DebugInfo }
func (n *DebugInfoExpression) Type() *typesystem.Type               { return typesystem.Void }
func (n *DebugInfoExpression) Document() *SymbolDocumentInfo        { return n.document }
func (n *DebugInfoExpression) StartLine() int                       { return n.startLine }
func (n *DebugInfoExpression) StartColumn() int                     { return n.startColumn }
func (n *DebugInfoExpression) EndLine() int                         { return n.endLine }
func (n *DebugInfoExpression) EndColumn() int                       { return n.endColumn }
func (n *DebugInfoExpression) IsClear() bool                        { return n.startLine == clearLine }
func (n *DebugInfoExpression) Accept(v Visitor) (Expression, error) { return v.VisitDebugInfo(n) }

func (n *DebugInfoExpression) String() string {
	if n.IsClear() {
		return fmt.Sprintf("#clear(%s)", n.document.FileName)
	}
	return fmt.Sprintf("#%s(%d,%d - %d,%d)", n.document.FileName, n.startLine, n.startColumn, n.endLine, n.endColumn)
}
