// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract recognizes public declaration sites in source text and the
// doc-comment blocks that immediately precede them.
//
// Recognition is line based: each trimmed line is tested against an ordered
// list of prefix patterns, one per declaration kind. It is not a parser, so a
// line inside a string literal that looks like a declaration is reported as
// one.
package extract

// Kind tags the syntactic kind of a declaration.
type Kind string

const (
	KindFunction Kind = "function"
	KindStruct   Kind = "struct"
	KindEnum     Kind = "enum"
	KindTrait    Kind = "trait"
	KindConst    Kind = "const"
	KindStatic   Kind = "static"
)

// Kinds returns every declaration kind in recognition priority order.
func Kinds() []Kind {
	return []Kind{KindFunction, KindStruct, KindEnum, KindTrait, KindConst, KindStatic}
}

// Location identifies where a declaration was found.
type Location struct {
	Source string `json:"file_path"`
	Line   int    `json:"line_number"` // 1-based
}

// Declaration is one recognized public declaration.
// Doc is non-nil iff HasDoc is true.
type Declaration struct {
	Location
	Kind      Kind    `json:"api_type"`
	Name      string  `json:"name"`
	Signature string  `json:"signature"`
	HasDoc    bool    `json:"has_doc"`
	Doc       *string `json:"doc_comment"`
}
