// Package detect scans a live page for fillable fields and classifies them.
// The scan runs as JavaScript inside the page; eligibility and visibility
// are decided there against computed style, while identifier, label, and
// semantic type resolution happen in Go on the raw records it returns.
package detect

// FieldType is the semantic classification of a detected field.
type FieldType string

const (
	TypeText         FieldType = "text"
	TypeEmail        FieldType = "email"
	TypePhone        FieldType = "phone"
	TypeDate         FieldType = "date"
	TypeAddress      FieldType = "address"
	TypeSSN          FieldType = "ssn"
	TypeNumber       FieldType = "number"
	TypeUnrecognized FieldType = "unrecognized"
)

// TagKind is the raw element shape of a detected field.
type TagKind string

const (
	KindInput    TagKind = "input"
	KindTextarea TagKind = "textarea"
	KindSelect   TagKind = "select"
)

// Field describes one fillable element found on the page. It holds a weak
// reference to the element: the generated ID attribute written during the
// scan, never the element itself. Records are snapshots; a new detection
// pass produces a fresh set rather than mutating these.
type Field struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Label            string    `json:"label"`
	Type             FieldType `json:"type"`
	TagKind          TagKind   `json:"tagKind"`
	InputSubtype     string    `json:"inputSubtype"`
	Value            string    `json:"value"`
	IsRequired       bool      `json:"isRequired"`
	AutocompleteHint string    `json:"autocompleteHint"`

	// Raw attributes kept alongside the resolved Name so matching can test
	// them independently.
	ElemID      string `json:"elemId"`
	Placeholder string `json:"placeholder"`
}

// rawField is the untyped record the in-page scan returns for each eligible
// element. Label candidates come back as HTML fragments so Go can strip
// nested controls before reading caption text.
type rawField struct {
	ID                string `json:"id"`
	Tag               string `json:"tag"`
	Type              string `json:"type"`
	Name              string `json:"name"`
	ElemID            string `json:"elemId"`
	Placeholder       string `json:"placeholder"`
	AriaLabel         string `json:"ariaLabel"`
	Autocomplete      string `json:"autocomplete"`
	Value             string `json:"value"`
	Required          bool   `json:"required"`
	LabelForHTML      string `json:"labelForHtml"`
	AncestorLabelHTML string `json:"ancestorLabelHtml"`
}
