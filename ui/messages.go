package ui

import (
	appmodel "github.com/orlevii/agent-prism/model"
)

// Message type aliases - defined in the model package, handled here.
type streamStartedMsg = appmodel.StreamStartedMsg
type streamEventMsg = appmodel.StreamEventMsg
type streamClosedMsg = appmodel.StreamClosedMsg
type targetsListMsg = appmodel.TargetsListMsg
type pingResultMsg = appmodel.PingResultMsg
type markdownRenderedMsg = appmodel.MarkdownRenderedMsg
type editorContentMsg = appmodel.EditorContentMsg
type editorErrorMsg = appmodel.EditorErrorMsg

type SettingFieldType int

const (
	SettingTypeText SettingFieldType = iota
	SettingTypeBackend
	SettingTypeBool
	SettingTypeNumber
	SettingTypeJSON
)

type SettingFieldValidation int

const (
	FieldValidationNone SettingFieldValidation = iota
	FieldValidationPending
	FieldValidationSuccess
	FieldValidationError
)

type SettingField struct {
	Label      string
	Value      string
	Type       SettingFieldType
	Validation SettingFieldValidation
	ErrorMsg   string
}
