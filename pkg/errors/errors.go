// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Find My URI Contributors

package errors

import (
	"fmt"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeSourceParseFailure  Code = "source.parse.failure"
	CodeSourceDirMissing    Code = "source.dir.missing"
	CodeGraphExtractFailure Code = "graph.extract.failure"

	CodeIndexLoadMissing           Code = "index.load.missing"
	CodeIndexLoadMisaligned        Code = "index.load.misaligned"
	CodeIndexLoadDimensionMismatch Code = "index.load.dimension_mismatch"
	CodeIndexLoadModelMismatch     Code = "index.load.model_mismatch"
	CodeIndexAddInvalidInput       Code = "index.add.invalid_input"
	CodeIndexSearchFailure         Code = "index.search.failure"
	CodeIndexBackendUnsupported    Code = "index.backend.unsupported"
	CodeIndexDatabaseFailure       Code = "index.database.failure"

	CodeNamespaceResolveUnknown   Code = "namespace.resolve.unknown"
	CodeNamespaceFilterEmptyMatch Code = "namespace.filter.empty_match"

	CodeEmbedRequestFailure      Code = "embed.request.failure"
	CodeEmbedModelUnsupported    Code = "embed.model.unsupported"
	CodeEmbedProviderUnsupported Code = "embed.provider.unsupported"

	CodeConfigLoadReadFailure      Code = "config.load.read.failure"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"

	CodeCLISetupFailure Code = "cli.setup.failure"
	CodeCLIInputInvalid Code = "cli.input.invalid"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldURI(value string) Attr {
	return Field("uri", value)
}

func FieldNamespace(value string) Attr {
	return Field("namespace", value)
}

func FieldPath(value string) Attr {
	return Field("path", value)
}

func FieldModel(value string) Attr {
	return Field("model", value)
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).Wrapf(err, format, args...)
}

// With adds structured fields to an existing error chain.
func With(err error, fields ...Attr) error {
	if err == nil {
		return nil
	}

	code := CodeOf(err)
	if code == "" {
		code = CodeIndexDatabaseFailure
	}

	return oops.Code(code).With(flatten(fields)...).Wrap(err)
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}

	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// IsUnknownNamespace reports whether err is a per-query rejection of an
// unrecognized namespace abbreviation or URI.
func IsUnknownNamespace(err error) bool {
	return HasCode(err, CodeNamespaceResolveUnknown)
}

// IsEmptyNamespaceMatch reports whether err means a recognized namespace
// filter matched zero indexed entities. Callers use this to distinguish
// "nothing indexed under that namespace" from "no close matches".
func IsEmptyNamespaceMatch(err error) bool {
	return HasCode(err, CodeNamespaceFilterEmptyMatch)
}

// IsMissingIndex reports whether err means the persisted index artifacts are
// absent or unreadable. Fatal at query-serving startup.
func IsMissingIndex(err error) bool {
	return HasCode(err, CodeIndexLoadMissing)
}

// IsIncompatibleIndex reports whether err means persisted vectors were
// produced by an embedding model incompatible with the configured one.
func IsIncompatibleIndex(err error) bool {
	code := CodeOf(err)
	return code == CodeIndexLoadDimensionMismatch || code == CodeIndexLoadModelMismatch
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value" || r == "invalid_format"
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
