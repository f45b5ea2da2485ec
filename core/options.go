package core

import "strings"

// Options configures a recognition request.
//
// Options is an immutable value: every With/Without method returns a new
// Options and leaves the receiver untouched, so a base configuration can be
// shared and specialised freely:
//
//	base := core.NewOptions().WithLanguageCodes(core.LangRU, core.LangEN)
//	passport := base.WithModel(core.ModelPassport)
//	tables := base.WithModel(core.ModelTable).WithFolderID("b1g...")
type Options struct {
	languageCodes []LanguageCode
	model         Model
	folderID      *string
	requestID     *string
	mimeType      *string
}

// NewOptions returns empty options: service default model, auto language
// detection, no folder or request id.
func NewOptions() Options {
	return Options{}
}

// WithLanguageCodes replaces the language hints.
func (o Options) WithLanguageCodes(codes ...LanguageCode) Options {
	o.languageCodes = append([]LanguageCode(nil), codes...)
	return o
}

// WithModel selects a recognition model.
func (o Options) WithModel(m Model) Options {
	o.model = m
	return o
}

// WithoutModel restores the service default model.
func (o Options) WithoutModel() Options {
	o.model = ""
	return o
}

// WithFolderID sets the x-folder-id header.
func (o Options) WithFolderID(id string) Options {
	o.folderID = &id
	return o
}

// WithoutFolderID clears the folder id.
func (o Options) WithoutFolderID() Options {
	o.folderID = nil
	return o
}

// WithRequestID sets the x-request-id header.
func (o Options) WithRequestID(id string) Options {
	o.requestID = &id
	return o
}

// WithoutRequestID clears the request id.
func (o Options) WithoutRequestID() Options {
	o.requestID = nil
	return o
}

// WithMimeType overrides MIME detection for file based calls.
func (o Options) WithMimeType(mime string) Options {
	o.mimeType = &mime
	return o
}

// WithoutMimeType clears the MIME override.
func (o Options) WithoutMimeType() Options {
	o.mimeType = nil
	return o
}

// LanguageCodes returns a copy of the language hints.
func (o Options) LanguageCodes() []LanguageCode {
	return append([]LanguageCode(nil), o.languageCodes...)
}

// Model returns the selected model, or "" for the service default.
func (o Options) Model() Model {
	return o.model
}

// FolderID returns the folder id, or "" when unset.
func (o Options) FolderID() string {
	return deref(o.folderID)
}

// RequestID returns the request id, or "" when unset.
func (o Options) RequestID() string {
	return deref(o.requestID)
}

// MimeType returns the MIME override, or "" when unset.
func (o Options) MimeType() string {
	return deref(o.mimeType)
}

// Validate reports a ValidationError when a set identifier is blank.
func (o Options) Validate() error {
	if o.folderID != nil && strings.TrimSpace(*o.folderID) == "" {
		return NewValidationError("folderId must be a non-empty string.")
	}
	if o.requestID != nil && strings.TrimSpace(*o.requestID) == "" {
		return NewValidationError("requestId must be a non-empty string.")
	}
	if o.mimeType != nil && strings.TrimSpace(*o.mimeType) == "" {
		return NewValidationError("mimeType must be a non-empty string.")
	}
	for _, code := range o.languageCodes {
		if code == "" {
			return NewValidationError("languageCodes must not contain empty codes.")
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
