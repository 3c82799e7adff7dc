package core

// error_messages.go maps technical errors to messages shown to staff who
// upload exports. Each message carries a code they can quote when asking
// for help.
//
// # Input Errors (NDG001-NDG099)
//
//	NDG001 - Invalid date: an ApplicationLastModifiedDateTime value could not be read
//	         Patterns: "invalid date"
//
//	NDG002 - No records: the export has a header but no data rows
//	         Patterns: "no records"
//
//	NDG003 - No fields: the first data row is empty so no output header exists
//	         Patterns: "has no fields"
//
//	NDG004 - Conflicting disposition: internal classification fault
//	         Patterns: "marks both start and stop"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large           Patterns: "file too large"
//	FILE002 - Invalid CSV              Patterns: "invalid csv"
//	FILE003 - Not a CSV file           Patterns: "unsupported file type"
//	FILE004 - No file selected         Patterns: "no file provided"
//	FILE005 - Empty file               Patterns: "empty file"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Busy: every run slot is taken      Patterns: "too many concurrent runs"
//	RUN002 - Run not found                      Patterns: "run not found"
//	RUN003 - Unknown output table               Patterns: "unknown table"
//	RUN004 - Request cancelled                  Patterns: "context canceled"
//	RUN005 - Request timed out                  Patterns: "context deadline exceeded"
//
// # Storage Errors (DB001-DB099)
//
//	DB001 - Connection refused   Patterns: "connection refused"
//	DB002 - Connection reset     Patterns: "connection reset"
//	DB003 - Timeout              Patterns: "timeout"
//
// # Rate Limiting
//
//	RATE001 - Too many requests  Patterns: "rate limit"
//
// ERR000 is the fallback. Check the server log for the technical error.
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Input
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "An application timestamp could not be read",
			Action:  "ApplicationLastModifiedDateTime must look like 5/3/2024 14:30 (day/month/year)",
			Code:    "NDG001",
		},
	},
	{
		pattern: "no records",
		msg: UserMessage{
			Message: "The export contains no applications",
			Action:  "Check the export filter and download it again",
			Code:    "NDG002",
		},
	},
	{
		pattern: "has no fields",
		msg: UserMessage{
			Message: "The first row of the export is empty",
			Action:  "Remove blank leading rows and upload again",
			Code:    "NDG003",
		},
	},
	{
		pattern: "marks both start and stop",
		msg: UserMessage{
			Message: "A student was classified inconsistently",
			Action:  "Please report this with the file you uploaded",
			Code:    "NDG004",
		},
	},

	// File. "file too large" is checked before "invalid csv" because the
	// decoder wraps size errors.
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Export a smaller date range and upload each part",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Export the report as CSV rather than Excel",
			Code:    "FILE002",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "Only .csv files can be processed",
			Action:  "Export the report as CSV",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a CSV file with a header row",
			Code:    "FILE005",
		},
	},

	// Run
	{
		pattern: "too many concurrent runs",
		msg: UserMessage{
			Message: "System is busy processing other files",
			Action:  "Please wait a moment and try again",
			Code:    "RUN001",
		},
	},
	{
		pattern: "run not found",
		msg: UserMessage{
			Message: "That run is no longer available",
			Action:  "Upload the export again to regenerate the files",
			Code:    "RUN002",
		},
	},
	{
		pattern: "unknown table",
		msg: UserMessage{
			Message: "Unknown output file",
			Action:  "Download start_nudge or stop_nudge",
			Code:    "RUN003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "RUN004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Processing timed out",
			Action:  "Try a smaller export or try again later",
			Code:    "RUN005",
		},
	},

	// Storage
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to run history storage",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Storage connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB003",
		},
	},

	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Unknown
// errors map to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message. Error returns the
// user message; Unwrap returns the technical error for logging.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. It returns nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
