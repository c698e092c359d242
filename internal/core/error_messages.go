package core

// error_messages.go maps technical errors to user-facing messages with a
// support code. Users quote the code; support staff look it up here.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Ledger unavailable: the spreadsheet could not be fetched
//	         Action: Check the sheet ID and API key, then try again
//	         Patterns: "source fetch failed"
//
//	SRC002 - Empty ledger: the sheet has rows but no header row
//	         Action: Add a header row to the sheet
//	         Patterns: "header row is empty"
//
// # Render Errors (REN001-REN099)
//
//	REN001 - Invoice background missing: the template image could not be loaded
//	         Action: Check INVOICE_ASSET_DIR and the template's background
//	         Patterns: "background asset"
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Missing identifying field: record has no consumer name or invoice number
//	         Patterns: "missing identifying field"
//
//	EXP002 - Archive failed: invoices.zip could not be assembled
//	         Patterns: "archive assembly"
//
//	EXP003 - Exports busy: too many exports in progress
//	         Patterns: "too many exports"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Empty search: Patterns: "search term is required"
//	VAL002 - Bad row number: Patterns: "invalid row"
//	VAL003 - Unknown row: Patterns: "record not found"
//	VAL004 - Unknown format: Patterns: "unknown invoice format"
//
// # Access and Request Errors
//
//	AUTH001 - Invalid login: Patterns: "invalid credentials"
//	REQ001  - Request cancelled: Patterns: "context canceled"
//	REQ002  - Request timeout: Patterns: "context deadline exceeded", "timeout"
//	RATE001 - Rate limited: Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the logs for the technical error.
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so more specific patterns come first. Source errors are listed
// before the request errors because a fetch that timed out should still be
// reported as a ledger problem.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Source
	{
		pattern: "source fetch failed",
		msg: UserMessage{
			Message: "Unable to load the ledger",
			Action:  "Check the sheet ID and API key, then try again",
			Code:    "SRC001",
		},
	},
	{
		pattern: "header row is empty",
		msg: UserMessage{
			Message: "The ledger has no header row",
			Action:  "Add a header row to the sheet",
			Code:    "SRC002",
		},
	},

	// Render
	{
		pattern: "background asset",
		msg: UserMessage{
			Message: "The invoice background could not be loaded",
			Action:  "Check the invoice asset directory and template",
			Code:    "REN001",
		},
	},

	// Export
	{
		pattern: "missing identifying field",
		msg: UserMessage{
			Message: "The record has no consumer name or invoice number",
			Action:  "Fill in the Consumer Name and Invoice columns",
			Code:    "EXP001",
		},
	},
	{
		pattern: "archive assembly",
		msg: UserMessage{
			Message: "The invoice archive could not be created",
			Action:  "Please try again",
			Code:    "EXP002",
		},
	},
	{
		pattern: "too many exports",
		msg: UserMessage{
			Message: "Too many exports are running",
			Action:  "Please wait a moment and try again",
			Code:    "EXP003",
		},
	},

	// Validation
	{
		pattern: "search term is required",
		msg: UserMessage{
			Message: "Please enter a value to search",
			Action:  "Type a consumer name, or showall to list everything",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid row",
		msg: UserMessage{
			Message: "The row number is not valid",
			Action:  "Use the invoice links on the admin page",
			Code:    "VAL002",
		},
	},
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "That row no longer exists in the ledger",
			Action:  "Reload the admin page",
			Code:    "VAL003",
		},
	},
	{
		pattern: "unknown invoice format",
		msg: UserMessage{
			Message: "Unsupported invoice format",
			Action:  "Use png or pdf",
			Code:    "VAL004",
		},
	},

	// Access and request
	{
		pattern: "invalid credentials",
		msg: UserMessage{
			Message: "Invalid username or password",
			Action:  "Check your credentials and try again",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a narrower search or try again later",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a narrower search or try again later",
			Code:    "REQ002",
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

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// A nil error maps to the zero UserMessage.
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

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
