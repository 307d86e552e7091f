package errors

import "github.com/google/uuid"

// ValidateSessionID validates a session identifier supplied by a caller.
// Session IDs are UUIDv4 strings issued by the session package; anything
// else is rejected before it reaches a store backend.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSession, "session ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return New(ErrCodeInvalidSession, "session ID is not a valid UUID: %q", id)
	}
	return nil
}

// ValidateIssueLabel performs a shallow syntactic check on an issue-node
// label before graph membership is verified. Labels are single uppercase
// letters drawn from the synthesis alphabet.
func ValidateIssueLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidInput, "issue node label cannot be empty")
	}
	if len(label) != 1 || label[0] < 'A' || label[0] > 'Z' {
		return New(ErrCodeInvalidInput, "issue node label must be a single letter A-Z: %q", label)
	}
	return nil
}
