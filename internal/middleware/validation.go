package middleware

import (
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Input size limits.
const (
	MaxInstructionLength = 2000
	MaxTopicLength       = 500
	MaxToneSampleLength  = 5000
	MaxCustomPromptLen   = 1000
)

// ValidateSessionID validates a session ID.
func ValidateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid session ID format")
	}
	return nil
}

// ValidateHistoryID validates a history item ID.
func ValidateHistoryID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid history item ID format")
	}
	return nil
}

// ValidateInstruction validates a refinement instruction.
func ValidateInstruction(instruction string) error {
	if len(instruction) == 0 {
		return errors.New("instruction cannot be empty")
	}
	if utf8.RuneCountInString(instruction) > MaxInstructionLength {
		return errors.New("instruction exceeds maximum length")
	}
	if !utf8.ValidString(instruction) {
		return errors.New("instruction must be valid UTF-8")
	}
	return nil
}

// ValidateFreeText checks the free-text fields of a configuration.
func ValidateFreeText(topic, toneSample, customPrompt string) error {
	for _, f := range []struct {
		name  string
		value string
		limit int
	}{
		{"topic", topic, MaxTopicLength},
		{"tone sample", toneSample, MaxToneSampleLength},
		{"custom topic prompt", customPrompt, MaxCustomPromptLen},
	} {
		if !utf8.ValidString(f.value) {
			return errors.New(f.name + " must be valid UTF-8")
		}
		if utf8.RuneCountInString(f.value) > f.limit {
			return errors.New(f.name + " exceeds maximum length")
		}
	}
	return nil
}
