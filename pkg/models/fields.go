package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalidField is wrapped by every ParseXxx failure.
var ErrInvalidField = errors.New("invalid field")

// FieldError describes a value that failed validation.
type FieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidField }

const maxNameLength = 100

var (
	phonePattern = regexp.MustCompile(`^\d{3,}$`)
	emailPattern = regexp.MustCompile(`^[\w.+\-]+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)*$`)
)

// Name is the identifying label of a task or contact.
type Name struct{ value string }

// ParseName trims s and validates it as a Name.
func ParseName(s string) (Name, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return Name{}, &FieldError{Field: "name", Value: s, Reason: "must not be blank"}
	}
	if utf8.RuneCountInString(v) > maxNameLength {
		return Name{}, &FieldError{Field: "name", Value: s, Reason: fmt.Sprintf("must be at most %d characters", maxNameLength)}
	}
	return Name{value: v}, nil
}

func (n Name) String() string { return n.value }

// IsZero reports whether n is the absent Name.
func (n Name) IsZero() bool { return n.value == "" }

// Phone is a contact phone number made of digits only.
type Phone struct{ value string }

// ParsePhone validates s as a Phone.
func ParsePhone(s string) (Phone, error) {
	v := strings.TrimSpace(s)
	if !phonePattern.MatchString(v) {
		return Phone{}, &FieldError{Field: "phone", Value: s, Reason: "must contain only digits, at least 3"}
	}
	return Phone{value: v}, nil
}

func (p Phone) String() string { return p.value }

// IsZero reports whether p is the absent Phone.
func (p Phone) IsZero() bool { return p.value == "" }

// Email is a contact email address.
type Email struct{ value string }

// ParseEmail validates s as an Email.
func ParseEmail(s string) (Email, error) {
	v := strings.TrimSpace(s)
	if !emailPattern.MatchString(v) {
		return Email{}, &FieldError{Field: "email", Value: s, Reason: "must look like local@domain"}
	}
	return Email{value: v}, nil
}

func (e Email) String() string { return e.value }

// IsZero reports whether e is the absent Email.
func (e Email) IsZero() bool { return e.value == "" }

// Address is a free-form contact address.
type Address struct{ value string }

// ParseAddress validates s as an Address.
func ParseAddress(s string) (Address, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return Address{}, &FieldError{Field: "address", Value: s, Reason: "must not be blank"}
	}
	return Address{value: v}, nil
}

func (a Address) String() string { return a.value }

// IsZero reports whether a is the absent Address.
func (a Address) IsZero() bool { return a.value == "" }

// DateTimeLayout is the user-facing input and display format.
const DateTimeLayout = "02/01/2006 1504"

// DateTime is the point in time a scheduled task is due.
type DateTime struct{ t time.Time }

// NewDateTime wraps t. The zero time yields the absent DateTime.
func NewDateTime(t time.Time) DateTime {
	return DateTime{t: t}
}

// ParseDateTime accepts DateTimeLayout (local time) or RFC3339.
func ParseDateTime(s string) (DateTime, error) {
	v := strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateTimeLayout, v, time.Local); err == nil {
		return DateTime{t: t}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return DateTime{t: t}, nil
	}
	return DateTime{}, &FieldError{Field: "datetime", Value: s, Reason: "expected dd/mm/yyyy hhmm or RFC3339"}
}

// Time returns the wrapped time.
func (d DateTime) Time() time.Time { return d.t }

// Equal reports whether d and o denote the same instant.
func (d DateTime) Equal(o DateTime) bool { return d.t.Equal(o.t) }

func (d DateTime) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(DateTimeLayout)
}

// IsZero reports whether d is the absent DateTime.
func (d DateTime) IsZero() bool { return d.t.IsZero() }

// Priority is the urgency level of a scheduled task.
type Priority string

const (
	PriorityHigh   Priority = "h"
	PriorityMedium Priority = "m"
	PriorityLow    Priority = "l"
)

// ParsePriority accepts h/m/l or high/medium/low in any case.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "high":
		return PriorityHigh, nil
	case "m", "medium":
		return PriorityMedium, nil
	case "l", "low":
		return PriorityLow, nil
	}
	return "", &FieldError{Field: "priority", Value: s, Reason: "must be one of h, m, l"}
}

// Label returns the long form of p.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	}
	return ""
}

func (p Priority) String() string { return string(p) }

// Status is the completion state of a scheduled task.
type Status string

const (
	StatusDone   Status = "done"
	StatusUndone Status = "undone"
)

// ParseStatus accepts done or undone in any case.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusDone:
		return StatusDone, nil
	case StatusUndone:
		return StatusUndone, nil
	}
	return "", &FieldError{Field: "status", Value: s, Reason: "must be done or undone"}
}

func (s Status) String() string { return string(s) }
