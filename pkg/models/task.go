package models

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
)

// ErrMissingField is wrapped by MissingFieldError. It signals a caller bug:
// a required constructor argument was absent.
var ErrMissingField = errors.New("missing required field")

// MissingFieldError names the first required field that was absent.
type MissingFieldError struct {
	Kind  TaskKind
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("building %s task: %s is required", e.Kind, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// TaskKind records which shape a Task was constructed in.
type TaskKind string

const (
	KindContact   TaskKind = "contact"
	KindScheduled TaskKind = "scheduled"
)

// StateComparable is implemented by values that can report whether they hold
// the same state as a task view.
type StateComparable interface {
	IsSameStateAs(other ReadOnlyTask) bool
}

// ReadOnlyTask is the read-only view of a task shared by storage, search and
// display code. Optional fields report ok=false when the task's shape does not
// carry them.
type ReadOnlyTask interface {
	StateComparable

	Kind() TaskKind
	Name() Name
	DateTime() (DateTime, bool)
	Status() (Status, bool)
	Priority() (Priority, bool)
	Phone() (Phone, bool)
	Email() (Email, bool)
	Address() (Address, bool)
	Tags() *UniqueTagList
	AsText() string
}

// Task is a single tracked item, either contact-shaped or schedule-shaped.
//
// Scalar fields are fixed at construction. SetTags is the only mutator and
// must not be called concurrently with other methods.
type Task struct {
	kind TaskKind

	name     Name
	dateTime DateTime
	status   Status
	priority Priority

	phone   Phone
	email   Email
	address Address

	tags *UniqueTagList
}

// NewContactTask builds a contact-shaped task. Every argument is required.
func NewContactTask(name Name, phone Phone, email Email, address Address, tags *UniqueTagList) (*Task, error) {
	if f := firstMissing(
		field{"name", name.IsZero()},
		field{"phone", phone.IsZero()},
		field{"email", email.IsZero()},
		field{"address", address.IsZero()},
		field{"tags", tags == nil},
	); f != "" {
		return nil, &MissingFieldError{Kind: KindContact, Field: f}
	}
	return &Task{
		kind:    KindContact,
		name:    name,
		phone:   phone,
		email:   email,
		address: address,
		tags:    tags.Copy(),
	}, nil
}

// NewScheduledTask builds a schedule-shaped task. status may be empty.
func NewScheduledTask(name Name, dateTime DateTime, priority Priority, status Status, tags *UniqueTagList) (*Task, error) {
	if f := firstMissing(
		field{"name", name.IsZero()},
		field{"datetime", dateTime.IsZero()},
		field{"priority", priority == ""},
		field{"tags", tags == nil},
	); f != "" {
		return nil, &MissingFieldError{Kind: KindScheduled, Field: f}
	}
	return &Task{
		kind:     KindScheduled,
		name:     name,
		dateTime: dateTime,
		priority: priority,
		status:   status,
		tags:     tags.Copy(),
	}, nil
}

// NewTaskFrom copies src through NewScheduledTask. Contact fields on src are
// not carried over, so copying a contact task fails for lack of a datetime.
func NewTaskFrom(src ReadOnlyTask) (*Task, error) {
	dt, _ := src.DateTime()
	p, _ := src.Priority()
	s, _ := src.Status()
	return NewScheduledTask(src.Name(), dt, p, s, src.Tags())
}

type field struct {
	name   string
	absent bool
}

func firstMissing(fields ...field) string {
	for _, f := range fields {
		if f.absent {
			return f.name
		}
	}
	return ""
}

func (t *Task) Kind() TaskKind { return t.kind }

func (t *Task) Name() Name { return t.name }

func (t *Task) DateTime() (DateTime, bool) { return t.dateTime, !t.dateTime.IsZero() }

func (t *Task) Status() (Status, bool) { return t.status, t.status != "" }

func (t *Task) Priority() (Priority, bool) { return t.priority, t.priority != "" }

func (t *Task) Phone() (Phone, bool) { return t.phone, !t.phone.IsZero() }

func (t *Task) Email() (Email, bool) { return t.email, !t.email.IsZero() }

func (t *Task) Address() (Address, bool) { return t.address, !t.address.IsZero() }

// Tags returns a fresh copy of the task's tags on every call.
func (t *Task) Tags() *UniqueTagList { return t.tags.Copy() }

// SetTags replaces the task's tags with the tags in replacement.
func (t *Task) SetTags(replacement *UniqueTagList) {
	t.tags.SetTags(replacement)
}

// IsSameStateAs reports whether other holds the same state as t.
func (t *Task) IsSameStateAs(other ReadOnlyTask) bool {
	return SameState(t, other)
}

// Equal reports whether other is t itself or a view holding the same state.
func (t *Task) Equal(other ReadOnlyTask) bool {
	if other == nil {
		return false
	}
	if o, ok := other.(*Task); ok {
		if o == t {
			return true
		}
		if o == nil {
			return false
		}
	}
	return t.IsSameStateAs(other)
}

// Hash combines name, phone, email, address and tags. Schedule fields are
// excluded, so SameState must compare at least these fields.
func (t *Task) Hash() uint64 {
	h := fnv.New64a()
	for _, s := range []string{t.name.String(), t.phone.String(), t.email.String(), t.address.String(), t.tags.String()} {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

func (t *Task) AsText() string { return FormatTask(t) }

func (t *Task) String() string { return t.AsText() }

// SameState compares two task views field by field: kind, name, every
// optional field including whether it is present, and tags.
func SameState(a, b ReadOnlyTask) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() || a.Name() != b.Name() {
		return false
	}
	adt, aok := a.DateTime()
	bdt, bok := b.DateTime()
	if aok != bok || !adt.Equal(bdt) {
		return false
	}
	if !samePair(a.Status, b.Status) || !samePair(a.Priority, b.Priority) ||
		!samePair(a.Phone, b.Phone) || !samePair(a.Email, b.Email) || !samePair(a.Address, b.Address) {
		return false
	}
	return a.Tags().Equal(b.Tags())
}

func samePair[T comparable](a, b func() (T, bool)) bool {
	av, aok := a()
	bv, bok := b()
	return aok == bok && av == bv
}

// FormatTask renders a task view as a single line of text.
func FormatTask(t ReadOnlyTask) string {
	var b strings.Builder
	b.WriteString(t.Name().String())
	switch t.Kind() {
	case KindContact:
		if p, ok := t.Phone(); ok {
			fmt.Fprintf(&b, " Phone: %s", p)
		}
		if e, ok := t.Email(); ok {
			fmt.Fprintf(&b, " Email: %s", e)
		}
		if a, ok := t.Address(); ok {
			fmt.Fprintf(&b, " Address: %s", a)
		}
	default:
		if dt, ok := t.DateTime(); ok {
			fmt.Fprintf(&b, " DateTime: %s", dt)
		}
		if p, ok := t.Priority(); ok {
			fmt.Fprintf(&b, " Priority: %s", p.Label())
		}
		if s, ok := t.Status(); ok {
			fmt.Fprintf(&b, " Status: %s", s)
		}
	}
	b.WriteString(" Tags: ")
	b.WriteString(t.Tags().String())
	return b.String()
}
