package models

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrDuplicateTag is returned when a tag is added to a list that already holds it.
var ErrDuplicateTag = errors.New("duplicate tag")

var tagPattern = regexp.MustCompile(`^[\p{L}\p{N}]+$`)

// Tag is a free-form alphanumeric label.
type Tag struct{ name string }

// ParseTag validates s as a Tag.
func ParseTag(s string) (Tag, error) {
	v := strings.TrimSpace(s)
	if !tagPattern.MatchString(v) {
		return Tag{}, &FieldError{Field: "tag", Value: s, Reason: "must be alphanumeric"}
	}
	return Tag{name: v}, nil
}

func (t Tag) String() string { return t.name }

// UniqueTagList is a set of tags. Iteration order is sorted by name.
//
// A UniqueTagList is not safe for concurrent mutation.
type UniqueTagList struct {
	set map[Tag]struct{}
}

// NewUniqueTagList builds a list from tags, rejecting duplicates.
func NewUniqueTagList(tags ...Tag) (*UniqueTagList, error) {
	l := &UniqueTagList{set: make(map[Tag]struct{}, len(tags))}
	for _, t := range tags {
		if err := l.Add(t); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Copy returns an independently owned list with the same tags.
func (l *UniqueTagList) Copy() *UniqueTagList {
	c := &UniqueTagList{set: make(map[Tag]struct{}, l.Len())}
	if l == nil {
		return c
	}
	for t := range l.set {
		c.set[t] = struct{}{}
	}
	return c
}

// SetTags replaces the contents of l with the tags in replacement.
func (l *UniqueTagList) SetTags(replacement *UniqueTagList) {
	l.set = replacement.Copy().set
}

// Add inserts t, failing with ErrDuplicateTag if it is already present.
func (l *UniqueTagList) Add(t Tag) error {
	if l.set == nil {
		l.set = make(map[Tag]struct{})
	}
	if _, ok := l.set[t]; ok {
		return fmt.Errorf("adding tag %s: %w", t, ErrDuplicateTag)
	}
	l.set[t] = struct{}{}
	return nil
}

// Remove deletes t and reports whether it was present.
func (l *UniqueTagList) Remove(t Tag) bool {
	if _, ok := l.set[t]; !ok {
		return false
	}
	delete(l.set, t)
	return true
}

func (l *UniqueTagList) Contains(t Tag) bool {
	if l == nil {
		return false
	}
	_, ok := l.set[t]
	return ok
}

func (l *UniqueTagList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.set)
}

// Tags returns the tags sorted by name in a fresh slice.
func (l *UniqueTagList) Tags() []Tag {
	out := make([]Tag, 0, l.Len())
	if l == nil {
		return out
	}
	for t := range l.set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Strings returns the tag names sorted.
func (l *UniqueTagList) Strings() []string {
	tags := l.Tags()
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.name
	}
	return out
}

// Equal reports whether l and o hold the same tags.
func (l *UniqueTagList) Equal(o *UniqueTagList) bool {
	if l.Len() != o.Len() {
		return false
	}
	for _, t := range l.Tags() {
		if !o.Contains(t) {
			return false
		}
	}
	return true
}

// String renders the list as [a][b][c].
func (l *UniqueTagList) String() string {
	var b strings.Builder
	for _, t := range l.Tags() {
		b.WriteString("[")
		b.WriteString(t.name)
		b.WriteString("]")
	}
	return b.String()
}
