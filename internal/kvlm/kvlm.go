// Package kvlm implements the Key-Value List with Message codec shared by
// commit and tag objects: an ordered, possibly multi-valued mapping plus a
// trailing free-form message.
package kvlm

import (
	"bytes"
	"fmt"
)

// Message is a parsed KVLM body. Keys preserve first-insertion order;
// repeated keys accumulate into Lists rather than overwriting. Message is
// the text following the blank line separator.
type Message struct {
	// order is the sequence in which keys first appeared, for serialize.
	order  []string
	single map[string]string
	lists  map[string][]string
	// isList records whether a key became a list (2nd+ occurrence), so a
	// lone value is never round-tripped as a one-element list.
	isList  map[string]bool
	Message string
}

// New returns an empty Message ready for Set calls and a Message assignment.
func New() *Message {
	return &Message{
		single: make(map[string]string),
		lists:  make(map[string][]string),
		isList: make(map[string]bool),
	}
}

// Get returns the single value for key, or the last value if key is a list.
func (m *Message) Get(key string) (string, bool) {
	if m.isList[key] {
		vs := m.lists[key]
		if len(vs) == 0 {
			return "", false
		}
		return vs[len(vs)-1], true
	}
	v, ok := m.single[key]
	return v, ok
}

// All returns every value recorded for key, in arrival order.
func (m *Message) All(key string) []string {
	if m.isList[key] {
		return m.lists[key]
	}
	if v, ok := m.single[key]; ok {
		return []string{v}
	}
	return nil
}

// Set appends a value for key. A key's second Set call promotes it to a
// list, matching the KVLM rule that repeated keys accumulate in order.
func (m *Message) Set(key, value string) {
	if _, seen := m.single[key]; !seen && !m.isList[key] {
		m.order = append(m.order, key)
		m.single[key] = value
		return
	}
	if !m.isList[key] {
		m.isList[key] = true
		m.lists[key] = []string{m.single[key], value}
		delete(m.single, key)
		return
	}
	m.lists[key] = append(m.lists[key], value)
}

// Keys returns the keys in first-insertion order.
func (m *Message) Keys() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Parse decodes a KVLM byte stream. A key runs to the first space on a
// logical line; its value runs until a newline not followed by a space
// (continuation lines are un-escaped by stripping the leading space). A
// blank line starts the message, which runs to end-of-buffer.
func Parse(raw []byte) (*Message, error) {
	m := New()
	pos := 0
	for {
		space := bytes.IndexByte(raw[pos:], ' ')
		newline := bytes.IndexByte(raw[pos:], '\n')

		if space < 0 {
			space = -1
		} else {
			space += pos
		}
		if newline < 0 {
			return nil, fmt.Errorf("kvlm: unterminated record at offset %d", pos)
		}
		newline += pos

		if space == -1 || newline < space {
			if newline != pos {
				return nil, fmt.Errorf("kvlm: expected blank line at offset %d", pos)
			}
			m.Message = string(raw[pos+1:])
			return m, nil
		}

		key := string(raw[pos:space])

		end := newline
		for {
			next := bytes.IndexByte(raw[end+1:], '\n')
			if next < 0 {
				return nil, fmt.Errorf("kvlm: unterminated value for key %q", key)
			}
			next += end + 1
			if end+1 >= len(raw) || raw[end+1] != ' ' {
				break
			}
			end = next
		}

		value := bytes.ReplaceAll(raw[space+1:end], []byte("\n "), []byte("\n"))
		m.Set(key, string(value))

		pos = end + 1
	}
}

// Serialize encodes a Message back to KVLM bytes: "key SP value LF" per
// value (continuation newlines re-escaped as "LF SP"), then a blank line,
// then the message. Message already carries any trailing LF Parse captured
// from the source, so none is added here — keeping Parse(Serialize(m)) == m.
func Serialize(m *Message) []byte {
	var buf bytes.Buffer
	for _, key := range m.order {
		for _, v := range m.All(key) {
			buf.WriteString(key)
			buf.WriteByte(' ')
			buf.Write(bytes.ReplaceAll([]byte(v), []byte("\n"), []byte("\n ")))
			buf.WriteByte('\n')
		}
	}
	buf.WriteByte('\n')
	buf.WriteString(m.Message)
	return buf.Bytes()
}
