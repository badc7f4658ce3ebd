package callchain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedKey is returned by ParseKey when a string is not a
// well-formed canonical chain key.
var ErrMalformedKey = errors.New("malformed chain key")

// fieldSep is the rigid separator between the chain-call segment, the
// caching-process label, and the leaf marker. It is chosen over ';' because
// ';' collides with CSV output.
const fieldSep = " & "

// callSep separates individual calls within the chain-call segment.
const callSep = " | "

// leafMarker is the literal leaf-flag token.
const leafMarker = "*LEAF*"

// Key is the canonical string identity of a call chain:
// "c1 | c2 | … | cN & caching_process & *LEAF*?"
type Key string

// FormatKey builds the canonical key for the given calls, caching-process
// label, and leaf flag. When cachingProcess is empty the middle field is
// empty too, which yields a literal double space around the field
// separators ("… &  & *LEAF*"); this is intentional, not a formatting bug.
func FormatKey(calls []Call, cachingProcess string, isLeaf bool) Key {
	callStrs := make([]string, len(calls))
	for i, c := range calls {
		callStrs[i] = c.String()
	}

	leaf := ""
	if isLeaf {
		leaf = leafMarker
	}

	return Key(strings.Join([]string{strings.Join(callStrs, callSep), cachingProcess, leaf}, fieldSep))
}

// ParseKey inverts FormatKey. Go's strings.Split on a literal separator
// correctly recovers an empty middle field even when it produced the
// double-space form, because Split greedily consumes non-overlapping
// occurrences left to right.
func ParseKey(key Key) (calls []Call, cachingProcess string, isLeaf bool, err error) {
	parts := strings.Split(string(key), fieldSep)
	if len(parts) != 3 {
		return nil, "", false, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}

	callStrs := strings.Split(parts[0], callSep)

	calls = make([]Call, 0, len(callStrs))

	for _, s := range callStrs {
		c, parseErr := parseCall(s)
		if parseErr != nil {
			return nil, "", false, fmt.Errorf("%w: %w", ErrMalformedKey, parseErr)
		}

		calls = append(calls, c)
	}

	cachingProcess = parts[1]
	isLeaf = parts[2] == leafMarker

	if parts[2] != "" && !isLeaf {
		return nil, "", false, fmt.Errorf("%w: unrecognized leaf field %q", ErrMalformedKey, parts[2])
	}

	return calls, cachingProcess, isLeaf, nil
}

func parseCall(s string) (Call, error) {
	direction := Unknown

	switch {
	case strings.HasSuffix(s, " [Inbound]"):
		direction = Inbound
		s = strings.TrimSuffix(s, " [Inbound]")
	case strings.HasSuffix(s, " [Outbound]"):
		direction = Outbound
		s = strings.TrimSuffix(s, " [Outbound]")
	}

	process, method, ok := strings.Cut(s, "/")
	if !ok {
		return Call{}, fmt.Errorf("%w: call segment %q has no '/'", ErrMalformedKey, s)
	}

	return Call{Process: process, Method: method, Direction: direction}, nil
}

// BuildCachingProcessLabel scans calls for any process present in
// cachedProcesses, suppressing inbound GET/POST/HEAD/QUERY entries to avoid
// duplicate labeling, and returns the comma-separated, square-bracketed
// label, or "" if none matched.
func BuildCachingProcessLabel(calls []Call, cachedProcesses []string) string {
	cached := make(map[string]bool, len(cachedProcesses))
	for _, p := range cachedProcesses {
		cached[p] = true
	}

	seen := make(map[string]bool)

	var labels []string

	for _, c := range calls {
		if !cached[c.Process] {
			continue
		}

		if c.Direction == Inbound && httpVerbMethods[c.Method] {
			continue
		}

		if seen[c.Process] {
			continue
		}

		seen[c.Process] = true

		labels = append(labels, c.Process)
	}

	if len(labels) == 0 {
		return ""
	}

	return "[" + strings.Join(labels, ",") + "]"
}
