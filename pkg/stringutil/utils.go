package stringutil

import (
	"errors"
	"net/mail"
	"path"
	"strconv"
	"strings"
)

// ColonEscape is the private use rune some maildir tools write in place of ':' on file
// systems that do not allow colons in names.
const ColonEscape = '\uf022'

// ErrPartPath indicates a malformed part path query.
var ErrPartPath = errors.New("malformed part path")

// NormalizePath cleans a slash separated message path: backslashes become slashes, "." and
// ".." elements are resolved, and leading slashes are removed. The result never escapes the
// root; "" means the root itself.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// ParsePartPath parses a comma separated list of non-negative part indices. The sentinel ","
// yields an empty path, meaning the message itself.
func ParsePartPath(s string) ([]int, error) {
	if s == "," {
		return []int{}, nil
	}
	if s == "" {
		return nil, ErrPartPath
	}
	fields := strings.Split(s, ",")
	loc := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseUint(strings.TrimSpace(f), 10, 31)
		if err != nil {
			return nil, ErrPartPath
		}
		loc[i] = int(n)
	}
	return loc, nil
}

// EscapeColon replaces ':' with ColonEscape.
func EscapeColon(s string) string {
	return strings.ReplaceAll(s, ":", string(ColonEscape))
}

// UnescapeColon replaces ColonEscape with ':'.
func UnescapeColon(s string) string {
	return strings.ReplaceAll(s, string(ColonEscape), ":")
}

// StringAddressList converts a list of addresses to a list of strings
func StringAddressList(addrs []*mail.Address) []string {
	s := make([]string, len(addrs))
	for i, a := range addrs {
		if a != nil {
			s[i] = a.String()
		}
	}
	return s
}
