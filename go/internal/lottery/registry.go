package lottery

import (
	"sort"
	"strings"
	"unicode"
)

// Registry is a set of participant usernames. It is not safe for concurrent use;
// Session serializes access to it.
type Registry struct {
	members map[string]struct{}
}

// NewRegistry creates a registry holding the given usernames
func NewRegistry(usernames ...string) *Registry {
	r := &Registry{members: make(map[string]struct{}, len(usernames))}
	for _, u := range usernames {
		r.members[u] = struct{}{}
	}
	return r
}

// Add inserts a username and reports whether it was new
func (r *Registry) Add(username string) bool {
	if _, ok := r.members[username]; ok {
		return false
	}
	r.members[username] = struct{}{}
	return true
}

// Contains reports whether the username is registered
func (r *Registry) Contains(username string) bool {
	_, ok := r.members[username]
	return ok
}

// Len returns the number of registered usernames
func (r *Registry) Len() int {
	return len(r.members)
}

// Members returns the usernames in sorted order
func (r *Registry) Members() []string {
	out := make([]string, 0, len(r.members))
	for u := range r.members {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// NormalizeUsername trims the raw input and validates it. Only letters and digits are accepted.
func NormalizeUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if username == "" {
		return "", ErrInvalidUsername
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return "", ErrInvalidUsername
		}
	}
	return username, nil
}
