package gateway

import (
	"fmt"
	"sort"
)

var ErrNotFound = fmt.Errorf("not found")

// ValidationError is a single business-rule rejection reported by the gateway.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors is the gateway's nested error structure. Errors attached to
// sub-objects of the request appear under Children keyed by field name.
type ValidationErrors struct {
	Errors   []ValidationError            `json:"errors,omitempty"`
	Children map[string]*ValidationErrors `json:"children,omitempty"`
}

// AllDeep flattens the tree depth-first: a node's own errors first, then each
// child subtree in sorted key order. The order is stable so aggregated error
// text is deterministic.
func (v *ValidationErrors) AllDeep() []ValidationError {
	if v == nil {
		return nil
	}

	all := append([]ValidationError{}, v.Errors...)

	keys := make([]string, 0, len(v.Children))
	for k := range v.Children {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		all = append(all, v.Children[k].AllDeep()...)
	}

	return all
}

// Empty reports whether the tree carries no errors at any depth.
func (v *ValidationErrors) Empty() bool {
	if v == nil {
		return true
	}
	if len(v.Errors) > 0 {
		return false
	}
	for _, child := range v.Children {
		if !child.Empty() {
			return false
		}
	}
	return true
}
