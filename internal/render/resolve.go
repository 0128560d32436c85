// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"net/url"
	"strings"
)

// Resolver rewrites relative link and image references against a base URL.
// With no base configured every reference passes through unchanged. The
// resolver performs no retries, no caching, and no availability checks.
type Resolver struct {
	base *url.URL
}

// NewResolver builds a resolver for baseURL. An empty baseURL yields an
// identity resolver.
func NewResolver(baseURL string) (*Resolver, error) {
	if baseURL == "" {
		return &Resolver{}, nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base URL %q is not absolute", baseURL)
	}
	return &Resolver{base: base}, nil
}

// Resolve returns ref resolved against the base URL. Absolute references,
// protocol-relative references, and fragment-only anchors are returned
// unchanged, as is anything that does not parse as a URL.
func (r *Resolver) Resolve(ref string) string {
	if r == nil || r.base == nil || ref == "" {
		return ref
	}
	if strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if u.IsAbs() {
		return ref
	}
	return r.base.ResolveReference(u).String()
}
