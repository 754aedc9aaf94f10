package operations

import (
	"fmt"
	"sort"
	"strings"

	"mediaforge/internal/services"
)

// Resolver maps requests onto filter chains.
type Resolver struct {
	// Strict rejects tags that no media kind understands. Tags belonging only
	// to another kind's vocabulary are still ignored.
	Strict bool
}

// Resolve maps req onto the ordered chain for kind using the package default
// (non-strict) resolver.
func Resolve(req Request, kind MediaKind) (FilterChain, error) {
	return Resolver{}.Resolve(req, kind)
}

// Resolve maps req onto the ordered chain for kind.
func (r Resolver) Resolve(req Request, kind MediaKind) (FilterChain, error) {
	rules, ok := rulesByKind[kind]
	if !ok {
		return FilterChain{}, services.Wrap(services.ErrInvalidInput, "resolve", "media kind", fmt.Sprintf("unsupported media kind %q", kind), nil)
	}
	if r.Strict {
		if unknown := unknownTags(req); len(unknown) > 0 {
			return FilterChain{}, services.Wrap(services.ErrInvalidInput, "resolve", "tags", "unknown tags: "+strings.Join(unknown, ", "), nil)
		}
	}

	chain := FilterChain{Kind: kind}
	for _, rl := range rules {
		tag, present := firstPresent(req, rl.tags)
		if !present {
			continue
		}
		stage, err := rl.build(tag, req)
		if err != nil {
			return FilterChain{}, services.Wrap(services.ErrInvalidInput, "resolve", tag, "", err)
		}
		chain.Stages = append(chain.Stages, stage)
	}
	sort.SliceStable(chain.Stages, func(i, j int) bool {
		return chain.Stages[i].Category() < chain.Stages[j].Category()
	})

	for _, tag := range intentTags[kind] {
		if tag == TagCompress && req.Has(tag) {
			chain.Compress = true
		}
	}
	return chain, nil
}

func firstPresent(req Request, tags []string) (string, bool) {
	for _, tag := range tags {
		if req.Has(tag) {
			return tag, true
		}
	}
	return "", false
}

func unknownTags(req Request) []string {
	var unknown []string
	for _, tag := range req.Tags() {
		if !KnownTag(tag) {
			unknown = append(unknown, tag)
		}
	}
	return unknown
}
