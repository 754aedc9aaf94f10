// Package operations turns symbolic processing intents into filter chains.
//
// A Request is an unordered set of tags ("resize_1080p", "enhance",
// "auto_level") plus named properties such as target_size_mb or fps. Resolve
// maps a Request onto the ordered FilterChain for one media kind using fixed
// rule tables: exclusive groups pick the first present tag in priority order,
// independent tags contribute one stage each, and the result is sorted into
// canonical category order. Resolution is pure; the same tag set always yields
// a deep-equal chain regardless of insertion order.
//
// Presets map a format label ("web", "social", ...) onto per-kind tag sets.
package operations
