// Package tags defines the ordered set of tags used to group API operations
// in the generated documentation and derives the tag metadata consumed by the
// OpenAPI document builder.
//
// Documentation renderers only understand a flat tag list, so nesting is
// expressed by joining node names with Separator. Catalogs are declared as a
// tree of Node values and flattened in pre-order, which keeps every group
// adjacent to its parent.
package tags
