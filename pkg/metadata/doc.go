// Package metadata models the document head of a page and merges it down
// the layout hierarchy.
//
// Layouts and pages each contribute a *Metadata. Resolve folds them from
// the root layout to the page, letting descendants override scalar fields
// while OpenGraph, Twitter and icon blocks merge key by key. HeadTags then
// writes the result as escaped <title>, <meta> and <link> tags.
package metadata
