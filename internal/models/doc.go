// Package models defines the core domain models for LandOBooks.
//
// The catalogue is two tables deep: a User owns zero or more Books.
// Relationships are expressed as explicit ID fields rather than object
// references, so a Book carries its owner's UserID and nothing else.
//
// Optional book attributes (ISBN, authors, page count, rating,
// thumbnail) use pointer types so that "absent" survives the round
// trip through SQLite as NULL instead of collapsing to a zero value.
package models
