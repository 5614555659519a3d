package seekpager

// Package seekpager provides encrypted keyset ("seek") pagination for GORM.
//
// Overview
//
// seekpager pages a sorted dataset by seeking past a boundary row instead of
// skipping a row count, which keeps page fetches cheap and stable under
// concurrent writes. Every page is ordered by exactly one selectable sort
// dimension plus a unique identity column as tie-break, so the ordering tuple
// (sort value, id) is a strict total order even when sort values repeat.
//
// Page positions travel as opaque tokens: a small binary header plus the
// boundary sort value, sealed by an authenticated-encryption Crypter. A
// tampered, truncated or otherwise unreadable token fails decoding with
// ErrInvalidToken; it never decodes to a wrong position.
//
// Key concepts
//   - Binding: per-entity table of sort dimensions, their Key codecs and the
//     identity column used as tie-break.
//   - Pager: resolves request parameters and tokens into Cursor values and
//     mints tokens for responses.
//   - Fetch: applies the seek predicate, ordering and lookahead limit to a
//     GORM query and derives the previous/next cursors of the page.
//
// See README for examples and usage details.
