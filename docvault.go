// Package docvault ingests third-party technical documentation, from web
// sites or GitHub repositories, into a hierarchical set of entries suitable
// for full-text indexing.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, git/).
package docvault
