// Package schemafmt renders an ORM schema as a human-readable console
// report, either as plain text or with ANSI styling.
//
// The central entry point is [New], which takes the schema contract's
// constants ([Metadata]) and a [Mode] and assembles an ordered pipeline of
// [Renderer] units on top of an [OutputRenderer]:
//
//	r, err := schemafmt.New(schemafmt.DefaultMetadata, schemafmt.PlainText)
//	if err != nil { ... }
//	r.Render(os.Stdout, schema)
//
// # Pipeline
//
// The registry order is fixed:
//
//   - [TitleRenderer] — "[role] :: database.table"
//   - [PropertyRenderer] — one per recognized default property (ROLE,
//     ENTITY, MAPPER, SCOPE, REPOSITORY), in constant-table order
//   - [KeysRenderer] — the primary key, reported when missing
//   - joined-table inheritance pair, when PARENT and PARENT_KEY exist
//   - single-table inheritance pair, when CHILDREN and DISCRIMINATOR exist
//   - [ColumnsRenderer], [RelationsRenderer]
//   - [CustomPropertiesRenderer] — every slot the contract does not name
//   - [MacrosRenderer]
//
// # Metadata
//
// Only integer-valued constants are slots; any other member of a contract
// is ignored. [LoadMetadata] reads a contract from YAML or JSON and
// [LoadSchema] reads a schema keyed by the contract's slot names.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrMetadataUnavailable] — the contract could not be read
//   - [ErrUnsupportedMode] — unknown mode name
//   - [ErrInvalidSchema] — malformed schema document
package schemafmt
