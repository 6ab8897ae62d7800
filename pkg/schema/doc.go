// Package schema declares the field set of a form and the string rules applied
// to each field. A Schema is parameterised on a brand type S; the keys it hands
// out (Field[S]) are the only way to reach a field through the typed APIs in
// the form and control packages, so a reference to a field the schema never
// declared does not compile. Names that arrive at runtime (templates, HTTP
// bodies, definition files) go through Lookup/Validate and fail fast with an
// *UnknownFieldError.
//
// Schemas can be declared with the Builder, derived from struct tags with
// FromStruct, or compiled from a declarative Definition loaded from YAML, JSON
// or an OpenAPI component schema.
package schema
