// Package tabular holds header-plus-rows tables read from CSV and the column
// discovery used to locate team, opponent, and rank columns in feeds whose
// headers vary by provider.
//
// Discovery is explicit: a Role lists accepted header aliases in priority
// order and names its fallback. A missing column surfaces as a *SchemaError
// that matches ErrSchema with errors.Is.
package tabular
