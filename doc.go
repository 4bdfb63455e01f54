// doc.go - package documentation for stackerr
//
// Package stackerr provides location-aware errors whose causal chains render
// as stack-trace-like reports. Error types are usually not written by hand:
// the stackgen tool reads a YAML schema and generates structs that capture
// their construction site and implement StackError.
//
// # Defining Errors
//
// A schema declares records and tagged variants:
//
//	package: storage
//	types:
//	  - name: ReadConfigError
//	    attrs: ['display("read config {Path}")']
//	    fields:
//	      - {name: Path, type: string}
//	      - {name: Source, type: error}
//	  - name: StoreError
//	    variants:
//	      - name: NotFound
//	        attrs: ['display("key {Key} not found")']
//	        fields: [{name: Key, type: string}]
//
// `stackgen generate` emits, per record or case, a struct with a Location
// field (synthesized when none is declared), a NewXxx constructor that fills
// it with Caller(1), and the StackError methods. A field named Source, or
// one marked with a `source` directive, becomes the cause.
//
// # Field Roles
//
//   - location: the field holding the construction site. Picked from an
//     explicit `location` directive, else the single field of type
//     stackerr.Location, else synthesized as `Location stackerr.Location`.
//   - source: the cause. `from` on a field wraps a non-error type in
//     DisplayError and converts it in the constructor.
//
// Conflicts (two location markers, a wrongly typed `location` field, role
// directives on a type) are reported by stackgen with the schema position
// and no code is generated for the offending unit.
//
// # Reports
//
// Sprint, Fprint and Chain render a chain in two phases: first the
// location-aware causes reached through StackSource, then the generic causes
// reached through Unwrap from the deepest of them.
//
//	Error: ReadConfigError: read config app.toml, at main.go:12:0
//	Caused by the following errors (recent errors listed first):
//	  1| open app.toml: no such file or directory
//
// Runtime locations carry column 0 because Go does not expose columns.
//
// # Program Exit
//
//	func main() { stackerr.Main(run) }
//
// Main prints the report to stderr and exits with status 1 on failure. The
// build tag stackerr_noexit removes Main and Report.ExitCode.
//
// # Interop
//
//   - Generated types implement Unwrap, so errors.Is/As see their causes.
//   - Boxed carries any StackError behind one concrete type; errors.As
//     still finds the boxed value.
//   - As, LocationOf and IsStackError search any error graph, including
//     errors.Join results.
package stackerr
