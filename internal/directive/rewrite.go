package directive

import (
	"strings"

	"github.com/xgx-io/stackerr/internal/diag"
)

// Role directives, understood by stackgen itself.
const (
	RoleLocation = "location"
	RoleFrom     = "from"
)

// Passthrough directive names the rewriter looks at.
const (
	Source   = "source"
	Implicit = "implicit"
)

// Go spellings the generator relies on.
const (
	LocationType     = "stackerr.Location"
	displayErrorType = "stackerr.DisplayError"
	displayErrorCtor = "stackerr.NewDisplayError"
)

// Level is the schema granularity a group is attached to.
type Level int

const (
	TypeLevel Level = iota
	CaseLevel
	FieldLevel
)

func (l Level) String() string {
	switch l {
	case TypeLevel:
		return "type"
	case CaseLevel:
		return "case"
	default:
		return "field"
	}
}

// Input is everything the rewriter needs for one type, case or field.
type Input struct {
	Level   Level
	Attrs   []Group // stackgen dialect
	Derive  []Group // derivation dialect, forwarded verbatim
	Type    string  // declared field type; FieldLevel only
	Pos     diag.Pos
	TypePos diag.Pos
}

// Result is the rewritten form.
type Result struct {
	// Passthrough holds the derivation dialect: the verbatim Derive groups,
	// then the non-role part of every Attrs group, then synthesized groups.
	Passthrough []Group
	Location    bool
	From        bool
	Type        string // field type after rewriting
}

// Rewrite splits role directives from passthrough directives and applies
// `from` and `location`. All problems found are returned together.
func Rewrite(in Input) (Result, error) {
	res := Result{Type: in.Type}
	res.Passthrough = append(res.Passthrough, in.Derive...)

	var errs error
	for _, g := range in.Attrs {
		pass, from, loc, err := splitRoles(g, in.Level)
		if err != nil {
			errs = diag.Combine(errs, err)
			continue
		}
		if len(pass.Items) > 0 {
			res.Passthrough = append(res.Passthrough, pass)
		}
		res.From = res.From || from
		res.Location = res.Location || loc
	}
	if in.Level != FieldLevel {
		return res, errs
	}

	if res.From && res.Location {
		return res, diag.Combine(errs, diag.Errorf(in.Pos,
			"`from` and `location` cannot be used on the same field").
			WithHint("a field either records where the error was built or carries its cause"))
	}

	if res.From {
		if AnyHas(res.Passthrough, Source) {
			errs = diag.Combine(errs, diag.Errorf(in.Pos,
				"`from` conflicts with existing `source(...)`").
				WithHint("remove the explicit source directive; `from` generates one"))
		} else {
			original, ok := DisplayErrorInner(in.Type)
			if !ok {
				original = in.Type
				res.Type = displayErrorType + "[" + in.Type + "]"
			}
			text := Source + "(from(" + original + ", " + displayErrorCtor + "[" + original + "]))"
			res.Passthrough = append(res.Passthrough, MustParse(text, in.Pos))
		}
	}

	if res.Location {
		if !IsLocationType(in.Type) {
			pos := in.TypePos
			if pos.Line == 0 {
				pos = in.Pos
			}
			errs = diag.Combine(errs, diag.Errorf(pos,
				"`location` requires the field type to be %s, found %s", LocationType, in.Type))
		} else {
			res.Passthrough = EnsureImplicit(res.Passthrough, in.Pos)
		}
	}
	return res, errs
}

// splitRoles separates the role directives of one group.
func splitRoles(g Group, level Level) (pass Group, from, loc bool, err error) {
	pass.Pos = g.Pos
	hasSource := false
	for _, d := range g.Items {
		switch {
		case d.Bare(RoleFrom), d.Bare(RoleLocation):
			if level != FieldLevel {
				return Group{}, false, false, diag.Errorf(d.Pos,
					"`%s` can only be used on fields", d.Name).
					WithHint("move it to the field it applies to")
			}
			if d.Name == RoleFrom {
				from = true
			} else {
				loc = true
			}
		default:
			if d.Name == Source {
				hasSource = true
			}
			pass.Items = append(pass.Items, d)
		}
	}
	if from && hasSource {
		return Group{}, false, false, diag.Errorf(g.Pos,
			"`from` conflicts with `source(...)`: `from` generates `source(from(...))` itself")
	}
	return pass, from, loc, nil
}

// EnsureImplicit appends a bare `implicit` group unless one is present.
func EnsureImplicit(groups []Group, pos diag.Pos) []Group {
	if AnyHasBare(groups, Implicit) {
		return groups
	}
	return append(groups, Group{Items: []Directive{{Name: Implicit, Pos: pos}}, Pos: pos})
}

// IsLocationType reports whether a declared Go type is stackerr.Location.
func IsLocationType(t string) bool {
	return normalizeType(t) == LocationType
}

// DisplayErrorInner returns X for a type spelled stackerr.DisplayError[X].
func DisplayErrorInner(t string) (string, bool) {
	t = strings.TrimSpace(t)
	i := strings.IndexByte(t, '[')
	if i < 0 || !strings.HasSuffix(t, "]") || normalizeType(t[:i]) != displayErrorType {
		return "", false
	}
	return strings.TrimSpace(t[i+1 : len(t)-1]), true
}

// normalizeType drops blanks so "stackerr . Location" and
// "stackerr.Location" compare equal.
func normalizeType(t string) string {
	return strings.Join(strings.Fields(t), "")
}
