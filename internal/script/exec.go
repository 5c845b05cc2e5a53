package script

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"reflq/internal/diag"
	"reflq/internal/reflection"
	"reflq/internal/trace"
)

// Outcome is the printable result of one statement.
type Outcome struct {
	Line    int      `json:"line" msgpack:"line"`
	Source  string   `json:"source" msgpack:"source"`
	Query   string   `json:"query" msgpack:"query"`
	Band    string   `json:"band,omitempty" msgpack:"band,omitempty"`
	Subject string   `json:"subject,omitempty" msgpack:"subject,omitempty"`
	Result  string   `json:"result,omitempty" msgpack:"result,omitempty"`
	Bool    *bool    `json:"bool,omitempty" msgpack:"bool,omitempty"`
	Traits  *uint32  `json:"traits,omitempty" msgpack:"traits,omitempty"`
	Walk    []string `json:"walk,omitempty" msgpack:"walk,omitempty"`
	Error   string   `json:"error,omitempty" msgpack:"error,omitempty"`
}

func (o Outcome) Failed() bool { return o.Error != "" }

// Run executes every statement in order. Each one is traced as a query
// span below the span found in ctx.
func (rn *Runner) Run(ctx context.Context, s *Script) ([]Outcome, error) {
	traced := trace.Enabled(trace.FromContext(ctx))
	out := make([]Outcome, 0, len(s.Statements))
	for _, st := range s.Statements {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		var span *trace.Span
		if traced {
			span = trace.StartQuery(ctx, st.Line, st.Name(), st.operandStrings())
		}
		o := rn.Exec(st)
		if o.Failed() {
			span.Fail().End("error: " + o.Error)
		} else {
			span.End(o.Result)
		}
		out = append(out, o)
	}
	return out, nil
}

// Exec evaluates one statement.
func (rn *Runner) Exec(st Statement) Outcome {
	out := Outcome{Line: st.Line, Source: st.Source, Query: st.Name()}
	vals := make([]reflection.Value, len(st.Operands))
	for i, op := range st.Operands {
		res, ok := rn.Resolve(op)
		if !ok {
			out.Error = "unresolved operand " + op.String()
			return out
		}
		vals[i] = res.Reflect()
	}

	subject := reflection.New(rn.Program, vals[0]).
		At(st.Span).
		WithReporter(rn.Reporter).
		WithOptions(rn.Options)
	out.Subject = reflection.Describe(rn.Program, vals[0])

	switch st.Verb {
	case VerbEqual:
		eq := reflection.Equal(rn.Program, vals[0], vals[1])
		out.Bool, out.Result = &eq, strconv.FormatBool(eq)
	case VerbWalk:
		for m, err := range subject.Walk() {
			if err != nil {
				out.Error = err.Error()
				break
			}
			out.Walk = append(out.Walk, reflection.Describe(rn.Program, m.Value()))
		}
		out.Result = fmt.Sprintf("%d member(s)", len(out.Walk))
	case VerbQuery:
		var arg reflection.Value
		if len(vals) > 1 {
			arg = vals[1]
		}
		out.Band = st.Query.Band().String()
		res := subject.Evaluate(st.Query, arg)
		if res.Failed() {
			out.Error = res.Err.Error()
			if errors.Is(res.Err, reflection.ErrNoAttribute) {
				diag.ReportError(rn.Reporter, diag.ReflNoAttribute, st.Span,
					fmt.Sprintf("%s has no attribute of %s", out.Subject, reflection.Describe(rn.Program, arg))).Emit()
			}
			return out
		}
		rn.render(&out, res)
	}
	return out
}

func (rn *Runner) render(out *Outcome, res reflection.Result) {
	switch {
	case res.Band() == reflection.BandPredicate || res.Query == reflection.HasAttribute:
		b := res.Bool
		out.Bool, out.Result = &b, strconv.FormatBool(b)
	case res.Band() == reflection.BandTrait:
		w := res.Traits.Word()
		out.Traits = &w
		out.Result = fmt.Sprintf("%#x %s", w, res.Traits)
	case res.Band() == reflection.BandAssociated:
		out.Result = reflection.Describe(rn.Program, res.Value)
	case res.Band() == reflection.BandName:
		out.Result = strconv.Quote(res.Name.Text)
	default:
		out.Result = res.Attr.String()
	}
}
