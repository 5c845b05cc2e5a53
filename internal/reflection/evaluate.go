package reflection

import (
	"reflq/internal/model"
	"reflq/internal/traits"
)

// Result is the outcome of one query. Only the field of the query's band
// is meaningful.
type Result struct {
	Query  Query
	Bool   bool
	Traits *traits.Record
	Value  Value
	Name   model.ConstString
	Attr   model.ConstValue
	Err    error
}

func (res Result) Band() Band { return res.Query.Band() }

func (res Result) Failed() bool { return res.Err != nil }

// Evaluate routes q to the entry point of its band. Attribute queries
// take the attribute type as arg; every other query ignores it.
func (r Reflection) Evaluate(q Query, arg Value) Result {
	res := Result{Query: q}
	switch q.Band() {
	case BandPredicate:
		res.Bool, res.Err = r.EvaluatePredicate(q)
	case BandTrait:
		res.Traits, res.Err = r.GetTraitRecord(q)
	case BandAssociated:
		res.Value, res.Err = r.GetAssociated(q)
	case BandName:
		res.Name, res.Err = r.GetName(q)
	case BandAttribute:
		if q == GetAttribute {
			res.Attr, res.Err = r.GetAttribute(arg)
		} else {
			res.Bool, res.Err = r.HasAttribute(arg)
		}
	default:
		panic("reflection: query outside the catalogue: " + q.String())
	}
	return res
}
