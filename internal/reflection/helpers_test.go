package reflection_test

import (
	"testing"

	"reflq/internal/diag"
	"reflq/internal/model/modeltest"
	"reflq/internal/reflection"
)

type env struct {
	f   *modeltest.Fixture
	bag *diag.Bag
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return &env{f: modeltest.New(), bag: diag.NewBag(64)}
}

func (e *env) refl(v reflection.Value) reflection.Reflection {
	return reflection.New(e.f.Program, v).WithReporter(diag.BagReporter{Bag: e.bag})
}
