package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiSkipsNilAndFansOut(t *testing.T) {
	var got []string
	record := func(name string) Observer {
		return ObserverFunc(func(ctx OperationContext) { got = append(got, name+":"+ctx.Operation) })
	}

	obs := Multi(record("a"), nil, record("b"))
	obs.ObserveOperation(OperationContext{Operation: "insert_point"})

	assert.Equal(t, []string{"a:insert_point", "b:insert_point"}, got)
}
