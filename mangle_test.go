package cspc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMangleDoesNotDoublePrefixSynthesizedNames(t *testing.T) {
	tupleID := NewIdentifier("__csp_tuple_0__")
	assert.Equal(t, "__csp_tuple_0__", Mangle(tupleID))

	lambdaID := NewIdentifier("__csp_lambda_lit_0__")
	assert.Equal(t, "__csp_lambda_lit_0__", Mangle(lambdaID))
}

func TestMangleStillPrefixesOrdinaryNames(t *testing.T) {
	assert.Equal(t, "__csp_foo", Mangle(NewIdentifier("foo")))
}

func TestMangleMainIsAlwaysCspMain(t *testing.T) {
	assert.Equal(t, "__csp_main", Mangle(NewIdentifier("main")))
}
