package errortypes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsWarning(t *testing.T) {
	assert.True(t, IsWarning(&Warning{Message: "anything", WarningCode: UnknownWarningCode}))
	assert.False(t, IsWarning(&BadInput{Message: "anything"}))
	assert.False(t, IsWarning(errors.New("anything")))
}

func TestContainsFatalError(t *testing.T) {
	warning := &Warning{Message: "warning", WarningCode: UnknownWarningCode}
	fatal := &BadServerResponse{Message: "fatal"}
	plain := errors.New("plain errors count as fatal")

	assert.False(t, ContainsFatalError([]error{}))
	assert.False(t, ContainsFatalError([]error{warning}))
	assert.True(t, ContainsFatalError([]error{warning, fatal}))
	assert.True(t, ContainsFatalError([]error{plain}))
}

func TestSeverityFilters(t *testing.T) {
	warning := &Warning{Message: "warning", WarningCode: UnknownWarningCode}
	fatal := &BadInput{Message: "fatal"}
	errs := []error{warning, fatal}

	assert.Equal(t, []error{fatal}, FatalOnly(errs))
	assert.Equal(t, []error{warning}, WarningOnly(errs))
}
