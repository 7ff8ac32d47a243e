package errortypes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The numeric codes are part of the wire contract with hosts and must stay
// aligned with the upstream framework enum.
func TestErrorCodesPinned(t *testing.T) {
	assert.Equal(t, 1, (&Timeout{}).Code())
	assert.Equal(t, 2, (&BadInput{}).Code())
	assert.Equal(t, 4, (&BadServerResponse{}).Code())
	assert.Equal(t, 5, (&FailedToRequestBids{}).Code())
	assert.Equal(t, 13, FailedToMarshalErrorCode)
	assert.Equal(t, 14, FailedToUnmarshalErrorCode)
}

func TestReadCode(t *testing.T) {
	assert.Equal(t, BadInputErrorCode, ReadCode(&BadInput{Message: "anything"}))
	assert.Equal(t, UnknownWarningCode, ReadCode(&Warning{Message: "anything", WarningCode: UnknownWarningCode}))
	assert.Equal(t, UnknownErrorCode, ReadCode(errors.New("anything")))
}
