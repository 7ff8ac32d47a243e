package openrtb_ext

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const schemaDirectory = "../static/bidder-params"

func TestBidderParamsSchemasExist(t *testing.T) {
	validator, err := NewBidderParamsValidator(schemaDirectory)
	if err != nil {
		t.Fatalf("Failed to load the schema directory: %v", err)
	}

	for _, bidder := range CoreBidderNames() {
		assert.NotEmpty(t, validator.Schema(bidder), "missing schema for bidder %s", bidder)
	}
}

func TestGetBidderName(t *testing.T) {
	name, ok := GetBidderName("adlane")
	assert.True(t, ok)
	assert.Equal(t, BidderAdLane, name)

	name, ok = GetBidderName("AdLane")
	assert.True(t, ok, "bidder name lookups should be case insensitive")
	assert.Equal(t, BidderAdLane, name)

	_, ok = GetBidderName("someUnknownBidder")
	assert.False(t, ok)
}

func TestValidateUnknownBidder(t *testing.T) {
	validator, err := NewBidderParamsValidator(schemaDirectory)
	if err != nil {
		t.Fatalf("Failed to load the schema directory: %v", err)
	}

	err = validator.Validate(BidderName("unknown"), json.RawMessage(`{}`))
	assert.Error(t, err)
}

func TestBidderNamesValid(t *testing.T) {
	for _, bidder := range CoreBidderNames() {
		assert.NotContains(t, string(bidder), " ", "bidder name %s must not contain spaces", bidder)
		assert.Equal(t, strings.ToLower(string(bidder)), string(bidder), "bidder name %s must be lowercase", bidder)
	}
}
