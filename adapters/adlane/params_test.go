package adlane

import (
	"encoding/json"
	"testing"

	"github.com/adlane/prebid-server/openrtb_ext"
)

var validParams = []string{
	`{"publisherId":"pub42", "placementId":"plc-1"}`,
	`{"publisherId":"pub42", "placementId":"plc-1", "zoneId":"sports"}`,
	`{"publisherId":"p", "placementId":"x", "zoneId":""}`,
}

func TestValidParams(t *testing.T) {
	validator, err := openrtb_ext.NewBidderParamsValidator("../../static/bidder-params")
	if err != nil {
		t.Fatalf("Failed to fetch the json-schemas. %v", err)
	}

	for _, validParam := range validParams {
		if err := validator.Validate(openrtb_ext.BidderAdLane, json.RawMessage(validParam)); err != nil {
			t.Errorf("Schema rejected adlane params: %s", validParam)
		}
	}
}

var invalidParams = []string{
	``,
	`null`,
	`true`,
	`5`,
	`[]`,
	`{}`,
	`{"anyparam": "anyvalue"}`,
	`{"publisherId":"pub42"}`,
	`{"placementId":"plc-1"}`,
	`{"publisherId":"", "placementId":"plc-1"}`,
	`{"publisherId":"pub42", "placementId":""}`,
	`{"publisherId":42, "placementId":"plc-1"}`,
	`{"publisherId":"pub42", "placementId":"plc-1", "zoneId":7}`,
	`{"publisherId":"pub42", "placementId":"plc-1", "extra":"nope"}`,
}

func TestInvalidParams(t *testing.T) {
	validator, err := openrtb_ext.NewBidderParamsValidator("../../static/bidder-params")
	if err != nil {
		t.Fatalf("Failed to fetch the json-schemas. %v", err)
	}

	for _, invalidParam := range invalidParams {
		if err := validator.Validate(openrtb_ext.BidderAdLane, json.RawMessage(invalidParam)); err == nil {
			t.Errorf("Schema allowed unexpected params: %s", invalidParam)
		}
	}
}
