package openrtb_ext

// ExtImpAdLane defines the contract for bidrequest.imp[i].ext.prebid.bidder.adlane
type ExtImpAdLane struct {
	PublisherID string `json:"publisherId"`
	PlacementID string `json:"placementId"`
	ZoneID      string `json:"zoneId,omitempty"`
}
