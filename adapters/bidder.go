package adapters

import (
	"encoding/json"
	"net/http"

	"github.com/adlane/prebid-server/currency"
	"github.com/adlane/prebid-server/openrtb_ext"

	"github.com/prebid/openrtb/v20/openrtb2"
)

// Bidder describes how to connect to an external demand partner.
// Implementations are expected to be immutable.
type Bidder interface {
	// MakeRequests makes the HTTP requests which should be made to fetch bids.
	//
	// Bidder implementations can assume that the incoming BidRequest has all "global" defaults filled in.
	// The only exception is the Currency field, which defaults to "USD" if unset.
	//
	// The errors should contain a list of errors which explain why this bidder's bids will be
	// "subpar" in some way. For example: the request contained ad types which this bidder doesn't support.
	//
	// If the error is caused by bad user input, return an errortypes.BadInput.
	MakeRequests(request *openrtb2.BidRequest, reqInfo *ExtraRequestInfo) ([]*RequestData, []error)

	// MakeBids unpacks the server's response into Bids.
	//
	// The bids can be nil (for no bids), but should not contain nil elements.
	//
	// The errors should contain a list of errors which explain why this bidder's bids will be
	// "subpar" in some way. For example: the server response didn't have the expected format.
	//
	// If the error was caused by bad user input, return an errortypes.BadInput.
	// If the error was caused by a bad server response, return an errortypes.BadServerResponse.
	MakeBids(internalRequest *openrtb2.BidRequest, externalRequest *RequestData, response *ResponseData) (*BidderResponse, []error)
}

// TypedBid packages the openrtb2.Bid with any bidder-specific information that the host needs.
//
// TypedBid.Bid.Ext will become "response.seatbid[i].bid.ext.bidder" in the final OpenRTB response.
// TypedBid.BidMeta will become "response.seatbid[i].bid.ext.prebid.meta" in the final OpenRTB response.
// TypedBid.BidType will become "response.seatbid[i].bid.ext.prebid.type" in the final OpenRTB response.
// TypedBid.BidVideo will become "response.seatbid[i].bid.ext.prebid.video" in the final OpenRTB response.
type TypedBid struct {
	Bid          *openrtb2.Bid
	BidMeta      *openrtb_ext.ExtBidPrebidMeta
	BidType      openrtb_ext.BidType
	BidVideo     *openrtb_ext.ExtBidPrebidVideo
	DealPriority int
	Seat         openrtb_ext.BidderName
}

// BidderResponse carries all the TypedBids in the BidResponse from the bidder server,
// and the currency used by the bidder server for the bid prices.
type BidderResponse struct {
	Currency string
	Bids     []*TypedBid
}

// NewBidderResponseWithBidsCapacity create a new BidderResponse initialising
// the bids array capacity and the default currency value to "USD".
func NewBidderResponseWithBidsCapacity(bidsCapacity int) *BidderResponse {
	return &BidderResponse{
		Currency: "USD",
		Bids:     make([]*TypedBid, 0, bidsCapacity),
	}
}

// NewBidderResponse create a new BidderResponse initialising the bids array
// and the default currency value to "USD".
func NewBidderResponse() *BidderResponse {
	return NewBidderResponseWithBidsCapacity(0)
}

// RequestData packages together the fields needed to make a http request.
type RequestData struct {
	Method  string
	Uri     string
	Body    []byte
	Headers http.Header
	ImpIDs  []string
}

// ResponseData packages together information from the server's http response.
type ResponseData struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// ExtImpBidder can be used by Bidders to unmarshal any request.imp[i].ext.
type ExtImpBidder struct {
	Prebid *openrtb_ext.ExtImpPrebid `json:"prebid"`

	// Bidder contains the bidder-specific extension. Each bidder should unmarshal this
	// using their corresponding openrtb_ext.ExtImp{Bidder} struct.
	//
	// For example, the Appnexus Bidder should unmarshal this with an openrtb_ext.ExtImpAppnexus object.
	Bidder json.RawMessage `json:"bidder"`
}

// ExtraRequestInfo holds request-scoped state the host makes available to adapters.
type ExtraRequestInfo struct {
	GlobalPrivacyControlHeader string
	CurrencyConversions        currency.Conversions
}

// NewExtraRequestInfo creates a new ExtraRequestInfo object.
func NewExtraRequestInfo(c currency.Conversions) ExtraRequestInfo {
	return ExtraRequestInfo{
		CurrencyConversions: c,
	}
}

// ConvertCurrency converts a given amount from one currency to another, or returns:
//   - Error if the ExtraRequestInfo instance is nil
//   - Error if the conversion rate between the two currencies cannot be found
func (r *ExtraRequestInfo) ConvertCurrency(value float64, from, to string) (float64, error) {
	if rate, err := r.CurrencyConversions.GetRate(from, to); err == nil {
		return value * rate, nil
	} else {
		return 0, err
	}
}
