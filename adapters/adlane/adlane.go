package adlane

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"text/template"

	"github.com/adlane/prebid-server/adapters"
	"github.com/adlane/prebid-server/config"
	"github.com/adlane/prebid-server/errortypes"
	"github.com/adlane/prebid-server/macros"
	"github.com/adlane/prebid-server/openrtb_ext"
	"github.com/adlane/prebid-server/util/jsonutil"
	"github.com/adlane/prebid-server/util/ptrutil"

	"github.com/buger/jsonparser"
	"github.com/prebid/openrtb/v20/openrtb2"
)

// defaultPlayerURL is the AdLane outstream player loaded by rendered creatives
// when the host config does not override it via extra_info.
const defaultPlayerURL = "https://cdn.adlane.tv/outstream/player.min.js"

const bidCurrency = "USD"

type adapter struct {
	endpoint  *template.Template
	playerURL string
}

// adlaneImpExt is the impression extension in AdLane's dialect. The exchange
// expects the parameters under its own key rather than the framework's.
type adlaneImpExt struct {
	AdLane openrtb_ext.ExtImpAdLane `json:"adlane"`
}

// Builder builds a new instance of the AdLane adapter for the given bidder with the given config.
func Builder(bidderName openrtb_ext.BidderName, cfg config.Adapter, server config.Server) (adapters.Bidder, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint is empty")
	}

	endpoint, err := template.New("endpointTemplate").Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("unable to parse endpoint: %v", err)
	}

	playerURL := defaultPlayerURL
	if extraInfo := strings.TrimSpace(cfg.ExtraAdapterInfo); extraInfo != "" {
		parsed, err := url.Parse(extraInfo)
		if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
			return nil, fmt.Errorf("invalid outstream player url in extra_info: %s", extraInfo)
		}
		playerURL = parsed.String()
	}

	return &adapter{
		endpoint:  endpoint,
		playerURL: playerURL,
	}, nil
}

func (a *adapter) MakeRequests(request *openrtb2.BidRequest, reqInfo *adapters.ExtraRequestInfo) ([]*adapters.RequestData, []error) {
	var errs []error

	requestExt, err := stripFrameworkExt(request.Ext)
	if err != nil {
		return nil, []error{&errortypes.BadInput{
			Message: fmt.Sprintf("Invalid request ext: %v", err),
		}}
	}

	headers := buildHeaders(request)

	// AdLane accepts a single impression per call, so the request is split.
	requestData := make([]*adapters.RequestData, 0, len(request.Imp))
	for i := range request.Imp {
		imp := request.Imp[i]

		impExt, err := parseImpExt(&imp)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := validateImp(&imp); err != nil {
			errs = append(errs, err)
			continue
		}

		if imp.Banner != nil {
			imp.Banner = assignBannerSize(imp.Banner)
		}

		if err := convertFloorCurrency(&imp, reqInfo); err != nil {
			errs = append(errs, err)
			continue
		}

		imp.TagID = impExt.PlacementID
		imp.Ext, err = jsonutil.Marshal(adlaneImpExt{AdLane: *impExt})
		if err != nil {
			errs = append(errs, err)
			continue
		}

		uri, err := a.buildEndpoint(impExt)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		requestCopy := *request
		requestCopy.Imp = []openrtb2.Imp{imp}
		requestCopy.Cur = []string{bidCurrency}
		requestCopy.Ext = requestExt

		body, err := json.Marshal(&requestCopy)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		requestData = append(requestData, &adapters.RequestData{
			Method:  http.MethodPost,
			Uri:     uri,
			Body:    body,
			Headers: headers,
			ImpIDs:  openrtb_ext.GetImpIDs(requestCopy.Imp),
		})
	}

	return requestData, errs
}

func (a *adapter) MakeBids(request *openrtb2.BidRequest, requestData *adapters.RequestData, response *adapters.ResponseData) (*adapters.BidderResponse, []error) {
	if adapters.IsResponseStatusCodeNoContent(response) {
		return nil, nil
	}

	if err := adapters.CheckResponseStatusCodeForErrors(response); err != nil {
		return nil, []error{err}
	}

	var bidResponse openrtb2.BidResponse
	if err := jsonutil.Unmarshal(response.Body, &bidResponse); err != nil {
		return nil, []error{&errortypes.BadServerResponse{
			Message: fmt.Sprintf("Failed to parse bid response: %v", err),
		}}
	}

	var errs []error
	bidderResponse := adapters.NewBidderResponseWithBidsCapacity(len(request.Imp))
	if bidResponse.Cur != "" {
		bidderResponse.Currency = bidResponse.Cur
	}

	for _, seatBid := range bidResponse.SeatBid {
		for i := range seatBid.Bid {
			bid := &seatBid.Bid[i]

			bidType, err := getBidType(bid)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			typedBid := &adapters.TypedBid{
				Bid:     bid,
				BidType: bidType,
			}

			if bidType == openrtb_ext.BidTypeVideo {
				typedBid.BidVideo = getBidVideo(bid)

				if video := findVideo(request.Imp, bid.ImpID); video != nil && isOutstream(video) {
					if err := a.wrapOutstreamMarkup(bid, video); err != nil {
						errs = append(errs, err)
						continue
					}
					typedBid.BidMeta = &openrtb_ext.ExtBidPrebidMeta{
						RendererName: "adlane-outstream",
						RendererUrl:  a.playerURL,
					}
				}
			}

			bidderResponse.Bids = append(bidderResponse.Bids, typedBid)
		}
	}

	return bidderResponse, errs
}

// stripFrameworkExt removes the framework-owned prebid subtree from the
// request-level ext. The bytes are copied first so the incoming request
// stays untouched.
func stripFrameworkExt(ext json.RawMessage) (json.RawMessage, error) {
	if len(ext) == 0 {
		return nil, nil
	}
	extCopy := append([]byte(nil), ext...)
	return jsonutil.DropElement(extCopy, openrtb_ext.PrebidExtKey)
}

func parseImpExt(imp *openrtb2.Imp) (*openrtb_ext.ExtImpAdLane, error) {
	var bidderExt adapters.ExtImpBidder
	if err := jsonutil.Unmarshal(imp.Ext, &bidderExt); err != nil {
		return nil, &errortypes.BadInput{
			Message: fmt.Sprintf("Ignoring imp id=%s, error while decoding ext: %v", imp.ID, err),
		}
	}

	var impExt openrtb_ext.ExtImpAdLane
	if err := jsonutil.Unmarshal(bidderExt.Bidder, &impExt); err != nil {
		return nil, &errortypes.BadInput{
			Message: fmt.Sprintf("Ignoring imp id=%s, error while decoding bidder ext: %v", imp.ID, err),
		}
	}

	if impExt.PublisherID == "" || impExt.PlacementID == "" {
		return nil, &errortypes.BadInput{
			Message: fmt.Sprintf("Ignoring imp id=%s, publisherId and placementId are required", imp.ID),
		}
	}

	return &impExt, nil
}

func validateImp(imp *openrtb2.Imp) error {
	if imp.Banner == nil && imp.Video == nil {
		return &errortypes.BadInput{
			Message: fmt.Sprintf("Ignoring imp id=%s, AdLane supports only banner and video", imp.ID),
		}
	}

	if imp.Video != nil && len(imp.Video.MIMEs) == 0 {
		return &errortypes.BadInput{
			Message: fmt.Sprintf("Ignoring imp id=%s, video.mimes is required", imp.ID),
		}
	}

	return nil
}

// assignBannerSize fills a missing banner size from the first format entry.
func assignBannerSize(banner *openrtb2.Banner) *openrtb2.Banner {
	if banner.W != nil && banner.H != nil {
		return banner
	}

	if len(banner.Format) == 0 {
		return banner
	}

	bannerCopy := *banner
	bannerCopy.W = ptrutil.ToPtr(banner.Format[0].W)
	bannerCopy.H = ptrutil.ToPtr(banner.Format[0].H)
	return &bannerCopy
}

// convertFloorCurrency converts the imp bid floor to USD, the only currency
// AdLane bids in.
func convertFloorCurrency(imp *openrtb2.Imp, reqInfo *adapters.ExtraRequestInfo) error {
	if imp.BidFloor <= 0 || imp.BidFloorCur == "" || strings.EqualFold(imp.BidFloorCur, bidCurrency) {
		return nil
	}

	floor, err := reqInfo.ConvertCurrency(imp.BidFloor, imp.BidFloorCur, bidCurrency)
	if err != nil {
		return &errortypes.BadInput{
			Message: fmt.Sprintf("Ignoring imp id=%s, unable to convert bid floor from %s to %s: %v", imp.ID, imp.BidFloorCur, bidCurrency, err),
		}
	}

	imp.BidFloor = floor
	imp.BidFloorCur = bidCurrency
	return nil
}

func (a *adapter) buildEndpoint(impExt *openrtb_ext.ExtImpAdLane) (string, error) {
	params := macros.EndpointTemplateParams{
		PublisherID: impExt.PublisherID,
		ZoneID:      impExt.ZoneID,
	}

	uri, err := macros.ResolveMacros(a.endpoint, params)
	if err != nil {
		return "", fmt.Errorf("unable to resolve endpoint: %v", err)
	}

	return trimEmptyQueryParams(uri)
}

// trimEmptyQueryParams drops query parameters whose macros resolved to nothing.
func trimEmptyQueryParams(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", err
	}

	query := parsed.Query()
	for key, values := range query {
		empty := true
		for _, value := range values {
			if value != "" {
				empty = false
				break
			}
		}
		if empty {
			query.Del(key)
		}
	}
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

func buildHeaders(request *openrtb2.BidRequest) http.Header {
	headers := http.Header{}
	headers.Add("Content-Type", "application/json;charset=utf-8")
	headers.Add("Accept", "application/json")
	headers.Add("X-Openrtb-Version", "2.5")

	if request.Site != nil {
		if request.Site.Ref != "" {
			headers.Set("Referer", request.Site.Ref)
		}
		if request.Site.Domain != "" {
			headers.Add("Origin", request.Site.Domain)
		}
	}

	if request.Device != nil {
		if request.Device.UA != "" {
			headers.Add("User-Agent", request.Device.UA)
		}
		if request.Device.IPv6 != "" {
			headers.Add("X-Forwarded-For", request.Device.IPv6)
		}
		if request.Device.IP != "" {
			headers.Add("X-Forwarded-For", request.Device.IP)
		}
	}

	return headers
}

// getBidType resolves the media type from bid.mtype, falling back to AdLane's
// bid.ext.adlane.mediaType when the exchange omits it.
func getBidType(bid *openrtb2.Bid) (openrtb_ext.BidType, error) {
	switch bid.MType {
	case openrtb2.MarkupBanner:
		return openrtb_ext.BidTypeBanner, nil
	case openrtb2.MarkupVideo:
		return openrtb_ext.BidTypeVideo, nil
	case 0:
	default:
		return "", &errortypes.BadServerResponse{
			Message: fmt.Sprintf("Unsupported MType %d for bid %s", bid.MType, bid.ID),
		}
	}

	mediaType, err := jsonparser.GetString(bid.Ext, "adlane", "mediaType")
	if err != nil {
		return "", &errortypes.BadServerResponse{
			Message: fmt.Sprintf("Failed to determine media type of bid %s (imp %s)", bid.ID, bid.ImpID),
		}
	}

	bidType, err := openrtb_ext.ParseBidType(mediaType)
	if err != nil || (bidType != openrtb_ext.BidTypeBanner && bidType != openrtb_ext.BidTypeVideo) {
		return "", &errortypes.BadServerResponse{
			Message: fmt.Sprintf("Unsupported media type %q of bid %s (imp %s)", mediaType, bid.ID, bid.ImpID),
		}
	}

	return bidType, nil
}

func getBidVideo(bid *openrtb2.Bid) *openrtb_ext.ExtBidPrebidVideo {
	bidVideo := openrtb_ext.ExtBidPrebidVideo{}
	if len(bid.Cat) > 0 {
		bidVideo.PrimaryCategory = bid.Cat[0]
	}
	if bid.Dur > 0 {
		bidVideo.Duration = int(bid.Dur)
	}
	return &bidVideo
}

func findVideo(imps []openrtb2.Imp, impID string) *openrtb2.Video {
	for i := range imps {
		if imps[i].ID == impID {
			return imps[i].Video
		}
	}
	return nil
}

// isOutstream reports whether the video placement is anything other than
// instream. AdCOM placement value 1 means instream for both the current
// plcmt field and the deprecated placement field.
func isOutstream(video *openrtb2.Video) bool {
	if video.Plcmt != 0 {
		return video.Plcmt != 1
	}
	return video.Placement > 1
}

// wrapOutstreamMarkup replaces the VAST document of an outstream bid with an
// HTML snippet that mounts the AdLane player. The VAST is carried inside the
// script tag base64 encoded, matching what the player expects.
func (a *adapter) wrapOutstreamMarkup(bid *openrtb2.Bid, video *openrtb2.Video) error {
	if bid.AdM == "" {
		return &errortypes.BadServerResponse{
			Message: fmt.Sprintf("Empty adm in outstream bid %s (imp %s)", bid.ID, bid.ImpID),
		}
	}

	slotID := "adlane-outstream-" + bid.ImpID
	vast := base64.StdEncoding.EncodeToString([]byte(bid.AdM))

	bid.AdM = fmt.Sprintf(
		`<div id=%q></div>`+
			`<script src=%q async `+
			`data-al-slot=%q data-al-placement=%q `+
			`data-al-width="%d" data-al-height="%d" `+
			`data-al-vast=%q></script>`,
		slotID, a.playerURL, slotID, bid.ImpID,
		ptrutil.ValueOrDefault(video.W), ptrutil.ValueOrDefault(video.H), vast)

	return nil
}
