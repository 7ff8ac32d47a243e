package adlane

import (
	"testing"

	"github.com/adlane/prebid-server/adapters/adapterstest"
	"github.com/adlane/prebid-server/config"
	"github.com/adlane/prebid-server/openrtb_ext"
	"github.com/adlane/prebid-server/util/ptrutil"

	"github.com/prebid/openrtb/v20/openrtb2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonSamples(t *testing.T) {
	bidder, buildErr := Builder(
		openrtb_ext.BidderAdLane,
		config.Adapter{
			Endpoint: "https://rtb.adlane.tv/bid/{{.PublisherID}}?zone={{.ZoneID}}",
		},
		config.Server{
			ExternalUrl: "http://hosturl.com",
			GvlID:       1337,
			DataCenter:  "2",
		},
	)

	if buildErr != nil {
		t.Fatalf("Builder returned unexpected error %v", buildErr)
	}

	adapterstest.RunJSONBidderTest(t, "adlanetest", bidder)
}

func TestBuilderErrors(t *testing.T) {
	testCases := []struct {
		desc      string
		endpoint  string
		extraInfo string
	}{
		{
			desc:     "empty endpoint",
			endpoint: "",
		},
		{
			desc:     "malformed endpoint template",
			endpoint: "https://rtb.adlane.tv/bid/{{.PublisherID}",
		},
		{
			desc:      "player url with wrong scheme",
			endpoint:  "https://rtb.adlane.tv/bid/{{.PublisherID}}",
			extraInfo: "ftp://cdn.example.com/player.js",
		},
		{
			desc:      "player url without host",
			endpoint:  "https://rtb.adlane.tv/bid/{{.PublisherID}}",
			extraInfo: "https://",
		},
	}

	for _, test := range testCases {
		_, err := Builder(openrtb_ext.BidderAdLane, config.Adapter{
			Endpoint:         test.endpoint,
			ExtraAdapterInfo: test.extraInfo,
		}, config.Server{})
		assert.Error(t, err, test.desc)
	}
}

func TestBuilderPlayerURLOverride(t *testing.T) {
	bidder, err := Builder(openrtb_ext.BidderAdLane, config.Adapter{
		Endpoint:         "https://rtb.adlane.tv/bid/{{.PublisherID}}",
		ExtraAdapterInfo: " https://cdn.example.com/custom-player.js ",
	}, config.Server{})
	require.NoError(t, err)

	adlaneBidder, ok := bidder.(*adapter)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/custom-player.js", adlaneBidder.playerURL)
}

func TestAssignBannerSize(t *testing.T) {
	noSize := &openrtb2.Banner{
		Format: []openrtb2.Format{
			{W: 300, H: 250},
			{W: 728, H: 90},
		},
	}
	sized := assignBannerSize(noSize)
	assert.Equal(t, ptrutil.ToPtr(int64(300)), sized.W)
	assert.Equal(t, ptrutil.ToPtr(int64(250)), sized.H)
	assert.Nil(t, noSize.W, "the original banner must not be mutated")

	explicit := &openrtb2.Banner{
		Format: []openrtb2.Format{{W: 300, H: 250}},
		W:      ptrutil.ToPtr(int64(1080)),
		H:      ptrutil.ToPtr(int64(720)),
	}
	assert.Same(t, explicit, assignBannerSize(explicit))

	noFormat := &openrtb2.Banner{}
	assert.Same(t, noFormat, assignBannerSize(noFormat))
}

func TestGetBidType(t *testing.T) {
	banner, err := getBidType(&openrtb2.Bid{MType: openrtb2.MarkupBanner})
	assert.NoError(t, err)
	assert.Equal(t, openrtb_ext.BidTypeBanner, banner)

	video, err := getBidType(&openrtb2.Bid{MType: openrtb2.MarkupVideo})
	assert.NoError(t, err)
	assert.Equal(t, openrtb_ext.BidTypeVideo, video)

	fromExt, err := getBidType(&openrtb2.Bid{Ext: []byte(`{"adlane":{"mediaType":"video"}}`)})
	assert.NoError(t, err)
	assert.Equal(t, openrtb_ext.BidTypeVideo, fromExt)

	_, err = getBidType(&openrtb2.Bid{ID: "b1", MType: openrtb2.MarkupNative})
	assert.EqualError(t, err, "Unsupported MType 4 for bid b1")

	_, err = getBidType(&openrtb2.Bid{ID: "b1", ImpID: "i1"})
	assert.EqualError(t, err, "Failed to determine media type of bid b1 (imp i1)")

	_, err = getBidType(&openrtb2.Bid{ID: "b1", ImpID: "i1", Ext: []byte(`{"adlane":{"mediaType":"audio"}}`)})
	assert.EqualError(t, err, `Unsupported media type "audio" of bid b1 (imp i1)`)
}

func TestIsOutstream(t *testing.T) {
	assert.False(t, isOutstream(&openrtb2.Video{Plcmt: 1}))
	assert.True(t, isOutstream(&openrtb2.Video{Plcmt: 2}))
	assert.True(t, isOutstream(&openrtb2.Video{Plcmt: 4}))
	assert.False(t, isOutstream(&openrtb2.Video{Placement: 1}))
	assert.True(t, isOutstream(&openrtb2.Video{Placement: 3}))
	assert.False(t, isOutstream(&openrtb2.Video{}), "no placement info defaults to instream")
	assert.True(t, isOutstream(&openrtb2.Video{Plcmt: 4, Placement: 1}), "plcmt wins over the deprecated placement")
}

func TestWrapOutstreamMarkup(t *testing.T) {
	a := &adapter{playerURL: defaultPlayerURL}
	video := &openrtb2.Video{
		W: ptrutil.ToPtr(int64(640)),
		H: ptrutil.ToPtr(int64(360)),
	}

	bid := &openrtb2.Bid{
		ID:    "bid-1",
		ImpID: "imp-1",
		AdM:   `<VAST version="4.0"></VAST>`,
	}
	require.NoError(t, a.wrapOutstreamMarkup(bid, video))
	assert.Contains(t, bid.AdM, `<div id="adlane-outstream-imp-1"></div>`)
	assert.Contains(t, bid.AdM, `src="`+defaultPlayerURL+`"`)
	assert.Contains(t, bid.AdM, `data-al-placement="imp-1"`)
	assert.Contains(t, bid.AdM, `data-al-width="640" data-al-height="360"`)
	assert.Contains(t, bid.AdM, `data-al-vast="PFZBU1QgdmVyc2lvbj0iNC4wIj48L1ZBU1Q+"`)

	empty := &openrtb2.Bid{ID: "bid-2", ImpID: "imp-2"}
	err := a.wrapOutstreamMarkup(empty, video)
	assert.EqualError(t, err, "Empty adm in outstream bid bid-2 (imp imp-2)")
}

func TestTrimEmptyQueryParams(t *testing.T) {
	trimmed, err := trimEmptyQueryParams("https://rtb.adlane.tv/bid/pub42?zone=")
	assert.NoError(t, err)
	assert.Equal(t, "https://rtb.adlane.tv/bid/pub42", trimmed)

	kept, err := trimEmptyQueryParams("https://rtb.adlane.tv/bid/pub42?zone=sports")
	assert.NoError(t, err)
	assert.Equal(t, "https://rtb.adlane.tv/bid/pub42?zone=sports", kept)
}

func TestGetBidVideo(t *testing.T) {
	bidVideo := getBidVideo(&openrtb2.Bid{Dur: 15, Cat: []string{"IAB1", "IAB2"}})
	assert.Equal(t, 15, bidVideo.Duration)
	assert.Equal(t, "IAB1", bidVideo.PrimaryCategory)

	emptyVideo := getBidVideo(&openrtb2.Bid{})
	assert.Equal(t, 0, emptyVideo.Duration)
	assert.Equal(t, "", emptyVideo.PrimaryCategory)
}
