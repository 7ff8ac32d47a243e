package config

import (
	"testing"

	"github.com/adlane/prebid-server/openrtb_ext"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bidderInfoDirectory = "../static/bidder-info"

func TestLoadBidderInfoFromDisk(t *testing.T) {
	infos, err := LoadBidderInfoFromDisk(bidderInfoDirectory)
	require.NoError(t, err, "the static bidder-info files must parse and validate")

	info, ok := infos[string(openrtb_ext.BidderAdLane)]
	require.True(t, ok, "bidder-info must exist for adlane")

	assert.NotNil(t, info.Maintainer)
	assert.NotEmpty(t, info.Maintainer.Email)
	require.NotNil(t, info.Capabilities)
	require.NotNil(t, info.Capabilities.Site)
	assert.ElementsMatch(t, []openrtb_ext.BidType{openrtb_ext.BidTypeBanner, openrtb_ext.BidTypeVideo}, info.Capabilities.Site.MediaTypes)
}

func TestLoadBidderInfoMissingDirectory(t *testing.T) {
	_, err := LoadBidderInfoFromDisk("./no-such-directory")
	assert.Error(t, err)
}

func TestValidateCapabilities(t *testing.T) {
	testCases := []struct {
		desc         string
		capabilities *CapabilitiesInfo
		wantError    bool
	}{
		{
			desc:         "nil capabilities",
			capabilities: nil,
			wantError:    true,
		},
		{
			desc:         "no platforms",
			capabilities: &CapabilitiesInfo{},
			wantError:    true,
		},
		{
			desc: "site with no media types",
			capabilities: &CapabilitiesInfo{
				Site: &PlatformInfo{},
			},
			wantError: true,
		},
		{
			desc: "site with invalid media type",
			capabilities: &CapabilitiesInfo{
				Site: &PlatformInfo{MediaTypes: []openrtb_ext.BidType{"popup"}},
			},
			wantError: true,
		},
		{
			desc: "valid site and app",
			capabilities: &CapabilitiesInfo{
				Site: &PlatformInfo{MediaTypes: []openrtb_ext.BidType{openrtb_ext.BidTypeBanner}},
				App:  &PlatformInfo{MediaTypes: []openrtb_ext.BidType{openrtb_ext.BidTypeVideo}},
			},
			wantError: false,
		},
	}

	for _, test := range testCases {
		err := validateCapabilities(test.capabilities, "adlane")
		if test.wantError {
			assert.Error(t, err, test.desc)
		} else {
			assert.NoError(t, err, test.desc)
		}
	}
}

func TestValidateAdapterEndpoint(t *testing.T) {
	assert.Error(t, ValidateAdapterEndpoint("", "adlane"), "empty endpoint must be rejected")
	assert.Error(t, ValidateAdapterEndpoint("https://rtb.adlane.tv/bid/{{.BadMacro}", "adlane"), "malformed template must be rejected")
	assert.NoError(t, ValidateAdapterEndpoint("https://rtb.adlane.tv/bid/{{.PublisherID}}?zone={{.ZoneID}}", "adlane"))
}
