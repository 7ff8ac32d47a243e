package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adlane/prebid-server/errortypes"
	"github.com/adlane/prebid-server/openrtb_ext"

	"github.com/golang/glog"
	"gopkg.in/yaml.v2"
)

// BidderInfos contains a mapping of bidder name to bidder info.
type BidderInfos map[string]BidderInfo

// BidderInfo specifies the static metadata for a bidder: who maintains it, which
// platforms and media types it supports, and how it syncs users.
type BidderInfo struct {
	Maintainer              *MaintainerInfo   `yaml:"maintainer"`
	Capabilities            *CapabilitiesInfo `yaml:"capabilities"`
	ModifyingVastXmlAllowed bool              `yaml:"modifyingVastXmlAllowed"`
	GVLVendorID             uint16            `yaml:"gvlVendorID"`
	Syncer                  *Syncer           `yaml:"userSync"`
}

// MaintainerInfo specifies the support email address for a bidder.
type MaintainerInfo struct {
	Email string `yaml:"email"`
}

// CapabilitiesInfo specifies the supported platforms for a bidder.
type CapabilitiesInfo struct {
	App  *PlatformInfo `yaml:"app"`
	Site *PlatformInfo `yaml:"site"`
}

// PlatformInfo specifies the supported media types for a bidder.
type PlatformInfo struct {
	MediaTypes []openrtb_ext.BidType `yaml:"mediaTypes"`
}

// Syncer specifies the user sync settings for a bidder.
type Syncer struct {
	// Key is used as the record key for the user sync cookie. We recommend using the
	// bidder name as the key for consistency, but that is not enforced as a requirement.
	Key string `yaml:"key"`

	// IFrame configures an iframe endpoint for user syncing.
	IFrame *SyncerEndpoint `yaml:"iframe"`

	// Redirect configures a redirect endpoint for user syncing. This is also known as
	// an image endpoint in the Prebid.js project.
	Redirect *SyncerEndpoint `yaml:"redirect"`
}

// SyncerEndpoint specifies a single user sync endpoint.
type SyncerEndpoint struct {
	URL         string `yaml:"url"`
	RedirectURL string `yaml:"redirectUrl"`
	ExternalURL string `yaml:"externalUrl"`
	UserMacro   string `yaml:"userMacro"`
}

// LoadBidderInfoFromDisk parses all static/bidder-info/{bidder}.yaml files from the file system.
func LoadBidderInfoFromDisk(path string) (BidderInfos, error) {
	bidderInfos := make(BidderInfos)

	for _, bidderName := range openrtb_ext.CoreBidderNames() {
		fileName := fmt.Sprintf("%s.yaml", bidderName)
		filePath := filepath.Join(path, fileName)

		fileBytes, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("error reading bidder info for %s: %v", bidderName, err)
		}

		info := BidderInfo{}
		if err := yaml.UnmarshalStrict(fileBytes, &info); err != nil {
			return nil, fmt.Errorf("error parsing yaml for bidder %s: %v", bidderName, err)
		}

		bidderInfos[string(bidderName)] = info
	}

	if errs := validateBidderInfos(bidderInfos); len(errs) > 0 {
		return nil, errortypes.NewAggregateError("bidder-info validation failed", errs)
	}

	glog.Infof("Loaded bidder info for %d bidder(s) from %s", len(bidderInfos), path)
	return bidderInfos, nil
}

func validateBidderInfos(infos BidderInfos) []error {
	var errs []error

	for name, info := range infos {
		if info.Maintainer == nil || info.Maintainer.Email == "" {
			errs = append(errs, fmt.Errorf("missing required field: maintainer.email for bidder: %s", name))
		}
		if err := validateCapabilities(info.Capabilities, name); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

func validateCapabilities(info *CapabilitiesInfo, bidderName string) error {
	if info == nil {
		return fmt.Errorf("missing required field: capabilities for bidder: %s", bidderName)
	}
	if info.App == nil && info.Site == nil {
		return fmt.Errorf("at least one of capabilities.site or capabilities.app must exist for bidder: %s", bidderName)
	}
	if info.App != nil {
		if err := validatePlatformInfo(info.App); err != nil {
			return fmt.Errorf("capabilities.app failed validation: %v for bidder: %s", err, bidderName)
		}
	}
	if info.Site != nil {
		if err := validatePlatformInfo(info.Site); err != nil {
			return fmt.Errorf("capabilities.site failed validation: %v for bidder: %s", err, bidderName)
		}
	}
	return nil
}

func validatePlatformInfo(info *PlatformInfo) error {
	if len(info.MediaTypes) == 0 {
		return fmt.Errorf("at least one media type needs to be specified")
	}

	for index, mediaType := range info.MediaTypes {
		if _, err := openrtb_ext.ParseBidType(strings.ToLower(string(mediaType))); err != nil {
			return fmt.Errorf("unrecognized media type at index %d: %s", index, mediaType)
		}
	}

	return nil
}
