package config

import (
	"fmt"
	"text/template"

	"github.com/adlane/prebid-server/macros"
)

// Adapter specifies the endpoint configuration for a bidder.
type Adapter struct {
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"` // Required

	// Disabled tells the host framework to skip this bidder entirely.
	Disabled bool `yaml:"disabled" mapstructure:"disabled"`

	// ExtraAdapterInfo holds adapter-specific configuration as an opaque string.
	// Each adapter documents its own expected format.
	ExtraAdapterInfo string `yaml:"extra_info" mapstructure:"extra_info"`
}

// Server holds the static identity of the host the adapter runs on.
type Server struct {
	ExternalUrl string
	GvlID       int
	DataCenter  string
}

func (server *Server) Empty() bool {
	return server == nil || (server.DataCenter == "" && server.ExternalUrl == "" && server.GvlID == 0)
}

// these macro values are injected just to verify that an endpoint template resolves
const (
	dummyHost        string = "dummyhost.com"
	dummyPublisherID string = "12"
	dummyAccountID   string = "some_account"
	dummyZoneID      string = "zone"
	dummyAdUnit      string = "ad_unit"
)

// ValidateAdapterEndpoint makes sure an adapter endpoint parses as a template and
// resolves to something non-empty.
func ValidateAdapterEndpoint(endpoint string, adapterName string) error {
	if endpoint == "" {
		return fmt.Errorf("There's no default endpoint available for %s. Calls to this bidder/exchange will fail. "+
			"Please set adapters.%s.endpoint in your app config", adapterName, adapterName)
	}

	endpointTemplate, err := template.New("endpointTemplate").Parse(endpoint)
	if err != nil {
		return fmt.Errorf("Invalid endpoint template: %s for adapter: %s. %v", endpoint, adapterName, err)
	}

	resolved, err := macros.ResolveMacros(endpointTemplate, macros.EndpointTemplateParams{
		Host:        dummyHost,
		PublisherID: dummyPublisherID,
		AccountID:   dummyAccountID,
		ZoneID:      dummyZoneID,
		AdUnit:      dummyAdUnit,
	})
	if err != nil {
		return fmt.Errorf("Unable to resolve endpoint: %s for adapter: %s. %v", endpoint, adapterName, err)
	}
	if resolved == "" {
		return fmt.Errorf("Endpoint template: %s for adapter: %s resolves to an empty URL", endpoint, adapterName)
	}
	return nil
}
