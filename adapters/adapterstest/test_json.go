package adapterstest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/adlane/prebid-server/adapters"
	"github.com/adlane/prebid-server/currency"

	"github.com/mitchellh/copystructure"
	"github.com/prebid/openrtb/v20/openrtb2"
	"github.com/stretchr/testify/assert"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// RunJSONBidderTest is a helper method intended for Bidders which communicate with external
// servers over HTTP. It will run the Bidder against every sample file under:
//
//	adapters/{bidder}/{rootDir}/exemplary:
//
//	  These show "ideal" BidRequests for the bidder. Tests will fail unless the Bidder
//	  returns the expected HTTP requests and parses the expected bids with no errors.
//
//	adapters/{bidder}/{rootDir}/supplemental:
//
//	  These are edge cases. Tests will fail unless the errors returned by MakeRequests
//	  and MakeBids match the file exactly.
//
// Each sample is a JSON file which describes the mock bid request, the expected outgoing
// HTTP calls with their mocked responses, and the expected bids or errors.
func RunJSONBidderTest(t *testing.T, rootDir string, bidder adapters.Bidder) {
	t.Helper()
	runTestsInDir(t, filepath.Join(rootDir, "exemplary"), bidder, true)
	runTestsInDir(t, filepath.Join(rootDir, "supplemental"), bidder, false)
}

func runTestsInDir(t *testing.T, dir string, bidder adapters.Bidder, exemplary bool) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		t.Fatalf("Failed to read contents of directory %s: %v", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		fileName := filepath.Join(dir, entry.Name())
		t.Run(fileName, func(t *testing.T) {
			spec := loadSpec(t, fileName)
			if exemplary {
				assertExemplarySpec(t, fileName, spec)
			}
			runSpec(t, fileName, spec, bidder)
		})
	}
}

type testSpec struct {
	BidRequest           json.RawMessage               `json:"mockBidRequest"`
	MockCurrencyRates    map[string]map[string]float64 `json:"mockCurrencyRates"`
	HttpCalls            []httpCall                    `json:"httpCalls"`
	ExpectedBidResponses []expectedResponse            `json:"expectedBidResponses"`
	MakeRequestErrors    []testSpecExpectedError       `json:"expectedMakeRequestsErrors"`
	MakeBidsErrors       []testSpecExpectedError       `json:"expectedMakeBidsErrors"`
}

type testSpecExpectedError struct {
	Value      string `json:"value"`
	Comparison string `json:"comparison"`
}

type httpCall struct {
	Request  httpRequest  `json:"expectedRequest"`
	Response httpResponse `json:"mockResponse"`
}

type httpRequest struct {
	Uri    string          `json:"uri"`
	Body   json.RawMessage `json:"body"`
	ImpIDs []string        `json:"impIDs"`
}

type httpResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type expectedResponse struct {
	Currency string        `json:"currency"`
	Bids     []expectedBid `json:"bids"`
}

type expectedBid struct {
	Bid      json.RawMessage `json:"bid"`
	Type     string          `json:"type"`
	Seat     string          `json:"seat,omitempty"`
	BidVideo json.RawMessage `json:"bidVideo,omitempty"`
	BidMeta  json.RawMessage `json:"bidMeta,omitempty"`
}

func loadSpec(t *testing.T, fileName string) *testSpec {
	t.Helper()
	content, err := os.ReadFile(fileName)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", fileName, err)
	}

	var spec testSpec
	if err := json.Unmarshal(content, &spec); err != nil {
		t.Fatalf("Failed to unmarshal JSON from file %s: %v", fileName, err)
	}
	return &spec
}

func assertExemplarySpec(t *testing.T, fileName string, spec *testSpec) {
	t.Helper()
	if len(spec.MakeRequestErrors) > 0 || len(spec.MakeBidsErrors) > 0 {
		t.Fatalf("exemplary spec %s must not expect errors", fileName)
	}
	if len(spec.HttpCalls) == 0 {
		t.Fatalf("exemplary spec %s must expect at least one HTTP call", fileName)
	}
	if len(spec.ExpectedBidResponses) == 0 {
		t.Fatalf("exemplary spec %s must expect bids", fileName)
	}
}

func (spec *testSpec) conversions() currency.Conversions {
	if len(spec.MockCurrencyRates) > 0 {
		return currency.NewRates(spec.MockCurrencyRates)
	}
	return currency.NewConstantRates()
}

func runSpec(t *testing.T, fileName string, spec *testSpec, bidder adapters.Bidder) {
	t.Helper()

	var request openrtb2.BidRequest
	if err := json.Unmarshal(spec.BidRequest, &request); err != nil {
		t.Fatalf("%s: failed to unmarshal mockBidRequest: %v", fileName, err)
	}

	deepCopy, err := copystructure.Copy(&request)
	if err != nil {
		t.Fatalf("%s: failed to deep copy request: %v", fileName, err)
	}
	requestCopy := deepCopy.(*openrtb2.BidRequest)

	reqInfo := adapters.NewExtraRequestInfo(spec.conversions())
	actualReqs, makeRequestErrs := bidder.MakeRequests(&request, &reqInfo)

	assertErrorList(t, fmt.Sprintf("%s: MakeRequests", fileName), makeRequestErrs, spec.MakeRequestErrors)
	assert.Equal(t, requestCopy, &request, "%s: MakeRequests must not mutate the incoming request", fileName)
	assertMakeRequestsOutput(t, fileName, actualReqs, spec.HttpCalls)

	var makeBidsErrs []error
	var bidResponses []*adapters.BidderResponse
	for i, call := range spec.HttpCalls {
		if i >= len(actualReqs) {
			break
		}
		response := &adapters.ResponseData{
			StatusCode: call.Response.Status,
			Body:       call.Response.Body,
		}
		bidResponse, errs := bidder.MakeBids(&request, actualReqs[i], response)
		makeBidsErrs = append(makeBidsErrs, errs...)
		if bidResponse != nil {
			bidResponses = append(bidResponses, bidResponse)
		}
	}

	assertErrorList(t, fmt.Sprintf("%s: MakeBids", fileName), makeBidsErrs, spec.MakeBidsErrors)
	assertMakeBidsOutput(t, fileName, bidResponses, spec.ExpectedBidResponses)
}

func assertMakeRequestsOutput(t *testing.T, fileName string, actual []*adapters.RequestData, expected []httpCall) {
	t.Helper()
	if !assert.Len(t, actual, len(expected), "%s: wrong number of HTTP calls", fileName) {
		return
	}

	for i, call := range expected {
		assert.Equal(t, call.Request.Uri, actual[i].Uri, "%s: httpCalls[%d] uri mismatch", fileName, i)
		if len(call.Request.ImpIDs) > 0 {
			assert.ElementsMatch(t, call.Request.ImpIDs, actual[i].ImpIDs, "%s: httpCalls[%d] impIDs mismatch", fileName, i)
		}
		diffJSON(t, fmt.Sprintf("%s: httpCalls[%d].body", fileName, i), call.Request.Body, actual[i].Body)
	}
}

func assertMakeBidsOutput(t *testing.T, fileName string, actual []*adapters.BidderResponse, expected []expectedResponse) {
	t.Helper()
	if !assert.Len(t, actual, len(expected), "%s: wrong number of bid responses", fileName) {
		return
	}

	for i, expectedResp := range expected {
		if expectedResp.Currency != "" {
			assert.Equal(t, expectedResp.Currency, actual[i].Currency, "%s: bidResponses[%d] currency mismatch", fileName, i)
		}
		if !assert.Len(t, actual[i].Bids, len(expectedResp.Bids), "%s: bidResponses[%d] wrong number of bids", fileName, i) {
			continue
		}
		for j, expectedBid := range expectedResp.Bids {
			tag := fmt.Sprintf("%s: bidResponses[%d].bids[%d]", fileName, i, j)
			actualBid := actual[i].Bids[j]

			assert.Equal(t, expectedBid.Type, string(actualBid.BidType), "%s type mismatch", tag)
			if expectedBid.Seat != "" {
				assert.Equal(t, expectedBid.Seat, string(actualBid.Seat), "%s seat mismatch", tag)
			}

			actualBidJSON, err := json.Marshal(actualBid.Bid)
			if err != nil {
				t.Fatalf("%s: failed to marshal bid: %v", tag, err)
			}
			diffJSON(t, tag+".bid", expectedBid.Bid, actualBidJSON)

			if len(expectedBid.BidVideo) > 0 {
				actualVideoJSON, err := json.Marshal(actualBid.BidVideo)
				if err != nil {
					t.Fatalf("%s: failed to marshal bidVideo: %v", tag, err)
				}
				diffJSON(t, tag+".bidVideo", expectedBid.BidVideo, actualVideoJSON)
			}
			if len(expectedBid.BidMeta) > 0 {
				actualMetaJSON, err := json.Marshal(actualBid.BidMeta)
				if err != nil {
					t.Fatalf("%s: failed to marshal bidMeta: %v", tag, err)
				}
				diffJSON(t, tag+".bidMeta", expectedBid.BidMeta, actualMetaJSON)
			}
		}
	}
}

func assertErrorList(t *testing.T, description string, actual []error, expected []testSpecExpectedError) {
	t.Helper()
	if !assert.Len(t, actual, len(expected), "%s: wrong number of errors", description) {
		return
	}

	for i, expectedErr := range expected {
		switch expectedErr.Comparison {
		case "literal", "":
			assert.Equal(t, expectedErr.Value, actual[i].Error(), "%s: errors[%d] mismatch", description, i)
		case "regex":
			matched, err := regexp.MatchString(expectedErr.Value, actual[i].Error())
			if err != nil {
				t.Fatalf("%s: errors[%d] has an invalid regex: %v", description, i, err)
			}
			assert.True(t, matched, "%s: errors[%d] %q did not match regex %q", description, i, actual[i].Error(), expectedErr.Value)
		default:
			t.Fatalf("%s: errors[%d] has an unknown comparison %q", description, i, expectedErr.Comparison)
		}
	}
}

// diffJSON fails the test with a readable delta if the two JSON documents differ.
func diffJSON(t *testing.T, description string, expected, actual []byte) {
	t.Helper()
	differ := gojsondiff.New()
	diff, err := differ.Compare(expected, actual)
	if err != nil {
		t.Fatalf("%s: failed to compare JSON: %v", description, err)
	}

	if diff.Modified() {
		var expectedMap map[string]interface{}
		if err := json.Unmarshal(expected, &expectedMap); err != nil {
			t.Fatalf("%s: failed to unmarshal expected JSON: %v", description, err)
		}

		output, err := formatter.NewAsciiFormatter(expectedMap, formatter.AsciiFormatterConfig{
			ShowArrayIndex: true,
			Coloring:       false,
		}).Format(diff)
		if err != nil {
			t.Fatalf("%s: failed to format diff: %v", description, err)
		}
		t.Errorf("%s JSON mismatch.\nDiff:\n%s", description, output)
	}
}
