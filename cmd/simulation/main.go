package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	numBuyers     = 5
	numListings   = 8
	bidsPerRound  = 4
	numRounds     = 10
	serverAddress = "http://localhost:8080"
)

var (
	crops      = []string{"Wheat", "Rice", "Maize", "Soybean", "Cotton", "Turmeric", "Onion", "Tomato"}
	categories = []string{"Cereals", "Cereals", "Cereals", "Oilseeds", "Cotton", "Spices", "Vegetables", "Vegetables"}
	locations  = []string{"Nashik", "Indore", "Guntur", "Karnal", "Hubli"}
)

// init configures the logger for the simulation with pretty printing and timestamp
func init() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// routeStats tracks performance statistics for an API endpoint
type routeStats struct {
	name       string
	durations  []time.Duration
	totalCalls int
	failures   int
}

// addDuration records a new duration measurement for the route
func (rs *routeStats) addDuration(d time.Duration) {
	rs.durations = append(rs.durations, d)
	rs.totalCalls++
}

// calculate computes performance statistics from recorded durations
// Returns min, max, mean, median, 95th percentile, and 99th percentile durations
func (rs *routeStats) calculate() (min, max, mean, median, p95, p99 time.Duration) {
	if len(rs.durations) == 0 {
		return 0, 0, 0, 0, 0, 0
	}

	sort.Slice(rs.durations, func(i, j int) bool {
		return rs.durations[i] < rs.durations[j]
	})

	min = rs.durations[0]
	max = rs.durations[len(rs.durations)-1]

	var sum time.Duration
	for _, d := range rs.durations {
		sum += d
	}
	mean = sum / time.Duration(len(rs.durations))
	median = rs.durations[len(rs.durations)/2]

	p95idx := int(math.Ceil(float64(len(rs.durations))*0.95)) - 1
	p99idx := int(math.Ceil(float64(len(rs.durations))*0.99)) - 1
	p95 = rs.durations[p95idx]
	p99 = rs.durations[p99idx]

	return
}

// apiResponse mirrors the server's response envelope
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type account struct {
	token     string
	accountID string
}

// simulationClient drives HTTP traffic against the marketplace API
type simulationClient struct {
	baseURL string
	client  *http.Client

	mu    sync.Mutex
	stats map[string]*routeStats
}

func newSimulationClient() *simulationClient {
	return &simulationClient{
		baseURL: serverAddress,
		client:  &http.Client{Timeout: 10 * time.Second},
		stats: map[string]*routeStats{
			"signup":  {name: "Signup"},
			"listing": {name: "Create Listing"},
			"bid":     {name: "Place Bid"},
			"highest": {name: "Highest Bid"},
			"bids":    {name: "Listing Bids"},
		},
	}
}

func (sc *simulationClient) record(route string, d time.Duration, failed bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	rs := sc.stats[route]
	rs.addDuration(d)
	if failed {
		rs.failures++
	}
}

// call sends a JSON request and decodes the response envelope
func (sc *simulationClient) call(method, path, token string, body interface{}) (*apiResponse, int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, sc.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := sc.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, resp.StatusCode, err
	}
	return &apiResp, resp.StatusCode, nil
}

// signup registers an account and returns its session token and ID
func (sc *simulationClient) signup(name, mobile, role, location string) (*account, error) {
	start := time.Now()
	resp, status, err := sc.call(http.MethodPost, "/api/v1/auth/signup", "", map[string]interface{}{
		"name":     name,
		"mobile":   mobile,
		"password": "simulation-pass",
		"role":     role,
		"location": location,
	})
	sc.record("signup", time.Since(start), err != nil || status != http.StatusCreated)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("signup status %d", status)
	}

	var data struct {
		Token   string `json:"token"`
		Account struct {
			AccountID string `json:"account_id"`
		} `json:"account"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, err
	}
	return &account{token: data.Token, accountID: data.Account.AccountID}, nil
}

// createListing lists a crop on behalf of the farmer
func (sc *simulationClient) createListing(farmer *account, idx int) (string, float64, error) {
	basePrice := float64(500 + rand.Intn(20)*100)

	start := time.Now()
	resp, status, err := sc.call(http.MethodPost, "/api/v1/listings", farmer.token, map[string]interface{}{
		"crop_name":  crops[idx%len(crops)],
		"category":   categories[idx%len(categories)],
		"quantity":   float64(5 + rand.Intn(50)),
		"base_price": basePrice,
		"location":   locations[rand.Intn(len(locations))],
	})
	sc.record("listing", time.Since(start), err != nil || status != http.StatusCreated)
	if err != nil {
		return "", 0, err
	}
	if status != http.StatusCreated {
		return "", 0, fmt.Errorf("create listing status %d", status)
	}

	var data struct {
		ListingID string `json:"listing_id"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return "", 0, err
	}
	return data.ListingID, basePrice, nil
}

// placeBid submits a bid. Rejections for a stale amount are expected
// under concurrent rounds and are not counted as failures.
func (sc *simulationClient) placeBid(buyer *account, listingID string, amount float64) {
	start := time.Now()
	resp, status, err := sc.call(http.MethodPost, "/api/v1/bids", buyer.token, map[string]interface{}{
		"listing_id": listingID,
		"amount":     amount,
	})

	expectedReject := false
	if err == nil && resp.Error != nil {
		expectedReject = resp.Error.Code == "BID_TOO_LOW" || resp.Error.Code == "INSUFFICIENT_FUNDS"
	}
	failed := err != nil || (status != http.StatusCreated && !expectedReject)
	sc.record("bid", time.Since(start), failed)

	if err != nil {
		log.Error().Err(err).Msg("place bid request failed")
		return
	}
	if expectedReject {
		log.Debug().Str("listing_id", listingID).Float64("amount", amount).
			Str("code", resp.Error.Code).Msg("bid rejected")
	}
}

// highestBid fetches the current highest bid amount for a listing
func (sc *simulationClient) highestBid(listingID string) (float64, error) {
	start := time.Now()
	resp, status, err := sc.call(http.MethodGet, "/api/v1/bids/listing/"+listingID+"/highest", "", nil)
	sc.record("highest", time.Since(start), err != nil || status != http.StatusOK)
	if err != nil {
		return 0, err
	}
	if string(resp.Data) == "null" || len(resp.Data) == 0 {
		return 0, nil
	}

	var data struct {
		Amount float64 `json:"amount"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return 0, err
	}
	return data.Amount, nil
}

// listingBids fetches the bid history for a listing
func (sc *simulationClient) listingBids(listingID string) (int, error) {
	start := time.Now()
	resp, status, err := sc.call(http.MethodGet, "/api/v1/bids/listing/"+listingID+"/bids", "", nil)
	sc.record("bids", time.Since(start), err != nil || status != http.StatusOK)
	if err != nil {
		return 0, err
	}

	var data []json.RawMessage
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (sc *simulationClient) printStats() {
	fmt.Println("\nRoute statistics:")
	for _, rs := range sc.stats {
		min, max, mean, median, p95, p99 := rs.calculate()
		fmt.Printf("  %-16s calls=%-4d failures=%-3d min=%v max=%v mean=%v median=%v p95=%v p99=%v\n",
			rs.name, rs.totalCalls, rs.failures, min, max, mean, median, p95, p99)
	}
}

// main runs an end-to-end auction simulation against a running server:
// it registers a farmer and several buyers, lists crops, then drives
// rounds of concurrent escalating bids and verifies the highest bid
// only ever goes up.
func main() {
	sc := newSimulationClient()

	suffix := time.Now().Unix() % 100000
	farmer, err := sc.signup("Sim Farmer", fmt.Sprintf("90000%05d", suffix), "farmer", "Nashik")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign up farmer")
	}

	buyers := make([]*account, 0, numBuyers)
	for i := 0; i < numBuyers; i++ {
		buyer, err := sc.signup(fmt.Sprintf("Sim Buyer %d", i), fmt.Sprintf("91%03d%05d", i, suffix), "buyer", "Indore")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to sign up buyer")
		}
		buyers = append(buyers, buyer)
	}
	log.Info().Int("buyers", len(buyers)).Msg("accounts registered")

	type listingState struct {
		id        string
		basePrice float64
	}
	listings := make([]listingState, 0, numListings)
	for i := 0; i < numListings; i++ {
		id, basePrice, err := sc.createListing(farmer, i)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create listing")
		}
		listings = append(listings, listingState{id: id, basePrice: basePrice})
	}
	log.Info().Int("listings", len(listings)).Msg("crops listed")

	// Bid rounds: each round several buyers bid concurrently on each
	// listing against the last observed highest bid. Some of those
	// bids lose the race and come back BID_TOO_LOW.
	for round := 0; round < numRounds; round++ {
		var wg sync.WaitGroup
		for _, ls := range listings {
			current, err := sc.highestBid(ls.id)
			if err != nil {
				log.Error().Err(err).Msg("failed to fetch highest bid")
				continue
			}
			minimum := ls.basePrice
			if current > 0 {
				minimum = current + 1
			}

			for i := 0; i < bidsPerRound; i++ {
				buyer := buyers[rand.Intn(len(buyers))]
				amount := minimum + float64(rand.Intn(50))
				wg.Add(1)
				go func(b *account, listingID string, amt float64) {
					defer wg.Done()
					sc.placeBid(b, listingID, amt)
				}(buyer, ls.id, amount)
			}
		}
		wg.Wait()
	}

	// Report final auction state
	for _, ls := range listings {
		amount, err := sc.highestBid(ls.id)
		if err != nil {
			continue
		}
		count, _ := sc.listingBids(ls.id)
		log.Info().
			Str("listing_id", ls.id).
			Float64("base_price", ls.basePrice).
			Float64("highest_bid", amount).
			Int("bids", count).
			Msg("auction state")
	}

	sc.printStats()
}
