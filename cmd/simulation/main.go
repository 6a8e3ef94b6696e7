package main

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nmxlabs/marketplace-api/internal/auth"
	"github.com/nmxlabs/marketplace-api/internal/authorizer"
	"github.com/nmxlabs/marketplace-api/internal/config"
	"github.com/nmxlabs/marketplace-api/internal/database"
	"github.com/nmxlabs/marketplace-api/internal/events"
	"github.com/nmxlabs/marketplace-api/internal/merkle"
	"github.com/nmxlabs/marketplace-api/internal/orderhash"
	"github.com/nmxlabs/marketplace-api/internal/registry"
	"github.com/nmxlabs/marketplace-api/internal/settlement"
	"github.com/nmxlabs/marketplace-api/internal/signer"
	"github.com/nmxlabs/marketplace-api/internal/tokens"
	"github.com/nmxlabs/marketplace-api/internal/transfer"
	"github.com/nmxlabs/marketplace-api/internal/types"
	"github.com/nmxlabs/marketplace-api/pkg/middleware"
)

const (
	serverAddress   = "http://localhost:8080"
	numSellers      = 4
	ordersPerSeller = 3
	batchSize       = 3

	// Development signing key for the batch authority. Its address
	// matches the default BACKEND_SIGNER_ADDRESS.
	backendSignerKey = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
)

var (
	currencyCollection = common.HexToAddress("0x0000000000000000000000000000000000001001")
	nftCollection      = common.HexToAddress("0x0000000000000000000000000000000000002002")
	artistAddress      = common.HexToAddress("0x00000000000000000000000000000000000A2715")
)

// init configures the logger for the simulation with pretty printing and timestamp
func init() {
	// Configure pretty logging
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

	// Sort durations for percentile calculations
	sort.Slice(rs.durations, func(i, j int) bool {
		return rs.durations[i] < rs.durations[j]
	})

	min = rs.durations[0]
	max = rs.durations[len(rs.durations)-1]

	// Calculate mean
	var sum time.Duration
	for _, d := range rs.durations {
		sum += d
	}
	mean = sum / time.Duration(len(rs.durations))

	// Calculate median
	median = rs.durations[len(rs.durations)/2]

	// Calculate percentiles
	p95idx := int(math.Ceil(float64(len(rs.durations))*0.95)) - 1
	p99idx := int(math.Ceil(float64(len(rs.durations))*0.99)) - 1
	p95 = rs.durations[p95idx]
	p99 = rs.durations[p99idx]

	return
}

// participant is a simulated wallet with its signing key.
type participant struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func newParticipant() (*participant, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &participant{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}, nil
}

// simulationClient handles HTTP communication with the settlement API
type simulationClient struct {
	baseURL    string
	authToken  string
	adminToken string
	client     *http.Client
	stats      map[string]*routeStats
}

// newSimulationClient creates and initializes a new simulation client
// It authenticates with the API and prepares performance tracking
func newSimulationClient() (*simulationClient, error) {
	// Create HTTP client with timeout
	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	sc := &simulationClient{
		baseURL: serverAddress,
		client:  client,
		stats: map[string]*routeStats{
			"auth":    {name: "Authentication"},
			"config":  {name: "Configure Fees"},
			"mint":    {name: "Mint Asset"},
			"approve": {name: "Approve Asset"},
			"settle":  {name: "Settle Batch"},
			"record":  {name: "Get Record"},
			"fill":    {name: "Get Fill"},
		},
	}

	// Get tokens for the settle and admin credentials
	token, err := sc.authenticate(auth.TestAPIKey, auth.TestAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	sc.authToken = token

	adminToken, err := sc.authenticate(auth.TestAdminKey, auth.TestAdminSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate admin: %w", err)
	}
	sc.adminToken = adminToken

	return sc, nil
}

// authenticate performs API authentication and returns a JWT token
func (sc *simulationClient) authenticate(apiKey, apiSecret string) (string, error) {
	start := time.Now()
	defer func() {
		sc.stats["auth"].addDuration(time.Since(start))
	}()

	credentials := map[string]string{
		"api_key":    apiKey,
		"api_secret": apiSecret,
	}

	body, err := json.Marshal(credentials)
	if err != nil {
		return "", err
	}

	resp, err := sc.client.Post(
		fmt.Sprintf("%s/api/v1/auth/token", sc.baseURL),
		"application/json",
		bytes.NewBuffer(body),
	)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("authentication failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"jwt_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.Data.Token, nil
}

// call performs an authenticated JSON request and decodes the envelope
// data into out when out is non-nil.
func (sc *simulationClient) call(route, method, path, token string, payload, out any) error {
	start := time.Now()
	defer func() {
		sc.stats[route].addDuration(time.Since(start))
	}()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequest(method, sc.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := sc.client.Do(req)
	if err != nil {
		sc.stats[route].failures++
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		sc.stats[route].failures++
		return fmt.Errorf("failed to read response body: %w", err)
	}
	log.Debug().Str("path", path).Str("response", string(respBody)).Msg("API response")

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		sc.stats[route].failures++
		return fmt.Errorf("%s %s failed with status %d: %s", method, path, resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w, body: %s", err, string(respBody))
	}
	return json.Unmarshal(envelope.Data, out)
}

func (sc *simulationClient) configureFees() error {
	feePath := fmt.Sprintf("/api/v1/admin/fees/%s", currencyCollection.Hex())
	feeBody := map[string]uint64{"buyer_fee_bps": 250, "seller_fee_bps": 250}
	if err := sc.call("config", "PUT", feePath, sc.adminToken, feeBody, nil); err != nil {
		return err
	}

	royaltyPath := fmt.Sprintf("/api/v1/admin/royalties/%s", nftCollection.Hex())
	royaltyBody := map[string]any{
		"recipients": []string{artistAddress.Hex()},
		"bps":        []uint64{250},
	}
	return sc.call("config", "PUT", royaltyPath, sc.adminToken, royaltyBody, nil)
}

func (sc *simulationClient) mint(kind types.AssetKind, collection common.Address, account common.Address, id, amount string) error {
	body := map[string]any{
		"kind":       kind,
		"collection": collection.Hex(),
		"account":    account.Hex(),
		"id":         id,
		"amount":     amount,
	}
	return sc.call("mint", "POST", "/api/v1/admin/tokens/mint", sc.adminToken, body, nil)
}

func (sc *simulationClient) approve(kind types.AssetKind, collection common.Address, account common.Address, amount string) error {
	body := map[string]any{
		"kind":       kind,
		"collection": collection.Hex(),
		"account":    account.Hex(),
		"amount":     amount,
	}
	return sc.call("approve", "POST", "/api/v1/admin/tokens/approve", sc.adminToken, body, nil)
}

func (sc *simulationClient) settle(request *settlement.SettleRequest) (*settlement.SettleResponse, error) {
	var result settlement.SettleResponse
	if err := sc.call("settle", "POST", "/api/v1/settlements", sc.authToken, request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (sc *simulationClient) getRecord(recordID string) (*settlement.SettlementRecord, error) {
	var record settlement.SettlementRecord
	path := fmt.Sprintf("/api/v1/settlements/%s", recordID)
	if err := sc.call("record", "GET", path, sc.authToken, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (sc *simulationClient) getFill(orderHash string) (uint64, error) {
	var result struct {
		Filled uint64 `json:"filled"`
	}
	path := fmt.Sprintf("/api/v1/fills/%s", orderHash)
	if err := sc.call("fill", "GET", path, sc.authToken, nil, &result); err != nil {
		return 0, err
	}
	return result.Filled, nil
}

// printPerformanceStats outputs formatted performance statistics for all API endpoints
func (sc *simulationClient) printPerformanceStats() {
	fmt.Println("\n📊 API Performance Statistics")
	fmt.Println(strings.Repeat("-", 100))
	fmt.Printf("%-20s %10s %10s %10s %10s %10s %10s %10s %10s\n",
		"Endpoint", "Calls", "Errors", "Min", "Max", "Mean", "Median", "P95", "P99")
	fmt.Println(strings.Repeat("-", 100))

	for _, stats := range sc.stats {
		min, max, mean, median, p95, p99 := stats.calculate()
		fmt.Printf("%-20s %10d %10d %10s %10s %10s %10s %10s %10s\n",
			stats.name,
			stats.totalCalls,
			stats.failures,
			min.Round(time.Millisecond),
			max.Round(time.Millisecond),
			mean.Round(time.Millisecond),
			median.Round(time.Millisecond),
			p95.Round(time.Millisecond),
			p99.Round(time.Millisecond))
	}
	fmt.Println(strings.Repeat("-", 100))
}

// listing is one order a seller signed together with the hash it
// settles under.
type listing struct {
	order types.Order
	hash  common.Hash
	price *big.Int
}

// buildListings creates sale orders for a seller, hashes them, builds
// the seller's Merkle tree and signs its root.
func buildListings(seller *participant, firstTokenID int) ([]listing, error) {
	now := time.Now()
	listings := make([]listing, 0, ordersPerSeller)

	for i := 0; i < ordersPerSeller; i++ {
		price := big.NewInt(int64(rand.Intn(900)+100) * 10)
		order := types.Order{
			Bid: []types.Asset{{
				Kind:       types.NonFungibleToken,
				Collection: nftCollection,
				ID:         big.NewInt(int64(firstTokenID + i)),
				Amount:     big.NewInt(1),
			}},
			Ask: []types.Asset{{
				Kind:       types.FungibleToken,
				Collection: currencyCollection,
				Amount:     price,
			}},
			TotalAmount:    1,
			Amount:         1,
			Owner:          seller.address,
			CreationDate:   now.UnixMilli(),
			ExpirationDate: now.Add(time.Hour).UnixMilli(),
			OrderType:      types.BundleOrSingleToCurrencyOrNative,
		}

		hash, err := orderhash.Hash(&order)
		if err != nil {
			return nil, fmt.Errorf("failed to hash order: %w", err)
		}
		listings = append(listings, listing{order: order, hash: hash, price: price})
	}

	leaves := make([]common.Hash, len(listings))
	for i, l := range listings {
		leaves[i] = l.hash
	}
	tree := merkle.BuildTree(leaves)
	rootSig, err := signer.SignDigest(tree.Root(), seller.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign root: %w", err)
	}

	for i := range listings {
		proof, ok := tree.Proof(listings[i].hash)
		if !ok {
			return nil, fmt.Errorf("leaf missing from its own tree")
		}
		listings[i].order.Root = tree.Root()
		listings[i].order.RootSignature = rootSig
		listings[i].order.Proof = proof
	}

	return listings, nil
}

// authorizeBatch produces the backend signature over a batch of order
// hashes.
func authorizeBatch(cfg *config.Config, backendKey *ecdsa.PrivateKey, hashes []common.Hash, expiration int64) (hexutil.Bytes, error) {
	authority := authorizer.New(cfg.BackendSigner, cfg.EngineAddress, cfg.ChainID)
	digest, err := authority.BatchDigest(hashes, expiration)
	if err != nil {
		return nil, err
	}
	return signer.SignDigest(digest, backendKey)
}

// main runs the settlement simulation
// It starts a local API server, seeds ledgers and fee configuration,
// then drives signed order batches through the settlement endpoint
func main() {
	// Start the server in a goroutine
	go func() {
		if err := startServer(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for server to start
	time.Sleep(2 * time.Second)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	backendKey, err := crypto.HexToECDSA(backendSignerKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse backend signing key")
	}

	// Initialize simulation client
	simClient, err := newSimulationClient()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize simulation client")
	}

	if err := simClient.configureFees(); err != nil {
		log.Fatal().Err(err).Msg("Failed to configure fees and royalties")
	}
	log.Info().
		Str("currency", currencyCollection.Hex()).
		Str("nft_collection", nftCollection.Hex()).
		Msg("Fees and royalties configured")

	// Create participants
	buyer, err := newParticipant()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create buyer")
	}
	sellers := make([]*participant, numSellers)
	for i := range sellers {
		if sellers[i], err = newParticipant(); err != nil {
			log.Fatal().Err(err).Msg("Failed to create seller")
		}
	}

	// Seed the buyer with currency and grant the engine an allowance
	if err := simClient.mint(types.FungibleToken, currencyCollection, buyer.address, "", "10000000"); err != nil {
		log.Fatal().Err(err).Msg("Failed to mint currency")
	}
	if err := simClient.approve(types.FungibleToken, currencyCollection, buyer.address, "10000000"); err != nil {
		log.Fatal().Err(err).Msg("Failed to approve currency")
	}

	// Seed sellers with tokens and build their signed listings
	var listings []listing
	for i, seller := range sellers {
		firstTokenID := i*ordersPerSeller + 1
		for j := 0; j < ordersPerSeller; j++ {
			tokenID := fmt.Sprintf("%d", firstTokenID+j)
			if err := simClient.mint(types.NonFungibleToken, nftCollection, seller.address, tokenID, ""); err != nil {
				log.Fatal().Err(err).Msg("Failed to mint token")
			}
		}
		if err := simClient.approve(types.NonFungibleToken, nftCollection, seller.address, ""); err != nil {
			log.Fatal().Err(err).Msg("Failed to approve collection")
		}

		sellerListings, err := buildListings(seller, firstTokenID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to build listings")
		}
		listings = append(listings, sellerListings...)
		log.Info().
			Str("seller", seller.address.Hex()).
			Int("listings", len(sellerListings)).
			Msg("Seller listings signed")
	}

	// Collect statistics during processing
	stats := struct {
		TotalOrders    int
		SettledOrders  int
		RejectedOrders int
		Batches        int
		FailedBatches  int
		TotalValue     *big.Int
		StartTime      time.Time
		Rejections     map[string]int
	}{
		TotalOrders: len(listings),
		TotalValue:  new(big.Int),
		StartTime:   time.Now(),
		Rejections:  make(map[string]int),
	}

	// Submit the listings in authorized batches
	var settledRecords []string
	var settledHashes []string
	for start := 0; start < len(listings); start += batchSize {
		end := start + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		batch := listings[start:end]

		orders := make([]types.Order, len(batch))
		hashes := make([]common.Hash, len(batch))
		for i, l := range batch {
			orders[i] = l.order
			hashes[i] = l.hash
		}

		expiration := time.Now().Add(10 * time.Minute).UnixMilli()
		batchSig, err := authorizeBatch(cfg, backendKey, hashes, expiration)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to sign batch")
		}

		result, err := simClient.settle(&settlement.SettleRequest{
			Caller:          buyer.address.Hex(),
			Orders:          orders,
			Hashes:          hashes,
			BatchExpiration: expiration,
			BatchSignature:  batchSig,
		})
		if err != nil {
			log.Error().Err(err).Int("batch_size", len(batch)).Msg("Failed to settle batch")
			stats.FailedBatches++
			continue
		}

		stats.Batches++
		stats.SettledOrders += result.Settled
		stats.RejectedOrders += result.Rejected
		for i, outcome := range result.Outcomes {
			if outcome.Settled {
				settledRecords = append(settledRecords, outcome.RecordID)
				settledHashes = append(settledHashes, outcome.OrderHash)
				stats.TotalValue.Add(stats.TotalValue, batch[i].price)
				continue
			}
			stats.Rejections[outcome.Code]++
			log.Warn().
				Str("order_hash", outcome.OrderHash).
				Str("code", outcome.Code).
				Str("error", outcome.Error).
				Msg("Order rejected")
		}

		log.Info().
			Int("batch_size", result.BatchSize).
			Int("settled", result.Settled).
			Int("rejected", result.Rejected).
			Msg("Batch settled")
	}

	// Read back a sample of records and fills
	for i, recordID := range settledRecords {
		if i >= 5 {
			break
		}
		record, err := simClient.getRecord(recordID)
		if err != nil {
			log.Error().Err(err).Str("record_id", recordID).Msg("Failed to fetch record")
			continue
		}
		filled, err := simClient.getFill(settledHashes[i])
		if err != nil {
			log.Error().Err(err).Str("order_hash", settledHashes[i]).Msg("Failed to fetch fill")
			continue
		}
		log.Info().
			Str("record_id", record.RecordID).
			Str("gross", record.GrossValue).
			Str("fee", record.FeeValue).
			Str("royalty", record.RoyaltyValue).
			Uint64("filled", filled).
			Msg("Settlement record verified")
	}

	// Print summary
	duration := time.Since(stats.StartTime)
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("🚀 SETTLEMENT SIMULATION SUMMARY")
	fmt.Println(strings.Repeat("=", 80))

	fmt.Printf(`
📊 Order Statistics
------------------
Total Orders:     %d
Settled:          %d
Rejected:         %d
Batches:          %d
Failed Batches:   %d
Total Value:      %s
Duration:         %v
`, stats.TotalOrders, stats.SettledOrders, stats.RejectedOrders,
		stats.Batches, stats.FailedBatches,
		stats.TotalValue.String(), duration.Round(time.Millisecond))

	if len(stats.Rejections) > 0 {
		fmt.Println("\n📉 Rejection Codes")
		fmt.Println("------------------")
		for code, count := range stats.Rejections {
			fmt.Printf("%-24s: %d\n", code, count)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 80))

	// Success rate calculation
	successRate := float64(stats.SettledOrders) / float64(stats.TotalOrders) * 100
	log.Info().
		Float64("success_rate", successRate).
		Int("total_orders", stats.TotalOrders).
		Int("settled_orders", stats.SettledOrders).
		Str("total_value", stats.TotalValue.String()).
		Dur("duration", duration).
		Msg("Simulation completed")

	simClient.printPerformanceStats()
}

// startServer initializes and starts the settlement API server
// Sets up all required services, handlers and routes
func startServer() error {
	// Keep the simulation self-contained with an in-memory database
	if os.Getenv("DATABASE_PATH") == "" {
		os.Setenv("DATABASE_PATH", "file:simulation?mode=memory&cache=shared")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.NewDatabase(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize services
	authService := auth.NewService(cfg.JWTSecret)
	authService.RegisterAPICredentials(auth.TestAPIKey, auth.TestAPISecret, "settle")
	authService.RegisterAPICredentials(auth.TestAdminKey, auth.TestAdminSecret, "settle", "admin")

	registryService, err := registry.NewService(db, cfg.FeesBeneficiary)
	if err != nil {
		return fmt.Errorf("failed to initialize fee registry: %w", err)
	}
	tokenService := tokens.NewService(db)
	bus := events.NewBus()
	batchAuthorizer := authorizer.New(cfg.BackendSigner, cfg.EngineAddress, cfg.ChainID)
	settlementService := settlement.NewService(db, batchAuthorizer, registryService, transfer.NewHelper(cfg.EngineAddress), bus)

	// Initialize router
	router := gin.Default()
	authHandlers := auth.NewGinHandlers(authService)
	registryHandlers := registry.NewGinHandlers(registryService)
	tokenHandlers := tokens.NewGinHandlers(tokenService, cfg.EngineAddress)
	settlementHandlers := settlement.NewGinHandlers(settlementService)
	streamHandler := events.NewStreamHandler(bus)

	// Setup routes
	setupRoutes(router, cfg.JWTSecret, authHandlers, settlementHandlers, registryHandlers, tokenHandlers, streamHandler)

	// Start the server
	return router.Run(":" + cfg.Port)
}

// setupRoutes configures all API endpoints and their handlers
// Groups routes by functionality and applies appropriate middleware
func setupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authHandlers *auth.GinHandlers,
	settlementHandlers *settlement.GinHandlers,
	registryHandlers *registry.GinHandlers,
	tokenHandlers *tokens.GinHandlers,
	streamHandler *events.StreamHandler,
) {
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/token", authHandlers.GenerateTokenHandler())
		}

		// Settlement routes
		settlements := v1.Group("/settlements")
		settlements.Use(middleware.JWTAuth(jwtSecret))
		{
			settlements.POST("", settlementHandlers.SettleHandler())
			settlements.GET("", settlementHandlers.ListRecordsHandler())
			settlements.GET("/:record_id", settlementHandlers.GetRecordHandler())
		}

		fillsGroup := v1.Group("/fills")
		fillsGroup.Use(middleware.JWTAuth(jwtSecret))
		{
			fillsGroup.GET("/:order_hash", settlementHandlers.GetFillHandler())
		}

		collections := v1.Group("/collections")
		collections.Use(middleware.JWTAuth(jwtSecret))
		{
			collections.GET("/:collection", registryHandlers.GetCollectionConfigHandler())
		}

		v1.GET("/stream/settlements", streamHandler.StreamSettlementsHandler())

		// Administrative routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuth(jwtSecret))
		{
			admin.PUT("/fees/beneficiary", registryHandlers.UpdateBeneficiaryHandler())
			admin.PUT("/fees/:collection", registryHandlers.UpdateCollectionFeeHandler())
			admin.PUT("/royalties/:collection", registryHandlers.UpdateCollectionRoyaltiesHandler())

			admin.POST("/tokens/mint", tokenHandlers.MintHandler())
			admin.POST("/tokens/approve", tokenHandlers.ApproveHandler())
			admin.GET("/tokens/balance", tokenHandlers.BalanceHandler())
		}
	}
}
