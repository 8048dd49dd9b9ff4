// @title           Investment Simulation API
// @version         1.0
// @description     API for simulating fixed income and fund investments
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

package http

import (
	"bytes"
	"errors"
	"fmt"
	appinterfaces "main/internal/application/interfaces"
	appcatalog "main/internal/application/service/catalog"
	appsimulation "main/internal/application/service/simulation"
	domaincatalog "main/internal/domain/entity/catalog"
	domainsimulation "main/internal/domain/entity/simulation"
	"main/internal/domain/valueobject"
	infracatalog "main/internal/infrastructure/catalog"
	infrasimulation "main/internal/infrastructure/simulation"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	productsBasePath    = "/api/v1/products"
	simulationsBasePath = "/api/v1/simulations"
)

var (
	errMissingUID     = errors.New("missing uid")
	errMissingFamily  = errors.New("family query param required")
	errMissingClient  = errors.New("client_uid query param required")
	errMissingRange   = errors.New("from/to query params required")
	errMissingProfile = errors.New("profile query param required")
)

type Handler struct {
	router      *gin.Engine
	catalog     *appcatalog.Service
	simulations *appsimulation.Service
	cache       *redis.Client
	cacheTTL    time.Duration
}

var _ appinterfaces.HTTPHandler = (*Handler)(nil)

func NewHandler(catalog *appcatalog.Service, simulations *appsimulation.Service, cache *redis.Client, cacheTTL time.Duration) *Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router:      router,
		catalog:     catalog,
		simulations: simulations,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	products := h.router.Group(productsBasePath)
	if h.cache != nil {
		products.Use(h.cacheMiddleware())
	}
	{
		products.POST("/", h.createProduct)
		products.PUT("/", h.updateProduct)
		products.GET("/", h.getProduct)
		products.DELETE("/", h.deleteProduct)

		products.GET("/active", h.listActiveProducts)
		products.GET("/by-family", h.listProductsByFamily)
		products.GET("/available", h.listAvailableProducts)
		products.GET("/recommended", h.listRecommendedProducts)
	}

	sims := h.router.Group(simulationsBasePath)
	if h.cache != nil {
		sims.Use(h.cacheMiddleware())
	}
	{
		sims.POST("/", h.createSimulation)
		sims.GET("/", h.getSimulation)
		sims.GET("/by-client", h.listSimulationsByClient)
		sims.GET("/range", h.listSimulationsBetween)
		sims.GET("/stats/by-product-day", h.statsByProductDay)
	}
}

// Products handlers

// createProduct creates a new catalog product
// @Summary      Create product
// @Description  Create a new investment product offering
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        product  body      productPayload  true  "Product data"
// @Success      201      {object}  domaincatalog.Product
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /products [post]
func (h *Handler) createProduct(c *gin.Context) {
	var payload productPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	product, err := payload.toDomain()
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.catalog.CreateProduct(c.Request.Context(), product); err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// updateProduct updates an existing catalog product
// @Summary      Update product
// @Description  Update an existing investment product offering
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        product  body      productPayload  true  "Product data with UID"
// @Success      200      {object}  domaincatalog.Product
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /products [put]
func (h *Handler) updateProduct(c *gin.Context) {
	var payload productPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if payload.UID == "" {
		writeError(c, http.StatusBadRequest, errMissingUID)
		return
	}
	product, err := payload.toDomain()
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.catalog.UpdateProduct(c.Request.Context(), product); err != nil {
		writeError(c, productErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// getProduct retrieves a product by UID
// @Summary      Get product
// @Description  Get an investment product by UID
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        uid   query     string  true  "Product UID"
// @Success      200   {object}  domaincatalog.Product
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /products [get]
func (h *Handler) getProduct(c *gin.Context) {
	uid, err := parseUUIDQuery(c, "uid")
	if err != nil {
		writeError(c, http.StatusBadRequest, errMissingUID)
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), uid)
	if err != nil {
		writeError(c, productErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// deleteProduct soft-deletes a product by UID
// @Summary      Delete product
// @Description  Remove an investment product from the catalog
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        uid   query     string  true  "Product UID"
// @Success      204   "No Content"
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /products [delete]
func (h *Handler) deleteProduct(c *gin.Context) {
	uid, err := parseUUIDQuery(c, "uid")
	if err != nil {
		writeError(c, http.StatusBadRequest, errMissingUID)
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), uid); err != nil {
		writeError(c, productErrorStatus(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listActiveProducts lists all active products
// @Summary      List active products
// @Description  List every active product in catalog order
// @Tags         products
// @Accept       json
// @Produce      json
// @Success      200  {array}   domaincatalog.Product
// @Failure      500  {object}  map[string]string
// @Router       /products/active [get]
func (h *Handler) listActiveProducts(c *gin.Context) {
	products, err := h.catalog.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// listProductsByFamily lists products of one family
// @Summary      List products by family
// @Description  List products of a given family in catalog order
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        family  query     string  true  "Product family"
// @Success      200     {array}   domaincatalog.Product
// @Failure      400     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /products/by-family [get]
func (h *Handler) listProductsByFamily(c *gin.Context) {
	name := c.Query("family")
	if name == "" {
		writeError(c, http.StatusBadRequest, errMissingFamily)
		return
	}
	family, err := domaincatalog.ParseFamily(name)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	products, err := h.catalog.ListByFamily(c.Request.Context(), family)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// listAvailableProducts lists products admitting an amount and term
// @Summary      List available products
// @Description  List active products whose amount and term constraints admit the given investment
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        amount       query     number  true  "Investment amount"
// @Param        term_months  query     int     true  "Term in months"
// @Success      200          {array}   domaincatalog.Product
// @Failure      400          {object}  map[string]string
// @Failure      500          {object}  map[string]string
// @Router       /products/available [get]
func (h *Handler) listAvailableProducts(c *gin.Context) {
	amountRaw := c.Query("amount")
	if amountRaw == "" {
		writeError(c, http.StatusBadRequest, fmt.Errorf("amount query param required"))
		return
	}
	value, err := decimal.NewFromString(amountRaw)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	amount, err := valueobject.NewMoney(value)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	termMonths, err := parseIntQuery(c, "term_months")
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	products, err := h.catalog.ListAvailable(c.Request.Context(), amount, termMonths)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// listRecommendedProducts lists products suited to an investor profile
// @Summary      List recommended products
// @Description  List active products within the profile's risk tiers, highest annual rate first
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        profile  query     string  true  "Investor profile (conservative, moderate, aggressive)"
// @Success      200      {array}   domaincatalog.Product
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /products/recommended [get]
func (h *Handler) listRecommendedProducts(c *gin.Context) {
	name := c.Query("profile")
	if name == "" {
		writeError(c, http.StatusBadRequest, errMissingProfile)
		return
	}
	profile, err := domaincatalog.ParseProfile(name)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	products, err := h.catalog.Recommend(c.Request.Context(), profile)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Simulations handlers

// createSimulation runs an investment simulation
// @Summary      Simulate investment
// @Description  Select the first eligible product of the family, project the investment to maturity and persist the result
// @Tags         simulations
// @Accept       json
// @Produce      json
// @Param        simulation  body      simulationPayload  true  "Simulation request"
// @Success      201         {object}  simulationResponse
// @Failure      400         {object}  map[string]string
// @Failure      404         {object}  map[string]string
// @Failure      500         {object}  map[string]string
// @Router       /simulations [post]
func (h *Handler) createSimulation(c *gin.Context) {
	var payload simulationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	req, err := payload.toRequest()
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	outcome, err := h.simulations.Simulate(c.Request.Context(), req)
	if err != nil {
		writeError(c, simulationErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, newSimulationResponse(outcome.Simulation, outcome.Product))
}

// getSimulation retrieves a simulation by UID
// @Summary      Get simulation
// @Description  Get a persisted simulation by UID
// @Tags         simulations
// @Accept       json
// @Produce      json
// @Param        uid   query     string  true  "Simulation UID"
// @Success      200   {object}  domainsimulation.Simulation
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /simulations [get]
func (h *Handler) getSimulation(c *gin.Context) {
	uid, err := parseUUIDQuery(c, "uid")
	if err != nil {
		writeError(c, http.StatusBadRequest, errMissingUID)
		return
	}
	sim, err := h.simulations.GetSimulation(c.Request.Context(), uid)
	if err != nil {
		writeError(c, simulationErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, sim)
}

// listSimulationsByClient lists a client's most recent simulations
// @Summary      List simulations by client
// @Description  List a client's simulations, newest first
// @Tags         simulations
// @Accept       json
// @Produce      json
// @Param        client_uid  query     string  true   "Client UID"
// @Param        limit       query     int     false  "Max results (default 50)"
// @Success      200         {array}   domainsimulation.Simulation
// @Failure      400         {object}  map[string]string
// @Failure      500         {object}  map[string]string
// @Router       /simulations/by-client [get]
func (h *Handler) listSimulationsByClient(c *gin.Context) {
	clientUID, err := parseUUIDQuery(c, "client_uid")
	if err != nil {
		writeError(c, http.StatusBadRequest, errMissingClient)
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}
	}
	sims, err := h.simulations.ListByClient(c.Request.Context(), clientUID, limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, sims)
}

// listSimulationsBetween lists simulations created inside a time window
// @Summary      List simulations in range
// @Description  List simulations created between two instants
// @Tags         simulations
// @Accept       json
// @Produce      json
// @Param        from  query     string  true  "Range start (RFC3339)"
// @Param        to    query     string  true  "Range end (RFC3339)"
// @Success      200   {array}   domainsimulation.Simulation
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /simulations/range [get]
func (h *Handler) listSimulationsBetween(c *gin.Context) {
	from, to, err := parseTimeRange(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	sims, err := h.simulations.ListBetween(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, sims)
}

// statsByProductDay aggregates simulations per product per day
// @Summary      Simulation stats by product and day
// @Description  Count and average final value of simulations grouped by product and day
// @Tags         simulations
// @Accept       json
// @Produce      json
// @Param        from  query     string  false  "Range start (RFC3339)"
// @Param        to    query     string  false  "Range end (RFC3339)"
// @Success      200   {array}   interfaces.ProductDayStats
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /simulations/stats/by-product-day [get]
func (h *Handler) statsByProductDay(c *gin.Context) {
	from, to, err := parseOptionalTimeRange(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	stats, err := h.simulations.StatsByProductDay(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Payloads

type productPayload struct {
	UID            string           `json:"uid"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Family         string           `json:"family"`
	RiskTier       string           `json:"risk_tier"`
	AnnualRate     decimal.Decimal  `json:"annual_rate"`
	MinAmount      decimal.Decimal  `json:"min_amount"`
	MinTermMonths  int              `json:"min_term_months"`
	MaxTermMonths  *int             `json:"max_term_months"`
	DailyLiquidity bool             `json:"daily_liquidity"`
	TaxExempt      bool             `json:"tax_exempt"`
	Active         *bool            `json:"active"`
	ManagementFee  *decimal.Decimal `json:"management_fee"`
	PerformanceFee *decimal.Decimal `json:"performance_fee"`
}

func (p productPayload) toDomain() (*domaincatalog.Product, error) {
	family, err := domaincatalog.ParseFamily(p.Family)
	if err != nil {
		return nil, err
	}
	riskTier, err := domaincatalog.NewRiskTier(p.RiskTier)
	if err != nil {
		return nil, err
	}
	annualRate, err := valueobject.NewRate(p.AnnualRate)
	if err != nil {
		return nil, fmt.Errorf("annual rate: %w", err)
	}
	minAmount, err := valueobject.NewMoney(p.MinAmount)
	if err != nil {
		return nil, fmt.Errorf("minimum amount: %w", err)
	}

	product, err := domaincatalog.NewProduct(
		p.Name,
		family,
		riskTier,
		annualRate,
		minAmount,
		p.MinTermMonths,
		p.MaxTermMonths,
		p.DailyLiquidity,
		p.TaxExempt,
	)
	if err != nil {
		return nil, err
	}
	product.Description = p.Description

	if p.UID != "" {
		uid, err := uuid.Parse(p.UID)
		if err != nil {
			return nil, errMissingUID
		}
		product.UID = uid
	}
	if p.ManagementFee != nil {
		fee, err := valueobject.NewRate(*p.ManagementFee)
		if err != nil {
			return nil, fmt.Errorf("management fee: %w", err)
		}
		if err := product.SetManagementFee(fee); err != nil {
			return nil, err
		}
	}
	if p.PerformanceFee != nil {
		fee, err := valueobject.NewRate(*p.PerformanceFee)
		if err != nil {
			return nil, fmt.Errorf("performance fee: %w", err)
		}
		if err := product.SetPerformanceFee(fee); err != nil {
			return nil, err
		}
	}
	if p.Active != nil && !*p.Active {
		product.Deactivate()
	}
	return product, nil
}

type simulationPayload struct {
	ClientUID  string          `json:"client_uid"`
	Amount     decimal.Decimal `json:"amount"`
	TermMonths int             `json:"term_months"`
	Family     string          `json:"family"`
}

func (p simulationPayload) toRequest() (appsimulation.Request, error) {
	clientUID, err := uuid.Parse(p.ClientUID)
	if err != nil {
		return appsimulation.Request{}, fmt.Errorf("client_uid is invalid")
	}
	return appsimulation.Request{
		ClientUID:  clientUID,
		Amount:     p.Amount,
		TermMonths: p.TermMonths,
		Family:     p.Family,
	}, nil
}

type simulationResponse struct {
	SimulationUID uuid.UUID         `json:"simulation_uid"`
	ClientUID     uuid.UUID         `json:"client_uid"`
	ProductUID    uuid.UUID         `json:"product_uid"`
	ProductName   string            `json:"product_name"`
	ProductFamily string            `json:"product_family"`
	Invested      valueobject.Money `json:"invested"`
	TermMonths    int               `json:"term_months"`
	MaturityDate  time.Time         `json:"maturity_date"`
	GrossFinal    valueobject.Money `json:"gross_final"`
	TaxAmount     valueobject.Money `json:"tax_amount"`
	NetFinal      valueobject.Money `json:"net_final"`
	EffectiveRate valueobject.Rate  `json:"effective_rate"`
	TaxRate       valueobject.Rate  `json:"tax_rate"`
	Status        string            `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}

func newSimulationResponse(sim *domainsimulation.Simulation, product *domaincatalog.Product) simulationResponse {
	return simulationResponse{
		SimulationUID: sim.UID,
		ClientUID:     sim.ClientUID,
		ProductUID:    product.UID,
		ProductName:   product.Name,
		ProductFamily: product.Family.String(),
		Invested:      sim.Invested,
		TermMonths:    sim.TermMonths,
		MaturityDate:  sim.MaturityDate,
		GrossFinal:    sim.GrossFinal,
		TaxAmount:     sim.TaxAmount,
		NetFinal:      sim.NetFinal,
		EffectiveRate: sim.EffectiveRate,
		TaxRate:       sim.TaxRate,
		Status:        sim.Status.String(),
		CreatedAt:     sim.CreatedAt,
	}
}

// Error mapping

func productErrorStatus(err error) int {
	if errors.Is(err, infracatalog.ErrProductNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func simulationErrorStatus(err error) int {
	var noActive *appsimulation.NoActiveProductError
	var noEligible *appsimulation.NoEligibleProductError
	switch {
	case errors.Is(err, infrasimulation.ErrSimulationNotFound):
		return http.StatusNotFound
	case errors.As(err, &noActive), errors.As(err, &noEligible):
		return http.StatusNotFound
	case appsimulation.IsDomainFailure(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// cacheMiddleware caches GET responses in Redis.
func (h *Handler) cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := h.cacheKey(c)
		ctx := c.Request.Context()

		if cached, err := h.cache.Get(ctx, key).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			c.Abort()
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		if recorder.status >= 200 && recorder.status < 300 && recorder.body.Len() > 0 {
			_ = h.cache.Set(ctx, key, recorder.body.Bytes(), h.cacheTTL).Err()
		}
	}
}

type responseRecorder struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if len(data) > 0 {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

func (h *Handler) cacheKey(c *gin.Context) string {
	return fmt.Sprintf("cache:%s:%s?%s", c.Request.Method, c.FullPath(), c.Request.URL.RawQuery)
}

// Query helpers

func parseUUIDQuery(c *gin.Context, key string) (uuid.UUID, error) {
	value := c.Query(key)
	if value == "" {
		return uuid.Nil, fmt.Errorf("%s query param required", key)
	}
	return uuid.Parse(value)
}

func parseIntQuery(c *gin.Context, key string) (int, error) {
	value := c.Query(key)
	if value == "" {
		return 0, fmt.Errorf("%s query param required", key)
	}
	return strconv.Atoi(value)
}

func parseTimeRange(c *gin.Context) (time.Time, time.Time, error) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, errMissingRange
	}
	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func parseOptionalTimeRange(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, err
		}
		from = &parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, err
		}
		to = &parsed
	}
	return from, to, nil
}
