// internal/handlers/dashboard_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/internhub/gateway/internal/config"
	"github.com/internhub/gateway/internal/router"
	"github.com/internhub/gateway/internal/utils"
)

const (
	testSecret       = "gateway-test-secret"
	testInternshipID = "7f6c1e9a-43a5-4a6e-9f3b-2d8e5a1c0b42"
	openInternshipID = "a2b91c74-5e0d-4f18-8c3a-96d4e7f2a501"
)

// marketplaceStub is the fake upstream API the gateway is pointed at
// for the full-stack route tests. It keeps one intern application that
// can move through the offer pipeline.
type marketplaceStub struct {
	mu     sync.Mutex
	status string
}

func (m *marketplaceStub) record() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]interface{}{
		"id":               "app-1",
		"application_id":   "app-1",
		"internship_id":    testInternshipID,
		"company_id":       "c1",
		"title":            "Backend Intern",
		"company":          "Acme",
		"status":           m.status,
		"application_date": "2024-02-20T08:00:00",
		"offer_sent_date":  "2024-03-01T08:00:00",
	}
}

func (m *marketplaceStub) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/applications/my-applications", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]interface{}{m.record()})
	})
	mux.HandleFunc("GET /api/v1/applications/my-offers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]interface{}{m.record()})
	})
	mux.HandleFunc("GET /api/v1/internships/with-match", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": testInternshipID, "title": "Backend Intern", "company_id": "c1", "match_percentage": 88.0},
			{"id": openInternshipID, "title": "Data Intern", "company_id": "c2", "match_percentage": 61.0},
		})
	})
	mux.HandleFunc("GET /api/v1/internships/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": openInternshipID, "title": "Data Intern", "company_id": "c2"},
		})
	})
	mux.HandleFunc("POST /api/v1/applications/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			InternshipID string `json:"internship_id"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":               "app-2",
			"application_id":   "app-2",
			"internship_id":    body.InternshipID,
			"company_id":       "c2",
			"title":            "Data Intern",
			"company":          "Globex",
			"status":           "applied",
			"application_date": "2024-03-10T09:00:00",
		})
	})
	mux.HandleFunc("PATCH /api/v1/applications/{id}/respond", func(w http.ResponseWriter, r *http.Request) {
		response := r.URL.Query().Get("response")
		m.mu.Lock()
		if m.status != "offered" {
			m.mu.Unlock()
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "This application does not have an active offer"})
			return
		}
		m.status = response
		m.mu.Unlock()
		json.NewEncoder(w).Encode(m.record())
	})
	mux.HandleFunc("GET /api/v1/applications/company/all-applicants", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"application_id": "app-1", "applicant_name": "Jordan Lee", "status": "pending", "match_percentage": 88.0},
		})
	})
	mux.HandleFunc("PATCH /api/v1/applications/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		record := m.record()
		record["status"] = r.URL.Query().Get("status")
		json.NewEncoder(w).Encode(record)
	})

	return mux
}

type DashboardTestSuite struct {
	suite.Suite
	router      *gin.Engine
	cleanup     func()
	marketplace *marketplaceStub
	upstream    *httptest.Server
	clientSeq   atomic.Int64
}

func (suite *DashboardTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	suite.marketplace = &marketplaceStub{status: "offered"}
	suite.upstream = httptest.NewServer(suite.marketplace.handler())

	cfg := &config.Config{
		Environment: "test",
		Upstream: config.UpstreamConfig{
			BaseURL:        suite.upstream.URL,
			Timeout:        5,
			RequestsPerSec: 100,
			Burst:          100,
		},
		Sync: config.SyncConfig{
			PollInterval: time.Hour,
			ViewIdleTTL:  time.Hour,
		},
		JWT:  config.JWTConfig{SecretKey: testSecret},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}

	suite.router, suite.cleanup = router.Initialize(cfg)
}

func (suite *DashboardTestSuite) TearDownSuite() {
	suite.cleanup()
	suite.upstream.Close()
}

func (suite *DashboardTestSuite) signToken(userID, role string) string {
	claims := utils.JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	suite.Require().NoError(err)
	return token
}

func (suite *DashboardTestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		suite.Require().NoError(err)
		payload = bytes.NewBuffer(encoded)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, payload)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	// Distinct client addresses keep the per-IP limiters out of the way.
	req.RemoteAddr = fmt.Sprintf("10.1.0.%d:51000", suite.clientSeq.Add(1)%250+1)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *DashboardTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *DashboardTestSuite) TestHealthCheck() {
	w := suite.request("GET", "/health", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *DashboardTestSuite) TestMissingTokenRejected() {
	w := suite.request("GET", "/v1/dashboard/applications", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	response := suite.decode(w)
	assert.False(suite.T(), response["success"].(bool))
}

func (suite *DashboardTestSuite) TestGarbageTokenRejected() {
	w := suite.request("GET", "/v1/dashboard/applications", "not-a-jwt", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *DashboardTestSuite) TestCompanyRoleCannotUseInternDashboard() {
	token := suite.signToken("company-1", "company")
	w := suite.request("GET", "/v1/dashboard/applications", token, nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *DashboardTestSuite) TestInternRoleCannotUseCompanyRoutes() {
	token := suite.signToken("intern-9", "intern")
	w := suite.request("GET", "/v1/company/applicants", token, nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *DashboardTestSuite) TestListApplications() {
	token := suite.signToken("intern-1", "intern")
	w := suite.request("GET", "/v1/dashboard/applications", token, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	assert.True(suite.T(), response["success"].(bool))

	data := response["data"].([]interface{})
	assert.Len(suite.T(), data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(suite.T(), 88.0, first["match_percentage"])

	meta := response["meta"].(map[string]interface{})
	assert.NotNil(suite.T(), meta["last_synced"])
	assert.NotNil(suite.T(), meta["status_counts"])
}

func (suite *DashboardTestSuite) TestRefreshApplications() {
	token := suite.signToken("intern-2", "intern")
	w := suite.request("POST", "/v1/dashboard/applications/refresh", token, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *DashboardTestSuite) TestApplyValidatesInternshipID() {
	token := suite.signToken("intern-3", "intern")
	w := suite.request("POST", "/v1/dashboard/applications", token, map[string]string{
		"internship_id": "not-a-uuid",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	response := suite.decode(w)
	assert.False(suite.T(), response["success"].(bool))
}

func (suite *DashboardTestSuite) TestApply() {
	token := suite.signToken("intern-4", "intern")
	w := suite.request("POST", "/v1/dashboard/applications", token, map[string]string{
		"internship_id": openInternshipID,
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	response := suite.decode(w)
	record := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), openInternshipID, record["internship_id"])
	assert.Equal(suite.T(), "applied", record["status"])
}

func (suite *DashboardTestSuite) TestListOffers() {
	token := suite.signToken("intern-5", "intern")
	w := suite.request("GET", "/v1/dashboard/offers", token, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	data := response["data"].([]interface{})
	assert.Len(suite.T(), data, 1)
}

func (suite *DashboardTestSuite) TestRespondValidatesChoice() {
	token := suite.signToken("intern-6", "intern")
	w := suite.request("POST", "/v1/dashboard/offers/app-1/respond", token, map[string]string{
		"response": "maybe",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *DashboardTestSuite) TestRespondUnknownOffer() {
	token := suite.signToken("intern-7", "intern")
	w := suite.request("POST", "/v1/dashboard/offers/no-such-app/respond", token, map[string]string{
		"response": "accepted",
	})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestRespondToOfferOnce drives the full accept flow and then checks
// that a second response to the same record is turned away.
func (suite *DashboardTestSuite) TestRespondToOfferOnce() {
	token := suite.signToken("intern-8", "intern")

	w := suite.request("POST", "/v1/dashboard/offers/app-1/respond", token, map[string]string{
		"response": "accepted",
	})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	offer := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), "accepted", offer["status"])

	w = suite.request("POST", "/v1/dashboard/offers/app-1/respond", token, map[string]string{
		"response": "declined",
	})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *DashboardTestSuite) TestInternshipsWithMatch() {
	token := suite.signToken("intern-10", "intern")
	w := suite.request("GET", "/v1/dashboard/internships", token, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	data := response["data"].([]interface{})
	suite.Require().Len(data, 2)

	// Highest match first.
	first := data[0].(map[string]interface{})
	assert.Equal(suite.T(), 88.0, first["match_percentage"])
}

func (suite *DashboardTestSuite) TestCompanyApplicants() {
	token := suite.signToken("company-2", "company")
	w := suite.request("GET", "/v1/company/applicants", token, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	data := response["data"].([]interface{})
	assert.Len(suite.T(), data, 1)
}

func (suite *DashboardTestSuite) TestCompanyUpdateStatus() {
	token := suite.signToken("company-3", "company")

	w := suite.request("PATCH", "/v1/company/applications/app-1/status", token, map[string]string{
		"status": "under_review",
	})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.request("PATCH", "/v1/company/applications/app-1/status", token, map[string]string{
		"status": "hired",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func TestDashboardSuite(t *testing.T) {
	suite.Run(t, new(DashboardTestSuite))
}
