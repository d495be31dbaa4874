package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bodylog/internal/middleware"
	"bodylog/internal/mocks"
	"bodylog/internal/models"
)

// Test helper functions
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

func addAuthMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextEmail, "test@example.com")
		c.Next()
	}
}

func setupMeasurementController() (*MeasurementController, *mocks.MockMeasurementRepository, *mocks.MockUserProfileRepository) {
	mockRepo := new(mocks.MockMeasurementRepository)
	mockProfileRepo := new(mocks.MockUserProfileRepository)
	controller := NewMeasurementController(mockRepo, mockProfileRepo, nil, 10)
	return controller, mockRepo, mockProfileRepo
}

func seedPage(count int) []models.Measurement {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)
	out := make([]models.Measurement, count)
	for i := 0; i < count; i++ {
		out[i] = models.Measurement{
			ID:         uint(count - i),
			UserID:     1,
			MeasuredAt: base.Add(-time.Duration(i) * time.Hour),
			WeightKg:   70.0,
		}
	}
	return out
}

func TestNewMeasurementController(t *testing.T) {
	controller, _, _ := setupMeasurementController()
	assert.NotNil(t, controller)
}

func TestCreateMeasurement(t *testing.T) {
	tests := []struct {
		name           string
		userID         uint
		requestBody    map[string]interface{}
		setupMock      func(*mocks.MockMeasurementRepository, *mocks.MockUserProfileRepository)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:   "successful creation",
			userID: 1,
			requestBody: map[string]interface{}{
				"weight_kg":    72.4,
				"body_fat_pct": 18.2,
			},
			setupMock: func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {
				p.On("FindByUserID", uint(1)).Return(nil, errors.New("no profile"))
				m.On("Create", mock.AnythingOfType("*models.Measurement")).Return(nil).Run(func(args mock.Arguments) {
					args.Get(0).(*models.Measurement).ID = 42
				})
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "Measurement created successfully",
		},
		{
			name:   "bmi derived from profile height",
			userID: 1,
			requestBody: map[string]interface{}{
				"weight_kg": 72.0,
			},
			setupMock: func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {
				height := 180
				p.On("FindByUserID", uint(1)).Return(&models.UserProfile{UserID: 1, HeightCm: &height}, nil)
				m.On("Create", mock.MatchedBy(func(rec *models.Measurement) bool {
					return rec.BMI != nil && *rec.BMI == 22.2
				})).Return(nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "Measurement created successfully",
		},
		{
			name:   "missing weight",
			userID: 1,
			requestBody: map[string]interface{}{
				"body_fat_pct": 18.2,
			},
			setupMock:      func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request data",
		},
		{
			name:   "weight above range",
			userID: 1,
			requestBody: map[string]interface{}{
				"weight_kg": 250.0,
			},
			setupMock:      func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request data",
		},
		{
			name:   "body fat above range",
			userID: 1,
			requestBody: map[string]interface{}{
				"weight_kg":    72.0,
				"body_fat_pct": 120.0,
			},
			setupMock:      func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request data",
		},
		{
			name:           "invalid JSON",
			userID:         1,
			requestBody:    nil,
			setupMock:      func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request data",
		},
		{
			name:   "repository error",
			userID: 1,
			requestBody: map[string]interface{}{
				"weight_kg": 72.4,
			},
			setupMock: func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {
				p.On("FindByUserID", uint(1)).Return(nil, errors.New("no profile"))
				m.On("Create", mock.AnythingOfType("*models.Measurement")).Return(errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Failed to create measurement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, mockRepo, mockProfileRepo := setupMeasurementController()
			tt.setupMock(mockRepo, mockProfileRepo)

			router := setupTestRouter()
			router.Use(addAuthMiddleware(tt.userID))
			router.POST("/measurements", controller.CreateMeasurement)

			var body []byte
			if tt.requestBody != nil {
				body, _ = json.Marshal(tt.requestBody)
			} else {
				body = []byte("invalid json")
			}

			req := httptest.NewRequest(http.MethodPost, "/measurements", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedMsg, response["message"])

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestListMeasurements(t *testing.T) {
	t.Run("first page", func(t *testing.T) {
		controller, mockRepo, _ := setupMeasurementController()
		mockRepo.On("FetchPage", uint(1), 0, 10).Return(seedPage(10), int64(25), nil)

		router := setupTestRouter()
		router.Use(addAuthMiddleware(1))
		router.GET("/measurements", controller.ListMeasurements)

		req := httptest.NewRequest(http.MethodGet, "/measurements", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Data struct {
				Measurements []models.Measurement `json:"measurements"`
				TotalCount   int64                `json:"total_count"`
				HasMore      bool                 `json:"has_more"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Data.Measurements, 10)
		assert.Equal(t, int64(25), response.Data.TotalCount)
		assert.True(t, response.Data.HasMore)
	})

	t.Run("load more appends the next page", func(t *testing.T) {
		controller, mockRepo, _ := setupMeasurementController()
		mockRepo.On("FetchPage", uint(1), 0, 10).Return(seedPage(10), int64(15), nil)
		mockRepo.On("FetchPage", uint(1), 10, 10).Return(seedPage(5), int64(15), nil)

		router := setupTestRouter()
		router.Use(addAuthMiddleware(1))
		router.GET("/measurements", controller.ListMeasurements)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/measurements", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/measurements?more=true", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Data struct {
				Measurements []models.Measurement `json:"measurements"`
				HasMore      bool                 `json:"has_more"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Data.Measurements, 15)
		assert.False(t, response.Data.HasMore)
		mockRepo.AssertExpectations(t)
	})

	t.Run("fetch error", func(t *testing.T) {
		controller, mockRepo, _ := setupMeasurementController()
		mockRepo.On("FetchPage", uint(1), 0, 10).Return(nil, int64(0), errors.New("connection refused"))

		router := setupTestRouter()
		router.Use(addAuthMiddleware(1))
		router.GET("/measurements", controller.ListMeasurements)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/measurements", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetLatestMeasurement(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		controller, mockRepo, _ := setupMeasurementController()
		latest := &models.Measurement{ID: 7, UserID: 1, WeightKg: 71.2}
		mockRepo.On("FindLatestByUserID", uint(1)).Return(latest, nil)

		router := setupTestRouter()
		router.Use(addAuthMiddleware(1))
		router.GET("/measurements/latest", controller.GetLatestMeasurement)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/measurements/latest", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no measurements", func(t *testing.T) {
		controller, mockRepo, _ := setupMeasurementController()
		mockRepo.On("FindLatestByUserID", uint(1)).Return(nil, errors.New("record not found"))

		router := setupTestRouter()
		router.Use(addAuthMiddleware(1))
		router.GET("/measurements/latest", controller.GetLatestMeasurement)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/measurements/latest", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetUserMeasurements(t *testing.T) {
	tests := []struct {
		name           string
		userID         uint
		target         string
		setupMock      func(*mocks.MockMeasurementRepository, *mocks.MockUserProfileRepository)
		expectedStatus int
	}{
		{
			name:   "own measurements without public check",
			userID: 1,
			target: "1",
			setupMock: func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {
				m.On("FetchPage", uint(1), 0, 10).Return(seedPage(3), int64(3), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "public profile",
			userID: 1,
			target: "2",
			setupMock: func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {
				p.On("IsPublic", uint(2)).Return(true, nil)
				m.On("FetchPage", uint(2), 0, 10).Return(seedPage(3), int64(3), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "private profile",
			userID: 1,
			target: "2",
			setupMock: func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {
				p.On("IsPublic", uint(2)).Return(false, nil)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "invalid user id",
			userID:         1,
			target:         "abc",
			setupMock:      func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, mockRepo, mockProfileRepo := setupMeasurementController()
			tt.setupMock(mockRepo, mockProfileRepo)

			router := setupTestRouter()
			router.Use(addAuthMiddleware(tt.userID))
			router.GET("/measurements/user/:user_id", controller.GetUserMeasurements)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/measurements/user/"+tt.target, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
			mockProfileRepo.AssertExpectations(t)
		})
	}
}

func TestGetMeasurementByID(t *testing.T) {
	tests := []struct {
		name           string
		userID         uint
		target         string
		setupMock      func(*mocks.MockMeasurementRepository, *mocks.MockUserProfileRepository)
		expectedStatus int
	}{
		{
			name:   "own measurement",
			userID: 1,
			target: "5",
			setupMock: func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {
				m.On("FindByID", uint(5)).Return(&models.Measurement{ID: 5, UserID: 1, WeightKg: 70.0}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "public family member's measurement",
			userID: 1,
			target: "5",
			setupMock: func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {
				m.On("FindByID", uint(5)).Return(&models.Measurement{ID: 5, UserID: 2, WeightKg: 70.0}, nil)
				p.On("IsPublic", uint(2)).Return(true, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "private measurement",
			userID: 1,
			target: "5",
			setupMock: func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {
				m.On("FindByID", uint(5)).Return(&models.Measurement{ID: 5, UserID: 2, WeightKg: 70.0}, nil)
				p.On("IsPublic", uint(2)).Return(false, nil)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "not found",
			userID: 1,
			target: "5",
			setupMock: func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {
				m.On("FindByID", uint(5)).Return(nil, errors.New("record not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid id",
			userID:         1,
			target:         "abc",
			setupMock:      func(m *mocks.MockMeasurementRepository, p *mocks.MockUserProfileRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, mockRepo, mockProfileRepo := setupMeasurementController()
			tt.setupMock(mockRepo, mockProfileRepo)

			router := setupTestRouter()
			router.Use(addAuthMiddleware(tt.userID))
			router.GET("/measurements/:id", controller.GetMeasurementByID)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/measurements/"+tt.target, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
			mockProfileRepo.AssertExpectations(t)
		})
	}
}

func TestDeleteMeasurement(t *testing.T) {
	tests := []struct {
		name           string
		userID         uint
		target         string
		setupMock      func(*mocks.MockMeasurementRepository)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:   "successful deletion",
			userID: 1,
			target: "5",
			setupMock: func(m *mocks.MockMeasurementRepository) {
				m.On("FindByID", uint(5)).Return(&models.Measurement{ID: 5, UserID: 1}, nil)
				m.On("Delete", uint(5)).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "Measurement deleted successfully",
		},
		{
			name:           "invalid id",
			userID:         1,
			target:         "abc",
			setupMock:      func(m *mocks.MockMeasurementRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid measurement ID",
		},
		{
			name:   "not found",
			userID: 1,
			target: "5",
			setupMock: func(m *mocks.MockMeasurementRepository) {
				m.On("FindByID", uint(5)).Return(nil, errors.New("record not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Measurement not found",
		},
		{
			name:   "not the owner",
			userID: 1,
			target: "5",
			setupMock: func(m *mocks.MockMeasurementRepository) {
				m.On("FindByID", uint(5)).Return(&models.Measurement{ID: 5, UserID: 2}, nil)
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "Not the owner",
		},
		{
			name:   "repository error",
			userID: 1,
			target: "5",
			setupMock: func(m *mocks.MockMeasurementRepository) {
				m.On("FindByID", uint(5)).Return(&models.Measurement{ID: 5, UserID: 1}, nil)
				m.On("Delete", uint(5)).Return(errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Failed to delete measurement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, mockRepo, _ := setupMeasurementController()
			tt.setupMock(mockRepo)

			router := setupTestRouter()
			router.Use(addAuthMiddleware(tt.userID))
			router.DELETE("/measurements/:id", controller.DeleteMeasurement)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/measurements/"+tt.target, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedMsg, response["message"])

			mockRepo.AssertExpectations(t)
		})
	}
}
