package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rooted/analytics/internal/application/campaign"
	"github.com/rooted/analytics/internal/application/dashboard"
	"github.com/rooted/analytics/internal/domain/period"
	"github.com/rooted/analytics/internal/domain/shared"
)

func TestDashboardHandler_GetDashboard(t *testing.T) {
	tests := []struct {
		name         string
		headers      map[string]string
		target       string
		setup        func(*MockDashboardService)
		expectedCode int
		expectedBody string
	}{
		{
			name:   "default client",
			target: "/api/dashboard?period=mtd",
			setup: func(m *MockDashboardService) {
				m.On("BuildJSON", mock.Anything, "jumbomax", "mtd").Return([]byte(`{"kpis":{}}`), nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"kpis":{}}`,
		},
		{
			name:    "header client",
			headers: clientHeader("puttout"),
			target:  "/api/dashboard",
			setup: func(m *MockDashboardService) {
				m.On("BuildJSON", mock.Anything, "puttout", "").Return([]byte(`{}`), nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{}`,
		},
		{
			name:    "unknown client",
			headers: clientHeader("acme"),
			target:  "/api/dashboard",
			setup: func(m *MockDashboardService) {
				m.On("BuildJSON", mock.Anything, "acme", "").
					Return(nil, shared.ErrUnknownClient.WithDetails("Client configuration not found for: acme"))
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid client ID","details":"Client configuration not found for: acme"}`,
		},
		{
			name:   "warehouse failure",
			target: "/api/dashboard",
			setup: func(m *MockDashboardService) {
				m.On("BuildJSON", mock.Anything, "jumbomax", "").Return(nil, errors.New("timeout"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Failed to fetch dashboard data","details":"timeout"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			tt.setup(svc)
			h := NewDashboardHandler(svc, "jumbomax")

			w := serve(http.MethodGet, "/api/dashboard", tt.target, h.GetDashboard, nil, tt.headers)

			assert.Equal(t, tt.expectedCode, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_GetCustomRange(t *testing.T) {
	const route = "/api/dashboard/custom-range"

	t.Run("requires client header", func(t *testing.T) {
		svc := new(MockDashboardService)
		w := serve(http.MethodGet, route, route+"?startDate=2025-01-01&endDate=2025-01-31", NewDashboardHandler(svc, "jumbomax").GetCustomRange, nil, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"x-client-id header is required"}`, w.Body.String())
		svc.AssertNotCalled(t, "BuildRangeJSON", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validates dates", func(t *testing.T) {
		svc := new(MockDashboardService)
		h := NewDashboardHandler(svc, "jumbomax")

		for target, msg := range map[string]string{
			route: "startDate and endDate query params are required (format: YYYY-MM-DD)",
			route + "?startDate=01/01/2025&endDate=x":          "Invalid date format. Use YYYY-MM-DD",
			route + "?startDate=2025-02-01&endDate=2025-01-01": "startDate must be on or before endDate",
		} {
			w := serve(http.MethodGet, route, target, h.GetCustomRange, nil, clientHeader("jumbomax"))
			assert.Equal(t, http.StatusBadRequest, w.Code, target)
			assert.Equal(t, msg, decodeError(t, w).Error, target)
		}
		svc.AssertNotCalled(t, "BuildRangeJSON", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("builds the range", func(t *testing.T) {
		svc := new(MockDashboardService)
		want := period.Range{
			Token: period.Custom,
			Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		}
		svc.On("BuildRangeJSON", mock.Anything, "puttout", want).Return([]byte(`{"range":true}`), nil)

		w := serve(http.MethodGet, route, route+"?startDate=2025-01-01&endDate=2025-01-31",
			NewDashboardHandler(svc, "jumbomax").GetCustomRange, nil, clientHeader("puttout"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"range":true}`, w.Body.String())
		svc.AssertExpectations(t)
	})
}

func TestDashboardHandler_GetFunnel(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Funnel", mock.Anything, "jumbomax", "conversions", "US").
		Return(&dashboard.FunnelResponse{Goal: "conversions", Country: "US"}, nil)

	w := serve(http.MethodGet, "/api/dashboard/funnel", "/api/dashboard/funnel?goal=conversions&country=US",
		NewDashboardHandler(svc, "jumbomax").GetFunnel, nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"goal":"conversions"`)
	svc.AssertExpectations(t)
}

func TestCampaignHandler_GetCampaign(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		days         int
		err          error
		expectedCode int
		expectedErr  string
	}{
		{name: "explicit days", target: "/api/campaign/Brand%20Search?days=14", days: 14, expectedCode: http.StatusOK},
		{name: "malformed days uses the default", target: "/api/campaign/Brand%20Search?days=abc", days: 0, expectedCode: http.StatusOK},
		{
			name: "not found", target: "/api/campaign/Brand%20Search", days: 0,
			err:          shared.ErrNotFound.WithMessage("Campaign not found"),
			expectedCode: http.StatusNotFound, expectedErr: "Campaign not found",
		},
		{
			name: "query failure", target: "/api/campaign/Brand%20Search", days: 0,
			err:          errors.New("boom"),
			expectedCode: http.StatusInternalServerError, expectedErr: "Failed to fetch campaign data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCampaignService)
			var detail *campaign.Detail
			if tt.err == nil {
				detail = &campaign.Detail{Analysis: &campaign.Analysis{CampaignName: "Brand Search"}}
			}
			svc.On("Get", mock.Anything, "jumbomax", "Brand Search", tt.days).Return(detail, tt.err)

			w := serve(http.MethodGet, "/api/campaign/:name", tt.target, NewCampaignHandler(svc, "jumbomax").GetCampaign, nil, nil)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedErr != "" {
				assert.Equal(t, tt.expectedErr, decodeError(t, w).Error)
			} else {
				assert.Contains(t, w.Body.String(), `"campaignName":"Brand Search"`)
			}
			svc.AssertExpectations(t)
		})
	}
}
