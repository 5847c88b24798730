package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	bcdto "github.com/rooted/analytics/internal/application/businesscontext/dto"
	"github.com/rooted/analytics/internal/application/campaign"
	"github.com/rooted/analytics/internal/application/chat"
	"github.com/rooted/analytics/internal/application/dashboard"
	"github.com/rooted/analytics/internal/application/export"
	"github.com/rooted/analytics/internal/application/extraction"
	"github.com/rooted/analytics/internal/application/report"
	apptemplate "github.com/rooted/analytics/internal/application/template"
	"github.com/rooted/analytics/internal/domain/businesscontext"
	"github.com/rooted/analytics/internal/domain/period"
	"github.com/rooted/analytics/internal/domain/template"
	"github.com/rooted/analytics/internal/infrastructure/persistence"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) BuildJSON(ctx context.Context, clientID, token string) ([]byte, error) {
	args := m.Called(ctx, clientID, token)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockDashboardService) BuildRangeJSON(ctx context.Context, clientID string, r period.Range) ([]byte, error) {
	args := m.Called(ctx, clientID, r)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockDashboardService) Funnel(ctx context.Context, clientID, goal, country string) (*dashboard.FunnelResponse, error) {
	args := m.Called(ctx, clientID, goal, country)
	resp, _ := args.Get(0).(*dashboard.FunnelResponse)
	return resp, args.Error(1)
}

type MockCampaignService struct {
	mock.Mock
}

func (m *MockCampaignService) Get(ctx context.Context, clientID, name string, days int) (*campaign.Detail, error) {
	args := m.Called(ctx, clientID, name, days)
	d, _ := args.Get(0).(*campaign.Detail)
	return d, args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) FetchJSON(ctx context.Context, req report.Request) ([]byte, bool, error) {
	args := m.Called(ctx, req)
	b, _ := args.Get(0).([]byte)
	return b, args.Bool(1), args.Error(2)
}

type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) List(ctx context.Context, clientID string, includeInactive bool) (*apptemplate.ListResponse, error) {
	args := m.Called(ctx, clientID, includeInactive)
	resp, _ := args.Get(0).(*apptemplate.ListResponse)
	return resp, args.Error(1)
}

func (m *MockTemplateService) Create(ctx context.Context, req apptemplate.CreateRequest) (*template.Template, error) {
	args := m.Called(ctx, req)
	t, _ := args.Get(0).(*template.Template)
	return t, args.Error(1)
}

func (m *MockTemplateService) Update(ctx context.Context, req apptemplate.UpdateRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockTemplateService) Delete(ctx context.Context, id, templateID string, hard bool) (string, error) {
	args := m.Called(ctx, id, templateID, hard)
	return args.String(0), args.Error(1)
}

type MockContextService struct {
	mock.Mock
}

func (m *MockContextService) List(ctx context.Context, clientID string) (*bcdto.ListResponse, error) {
	args := m.Called(ctx, clientID)
	resp, _ := args.Get(0).(*bcdto.ListResponse)
	return resp, args.Error(1)
}

func (m *MockContextService) Create(ctx context.Context, req bcdto.CreateRequest) (*businesscontext.Entry, error) {
	args := m.Called(ctx, req)
	e, _ := args.Get(0).(*businesscontext.Entry)
	return e, args.Error(1)
}

func (m *MockContextService) Delete(ctx context.Context, kind, id string) error {
	return m.Called(ctx, kind, id).Error(0)
}

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, req extraction.Request) (*extraction.Result, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*extraction.Result)
	return res, args.Error(1)
}

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Stream(ctx context.Context, clientID string, req chat.Request) (<-chan chat.Event, error) {
	args := m.Called(ctx, clientID, req)
	ch, _ := args.Get(0).(<-chan chat.Event)
	return ch, args.Error(1)
}

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportPDF(ctx context.Context, req export.PDFRequest) (*export.PDF, error) {
	args := m.Called(ctx, req)
	pdf, _ := args.Get(0).(*export.PDF)
	return pdf, args.Error(1)
}

func (m *MockExportService) ExportGoogleDoc(ctx context.Context, req export.GoogleDocRequest) (*export.GoogleDoc, error) {
	args := m.Called(ctx, req)
	doc, _ := args.Get(0).(*export.GoogleDoc)
	return doc, args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockWarehouse struct {
	mock.Mock
}

func (m *MockWarehouse) Ping() error {
	return m.Called().Error(0)
}

func (m *MockWarehouse) Stats() (persistence.ConnectionStats, error) {
	args := m.Called()
	s, _ := args.Get(0).(persistence.ConnectionStats)
	return s, args.Error(1)
}
