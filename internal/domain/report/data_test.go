package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"normal", 500, 100, 5},
		{"zero spend", 500, 0, 0},
		{"zero over zero", 0, 0, 0},
		{"inf numerator", math.Inf(1), 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeDivide(tt.a, tt.b)
			assert.Equal(t, tt.want, got)
			assert.False(t, math.IsNaN(got) || math.IsInf(got, 0))
		})
	}

	assert.Nil(t, Ratio(10, 0))
	require.NotNil(t, Ratio(10, 4))
	assert.Equal(t, 2.5, *Ratio(10, 4))
	assert.Equal(t, 0.0, Value(nil))
	assert.Equal(t, 0.0, Value(f(math.NaN())))
}

func TestMonthlyBusinessSummaryRow_AOV(t *testing.T) {
	row := MonthlyBusinessSummaryRow{Month: "2025-09", MonthlyGrossSales: f(100000), MonthlyOrders: f(500)}
	require.NotNil(t, row.AOV())
	assert.Equal(t, 200.0, *row.AOV())

	row.AvgMonthlyAOV = f(210.5)
	assert.Equal(t, 210.5, *row.AOV())

	assert.Nil(t, MonthlyBusinessSummaryRow{MonthlyGrossSales: f(1), MonthlyOrders: f(0)}.AOV())
	assert.Nil(t, MonthlyBusinessSummaryRow{}.AOV())
}

func TestClientConfigRow_Parse(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantTarget []float64
		wantAnnual *float64
		wantErr    bool
	}{
		{"empty", "", nil, nil, false},
		{"array", `{"monthlyRevenueTargets":[1,2,3],"annualRevenueTarget":6}`, []float64{1, 2, 3}, f(6), false},
		{"single number", `{"monthlyRevenueTargets":300000}`, []float64{300000}, nil, false},
		{"null", `{"monthlyRevenueTargets":null}`, nil, nil, false},
		{"garbage", `{not json`, nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ClientConfigRow{AnalysisConfig: tt.raw}.Parse()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTarget, cfg.MonthlyRevenueTargets)
			assert.Equal(t, tt.wantAnnual, cfg.AnnualRevenueTarget)
		})
	}
}

func TestTopFunnelAds(t *testing.T) {
	var ads []FunnelAdRow
	for i := 0; i < 5; i++ {
		ads = append(ads, FunnelAdRow{AdName: "tofu", RecommendedStage: "TOFU"})
	}
	ads = append(ads, FunnelAdRow{AdName: "bofu", RecommendedStage: "BOFU"}, FunnelAdRow{AdName: "x", RecommendedStage: "OTHER"})

	got := TopFunnelAds(ads, 3)
	assert.Len(t, got["TOFU"], 3)
	assert.Len(t, got["MOFU"], 0)
	assert.NotNil(t, got["MOFU"])
	assert.Len(t, got["BOFU"], 1)
	_, ok := got["OTHER"]
	assert.False(t, ok)
}

func TestMonthlyData_RowCounts(t *testing.T) {
	d := &MonthlyData{TopCampaigns: make([]CampaignAnalysisRow, 2), FunnelAds: map[string][]FunnelAdRow{"TOFU": make([]FunnelAdRow, 3)}}
	counts := d.RowCounts()
	assert.Equal(t, 2, counts["topCampaigns"])
	assert.Equal(t, 3, counts["funnelAds.TOFU"])
	_, ok := counts["paidMediaPerformance"]
	assert.False(t, ok)
}
