package dashboard

import (
	"github.com/rooted/analytics/internal/domain/report"
)

const (
	defaultROASTarget  = 6.5
	platformROASMax    = 10
	emailGaugeMin      = 25
	emailGaugeMax      = 45
	emailGaugeTarget   = 35
	healthGaugeMax     = 100
	healthGaugeTarget  = 70
	defaultForecastDay = 7
)

// Period slot keys
const (
	slotMonthToDate = "monthToDate"
	slotThirtyDay   = "thirtyDay"
	slotSevenDay    = "sevenDay"
	slotCustom      = "custom"
)

// window is one metric value per period slot with its YoY growth
type window struct {
	mtd, d30, d7          *float64
	mtdYoY, d30YoY, d7YoY *float64
}

func (w window) periodData() map[string]PeriodValue {
	return map[string]PeriodValue{
		slotMonthToDate: {Value: report.Value(w.mtd), Trend: report.Value(w.mtdYoY)},
		slotThirtyDay:   {Value: report.Value(w.d30), Trend: report.Value(w.d30YoY)},
		slotSevenDay:    {Value: report.Value(w.d7), Trend: report.Value(w.d7YoY)},
	}
}

// scaled is a KPI whose gauge runs to 120% of its own month to date value
func scaled(w window) Metric {
	v := report.Value(w.mtd)
	return Metric{Current: v, PeriodData: w.periodData(), GaugeValue: v, GaugeMax: v * 1.2, GaugeTarget: v}
}

// fixedGauge is a KPI with a fixed gauge scale
func fixedGauge(w window, max, target float64) Metric {
	v := report.Value(w.mtd)
	return Metric{Current: v, PeriodData: w.periodData(), GaugeValue: v, GaugeMax: max, GaugeTarget: target}
}

func emailMetric(current float64, periodData map[string]PeriodValue, revenue, revenuePerSend float64) *Metric {
	zero := 0.0
	gaugeMin := float64(emailGaugeMin)
	return &Metric{
		Current:        current,
		PeriodData:     periodData,
		GaugeValue:     report.SafeDivide(current, revenue) * 100,
		GaugeMin:       &gaugeMin,
		GaugeMax:       emailGaugeMax,
		GaugeTarget:    emailGaugeTarget,
		RevenuePerSend: &revenuePerSend,
		OpenRate:       &zero,
		ClickRate:      &zero,
	}
}

// targets are the gauge targets of the revenue and ROAS cards
type targets struct {
	revenue float64
	roas    float64
}

func summaryKPIs(e *report.ExecutiveSummaryRow, t targets, hasEmail bool) KPIs {
	revenue := window{e.RevenueMTD, e.Revenue30d, e.Revenue7d, e.RevenueMTDYoYGrowthPct, e.Revenue30dYoYGrowthPct, e.Revenue7dYoYGrowthPct}
	roas := window{e.BlendedROASMTD, e.BlendedROAS30d, e.BlendedROAS7d, e.BlendedROASMTDYoYGrowthPct, e.BlendedROAS30dYoYGrowthPct, e.BlendedROAS7dYoYGrowthPct}
	spend := window{e.BlendedSpendMTD, e.BlendedSpend30d, e.BlendedSpend7d, e.BlendedSpendMTDYoYGrowthPct, e.BlendedSpend30dYoYGrowthPct, e.BlendedSpend7dYoYGrowthPct}

	revenueMTD := report.Value(e.RevenueMTD)
	k := KPIs{
		TotalRevenue: Metric{
			Current:     revenueMTD,
			PeriodData:  revenue.periodData(),
			GaugeValue:  revenueMTD,
			GaugeMax:    t.revenue,
			GaugeTarget: t.revenue,
		},
		BlendedROAS:    fixedGauge(roas, t.roas, t.roas),
		PaidMediaSpend: scaled(spend),
		GoogleSpend: scaled(window{e.GoogleSpendMTD, e.GoogleSpend30d, e.GoogleSpend7d,
			e.GoogleSpendMTDYoYGrowthPct, e.GoogleSpend30dYoYGrowthPct, e.GoogleSpend7dYoYGrowthPct}),
		GoogleRevenue: scaled(window{e.GoogleRevenueMTD, e.GoogleRevenue30d, e.GoogleRevenue7d,
			e.GoogleRevenueMTDYoYGrowthPct, e.GoogleRevenue30dYoYGrowthPct, e.GoogleRevenue7dYoYGrowthPct}),
		GoogleROAS: fixedGauge(window{e.GoogleROASMTD, e.GoogleROAS30d, e.GoogleROAS7d,
			e.GoogleROASMTDYoYGrowthPct, e.GoogleROAS30dYoYGrowthPct, e.GoogleROAS7dYoYGrowthPct}, platformROASMax, defaultROASTarget),
		MetaSpend: scaled(window{e.FacebookSpendMTD, e.FacebookSpend30d, e.FacebookSpend7d,
			e.FacebookSpendMTDYoYGrowthPct, e.FacebookSpend30dYoYGrowthPct, e.FacebookSpend7dYoYGrowthPct}),
		MetaRevenue: scaled(window{e.FacebookRevenueMTD, e.FacebookRevenue30d, e.FacebookRevenue7d,
			e.FacebookRevenueMTDYoYGrowthPct, e.FacebookRevenue30dYoYGrowthPct, e.FacebookRevenue7dYoYGrowthPct}),
		MetaROAS: fixedGauge(window{e.FacebookROASMTD, e.FacebookROAS30d, e.FacebookROAS7d,
			e.FacebookROASMTDYoYGrowthPct, e.FacebookROAS30dYoYGrowthPct, e.FacebookROAS7dYoYGrowthPct}, platformROASMax, defaultROASTarget),
	}
	k.BlendedROAS.Spend = map[string]float64{
		slotMonthToDate: report.Value(e.BlendedSpendMTD),
		slotThirtyDay:   report.Value(e.BlendedSpend30d),
		slotSevenDay:    report.Value(e.BlendedSpend7d),
	}

	if hasEmail {
		email := window{e.EmailRevenueMTD, e.EmailRevenue30d, e.EmailRevenue7d,
			e.EmailRevenueMTDYoYGrowthPct, e.EmailRevenue30dYoYGrowthPct, e.EmailRevenue7dYoYGrowthPct}
		k.EmailPerformance = emailMetric(report.Value(e.EmailRevenueMTD), email.periodData(), revenueMTD, report.Value(e.EmailRevenuePerSendMTD))
	}
	return k
}

func custom(v, trend float64) map[string]PeriodValue {
	return map[string]PeriodValue{slotCustom: {Value: v, Trend: trend}}
}

func customScaled(v, trend float64) Metric {
	return Metric{Current: v, PeriodData: custom(v, trend), GaugeValue: v, GaugeMax: v * 1.2, GaugeTarget: v}
}

func customFixed(v, trend, max, target float64) Metric {
	return Metric{Current: v, PeriodData: custom(v, trend), GaugeValue: v, GaugeMax: max, GaugeTarget: target}
}

func rangeKPIs(s RangeSummary, t targets, hasEmail bool) KPIs {
	k := KPIs{
		TotalRevenue:   customFixed(s.Revenue, s.RevenueYoYGrowthPct, t.revenue, t.revenue),
		BlendedROAS:    customFixed(s.BlendedROAS, s.BlendedROASYoYGrowthPct, t.roas, t.roas),
		PaidMediaSpend: customScaled(s.BlendedSpend, s.BlendedSpendYoYGrowthPct),
		GoogleSpend:    customScaled(s.GoogleSpend, s.GoogleSpendYoYGrowthPct),
		GoogleRevenue:  customScaled(s.GoogleRevenue, s.GoogleRevenueYoYGrowthPct),
		GoogleROAS:     customFixed(s.GoogleROAS, s.GoogleROASYoYGrowthPct, platformROASMax, defaultROASTarget),
		MetaSpend:      customScaled(s.MetaSpend, s.MetaSpendYoYGrowthPct),
		MetaRevenue:    customScaled(s.MetaRevenue, s.MetaRevenueYoYGrowthPct),
		MetaROAS:       customFixed(s.MetaROAS, s.MetaROASYoYGrowthPct, platformROASMax, defaultROASTarget),
	}
	k.BlendedROAS.Spend = map[string]float64{slotCustom: s.BlendedSpend}
	if hasEmail {
		k.EmailPerformance = emailMetric(s.EmailRevenue, custom(s.EmailRevenue, s.EmailRevenueYoYGrowthPct), s.Revenue, 0)
	}
	return k
}

// applyIndex fills the forecast and business health cards. Without an index
// row the health cards stay null.
func applyIndex(k *KPIs, forecast *report.ForecastRow, idx *report.BusinessContextIndexRow) {
	if forecast != nil {
		k.RevenueForecast = *forecast
	} else {
		zero := 0.0
		k.RevenueForecast = report.ForecastRow{
			TotalForecasted: &zero, LowerBound: &zero, UpperBound: &zero,
			SuggestedSpend: &zero, ExpectedROAS: &zero, ForecastDays: defaultForecastDay,
		}
	}
	if idx == nil {
		return
	}

	k.BusinessHealth = &BusinessHealth{
		HealthIndex:  idx.BusinessHealthIndex,
		RevenueTrend: idx.RevenueTrend,
		DemandTrend:  idx.DemandTrend,
		GaugeValue:   idx.BusinessHealthIndex,
		GaugeMax:     healthGaugeMax,
		GaugeTarget:  healthGaugeTarget,
	}
	search := report.Value(idx.SearchImpressions7dAvg)
	k.SearchDemand = &SearchDemand{
		Current:     idx.SearchImpressions7dAvg,
		YoYChange:   idx.SearchDemandYoYChangePct,
		Trend:       idx.DemandTrend,
		GaugeValue:  idx.SearchImpressions7dAvg,
		GaugeMax:    orDefault(search*1.5, 10000),
		GaugeTarget: orDefault(search*1.2, 8000),
	}
	brand := report.Value(idx.BrandImpressions30dAvg)
	k.BrandAwareness = &BrandAwareness{
		Current:     idx.BrandImpressions30dAvg,
		GaugeValue:  idx.BrandImpressions30dAvg,
		GaugeMax:    orDefault(brand*1.5, 2000),
		GaugeTarget: orDefault(brand*1.2, 1500),
	}
	k.YoYPerformance = &YoYPerformance{
		Status:           idx.YoYStatus,
		RevenueYoYChange: idx.RevenueYoYChangePct,
		OrdersYoYChange:  idx.OrdersYoYChangePct,
		SearchYoYChange:  idx.SearchDemandYoYChangePct,
	}
	k.RevenueMomentum = &RevenueMomentum{
		Revenue7dAvg:  idx.Revenue7dAvg,
		Revenue30dAvg: idx.Revenue30dAvg,
		Trend:         idx.RevenueTrend,
		Acceleration:  acceleration(idx.Revenue7dAvg, idx.Revenue30dAvg),
	}
}

func acceleration(avg7, avg30 *float64) *float64 {
	if avg7 == nil || avg30 == nil {
		return nil
	}
	r := report.Ratio(*avg7-*avg30, *avg30)
	if r == nil {
		return nil
	}
	v := *r * 100
	return &v
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// growth is the YoY change in percent, 0 when last year is empty
func growth(current, previous float64) float64 {
	return report.SafeDivide(current-previous, previous) * 100
}

func summarize(cur, prev rangeTotals, days int) RangeSummary {
	s := RangeSummary{
		Revenue:      report.Value(cur.store.Revenue),
		Orders:       report.Value(cur.store.Orders),
		DaysInPeriod: days,
		BlendedSpend: cur.blendedSpend(),
		EmailRevenue: report.Value(cur.email.Revenue),
	}
	prevRevenue := report.Value(prev.store.Revenue)
	prevSpend := prev.blendedSpend()

	s.RevenueYoYGrowthPct = growth(s.Revenue, prevRevenue)
	s.BlendedSpendYoYGrowthPct = growth(s.BlendedSpend, prevSpend)
	s.BlendedROAS = report.SafeDivide(s.Revenue, s.BlendedSpend)
	s.BlendedROASYoYGrowthPct = growth(s.BlendedROAS, report.SafeDivide(prevRevenue, prevSpend))
	s.EmailRevenueYoYGrowthPct = growth(s.EmailRevenue, report.Value(prev.email.Revenue))

	gs, gr := cur.platform("google")
	pgs, pgr := prev.platform("google")
	s.GoogleSpend, s.GoogleRevenue, s.GoogleROAS = gs, gr, report.SafeDivide(gr, gs)
	s.GoogleSpendYoYGrowthPct = growth(gs, pgs)
	s.GoogleRevenueYoYGrowthPct = growth(gr, pgr)
	s.GoogleROASYoYGrowthPct = growth(s.GoogleROAS, report.SafeDivide(pgr, pgs))

	ms, mr := cur.platform("facebook", "meta", "instagram")
	pms, pmr := prev.platform("facebook", "meta", "instagram")
	s.MetaSpend, s.MetaRevenue, s.MetaROAS = ms, mr, report.SafeDivide(mr, ms)
	s.MetaSpendYoYGrowthPct = growth(ms, pms)
	s.MetaRevenueYoYGrowthPct = growth(mr, pmr)
	s.MetaROASYoYGrowthPct = growth(s.MetaROAS, report.SafeDivide(pmr, pms))
	return s
}
