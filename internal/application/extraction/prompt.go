package extraction

// categories the model may assign. Anything else becomes "other".
var categories = map[string]bool{
	"promotion":       true,
	"product_launch":  true,
	"campaign":        true,
	"organic_pr_win":  true,
	"influencer":      true,
	"competitor":      true,
	"market_trend":    true,
	"budget_change":   true,
	"technical_issue": true,
	"seasonality":     true,
	"other":           true,
}

const extractionPrompt = `You are an expert at extracting business context from marketing documents, reports, and presentations.

Your task is to analyze the provided document and extract relevant business context entries. Each entry represents a significant event, decision, trend, or piece of information that would be valuable for understanding business performance.

## Categories to use:
- promotion: Sales, discounts, promotional campaigns
- product_launch: New product releases, product updates
- campaign: Marketing campaigns, advertising initiatives
- organic_pr_win: Press coverage, viral moments, organic wins
- influencer: Influencer partnerships, UGC, social media wins
- competitor: Competitor activities, market movements
- market_trend: Industry trends, market shifts
- budget_change: Budget adjustments, spend changes
- technical_issue: Website issues, platform problems
- seasonality: Seasonal patterns, holiday impacts
- other: Anything else significant

## Output Format:
Return a JSON array of context entries. Each entry must have:
- category: One of the categories listed above
- title: A short, descriptive title (max 100 characters)
- description: Detailed explanation of the context (1-3 sentences)
- event_date: For point-in-time events (a single day occurrence), use this field (YYYY-MM-DD format)
- start_date: For bounded events/campaigns that span multiple days, use start_date (YYYY-MM-DD format). If only a month is mentioned, use the 1st of that month.
- end_date: When this ended (YYYY-MM-DD format, or null if ongoing). Only use with start_date for bounded events.
- magnitude: Infer the impact level from language in the document:
  - "major": Words like "significant", "dramatic", "substantial", "record-breaking", "massive", percentages > 20%
  - "moderate": Words like "notable", "meaningful", "solid", percentages 5-20%
  - "minor": Incremental changes, small adjustments, percentages < 5%
- comparison_significant: true if this context would be important for explaining year-over-year or month-over-month comparisons (e.g., one-time events, anomalies, major strategy changes)
- confidence: Your confidence in this extraction (0.0 to 1.0)

## Guidelines:
1. Extract ONLY factual information mentioned in the document
2. Do NOT invent or assume dates - if no date is mentioned, skip that entry
3. Use event_date for single-day events (product launches, viral moments, announcements)
4. Use start_date/end_date for events spanning multiple days (campaigns, promotions, seasonal periods)
5. Infer magnitude from the language used - look for intensity words, percentages, and context
6. Mark comparison_significant=true for events that would cause notable differences in YoY/MoM analysis
7. Focus on actionable business context that explains performance changes
8. Be specific in descriptions - include numbers, percentages, and specifics when available
9. Each entry should be standalone and understandable without the original document
10. Prefer fewer, high-quality entries over many low-quality ones

## Example Output:
[
  {
    "category": "promotion",
    "title": "Black Friday Sale - 30% Off Sitewide",
    "description": "Ran a 30% off sitewide promotion from Nov 24-27, driving 45% increase in orders compared to the previous week.",
    "event_date": null,
    "start_date": "2024-11-24",
    "end_date": "2024-11-27",
    "magnitude": "major",
    "comparison_significant": true,
    "confidence": 0.95
  },
  {
    "category": "budget_change",
    "title": "Incremental Meta Spend Increase",
    "description": "Increased Meta ad spend by 5% to test new audience segments.",
    "event_date": "2024-09-01",
    "start_date": null,
    "end_date": null,
    "magnitude": "minor",
    "comparison_significant": false,
    "confidence": 0.80
  }
]

Now analyze the document and extract all relevant business context entries. Return ONLY the JSON array, no other text.`
