package candidate

// Field is a canonical candidate attribute.
type Field string

const (
	FieldName             Field = "name"
	FieldTicker           Field = "ticker"
	FieldPriceLow         Field = "price_low"
	FieldPriceHigh        Field = "price_high"
	FieldPriceMid         Field = "price_mid"
	FieldPriceRange       Field = "price_range"
	FieldExpectedDate     Field = "expected_date"
	FieldExchange         Field = "exchange"
	FieldShares           Field = "shares"
	FieldDealSize         Field = "deal_size"
	FieldSector           Field = "sector"
	FieldIndustry         Field = "industry"
	FieldImpliedMarketCap Field = "implied_market_cap"
)

// Aliases maps each canonical field to the key spellings seen across upstream sources, highest priority first.
var Aliases = map[Field][]string{
	FieldName: {
		"Company", "company", "Company Name", "company_name", "companyName",
		"Name", "name", "Issuer", "issuer", "Issuer Name",
	},
	FieldTicker: {
		"Symbol", "symbol", "Ticker", "ticker", "Proposed Symbol", "proposed_symbol",
		"proposedTickerSymbol", "Proposed Ticker", "Stock Symbol",
	},
	FieldPriceLow: {
		"Price Low", "price_low", "priceLow", "Proposed Price Low", "proposed_price_low",
		"Low Price", "low_price", "Low", "low",
	},
	FieldPriceHigh: {
		"Price High", "price_high", "priceHigh", "Proposed Price High", "proposed_price_high",
		"High Price", "high_price", "High", "high",
	},
	FieldPriceMid: {
		"Price", "price", "IPO Price", "ipo_price", "Offer Price", "offer_price",
		"proposedSharePrice", "Share Price", "Mid Price", "mid_price",
		"Current Price", "current_price", "Last Price", "last_price", "Close", "close",
	},
	FieldPriceRange: {
		"Price Range", "price_range", "priceRange", "Proposed Price Range", "Proposed Price",
	},
	FieldExpectedDate: {
		"Expected IPO Date", "expected_ipo_date", "expectedPriceDate", "Expected Date",
		"expected_date", "IPO Date", "ipo_date", "Date", "date", "Priced Date",
	},
	FieldExchange: {
		"Exchange", "exchange", "proposedExchange", "Proposed Exchange", "Market", "market",
	},
	FieldShares: {
		"Shares", "shares", "sharesOffered", "Shares Offered", "shares_offered", "Volume", "volume",
	},
	FieldDealSize: {
		"Offer Amount", "offer_amount", "dollarValueOfSharesOffered", "Deal Size", "deal_size", "Amount",
	},
	FieldSector: {
		"Sector", "sector",
	},
	FieldIndustry: {
		"Industry", "industry",
	},
	FieldImpliedMarketCap: {
		"Implied Market Cap", "implied_market_cap", "Market Cap", "market_cap", "marketCap",
	},
}

// Keys returns the ordered alias list for f.
func Keys(f Field) []string {
	return Aliases[f]
}
